package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/logging"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/session"

	"github.com/spf13/cobra"
)

var (
	flagPayAmounts     []string
	flagPayCategory    string
	flagPayDescription string
	flagPaySubCategory string
	flagPayTo          string
	flagPayInstant     bool
)

var payCmd = &cobra.Command{
	Use:   "pay",
	Short: "Simulate a payment against a fresh ledger",
	Long: `Simulate one or more payments. The ledger is not saved between runs, so
every invocation starts from the seed. Repeat --amount to apply several
payments in order.`,
	Example: "  fintrack pay --amount 25 --category transport --description \"Cab home\"",
	RunE:    runPay,
}

func init() {
	payCmd.Flags().StringArrayVarP(&flagPayAmounts, "amount", "a", nil, "Amount to pay (repeatable)")
	payCmd.Flags().StringVarP(&flagPayCategory, "category", "c", "Living", "Budget category")
	payCmd.Flags().StringVarP(&flagPayDescription, "description", "d", "", "What the payment was for")
	payCmd.Flags().StringVar(&flagPaySubCategory, "sub-category", "", "Optional sub-category label")
	payCmd.Flags().StringVar(&flagPayTo, "to", "", "Counterparty UPI id (default from config)")
	payCmd.Flags().BoolVar(&flagPayInstant, "instant", false, "Skip the simulated processing delay")
	_ = payCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(payCmd)
}

func runPay(_ *cobra.Command, _ []string) error {
	cfg := loadConfigOrDefault()
	state, err := loadLedger(cfg)
	if err != nil {
		return err
	}

	c, err := model.ParseCategory(flagPayCategory)
	if err != nil {
		return err
	}
	counterparty := flagPayTo
	if counterparty == "" {
		counterparty = cfg.Payment.DefaultCounterparty
	}

	// Parse everything up front so a bad amount rejects the whole batch.
	payments := make([]ledger.Payment, 0, len(flagPayAmounts))
	for _, raw := range flagPayAmounts {
		amt, err := model.ParseAmount(raw)
		if err != nil {
			return err
		}
		if !amt.IsPositive() {
			return fmt.Errorf("%w: %s must be greater than zero", ledger.ErrInvalidAmount, raw)
		}
		payments = append(payments, ledger.Payment{
			Amount:         amt,
			Category:       c,
			Description:    flagPayDescription,
			SubCategory:    flagPaySubCategory,
			CounterpartyID: counterparty,
		})
	}
	if len(payments) == 0 {
		return errors.New("no amount given")
	}

	sess := session.New(state)
	fmt.Println()
	for _, p := range payments {
		if !flagQuiet && !flagPayInstant {
			fmt.Printf("  Paying %s to %s...\n", cli.FormatMoney(p.Amount), counterparty)
			time.Sleep(cfg.Payment.ProcessingDelay())
		}

		res, err := sess.Pay(p)
		if err != nil {
			return err
		}
		logger.Info("payment applied",
			logging.FieldCategory, c.String(),
			logging.FieldAmount, p.Amount.String(),
			"id", res.Transaction.ID,
		)
		fmt.Printf("  Deducted %s from %s\n", cli.FormatMoney(p.Amount), c)
		if res.Notification != nil {
			printNotification(*res.Notification)
		}
	}

	snap := sess.Snapshot()
	cs, _ := snap.Category(c)
	fmt.Println()
	fmt.Printf("  %s  %s of %s\n", c, cli.FormatMoney(cs.Spent), cli.FormatMoney(cs.Limit))
	fmt.Printf("  %s\n", cli.RenderBudgetBar(ledger.Progress(cs), 30))
	fmt.Printf("  Balance  %s\n", cli.FormatMoney(snap.TotalBalance))
	fmt.Println()
	return nil
}

package cmd

import (
	"fmt"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Balance, budgets, and recent activity",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	cfg := loadConfigOrDefault()
	state, err := loadLedger(cfg)
	if err != nil {
		return err
	}
	totals := ledger.Summarize(state)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FINTRACK  %s", state.OwnerName)))
	fmt.Println()

	rows := [][]string{
		{"Total Balance", cli.FormatMoney(state.TotalBalance)},
		{"Emergency Fund", cli.FormatMoney(state.EmergencyFund)},
		{"Savings Goal", cli.FormatMoney(state.SavingsGoal)},
		{"---"},
		{"Spent", cli.FormatMoney(totals.Spent)},
		{"Budgeted", cli.FormatMoney(totals.Limit)},
		{"Remaining", cli.FormatMoney(totals.Remaining)},
		{"Transactions", cli.FormatNumber(int64(totals.Transactions))},
	}
	if totals.NearLimit > 0 || totals.OverLimit > 0 {
		rows = append(rows, []string{"---"})
		rows = append(rows, []string{"Near limit", fmt.Sprintf("%d", totals.NearLimit)})
		rows = append(rows, []string{"Over limit", fmt.Sprintf("%d", totals.OverLimit)})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title: "Overview",
		Rows:  rows,
	}))
	fmt.Println()

	fmt.Print(renderBudgetTable(state))
	fmt.Println()

	fmt.Print(renderRecentTable(ledger.RecentTransactions(state, 5)))
	fmt.Println()
	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/notify"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [category]",
	Short: "Per-category spend against limits",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, args []string) error {
	cfg := loadConfigOrDefault()
	state, err := loadLedger(cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Println()
		fmt.Print(renderBudgetTable(state))
		fmt.Println()
		printAlerts(state)
		return nil
	}

	c, err := model.ParseCategory(args[0])
	if err != nil {
		return err
	}
	cs, _ := state.Category(c)

	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper(c.String())))
	fmt.Println()
	fmt.Printf("  Spent      %s\n", cli.FormatMoney(cs.Spent))
	fmt.Printf("  Limit      %s\n", cli.FormatMoney(cs.Limit))
	fmt.Printf("  Remaining  %s\n", cli.FormatMoney(ledger.Remaining(cs)))
	fmt.Printf("  Progress   %s\n", cli.RenderBudgetBar(ledger.Progress(cs), 30))
	fmt.Println()

	if len(cs.Transactions) == 0 {
		fmt.Println("  No transactions yet.")
		fmt.Println()
		return nil
	}
	fmt.Print(renderRecentTable(cs.Transactions))
	fmt.Println()
	return nil
}

// renderBudgetTable renders one row per category with a clamped bar and an
// unclamped percentage.
func renderBudgetTable(state model.LedgerState) string {
	var rows [][]string
	for _, cs := range state.Categories.All() {
		rows = append(rows, []string{
			cs.Category.String(),
			cli.FormatMoney(cs.Spent),
			cli.FormatMoney(cs.Limit),
			cli.FormatMoney(ledger.Remaining(cs)),
			cli.RenderBudgetBar(ledger.Progress(cs), 20),
		})
	}
	return cli.RenderTable(cli.Table{
		Title:   "Budgets",
		Headers: []string{"Category", "Spent", "Limit", "Remaining", "Progress"},
		Rows:    rows,
	})
}

// renderRecentTable renders transactions newest first.
func renderRecentTable(txs []model.Transaction) string {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []string{
			tx.Date.String(),
			cli.Truncate(tx.Description, 28),
			tx.Category.String(),
			cli.FormatMoney(tx.Amount),
		})
	}
	return cli.RenderTable(cli.Table{
		Title:   "Recent Transactions",
		Headers: []string{"Date", "Description", "Category", "Amount"},
		Rows:    rows,
	})
}

// printAlerts prints the alert the notification policy would raise for
// each category at its current level.
func printAlerts(state model.LedgerState) {
	raised := false
	for _, cs := range state.Categories.All() {
		n, ok := notify.Evaluate(cs.Spent, cs.Spent, cs.Limit, cs.Category)
		if !ok {
			continue
		}
		raised = true
		printNotification(n)
	}
	if raised {
		fmt.Println()
	}
}

func printNotification(n notify.Notification) {
	color := cli.SeverityColor(n.Severity, true)
	fmt.Printf("  %s\n", lipgloss.NewStyle().Foreground(color).Bold(true).Render(n.Text()))
}

package cmd

import (
	"fmt"

	"github.com/theirongolddev/fintrack/internal/ledger"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that category totals match their transactions",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, _ []string) error {
	state, err := loadLedger(loadConfigOrDefault())
	if err != nil {
		return err
	}
	if err := ledger.Verify(state); err != nil {
		return err
	}
	totals := ledger.Summarize(state)
	fmt.Printf("  OK: %d categories, %d transactions, %s spent\n",
		len(state.Categories.All()), totals.Transactions, totals.Spent.StringFixed(2))
	return nil
}

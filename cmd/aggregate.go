package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/ledger"

	"github.com/spf13/cobra"
)

var flagAggregateJSON bool

var aggregateCmd = &cobra.Command{
	Use:     "aggregate",
	Aliases: []string{"distribution"},
	Short:   "Spending distribution by category",
	RunE:    runAggregate,
}

func init() {
	aggregateCmd.Flags().BoolVar(&flagAggregateJSON, "json", false, "Output JSON")
	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(_ *cobra.Command, _ []string) error {
	state, err := loadLedger(loadConfigOrDefault())
	if err != nil {
		return err
	}

	if flagAggregateJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ledger.AggregateByCategory(state))
	}

	shares := ledger.Distribution(state)
	maxPct := 0.0
	for _, s := range shares {
		if s.Percent > maxPct {
			maxPct = s.Percent
		}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SPENDING DISTRIBUTION"))
	fmt.Println()
	for _, s := range shares {
		label := fmt.Sprintf("%-10s %10s %6s", s.Category, cli.FormatMoney(s.Spent), cli.FormatPercent(s.Percent))
		fmt.Println(cli.RenderHorizontalBar(label, s.Percent, maxPct, 30))
	}
	fmt.Println()
	return nil
}

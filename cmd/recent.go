package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/theirongolddev/fintrack/internal/ledger"

	"github.com/spf13/cobra"
)

var (
	flagRecentN    int
	flagRecentJSON bool
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Most recent transactions across all categories",
	RunE:  runRecent,
}

func init() {
	recentCmd.Flags().IntVarP(&flagRecentN, "limit", "n", 5, "Number of transactions to show")
	recentCmd.Flags().BoolVar(&flagRecentJSON, "json", false, "Output JSON")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(_ *cobra.Command, _ []string) error {
	state, err := loadLedger(loadConfigOrDefault())
	if err != nil {
		return err
	}
	txs := ledger.RecentTransactions(state, flagRecentN)

	if flagRecentJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(txs)
	}

	if len(txs) == 0 {
		fmt.Println("\n  No transactions.")
		return nil
	}
	fmt.Println()
	fmt.Print(renderRecentTable(txs))
	fmt.Println()
	return nil
}

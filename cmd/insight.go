package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/spf13/cobra"
)

var flagInsightAll bool

var insightCmd = &cobra.Command{
	Use:   "insight [category]",
	Short: "Get budgeting advice for a category",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInsight,
}

func init() {
	insightCmd.Flags().BoolVar(&flagInsightAll, "all", false, "Fetch advice for every category")
	rootCmd.AddCommand(insightCmd)
}

func runInsight(_ *cobra.Command, args []string) error {
	cfg := loadConfigOrDefault()
	state, err := loadLedger(cfg)
	if err != nil {
		return err
	}

	c := model.Living
	if len(args) == 1 {
		if c, err = model.ParseCategory(args[0]); err != nil {
			return err
		}
	}

	svc, closeSvc, err := newInsightService(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSvc()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Asking %s...\n", svc.Backend())
	}

	fmt.Println()
	if flagInsightAll {
		results := svc.FetchAll(ctx, state)
		for _, c := range model.AllCategories {
			printInsight(c, results[c])
		}
		return nil
	}
	printInsight(c, svc.FetchCategoryInsight(ctx, state, c))
	return nil
}

func printInsight(c model.Category, text string) {
	fmt.Print(cli.RenderTable(cli.Table{
		Title: c.String() + " insight",
		Rows:  [][]string{{text}},
	}))
	fmt.Println()
}

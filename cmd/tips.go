package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var tipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Quick financial tips for students",
	RunE:  runTips,
}

func init() {
	rootCmd.AddCommand(tipsCmd)
}

func runTips(_ *cobra.Command, _ []string) error {
	cfg := loadConfigOrDefault()
	svc, closeSvc, err := newInsightService(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSvc()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	fmt.Println()
	fmt.Println("  Quick tips")
	for _, tip := range svc.FetchQuickTips(ctx) {
		fmt.Printf("    • %s\n", tip)
	}
	fmt.Println()
	return nil
}

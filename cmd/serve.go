package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/logging"
	"github.com/theirongolddev/fintrack/internal/server"
	"github.com/theirongolddev/fintrack/internal/session"

	"github.com/spf13/cobra"
)

var (
	flagServeAddr         string
	flagServeEventsBuffer int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger over a local HTTP/SSE API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "127.0.0.1:8787", "HTTP listen address")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory events retained")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := loadConfigOrDefault()
	state, err := loadLedger(cfg)
	if err != nil {
		return err
	}

	sess := session.New(state)
	srv := server.New(sess, server.Config{
		Addr:                flagServeAddr,
		EventsBuffer:        flagServeEventsBuffer,
		DefaultCounterparty: cfg.Payment.DefaultCounterparty,
		Logger:              logging.Component(logger, logging.ComponentHTTP),
	})
	defer srv.Close()

	if !flagQuiet {
		fmt.Printf("  fintrack listening on http://%s\n", flagServeAddr)
		fmt.Printf("  Ledger for %s, balance %s\n", state.OwnerName, cli.FormatMoney(state.TotalBalance))
		fmt.Println("  Stop with Ctrl+C")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

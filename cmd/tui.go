package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/logging"
	"github.com/theirongolddev/fintrack/internal/session"
	"github.com/theirongolddev/fintrack/internal/tui"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagTUISkipAuth bool

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&flagTUISkipAuth, "skip-login", false, "Go straight to the dashboard")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg := loadConfigOrDefault()
	theme.SetActive(cfg.Appearance.Theme)

	state, err := loadLedger(cfg)
	if err != nil {
		return err
	}

	// Log to a file; stderr would corrupt the alt screen.
	level, _ := logging.ParseLevel(cfg.General.LogLevel)
	if flagLogLevel != "" {
		level, _ = logging.ParseLevel(flagLogLevel)
	}
	log, closer, err := logging.OpenFile(filepath.Join(config.CacheDir(), "tui.log"), level)
	if err != nil {
		log = logging.Discard()
	} else {
		defer closer.Close()
	}
	log = logging.Component(log, logging.ComponentTUI)

	svc, closeSvc, err := newInsightService(cfg, log)
	if err != nil {
		return err
	}
	defer closeSvc()

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(session.New(state), svc, tui.Options{
		Payment:  cfg.Payment,
		SkipAuth: flagTUISkipAuth,
		Logger:   log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

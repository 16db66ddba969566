// Package cmd implements the fintrack CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/insight"
	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/logging"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagSeed     string
	flagOwner    string
	flagQuiet    bool
	flagNoCache  bool
	flagLogLevel string
)

// logger is configured in the root PersistentPreRunE.
var logger = logging.Discard()

var rootCmd = &cobra.Command{
	Use:   "fintrack",
	Short: "Student budget tracker",
	Long:  "Track spending against per-category limits, simulate payments, and get budgeting advice.",
	RunE:  runSummary,

	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSeed, "seed", "", "Seed fixture TOML file (default: built-in demo ledger)")
	rootCmd.PersistentFlags().StringVar(&flagOwner, "owner", "", "Override the ledger owner name")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite insight cache")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func setupLogging(_ *cobra.Command, _ []string) error {
	config.LoadEnv()

	levelName := flagLogLevel
	if levelName == "" {
		levelName = loadConfigOrDefault().General.LogLevel
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	logger = logging.Component(logging.New(os.Stderr, level), logging.ComponentCLI)
	return nil
}

// loadConfigOrDefault loads config, returning defaults on error.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("config unreadable, using defaults", logging.FieldError, err)
		return config.DefaultConfig()
	}
	return cfg
}

// loadLedger is the shared starting-state path used by all commands:
// seed file (flag, then config, then built-in), limit overrides, owner name.
func loadLedger(cfg config.Config) (model.LedgerState, error) {
	seedPath := flagSeed
	if seedPath == "" {
		seedPath = cfg.General.SeedFile
	}

	state := ledger.DefaultSeed()
	if seedPath != "" {
		s, err := ledger.LoadSeed(seedPath)
		if err != nil {
			return model.LedgerState{}, err
		}
		state = s
		logger.Debug("loaded seed", "path", seedPath)
	}

	state, err := ledger.OverrideLimits(state, cfg.Budget.Limits)
	if err != nil {
		return model.LedgerState{}, err
	}

	switch {
	case flagOwner != "":
		state.OwnerName = flagOwner
	case cfg.General.OwnerName != "":
		state.OwnerName = cfg.General.OwnerName
	}
	return state, nil
}

// insightCachePath is where generated insight text is cached.
func insightCachePath() string {
	return filepath.Join(config.CacheDir(), "insights.db")
}

// newInsightService builds the insight service for cfg. The returned func
// releases the cache and backend and is always non-nil.
func newInsightService(cfg config.Config, log *slog.Logger) (*insight.Service, func(), error) {
	gen, err := insight.NewGenerator(config.Provider(cfg), cfg.Insight.Model, config.GetAPIKey(cfg))
	if err != nil {
		return nil, func() {}, err
	}

	closers := []func(){}
	if g, ok := gen.(*insight.Gemini); ok {
		closers = append(closers, func() { _ = g.Close() })
	}

	opts := []insight.Option{
		insight.WithTimeout(cfg.Insight.Timeout()),
		insight.WithLogger(logging.Component(log, logging.ComponentInsight)),
	}
	if !flagNoCache {
		cache, err := store.Open(insightCachePath(), cfg.Insight.CacheTTL())
		if err != nil {
			logging.Component(log, logging.ComponentStore).Warn("insight cache unavailable",
				"path", insightCachePath(), logging.FieldError, err)
		} else {
			opts = append(opts, insight.WithCache(cache))
			closers = append(closers, func() { _ = cache.Close() })
		}
	}

	if _, offline := gen.(insight.Offline); offline && !flagQuiet {
		fmt.Fprintln(os.Stderr, "  No API key configured; showing built-in advice.")
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return insight.NewService(gen, opts...), closeAll, nil
}

package cmd

import (
	"fmt"
	"sort"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagConfigPurge bool
	flagConfigClear bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigPurge, "purge-cache", false, "Delete expired cached insights")
	configCmd.Flags().BoolVar(&flagConfigClear, "clear-cache", false, "Delete all cached insights")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	if cfg.General.OwnerName != "" {
		fmt.Printf("    Owner name: %s\n", cfg.General.OwnerName)
	}
	if cfg.General.SeedFile != "" {
		fmt.Printf("    Seed file:  %s\n", cfg.General.SeedFile)
	} else {
		fmt.Println("    Seed file:  built-in")
	}
	fmt.Printf("    Log level:  %s\n", cfg.General.LogLevel)
	fmt.Println()

	fmt.Println("  [Insight]")
	fmt.Printf("    Provider: %s\n", config.Provider(cfg))
	if cfg.Insight.Model != "" {
		fmt.Printf("    Model:    %s\n", cfg.Insight.Model)
	}
	if key := config.GetAPIKey(cfg); key != "" {
		fmt.Printf("    API key:  %s\n", maskAPIKey(key))
	} else {
		fmt.Println("    API key:  not configured (built-in advice only)")
	}
	fmt.Printf("    Timeout:  %s\n", cfg.Insight.Timeout())
	fmt.Printf("    Cache:    %s\n", cfg.Insight.CacheTTL())
	fmt.Println()

	if len(cfg.Budget.Limits) > 0 {
		fmt.Println("  [Budget]")
		names := make([]string, 0, len(cfg.Budget.Limits))
		for name := range cfg.Budget.Limits {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("    %-10s $%s\n", name, cfg.Budget.Limits[name])
		}
		fmt.Println()
	}

	fmt.Println("  [Payment]")
	fmt.Printf("    Default UPI id: %s\n", cfg.Payment.DefaultCounterparty)
	fmt.Printf("    Processing:     %s\n", cfg.Payment.ProcessingDelay())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	cache, err := store.Open(insightCachePath(), cfg.Insight.CacheTTL())
	if err == nil {
		defer cache.Close()
		if flagConfigClear {
			if err := cache.Clear(); err != nil {
				return err
			}
			fmt.Println("  Cleared insight cache")
		} else if flagConfigPurge {
			n, err := cache.Purge()
			if err != nil {
				return err
			}
			fmt.Printf("  Purged %d expired insights\n", n)
		}
		if st, err := cache.Stats(); err == nil {
			fmt.Println("  [Cache]")
			fmt.Printf("    Path:    %s\n", insightCachePath())
			fmt.Printf("    Entries: %d\n", st.Entries)
			fmt.Println()
		}
	}

	fmt.Println("  Run `fintrack setup` to reconfigure.")
	return nil
}

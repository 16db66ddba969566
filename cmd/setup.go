package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/insight"
	"github.com/theirongolddev/fintrack/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg := loadConfigOrDefault()

	owner := cfg.General.OwnerName
	provider := config.Provider(cfg)
	if provider == "" {
		provider = insight.ProviderGemini
	}
	apiKey := ""
	counterparty := cfg.Payment.DefaultCounterparty
	themeName := cfg.Appearance.Theme

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	keyHint := "Leave blank to keep the current key"
	if existing := config.GetAPIKey(cfg); existing != "" {
		keyHint = "Current: " + maskAPIKey(existing) + " (blank keeps it)"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Your name").
				Description("Shown on the dashboard").
				Value(&owner),
			huh.NewSelect[string]().
				Title("Insight provider").
				Options(
					huh.NewOption("Gemini", insight.ProviderGemini),
					huh.NewOption("Anthropic", insight.ProviderAnthropic),
					huh.NewOption("Offline (built-in advice)", insight.ProviderOffline),
				).
				Value(&provider),
			huh.NewInput().
				Title("API key").
				Description(keyHint).
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Default UPI id").
				Value(&counterparty).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("expected an id like name@bank")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	cfg.General.OwnerName = strings.TrimSpace(owner)
	cfg.Insight.Provider = provider
	if k := strings.TrimSpace(apiKey); k != "" {
		cfg.Insight.APIKey = k
	}
	cfg.Payment.DefaultCounterparty = strings.TrimSpace(counterparty)
	cfg.Appearance.Theme = themeName

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `fintrack setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}

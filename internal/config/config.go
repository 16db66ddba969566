// Package config loads fintrack settings from a TOML file under the XDG
// config directory, with environment overrides for credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const appName = "fintrack"

// Config holds all fintrack configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Insight    InsightConfig    `toml:"insight"`
	Budget     BudgetConfig     `toml:"budget"`
	Appearance AppearanceConfig `toml:"appearance"`
	Payment    PaymentConfig    `toml:"payment"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	OwnerName string `toml:"owner_name,omitempty"`
	SeedFile  string `toml:"seed_file,omitempty"`
	LogLevel  string `toml:"log_level"`
}

// InsightConfig selects and tunes the text-generation backend.
type InsightConfig struct {
	Provider    string `toml:"provider"`
	Model       string `toml:"model,omitempty"`
	APIKey      string `toml:"api_key,omitempty"`
	TimeoutSec  int    `toml:"timeout_sec"`
	CacheTTLMin int    `toml:"cache_ttl_min"`
}

// BudgetConfig overrides seed category limits, keyed by category name.
// Values are decimal strings, e.g. living = "900".
type BudgetConfig struct {
	Limits map[string]string `toml:"limits,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// PaymentConfig controls the mock payment flow.
type PaymentConfig struct {
	DefaultCounterparty string `toml:"default_counterparty"`
	ProcessingMS        int    `toml:"processing_ms"`
	SuccessMS           int    `toml:"success_ms"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Insight: InsightConfig{
			Provider:    "gemini",
			TimeoutSec:  30,
			CacheTTLMin: 360,
		},
		Appearance: AppearanceConfig{
			Theme: "fintrack",
		},
		Payment: PaymentConfig{
			DefaultCounterparty: "student@okaxis",
			ProcessingMS:        1200,
			SuccessMS:           1500,
		},
	}
}

// Timeout returns the insight call timeout.
func (c InsightConfig) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// CacheTTL returns how long generated insight text is reused.
func (c InsightConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMin) * time.Minute
}

// ProcessingDelay is how long the mock payment spends "processing".
func (c PaymentConfig) ProcessingDelay() time.Duration {
	return time.Duration(c.ProcessingMS) * time.Millisecond
}

// SuccessDelay is how long the payment success screen is shown.
func (c PaymentConfig) SuccessDelay() time.Duration {
	return time.Duration(c.SuccessMS) * time.Millisecond
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// CacheDir returns the XDG-compliant cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", appName)
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating its directory.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// LoadEnv loads a .env file from the working directory, if present.
// Variables already set in the environment win.
func LoadEnv() {
	_ = godotenv.Load()
}

// Provider returns the insight provider from env var or config, in that order.
func Provider(cfg Config) string {
	if p := os.Getenv("FINTRACK_PROVIDER"); p != "" {
		return strings.ToLower(p)
	}
	return strings.ToLower(cfg.Insight.Provider)
}

// GetAPIKey returns the key for the active provider from env var or config,
// in that order.
func GetAPIKey(cfg Config) string {
	switch Provider(cfg) {
	case "anthropic":
		if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
			return key
		}
	case "gemini", "":
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		if key := os.Getenv("API_KEY"); key != "" {
			return key
		}
	}
	return cfg.Insight.APIKey
}

package insight

import (
	"context"
	"fmt"
	"strings"
)

// Provider names accepted by NewGenerator.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOffline   = "offline"
)

// Offline never generates anything, so callers always get fallback text.
type Offline struct{}

func (Offline) Name() string { return ProviderOffline }

func (Offline) Generate(context.Context, Request) (string, error) {
	return "", ErrNoAPIKey
}

// NewGenerator returns the backend for provider. A missing key selects the
// offline backend instead of failing, since insight text is optional.
func NewGenerator(provider, model, apiKey string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderGemini:
		if strings.TrimSpace(apiKey) == "" {
			return Offline{}, nil
		}
		return NewGemini(apiKey, model), nil
	case ProviderAnthropic:
		if strings.TrimSpace(apiKey) == "" {
			return Offline{}, nil
		}
		return NewAnthropic(apiKey, model), nil
	case ProviderOffline:
		return Offline{}, nil
	}
	return nil, fmt.Errorf("insight: unknown provider %q", provider)
}

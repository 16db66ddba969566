// Package insight fetches short advisory text about a budget from a
// text-generation backend. Every failure degrades to fixed fallback text;
// callers never see an error.
package insight

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrInsightUnavailable wraps every backend failure inside this package.
	ErrInsightUnavailable = errors.New("insight: unavailable")
	// ErrNoAPIKey is returned by backends constructed without credentials.
	ErrNoAPIKey = errors.New("insight: no API key configured")
	// ErrUnauthorized indicates the API key was rejected.
	ErrUnauthorized = errors.New("insight: unauthorized (API key invalid)")
	// ErrRateLimited indicates the backend quota was hit.
	ErrRateLimited = errors.New("insight: rate limited")
)

const (
	// FallbackInsight is shown when generation fails.
	FallbackInsight = "Great job staying aware of your spending!"
	// EmptyInsight is shown when generation succeeds with no text.
	EmptyInsight = "Keep tracking your expenses to stay on top of your goals!"

	defaultTimeout = 30 * time.Second
)

// FallbackTips returns the tips shown when generation fails.
func FallbackTips() []string {
	return []string{
		"Track every dollar you spend.",
		"Always set aside an emergency fund.",
		"Look for student discounts whenever possible.",
	}
}

// Request is a single prompt sent to a Generator.
type Request struct {
	Prompt string
	// JSONArray asks the backend to reply with a JSON array of strings.
	JSONArray bool
	MaxTokens int
}

// Generator is a text-generation backend.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	// Name identifies the backend and model, e.g. "gemini/gemini-2.0-flash".
	Name() string
}

// Cache stores generated text by key. Implementations may expire entries.
type Cache interface {
	Get(key string) (string, bool, error)
	Put(key, provider, body string) error
}

// Service builds prompts from ledger snapshots and applies fallbacks.
type Service struct {
	gen     Generator
	cache   Cache
	timeout time.Duration
	log     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables response caching.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithTimeout bounds each backend call. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used for degraded responses.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService returns a Service over gen.
func NewService(gen Generator, opts ...Option) *Service {
	s := &Service{
		gen:     gen,
		timeout: defaultTimeout,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Backend returns the generator's name.
func (s *Service) Backend() string { return s.gen.Name() }

// FetchCategoryInsight returns a short piece of advice for category c.
func (s *Service) FetchCategoryInsight(ctx context.Context, state model.LedgerState, c model.Category) string {
	prompt, err := CategoryPrompt(state, c)
	if err != nil {
		s.log.Warn("building insight prompt", "category", c, "err", err)
		return FallbackInsight
	}
	text, err := s.generate(ctx, Request{Prompt: prompt, MaxTokens: 200}, nonEmpty)
	if err != nil {
		s.log.Warn("category insight degraded", "category", c, "backend", s.gen.Name(), "err", err)
		return FallbackInsight
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyInsight
	}
	return text
}

// FetchQuickTips returns general tips, usually three.
func (s *Service) FetchQuickTips(ctx context.Context) []string {
	text, err := s.generate(ctx, Request{Prompt: TipsPrompt, JSONArray: true, MaxTokens: 200}, validTips)
	if err != nil {
		s.log.Warn("quick tips degraded", "backend", s.gen.Name(), "err", err)
		return FallbackTips()
	}
	tips, err := parseTips(text)
	if err != nil || len(tips) == 0 {
		s.log.Warn("quick tips unparseable", "backend", s.gen.Name(), "err", err)
		return FallbackTips()
	}
	return tips
}

// FetchAll fetches an insight for every category concurrently.
func (s *Service) FetchAll(ctx context.Context, state model.LedgerState) map[model.Category]string {
	results := make([]string, len(model.AllCategories))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range model.AllCategories {
		g.Go(func() error {
			results[i] = s.FetchCategoryInsight(gctx, state, c)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[model.Category]string, len(results))
	for i, c := range model.AllCategories {
		out[c] = results[i]
	}
	return out
}

// generate returns the backend reply for req, served from the cache when
// possible. A fresh reply is cached only when valid accepts it.
func (s *Service) generate(ctx context.Context, req Request, valid func(string) bool) (string, error) {
	key := cacheKey(s.gen.Name(), req)
	if s.cache != nil {
		if body, ok, err := s.cache.Get(key); err != nil {
			s.log.Debug("insight cache read failed", "err", err)
		} else if ok {
			return body, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.gen.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInsightUnavailable, err)
	}

	if s.cache != nil && valid(text) {
		if err := s.cache.Put(key, s.gen.Name(), text); err != nil {
			s.log.Debug("insight cache write failed", "err", err)
		}
	}
	return text, nil
}

func nonEmpty(text string) bool { return strings.TrimSpace(text) != "" }

func validTips(text string) bool {
	tips, err := parseTips(text)
	return err == nil && len(tips) > 0
}

func cacheKey(backend string, req Request) string {
	h := sha256.New()
	_, _ = io.WriteString(h, backend)
	_, _ = h.Write([]byte{0})
	_, _ = io.WriteString(h, req.Prompt)
	if req.JSONArray {
		_, _ = h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))
}

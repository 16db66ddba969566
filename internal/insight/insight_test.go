package insight

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

type stubGen struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
	last  Request
}

func (g *stubGen) Name() string { return "stub" }

func (g *stubGen) Generate(_ context.Context, req Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.last = req
	return g.text, g.err
}

type memCache struct {
	mu   sync.Mutex
	m    map[string]string
	fail bool
}

func (c *memCache) Get(key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return "", false, errors.New("broken")
	}
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memCache) Put(key, _, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken")
	}
	if c.m == nil {
		c.m = make(map[string]string)
	}
	c.m[key] = body
	return nil
}

func TestFetchCategoryInsight(t *testing.T) {
	state := ledger.DefaultSeed()
	ctx := context.Background()

	gen := &stubGen{text: "  Cook at home more often. Small savings add up.  "}
	svc := NewService(gen)
	if got := svc.FetchCategoryInsight(ctx, state, model.Living); got != "Cook at home more often. Small savings add up." {
		t.Errorf("insight = %q", got)
	}
	if !strings.Contains(gen.last.Prompt, "Living category") {
		t.Errorf("prompt missing category: %q", gen.last.Prompt)
	}

	gen = &stubGen{err: errors.New("boom")}
	if got := NewService(gen).FetchCategoryInsight(ctx, state, model.Living); got != FallbackInsight {
		t.Errorf("error insight = %q, want fallback", got)
	}

	gen = &stubGen{text: "   "}
	if got := NewService(gen).FetchCategoryInsight(ctx, state, model.Living); got != EmptyInsight {
		t.Errorf("empty insight = %q, want %q", got, EmptyInsight)
	}

	if got := NewService(Offline{}).FetchCategoryInsight(ctx, state, model.Category(7)); got != FallbackInsight {
		t.Errorf("bad category insight = %q, want fallback", got)
	}
}

func TestFetchQuickTips(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		text string
		err  error
		want []string
	}{
		{"plain", `["Budget weekly.", "Cook at home.", "Use the library."]`, nil,
			[]string{"Budget weekly.", "Cook at home.", "Use the library."}},
		{"fenced", "```json\n[\"One.\", \"Two.\"]\n```", nil, []string{"One.", "Two."}},
		{"malformed", `not json`, nil, FallbackTips()},
		{"empty array", `[]`, nil, FallbackTips()},
		{"error", "", errors.New("quota"), FallbackTips()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGen{text: tt.text, err: tt.err}
			got := NewService(gen).FetchQuickTips(ctx)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tips = %q, want %q", got, tt.want)
			}
			if !gen.last.JSONArray {
				t.Error("tips request did not ask for a JSON array")
			}
		})
	}
}

func TestFetchAll(t *testing.T) {
	gen := &stubGen{text: "ok"}
	got := NewService(gen).FetchAll(context.Background(), ledger.DefaultSeed())
	if len(got) != len(model.AllCategories) {
		t.Fatalf("len = %d", len(got))
	}
	for _, c := range model.AllCategories {
		if got[c] != "ok" {
			t.Errorf("%s = %q", c, got[c])
		}
	}
	if gen.calls != 4 {
		t.Errorf("calls = %d, want 4", gen.calls)
	}
}

func TestServiceCache(t *testing.T) {
	ctx := context.Background()
	state := ledger.DefaultSeed()
	gen := &stubGen{text: "cached advice"}
	cache := &memCache{}
	svc := NewService(gen, WithCache(cache))

	_ = svc.FetchCategoryInsight(ctx, state, model.Finance)
	if got := svc.FetchCategoryInsight(ctx, state, model.Finance); got != "cached advice" {
		t.Errorf("second call = %q", got)
	}
	if gen.calls != 1 {
		t.Errorf("backend calls = %d, want 1", gen.calls)
	}

	// A different snapshot builds a different prompt and misses the cache.
	next, _, _ := ledger.ApplyPayment(state, ledger.Payment{Amount: mustAmount(t, "5"), Category: model.Finance})
	_ = svc.FetchCategoryInsight(ctx, next, model.Finance)
	if gen.calls != 2 {
		t.Errorf("backend calls = %d, want 2", gen.calls)
	}

	broken := NewService(gen, WithCache(&memCache{fail: true}))
	if got := broken.FetchCategoryInsight(ctx, state, model.Finance); got != "cached advice" {
		t.Errorf("broken cache = %q, want backend text", got)
	}
}

func TestServiceCache_SkipsMalformedTips(t *testing.T) {
	ctx := context.Background()
	gen := &stubGen{text: "Sorry, I can't help with that."}
	svc := NewService(gen, WithCache(&memCache{}))

	if got := svc.FetchQuickTips(ctx); !reflect.DeepEqual(got, FallbackTips()) {
		t.Errorf("malformed reply = %v, want fallback", got)
	}

	gen.text = `["Cook in bulk.", "Use the library."]`
	want := []string{"Cook in bulk.", "Use the library."}
	if got := svc.FetchQuickTips(ctx); !reflect.DeepEqual(got, want) {
		t.Errorf("after recovery = %v, want %v", got, want)
	}
	if gen.calls != 2 {
		t.Errorf("backend calls = %d, want 2", gen.calls)
	}

	// The valid reply is cached.
	if got := svc.FetchQuickTips(ctx); !reflect.DeepEqual(got, want) {
		t.Errorf("cached = %v, want %v", got, want)
	}
	if gen.calls != 2 {
		t.Errorf("backend calls = %d, want 2 after cache hit", gen.calls)
	}
}

func TestCategoryPrompt_LimitsTransactions(t *testing.T) {
	state := ledger.DefaultSeed()
	for i := 0; i < 7; i++ {
		state, _, _ = ledger.ApplyPayment(state, ledger.Payment{Amount: mustAmount(t, "1"), Category: model.Emergency, Description: "item"})
	}
	p, err := CategoryPrompt(state, model.Emergency)
	if err != nil {
		t.Fatalf("CategoryPrompt: %v", err)
	}
	if n := strings.Count(p, `"description":"item"`); n != 5 {
		t.Errorf("prompt carries %d transactions, want 5", n)
	}
	for _, want := range []string{"Current Spending: $7", "Monthly Limit: $1000", "Emergency Fund: $1200"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestTracker(t *testing.T) {
	var tr Tracker
	first := tr.Begin()
	second := tr.Begin()
	if tr.Accept(first) {
		t.Error("stale generation accepted")
	}
	if !tr.Accept(second) {
		t.Error("latest generation rejected")
	}
}

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		provider, key string
		want          string
	}{
		{"gemini", "k", "gemini/" + DefaultGeminiModel},
		{"", "k", "gemini/" + DefaultGeminiModel},
		{"anthropic", "k", "anthropic/" + DefaultAnthropicModel},
		{"anthropic", "", ProviderOffline},
		{"offline", "k", ProviderOffline},
	}
	for _, tt := range tests {
		g, err := NewGenerator(tt.provider, "", tt.key)
		if err != nil {
			t.Fatalf("NewGenerator(%q): %v", tt.provider, err)
		}
		if g.Name() != tt.want {
			t.Errorf("NewGenerator(%q, key=%q).Name() = %q, want %q", tt.provider, tt.key, g.Name(), tt.want)
		}
	}
	if _, err := NewGenerator("openai", "", "k"); err == nil {
		t.Error("unknown provider accepted")
	}
}

func TestGemini_NoKey(t *testing.T) {
	_, err := NewGemini("", "").Generate(context.Background(), Request{Prompt: "x"})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}
}

func mustAmount(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := model.ParseAmount(s)
	if err != nil {
		t.Fatalf("ParseAmount(%q): %v", s, err)
	}
	return d
}

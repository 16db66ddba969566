package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/fintrack/internal/model"
)

func TestDefaultSeed(t *testing.T) {
	s := DefaultSeed()
	if s.OwnerName != "Student" {
		t.Errorf("owner = %q", s.OwnerName)
	}
	if !s.TotalBalance.Equal(dec("2450")) {
		t.Errorf("balance = %s", s.TotalBalance)
	}
	if !s.EmergencyFund.Equal(dec("1200")) || !s.SavingsGoal.Equal(dec("5000")) {
		t.Errorf("fund/goal = %s/%s", s.EmergencyFund, s.SavingsGoal)
	}

	living := s.Categories.Living
	if !living.Limit.Equal(dec("800")) || !living.Spent.Equal(dec("345")) {
		t.Errorf("living limit/spent = %s/%s", living.Limit, living.Spent)
	}
	if living.Transactions[0].Description != "Grocery Run" {
		t.Errorf("living newest = %q, want Grocery Run", living.Transactions[0].Description)
	}
	if len(s.Categories.Emergency.Transactions) != 0 {
		t.Errorf("emergency has %d transactions", len(s.Categories.Emergency.Transactions))
	}
	for _, c := range model.AllCategories {
		cs, _ := s.Category(c)
		if cs.Category != c {
			t.Errorf("slot %s holds %s", c, cs.Category)
		}
	}
}

func TestDefaultSeed_FreshCopies(t *testing.T) {
	a := DefaultSeed()
	a.Categories.Living.Transactions[0].Description = "changed"
	b := DefaultSeed()
	if b.Categories.Living.Transactions[0].Description == "changed" {
		t.Error("DefaultSeed shares transaction slices between calls")
	}
}

func TestParseSeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing categories", `
owner_name = "A"
[[categories]]
name = "Living"
limit = "10"
`},
		{"duplicate", `
[[categories]]
name = "Living"
limit = "10"
[[categories]]
name = "living"
limit = "10"
`},
		{"unknown", `
[[categories]]
name = "Fun"
limit = "10"
`},
		{"zero limit", `
[[categories]]
name = "Living"
limit = "0"
`},
		{"bad syntax", `owner_name = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSeed([]byte(tt.data)); !errors.Is(err, ErrInvalidSeed) {
				t.Errorf("err = %v, want ErrInvalidSeed", err)
			}
		})
	}
}

func TestLoadSeed_DerivesSpent(t *testing.T) {
	data := `
owner_name = "Ravi"
total_balance = "100"
emergency_fund = "0"
savings_goal = "0"

[[categories]]
name = "Living"
limit = "50"
[[categories.transactions]]
date = "2024-01-02"
amount = "10"
description = "a"
[[categories.transactions]]
date = "2024-01-05"
amount = "2.5"
description = "b"

[[categories]]
name = "Transport"
limit = "1"
[[categories]]
name = "Finance"
limit = "1"
[[categories]]
name = "Emergency"
limit = "1"
`
	path := filepath.Join(t.TempDir(), "seed.toml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	living := s.Categories.Living
	if !living.Spent.Equal(dec("12.5")) {
		t.Errorf("spent = %s, want 12.5", living.Spent)
	}
	if living.Transactions[0].Description != "b" {
		t.Errorf("newest = %q, want b", living.Transactions[0].Description)
	}
	if living.Transactions[0].ID == "" {
		t.Error("blank id was not filled")
	}
	if err := Verify(s); err != nil {
		t.Errorf("Verify: %v", err)
	}

	if _, err := LoadSeed(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadSeed of missing file succeeded")
	}
}

func TestOverrideLimits(t *testing.T) {
	base := DefaultSeed()
	got, err := OverrideLimits(base, map[string]string{"living": "900", "Transport": "$250"})
	if err != nil {
		t.Fatalf("OverrideLimits: %v", err)
	}
	if !got.Categories.Living.Limit.Equal(dec("900")) || !got.Categories.Transport.Limit.Equal(dec("250")) {
		t.Errorf("limits = %s/%s", got.Categories.Living.Limit, got.Categories.Transport.Limit)
	}
	if !base.Categories.Living.Limit.Equal(dec("800")) {
		t.Error("input state mutated")
	}

	if _, err := OverrideLimits(base, map[string]string{"fun": "1"}); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("unknown category err = %v", err)
	}
	if _, err := OverrideLimits(base, map[string]string{"living": "0"}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero limit err = %v", err)
	}
}

package ledger

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:embed default_seed.toml
var defaultSeed []byte

// ErrInvalidSeed is returned when a seed fixture is malformed or incomplete.
var ErrInvalidSeed = errors.New("ledger: invalid seed")

type seedFile struct {
	OwnerName     string          `toml:"owner_name"`
	TotalBalance  decimal.Decimal `toml:"total_balance"`
	EmergencyFund decimal.Decimal `toml:"emergency_fund"`
	SavingsGoal   decimal.Decimal `toml:"savings_goal"`
	Categories    []seedCategory  `toml:"categories"`
}

type seedCategory struct {
	Name         model.Category    `toml:"name"`
	Limit        decimal.Decimal   `toml:"limit"`
	Transactions []seedTransaction `toml:"transactions"`
}

type seedTransaction struct {
	ID             string          `toml:"id"`
	Date           model.Date      `toml:"date"`
	Amount         decimal.Decimal `toml:"amount"`
	Description    string          `toml:"description"`
	SubCategory    string          `toml:"sub_category"`
	CounterpartyID string          `toml:"counterparty_id"`
}

// DefaultSeed returns the built-in starting ledger.
func DefaultSeed() model.LedgerState {
	state, err := ParseSeed(defaultSeed)
	if err != nil {
		panic(fmt.Sprintf("built-in seed: %v", err))
	}
	return state
}

// LoadSeed reads a seed fixture from a TOML file.
func LoadSeed(path string) (model.LedgerState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.LedgerState{}, fmt.Errorf("reading seed: %w", err)
	}
	state, err := ParseSeed(data)
	if err != nil {
		return model.LedgerState{}, fmt.Errorf("%s: %w", path, err)
	}
	return state, nil
}

// ParseSeed decodes a seed fixture. Spent is derived from the listed
// transactions, which are ordered newest first.
func ParseSeed(data []byte) (model.LedgerState, error) {
	var f seedFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return model.LedgerState{}, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}

	state := model.LedgerState{
		OwnerName:     f.OwnerName,
		TotalBalance:  f.TotalBalance,
		EmergencyFund: f.EmergencyFund,
		SavingsGoal:   f.SavingsGoal,
	}

	var seen [len(model.AllCategories)]bool
	for _, sc := range f.Categories {
		if !sc.Name.Valid() {
			return model.LedgerState{}, fmt.Errorf("%w: %w", ErrInvalidSeed, ErrUnknownCategory)
		}
		if seen[sc.Name] {
			return model.LedgerState{}, fmt.Errorf("%w: duplicate category %s", ErrInvalidSeed, sc.Name)
		}
		seen[sc.Name] = true

		if !sc.Limit.IsPositive() {
			return model.LedgerState{}, fmt.Errorf("%w: %s limit must be positive", ErrInvalidSeed, sc.Name)
		}

		cs := model.CategoryState{Category: sc.Name, Limit: sc.Limit}
		for _, st := range sc.Transactions {
			if !st.Amount.IsPositive() {
				return model.LedgerState{}, fmt.Errorf("%w: %s transaction %q: %w", ErrInvalidSeed, sc.Name, st.ID, ErrInvalidAmount)
			}
			id := st.ID
			if id == "" {
				id = uuid.NewString()
			}
			cs.Transactions = append(cs.Transactions, model.Transaction{
				ID:             id,
				Date:           st.Date,
				Amount:         st.Amount,
				Description:    st.Description,
				Category:       sc.Name,
				SubCategory:    st.SubCategory,
				CounterpartyID: st.CounterpartyID,
			})
			cs.Spent = cs.Spent.Add(st.Amount)
		}
		sort.SliceStable(cs.Transactions, func(i, j int) bool {
			return cs.Transactions[i].Date.After(cs.Transactions[j].Date.Time)
		})
		state.Categories = state.Categories.With(sc.Name, cs)
	}

	for _, c := range model.AllCategories {
		if !seen[c] {
			return model.LedgerState{}, fmt.Errorf("%w: missing category %s", ErrInvalidSeed, c)
		}
	}
	return state, nil
}

// OverrideLimits returns state with the named categories' limits replaced.
// Keys are category names; values are positive decimal strings.
func OverrideLimits(state model.LedgerState, limits map[string]string) (model.LedgerState, error) {
	for name, raw := range limits {
		c, err := model.ParseCategory(name)
		if err != nil {
			return state, fmt.Errorf("budget limit: %w", err)
		}
		limit, err := model.ParseAmount(raw)
		if err != nil {
			return state, fmt.Errorf("budget limit for %s: %w", c, err)
		}
		if !limit.IsPositive() {
			return state, fmt.Errorf("budget limit for %s: %w: must be positive", c, ErrInvalidAmount)
		}
		cs, _ := state.Categories.Get(c)
		cs.Limit = limit
		state.Categories = state.Categories.With(c, cs)
	}
	return state, nil
}

// Package ledger applies payments to a budget snapshot and derives
// progress, remaining, and aggregate values from it. It performs no I/O.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = model.ErrInvalidAmount
	ErrUnknownCategory = model.ErrUnknownCategory
	ErrInconsistent    = errors.New("ledger: spent does not match transactions")
)

// Payment describes a spend to record against one category.
type Payment struct {
	Amount         decimal.Decimal
	Category       model.Category
	Description    string
	SubCategory    string
	CounterpartyID string
}

// Ledger applies payments. The clock and id source are swappable for tests.
type Ledger struct {
	Now   func() time.Time
	NewID func() string
}

// New returns a Ledger using the wall clock and random UUIDs.
func New() *Ledger {
	return &Ledger{Now: time.Now, NewID: uuid.NewString}
}

var std = New()

// ApplyPayment records p using the default ledger.
func ApplyPayment(state model.LedgerState, p Payment) (model.LedgerState, model.Transaction, error) {
	return std.ApplyPayment(state, p)
}

// ApplyPayment validates p, then returns a new state with the transaction
// prepended to its category, the category's Spent increased, and the total
// balance decreased. On error the input state is returned unchanged.
func (l *Ledger) ApplyPayment(state model.LedgerState, p Payment) (model.LedgerState, model.Transaction, error) {
	if !p.Amount.IsPositive() {
		return state, model.Transaction{}, fmt.Errorf("%w: %s", ErrInvalidAmount, p.Amount)
	}
	cs, ok := state.Categories.Get(p.Category)
	if !ok {
		return state, model.Transaction{}, fmt.Errorf("%w: %d", ErrUnknownCategory, int(p.Category))
	}

	tx := model.Transaction{
		ID:             l.NewID(),
		Date:           model.DateOf(l.Now()),
		Amount:         p.Amount,
		Description:    p.Description,
		Category:       p.Category,
		SubCategory:    p.SubCategory,
		CounterpartyID: p.CounterpartyID,
	}

	txs := make([]model.Transaction, 0, len(cs.Transactions)+1)
	txs = append(txs, tx)
	txs = append(txs, cs.Transactions...)
	cs.Transactions = txs
	cs.Spent = cs.Spent.Add(p.Amount)

	state.Categories = state.Categories.With(p.Category, cs)
	state.TotalBalance = state.TotalBalance.Sub(p.Amount)
	return state, tx, nil
}

// AggregateByCategory returns spent per category in declaration order.
func AggregateByCategory(state model.LedgerState) []model.CategoryTotal {
	out := make([]model.CategoryTotal, 0, len(model.AllCategories))
	for _, cs := range state.Categories.All() {
		out = append(out, model.CategoryTotal{Category: cs.Category, Value: cs.Spent})
	}
	return out
}

// RecentTransactions returns up to n transactions across all categories,
// newest date first. Ties keep category order, then per-category order.
func RecentTransactions(state model.LedgerState, n int) []model.Transaction {
	if n <= 0 {
		return []model.Transaction{}
	}
	var all []model.Transaction
	for _, cs := range state.Categories.All() {
		all = append(all, cs.Transactions...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.After(all[j].Date.Time)
	})
	if len(all) > n {
		all = all[:n]
	}
	if all == nil {
		return []model.Transaction{}
	}
	return all
}

// Remaining returns max(0, Limit - Spent).
func Remaining(cs model.CategoryState) decimal.Decimal {
	r := cs.Limit.Sub(cs.Spent)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Progress returns Spent / Limit * 100. It is not clamped.
func Progress(cs model.CategoryState) float64 {
	return model.ProgressPercent(cs.Spent, cs.Limit).InexactFloat64()
}

// BarFraction is Progress scaled to [0, 1] for progress bar widths.
func BarFraction(cs model.CategoryState) float64 {
	f := Progress(cs) / 100
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Verify recomputes Spent for every category and reports the first mismatch.
func Verify(state model.LedgerState) error {
	for _, c := range model.AllCategories {
		cs, _ := state.Categories.Get(c)
		if cs.Category != c {
			return fmt.Errorf("%w: %s slot holds %s", ErrInconsistent, c, cs.Category)
		}
		sum := decimal.Zero
		for _, tx := range cs.Transactions {
			sum = sum.Add(tx.Amount)
		}
		if !sum.Equal(cs.Spent) {
			return fmt.Errorf("%w: %s spent %s, transactions sum to %s", ErrInconsistent, c, cs.Spent, sum)
		}
	}
	return nil
}

// Distribution returns each category's share of the total spent.
// All percentages are zero when nothing has been spent.
func Distribution(state model.LedgerState) []model.Share {
	total := decimal.Zero
	for _, cs := range state.Categories.All() {
		total = total.Add(cs.Spent)
	}
	out := make([]model.Share, 0, len(model.AllCategories))
	for _, cs := range state.Categories.All() {
		var pct float64
		if total.IsPositive() {
			pct = cs.Spent.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		out = append(out, model.Share{Category: cs.Category, Spent: cs.Spent, Percent: pct})
	}
	return out
}

// Summarize computes ledger-wide totals.
func Summarize(state model.LedgerState) model.Totals {
	var t model.Totals
	for _, cs := range state.Categories.All() {
		t.Spent = t.Spent.Add(cs.Spent)
		t.Limit = t.Limit.Add(cs.Limit)
		t.Remaining = t.Remaining.Add(Remaining(cs))
		t.Transactions += len(cs.Transactions)
		switch p := Progress(cs); {
		case p >= 100:
			t.OverLimit++
		case p >= 80:
			t.NearLimit++
		}
	}
	return t
}

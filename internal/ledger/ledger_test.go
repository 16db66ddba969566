package ledger

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/fintrack/internal/model"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixedLedger(t *testing.T) *Ledger {
	t.Helper()
	n := 0
	return &Ledger{
		Now: func() time.Time { return time.Date(2023, 11, 24, 15, 4, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("tx-%d", n)
		},
	}
}

func sumAmounts(txs []model.Transaction) decimal.Decimal {
	s := decimal.Zero
	for _, tx := range txs {
		s = s.Add(tx.Amount)
	}
	return s
}

func TestApplyPayment_UpdatesCategoryAndBalance(t *testing.T) {
	l := fixedLedger(t)
	before := DefaultSeed()

	after, tx, err := l.ApplyPayment(before, Payment{
		Amount:         dec("12.50"),
		Category:       model.Transport,
		Description:    "Train",
		CounterpartyID: "student@okaxis",
	})
	if err != nil {
		t.Fatalf("ApplyPayment: %v", err)
	}

	if tx.ID != "tx-1" {
		t.Errorf("tx.ID = %q, want tx-1", tx.ID)
	}
	if tx.Date.String() != "2023-11-24" {
		t.Errorf("tx.Date = %s, want 2023-11-24", tx.Date)
	}

	cs := after.Categories.Transport
	if cs.Transactions[0].ID != tx.ID {
		t.Errorf("new transaction not prepended: first = %q", cs.Transactions[0].ID)
	}
	if !cs.Spent.Equal(dec("42.50")) {
		t.Errorf("Transport spent = %s, want 42.50", cs.Spent)
	}
	if !cs.Spent.Equal(sumAmounts(cs.Transactions)) {
		t.Errorf("spent %s != sum of transactions %s", cs.Spent, sumAmounts(cs.Transactions))
	}
	if want := before.TotalBalance.Sub(dec("12.50")); !after.TotalBalance.Equal(want) {
		t.Errorf("balance = %s, want %s", after.TotalBalance, want)
	}

	// The input snapshot is untouched.
	if len(before.Categories.Transport.Transactions) != 2 {
		t.Errorf("input snapshot mutated: %d transport transactions", len(before.Categories.Transport.Transactions))
	}
	if !before.Categories.Transport.Spent.Equal(dec("30")) {
		t.Errorf("input spent mutated: %s", before.Categories.Transport.Spent)
	}
}

func TestApplyPayment_InvariantHoldsAcrossPayments(t *testing.T) {
	l := fixedLedger(t)
	state := DefaultSeed()
	amounts := []string{"0.01", "19.99", "300", "7", "1000.5"}
	for i, a := range amounts {
		c := model.AllCategories[i%len(model.AllCategories)]
		balance := state.TotalBalance
		var err error
		state, _, err = l.ApplyPayment(state, Payment{Amount: dec(a), Category: c, Description: "x"})
		if err != nil {
			t.Fatalf("payment %d: %v", i, err)
		}
		if err := Verify(state); err != nil {
			t.Fatalf("Verify after payment %d: %v", i, err)
		}
		if want := balance.Sub(dec(a)); !state.TotalBalance.Equal(want) {
			t.Fatalf("payment %d: balance %s, want %s", i, state.TotalBalance, want)
		}
	}
}

func TestApplyPayment_BalanceMayGoNegative(t *testing.T) {
	state := DefaultSeed()
	state, _, err := ApplyPayment(state, Payment{Amount: dec("3000"), Category: model.Emergency})
	if err != nil {
		t.Fatalf("ApplyPayment: %v", err)
	}
	if !state.TotalBalance.Equal(dec("-550")) {
		t.Errorf("balance = %s, want -550", state.TotalBalance)
	}
}

func TestApplyPayment_RejectsNonPositiveAmount(t *testing.T) {
	before := DefaultSeed()
	for _, a := range []string{"0", "-5"} {
		after, _, err := ApplyPayment(before, Payment{Amount: dec(a), Category: model.Living})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %s: err = %v, want ErrInvalidAmount", a, err)
		}
		if !reflect.DeepEqual(after, before) {
			t.Errorf("amount %s: state changed on rejected payment", a)
		}
	}
}

func TestApplyPayment_RejectsUnknownCategory(t *testing.T) {
	before := DefaultSeed()
	after, _, err := ApplyPayment(before, Payment{Amount: dec("5"), Category: model.Category(42)})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
	if !reflect.DeepEqual(after, before) {
		t.Error("state changed on rejected payment")
	}
}

func TestAggregateByCategory(t *testing.T) {
	state := DefaultSeed()
	got := AggregateByCategory(state)
	want := []model.CategoryTotal{
		{Category: model.Living, Value: dec("345")},
		{Category: model.Transport, Value: dec("30")},
		{Category: model.Finance, Value: dec("50")},
		{Category: model.Emergency, Value: decimal.Zero},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Category != want[i].Category || !got[i].Value.Equal(want[i].Value) {
			t.Errorf("[%d] = %v %s, want %v %s", i, got[i].Category, got[i].Value, want[i].Category, want[i].Value)
		}
	}

	again := AggregateByCategory(state)
	if !reflect.DeepEqual(got, again) {
		t.Error("AggregateByCategory is not idempotent")
	}
}

func TestRecentTransactions_OrderAndLimit(t *testing.T) {
	state := DefaultSeed()
	got := RecentTransactions(state, 5)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	wantDates := []string{"2023-11-23", "2023-11-22", "2023-11-21", "2023-11-20", "2023-11-19"}
	for i, d := range wantDates {
		if got[i].Date.String() != d {
			t.Errorf("[%d] date = %s, want %s", i, got[i].Date, d)
		}
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Date.After(got[i].Date.Time) {
			t.Errorf("not strictly descending at %d", i)
		}
	}

	if n := len(RecentTransactions(state, 2)); n != 2 {
		t.Errorf("n=2 returned %d", n)
	}
	if n := len(RecentTransactions(state, 0)); n != 0 {
		t.Errorf("n=0 returned %d", n)
	}
	if n := len(RecentTransactions(state, 50)); n != 5 {
		t.Errorf("n=50 returned %d, want all 5", n)
	}
}

func TestRecentTransactions_StableTies(t *testing.T) {
	l := fixedLedger(t)
	state := DefaultSeed()
	state, first, _ := l.ApplyPayment(state, Payment{Amount: dec("1"), Category: model.Finance})
	state, second, _ := l.ApplyPayment(state, Payment{Amount: dec("1"), Category: model.Living})
	got := RecentTransactions(state, 2)
	// Same date: category declaration order wins, Living before Finance.
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("tie order = [%s %s], want [%s %s]", got[0].ID, got[1].ID, second.ID, first.ID)
	}
}

func TestRemainingAndProgress(t *testing.T) {
	cs := model.CategoryState{Limit: dec("100"), Spent: dec("150")}
	if r := Remaining(cs); !r.IsZero() {
		t.Errorf("Remaining = %s, want 0", r)
	}
	if p := Progress(cs); p != 150 {
		t.Errorf("Progress = %v, want 150", p)
	}
	if f := BarFraction(cs); f != 1 {
		t.Errorf("BarFraction = %v, want 1", f)
	}

	cs = model.CategoryState{Limit: dec("200"), Spent: dec("50")}
	if r := Remaining(cs); !r.Equal(dec("150")) {
		t.Errorf("Remaining = %s, want 150", r)
	}
	if f := BarFraction(cs); f != 0.25 {
		t.Errorf("BarFraction = %v, want 0.25", f)
	}
}

func TestVerify_DetectsMismatch(t *testing.T) {
	state := DefaultSeed()
	if err := Verify(state); err != nil {
		t.Fatalf("Verify(seed): %v", err)
	}
	cs := state.Categories.Living
	cs.Spent = cs.Spent.Add(dec("1"))
	state.Categories = state.Categories.With(model.Living, cs)
	if err := Verify(state); !errors.Is(err, ErrInconsistent) {
		t.Errorf("err = %v, want ErrInconsistent", err)
	}
}

func TestDistribution(t *testing.T) {
	shares := Distribution(DefaultSeed())
	var total float64
	for _, s := range shares {
		total += s.Percent
	}
	if total < 99.999 || total > 100.001 {
		t.Errorf("percentages sum to %v, want 100", total)
	}
	if shares[3].Percent != 0 {
		t.Errorf("Emergency share = %v, want 0", shares[3].Percent)
	}

	var empty model.LedgerState
	for _, s := range Distribution(empty) {
		if s.Percent != 0 {
			t.Errorf("empty ledger share = %v", s.Percent)
		}
	}
}

func TestSummarize(t *testing.T) {
	state := DefaultSeed()
	state, _, _ = ApplyPayment(state, Payment{Amount: dec("130"), Category: model.Transport}) // 160/200
	state, _, _ = ApplyPayment(state, Payment{Amount: dec("100"), Category: model.Finance})   // 150/150

	tot := Summarize(state)
	if tot.NearLimit != 1 || tot.OverLimit != 1 {
		t.Errorf("near=%d over=%d, want 1 and 1", tot.NearLimit, tot.OverLimit)
	}
	if tot.Transactions != 7 {
		t.Errorf("transactions = %d, want 7", tot.Transactions)
	}
	if !tot.Limit.Equal(dec("2150")) {
		t.Errorf("limit = %s, want 2150", tot.Limit)
	}
}

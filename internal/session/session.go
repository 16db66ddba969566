// Package session owns the ledger state for one run of the application.
// Every mutation goes through Pay, so the spent/transactions invariant is
// kept no matter which front end drives it.
package session

import (
	"sync"

	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/notify"
)

// EventKind identifies what changed in a session.
type EventKind string

const (
	EventPayment   EventKind = "payment"
	EventNotify    EventKind = "notification"
	EventDismiss   EventKind = "dismiss"
	EventOwnerName EventKind = "owner"
)

// Event describes a single change. Only the fields relevant to Kind are set.
type Event struct {
	Kind         EventKind            `json:"kind"`
	Transaction  *model.Transaction   `json:"transaction,omitempty"`
	Notification *notify.Notification `json:"notification,omitempty"`
	Balance      string               `json:"balance,omitempty"`
	OwnerName    string               `json:"owner_name,omitempty"`
}

// Result is returned by a successful Pay.
type Result struct {
	State        model.LedgerState
	Transaction  model.Transaction
	Notification *notify.Notification // nil when the payment raised no alert
}

// Session is safe for concurrent use.
type Session struct {
	ledger *ledger.Ledger

	mu    sync.RWMutex
	state model.LedgerState
	inbox *notify.Inbox

	nextSub int
	subs    map[int]func(Event)
}

// Option configures a Session.
type Option func(*Session)

// WithLedger replaces the ledger used to apply payments.
func WithLedger(l *ledger.Ledger) Option {
	return func(s *Session) { s.ledger = l }
}

// New starts a session from the given initial state.
func New(initial model.LedgerState, opts ...Option) *Session {
	s := &Session{
		ledger: ledger.New(),
		state:  initial,
		inbox:  notify.NewInbox(),
		subs:   make(map[int]func(Event)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Snapshot returns the current ledger state. Callers must treat it as read-only.
func (s *Session) Snapshot() model.LedgerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Pay applies a payment and runs the notification policy on the result.
// A rejected payment leaves the session unchanged.
func (s *Session) Pay(p ledger.Payment) (Result, error) {
	s.mu.Lock()
	prev, _ := s.state.Category(p.Category)
	next, tx, err := s.ledger.ApplyPayment(s.state, p)
	if err != nil {
		s.mu.Unlock()
		return Result{}, err
	}
	s.state = next

	res := Result{State: next, Transaction: tx}
	cs, _ := next.Category(p.Category)
	if n, ok := notify.Evaluate(prev.Spent, cs.Spent, cs.Limit, p.Category); ok {
		stored := s.inbox.Push(n)
		res.Notification = &stored
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	publish(subs, Event{Kind: EventPayment, Transaction: &res.Transaction, Balance: next.TotalBalance.StringFixed(2)})
	if res.Notification != nil {
		publish(subs, Event{Kind: EventNotify, Notification: res.Notification})
	}
	return res, nil
}

// Notifications returns the current alerts, oldest first.
func (s *Session) Notifications() []notify.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inbox.List()
}

// DismissAt removes the alert at position i.
func (s *Session) DismissAt(i int) bool {
	s.mu.Lock()
	list := s.inbox.List()
	ok := s.inbox.DismissAt(i)
	subs := s.subscribersLocked()
	s.mu.Unlock()
	if ok {
		n := list[i]
		publish(subs, Event{Kind: EventDismiss, Notification: &n})
	}
	return ok
}

// Dismiss removes the alert with the given id.
func (s *Session) Dismiss(id int64) bool {
	s.mu.Lock()
	var removed *notify.Notification
	for _, n := range s.inbox.List() {
		if n.ID == id {
			removed = &n
			break
		}
	}
	ok := s.inbox.Dismiss(id)
	subs := s.subscribersLocked()
	s.mu.Unlock()
	if ok {
		publish(subs, Event{Kind: EventDismiss, Notification: removed})
	}
	return ok
}

// SetOwner changes the display name on the ledger.
func (s *Session) SetOwner(name string) {
	s.mu.Lock()
	s.state.OwnerName = name
	subs := s.subscribersLocked()
	s.mu.Unlock()
	publish(subs, Event{Kind: EventOwnerName, OwnerName: name})
}

// Subscribe registers fn to be called after every change. fn runs on the
// goroutine that made the change and must not call back into the session
// while blocking. The returned func removes the subscription.
func (s *Session) Subscribe(fn func(Event)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) subscribersLocked() []func(Event) {
	if len(s.subs) == 0 {
		return nil
	}
	out := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func publish(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}

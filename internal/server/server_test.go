package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/notify"
	"github.com/theirongolddev/fintrack/internal/session"

	"github.com/shopspring/decimal"
)

func newTestServer(t *testing.T, buffer int) (*Server, *session.Session, *httptest.Server) {
	t.Helper()
	sess := session.New(ledger.DefaultSeed())
	s := New(sess, Config{EventsBuffer: buffer, DefaultCounterparty: "student@okaxis"})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return s, sess, ts
}

func postPayment(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/payments", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/payments: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	_, _, ts := newTestServer(t, 10)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestPayment_Accepted(t *testing.T) {
	_, sess, ts := newTestServer(t, 10)

	resp := postPayment(t, ts, `{"amount":"20","category":"transport","description":"Bus"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var out PaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Balance != "2430.00" {
		t.Errorf("balance = %q, want 2430.00", out.Balance)
	}
	if out.Transaction.Category != model.Transport {
		t.Errorf("category = %v, want Transport", out.Transaction.Category)
	}
	if out.Transaction.CounterpartyID != "student@okaxis" {
		t.Errorf("counterparty = %q, want default", out.Transaction.CounterpartyID)
	}

	cs, _ := sess.Snapshot().Category(model.Transport)
	if got := cs.Spent.StringFixed(2); got != "50.00" {
		t.Errorf("transport spent = %s, want 50.00", got)
	}
}

func TestPayment_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"zero amount", `{"amount":"0","category":"Living"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"amount":"-5","category":"Living"}`, http.StatusUnprocessableEntity},
		{"non-numeric amount", `{"amount":"abc"}`, http.StatusUnprocessableEntity},
		{"ambiguous separator", `{"amount":"1,234","category":"Living"}`, http.StatusUnprocessableEntity},
		{"unknown category", `{"amount":"5","category":"Food"}`, http.StatusUnprocessableEntity},
		{"bad json", `{"amount":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sess, ts := newTestServer(t, 10)
			before := sess.Snapshot()

			resp := postPayment(t, ts, tt.body)
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if !sess.Snapshot().TotalBalance.Equal(before.TotalBalance) {
				t.Error("rejected payment changed the balance")
			}
		})
	}
}

func TestPayment_RaisesNotification(t *testing.T) {
	_, _, ts := newTestServer(t, 10)

	// Transport is at 30 of 200; 140 more reaches 85%.
	resp := postPayment(t, ts, `{"amount":"140","category":"Transport"}`)
	var out PaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Notification == nil || out.Notification.Severity != notify.Warning {
		t.Fatalf("notification = %+v, want warning", out.Notification)
	}

	list, err := http.Get(ts.URL + "/v1/notifications")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = list.Body.Close() }()
	var got []notify.Notification
	if err := json.NewDecoder(list.Body).Decode(&got); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("notifications = %d, want 1", len(got))
	}
}

func TestDismissNotification(t *testing.T) {
	_, sess, ts := newTestServer(t, 10)
	postPayment(t, ts, `{"amount":"140","category":"Transport"}`)

	del := func(path string) int {
		req, _ := http.NewRequest(http.MethodDelete, ts.URL+path, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		_ = resp.Body.Close()
		return resp.StatusCode
	}

	if code := del("/v1/notifications/3"); code != http.StatusNotFound {
		t.Errorf("out of range: status = %d, want 404", code)
	}
	if code := del("/v1/notifications/x"); code != http.StatusBadRequest {
		t.Errorf("non-integer: status = %d, want 400", code)
	}
	if code := del("/v1/notifications/0"); code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", code)
	}
	if n := len(sess.Notifications()); n != 0 {
		t.Errorf("notifications left = %d, want 0", n)
	}
}

func TestRecentAndAggregate(t *testing.T) {
	_, _, ts := newTestServer(t, 10)

	resp, err := http.Get(ts.URL + "/v1/recent?n=2")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var recent []model.Transaction
	if err := json.NewDecoder(resp.Body).Decode(&recent); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent = %d, want 2", len(recent))
	}
	if recent[0].Date.Before(recent[1].Date.Time) {
		t.Error("recent transactions not newest first")
	}

	bad, err := http.Get(ts.URL + "/v1/recent?n=abc")
	if err != nil {
		t.Fatal(err)
	}
	_ = bad.Body.Close()
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("n=abc: status = %d, want 400", bad.StatusCode)
	}

	agg, err := http.Get(ts.URL + "/v1/aggregate")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = agg.Body.Close() }()
	var totals []model.CategoryTotal
	if err := json.NewDecoder(agg.Body).Decode(&totals); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(totals) != len(model.AllCategories) {
		t.Fatalf("aggregate = %d entries, want %d", len(totals), len(model.AllCategories))
	}
}

func TestEventRingBuffer(t *testing.T) {
	s, _, _ := newTestServer(t, 2)

	for i := 0; i < 3; i++ {
		s.onSessionEvent(session.Event{Kind: session.EventPayment})
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestEventsStayOrderedUnderConcurrentPayments(t *testing.T) {
	s, sess, _ := newTestServer(t, 100)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = sess.Pay(ledger.Payment{Amount: decimal.RequireFromString("1"), Category: model.Living})
		}()
	}
	wg.Wait()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 20 {
		t.Fatalf("events = %d, want 20", len(s.events))
	}
	for i := 1; i < len(s.events); i++ {
		if s.events[i].ID != s.events[i-1].ID+1 {
			t.Fatalf("event %d has id %d after %d", i, s.events[i].ID, s.events[i-1].ID)
		}
	}
}

func TestSubscriberBacklogNotRepeated(t *testing.T) {
	s, _, _ := newTestServer(t, 10)
	s.onSessionEvent(session.Event{Kind: session.EventPayment})
	s.onSessionEvent(session.Event{Kind: session.EventPayment})

	ch := make(chan Event, 4)
	id, backlog := s.addSubscriber(ch)
	defer s.removeSubscriber(id)
	if len(backlog) != 2 {
		t.Fatalf("backlog = %d events, want 2", len(backlog))
	}
	if len(ch) != 0 {
		t.Fatalf("channel holds %d buffered events, want 0", len(ch))
	}

	s.onSessionEvent(session.Event{Kind: session.EventPayment})
	select {
	case ev := <-ch:
		if ev.ID != 3 {
			t.Errorf("live event id = %d, want 3", ev.ID)
		}
	default:
		t.Fatal("live event not delivered")
	}
}

func TestSessionEventsRecorded(t *testing.T) {
	s, sess, _ := newTestServer(t, 10)

	if _, err := sess.Pay(ledger.Payment{Amount: decimal.RequireFromString("950"), Category: model.Emergency}); err != nil {
		t.Fatalf("Pay: %v", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 2 {
		t.Fatalf("events = %d, want payment + notification", len(s.events))
	}
	if s.events[0].Type != string(session.EventPayment) || s.events[1].Type != string(session.EventNotify) {
		t.Errorf("event types = %q, %q", s.events[0].Type, s.events[1].Type)
	}
	if s.events[0].ID >= s.events[1].ID {
		t.Error("event ids not increasing")
	}
}

func TestStream(t *testing.T) {
	_, sess, ts := newTestServer(t, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/v1/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	go func() {
		_, _ = sess.Pay(ledger.Payment{Amount: decimal.RequireFromString("5"), Category: model.Living})
	}()

	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		if sc.Text() == "event: payment" {
			return
		}
	}
	t.Fatalf("stream ended without a payment event: %v", sc.Err())
}

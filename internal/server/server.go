// Package server exposes a session over a small local HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/theirongolddev/fintrack/internal/ledger"
	"github.com/theirongolddev/fintrack/internal/logging"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/notify"
	"github.com/theirongolddev/fintrack/internal/session"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr                string
	EventsBuffer        int
	DefaultCounterparty string
	Logger              *slog.Logger
}

// Event is one entry in the stream and the recent-events buffer.
type Event struct {
	ID        int64         `json:"id"`
	Type      string        `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Data      session.Event `json:"data"`
}

// PaymentRequest is the body accepted by POST /v1/payments.
type PaymentRequest struct {
	Amount         string `json:"amount"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	SubCategory    string `json:"sub_category"`
	CounterpartyID string `json:"counterparty_id"`
}

// PaymentResponse is returned for an accepted payment.
type PaymentResponse struct {
	Transaction  model.Transaction    `json:"transaction"`
	Balance      string               `json:"balance"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

// Server serves one session.
type Server struct {
	cfg         Config
	sess        *session.Session
	log         *slog.Logger
	now         func() time.Time
	unsubscribe func()

	mu          sync.RWMutex
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a server for sess. Call Close to detach it from the session.
func New(sess *session.Session, cfg Config) *Server {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}

	s := &Server{
		cfg:  cfg,
		sess: sess,
		log:  cfg.Logger,
		now:  time.Now,
		subs: make(map[int]chan Event),
	}
	s.unsubscribe = sess.Subscribe(s.onSessionEvent)
	return s
}

// Close stops recording session events.
func (s *Server) Close() {
	s.unsubscribe()
}

// Handler returns the routed API with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/state", s.handleState)
	mux.HandleFunc("GET /v1/aggregate", s.handleAggregate)
	mux.HandleFunc("GET /v1/recent", s.handleRecent)
	mux.HandleFunc("GET /v1/notifications", s.handleNotifications)
	mux.HandleFunc("DELETE /v1/notifications/{index}", s.handleDismiss)
	mux.HandleFunc("POST /v1/payments", s.handlePayment)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return logging.Middleware(s.log)(mux)
}

// Run serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// onSessionEvent numbers ev and records it. Numbering, buffering and
// fan-out share one critical section so the buffer stays in ID order.
func (s *Server) onSessionEvent(ev session.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEventID++
	s.publishLocked(Event{
		ID:        s.nextEventID,
		Type:      string(ev.Kind),
		Timestamp: s.now(),
		Data:      ev,
	})
}

func (s *Server) publishLocked(ev Event) {
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	state := s.sess.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"state":  state,
		"totals": ledger.Summarize(state),
	})
}

func (s *Server) handleAggregate(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ledger.AggregateByCategory(s.sess.Snapshot()))
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	n := 5
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "n must be an integer")
			return
		}
		n = parsed
	}
	writeJSON(w, http.StatusOK, ledger.RecentTransactions(s.sess.Snapshot(), n))
}

func (s *Server) handleNotifications(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sess.Notifications())
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	if !s.sess.DismissAt(i) {
		writeError(w, http.StatusNotFound, "no notification at that index")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	p, err := toPayment(req, s.cfg.DefaultCounterparty)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	res, err := s.sess.Pay(p)
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrUnknownCategory):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		s.log.Error("payment failed", logging.FieldError, err)
		writeError(w, http.StatusInternalServerError, "payment failed")
		return
	}

	s.log.Info("payment applied",
		"category", p.Category.String(),
		"amount", p.Amount.StringFixed(2),
		"id", res.Transaction.ID,
	)

	writeJSON(w, http.StatusCreated, PaymentResponse{
		Transaction:  res.Transaction,
		Balance:      res.State.TotalBalance.StringFixed(2),
		Notification: res.Notification,
	})
}

func toPayment(req PaymentRequest, defaultCounterparty string) (ledger.Payment, error) {
	amount, err := model.ParseAmount(req.Amount)
	if err != nil {
		return ledger.Payment{}, err
	}
	category := model.Living
	if req.Category != "" {
		category, err = model.ParseCategory(req.Category)
		if err != nil {
			return ledger.Payment{}, err
		}
	}
	counterparty := req.CounterpartyID
	if counterparty == "" {
		counterparty = defaultCounterparty
	}
	return ledger.Payment{
		Amount:         amount,
		Category:       category,
		Description:    req.Description,
		SubCategory:    req.SubCategory,
		CounterpartyID: counterparty,
	}, nil
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id, backlog := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Replay what is buffered so a new client starts from recent history.
	for _, ev := range backlog {
		writeSSE(w, ev)
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// addSubscriber registers ch and returns the events buffered before it.
// Every later event goes to ch only.
func (s *Server) addSubscriber(ch chan Event) (int, []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	backlog := make([]Event, len(s.events))
	copy(backlog, s.events)
	return id, backlog
}

func (s *Server) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

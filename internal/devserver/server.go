// Package devserver is a local stand-in for the draw service. It speaks the
// same envelope protocol as the real one and keeps balances in memory.
package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/naveenspark/gacha/pkg/domain"
)

// Business error messages, shown to the player verbatim.
const (
	MsgNotEnoughTickets = "NOT ENOUGH TICKETS"
	MsgUserRequired     = "USER ID REQUIRED"
	MsgUserNotFound     = "USER NOT FOUND"
	MsgUnknownDrawType  = "UNKNOWN DRAW TYPE"
	MsgBadRequest       = "BAD REQUEST"
)

// DefaultGrant is the balance a new user starts with.
const DefaultGrant = 10

// Options configures a Server.
type Options struct {
	Pool   Pool         // DefaultPool when nil
	RNG    RandomSource // DefaultRNG when nil
	Grant  int
	Logger zerolog.Logger
}

// Server holds user balances and serves draws.
type Server struct {
	mu    sync.Mutex
	users map[string]int

	pool  Pool
	rng   RandomSource
	grant int
	log   zerolog.Logger
}

// New validates the pool and returns a Server.
func New(opts Options) (*Server, error) {
	if opts.Pool == nil {
		opts.Pool = DefaultPool()
	}
	if err := opts.Pool.Validate(); err != nil {
		return nil, err
	}
	if opts.RNG == nil {
		opts.RNG = DefaultRNG()
	}
	if opts.Grant < 0 {
		return nil, errors.New("grant must not be negative")
	}
	return &Server{
		users: make(map[string]int),
		pool:  opts.Pool,
		rng:   opts.RNG,
		grant: opts.Grant,
		log:   opts.Logger,
	}, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLog)
	r.Use(middleware.Recoverer)

	r.Post("/api/init", s.handleInit)
	r.Post("/api/draw", s.handleDraw)
	r.Get("/healthz", healthz)
	return r
}

// Balance returns a user's tickets.
func (s *Server) Balance(userID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.users[userID]
	return n, ok
}

// SetBalance overwrites a user's tickets, creating the user if needed.
func (s *Server) SetBalance(userID string, tickets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = tickets
}

type initRequest struct {
	UserID string `json:"userId"`
}

type drawRequest struct {
	UserID string `json:"userId"`
	Type   string `json:"type"`
	Cost   int    `json:"cost"`
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	var req initRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, MsgBadRequest)
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		writeError(w, http.StatusBadRequest, MsgUserRequired)
		return
	}

	s.mu.Lock()
	tickets, ok := s.users[userID]
	if !ok {
		tickets = s.grant
		s.users[userID] = tickets
	}
	s.mu.Unlock()

	if !ok {
		s.log.Info().Str("user_id", userID).Int("tickets", tickets).Msg("new user")
	}
	writeData(w, domain.InitResult{
		UserID:        userID,
		Tickets:       tickets,
		CharacterPool: append([]domain.CharacterPoolEntry(nil), s.pool...),
	})
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	var req drawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, MsgBadRequest)
		return
	}
	t, err := domain.ParseDrawType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgUnknownDrawType)
		return
	}
	// The price is the server's call; the client's figure is advisory.
	cost := t.Cost()
	if req.Cost != cost {
		s.log.Debug().Int("client_cost", req.Cost).Int("cost", cost).Msg("cost mismatch")
	}

	s.mu.Lock()
	tickets, ok := s.users[req.UserID]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, MsgUserNotFound)
		return
	}
	if tickets < cost {
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, MsgNotEnoughTickets)
		return
	}
	results := make([]domain.DrawOutcome, t.Count())
	for i := range results {
		e := s.pool.Pick(s.rng)
		results[i] = domain.DrawOutcome{CharID: e.CharID, Name: e.Name, Rarity: e.Rarity, ImageURL: e.ImageURL}
	}
	tickets -= cost
	s.users[req.UserID] = tickets
	s.mu.Unlock()

	s.log.Info().Str("user_id", req.UserID).Str("type", string(t)).Int("tickets_after", tickets).Msg("draw")
	writeData(w, domain.DrawResult{TicketsAfter: tickets, Results: results})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: data})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, envelope{Status: "error", Message: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

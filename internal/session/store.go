// Package session holds the logged-in player's identity, ticket balance and
// character pool. It is the single owner of that state.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/naveenspark/gacha/pkg/domain"
)

// Store owns the mutable session. The zero value has no active session.
type Store struct {
	mu      sync.RWMutex
	active  bool
	id      uuid.UUID
	session domain.Session
	pool    []domain.CharacterPoolEntry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Initialize replaces any prior session with a fresh one.
func (s *Store) Initialize(userID string, tickets int, pool []domain.CharacterPoolEntry) error {
	if userID == "" {
		return &ValidationError{Field: "userId", Reason: "must not be empty"}
	}
	if tickets < 0 {
		return &ValidationError{Field: "tickets", Reason: "must not be negative"}
	}
	seen := make(map[string]bool, len(pool))
	for _, c := range pool {
		if seen[c.CharID] {
			return &ValidationError{Field: "characterPool", Reason: "duplicate charId " + c.CharID}
		}
		seen[c.CharID] = true
	}

	snapshot := make([]domain.CharacterPoolEntry, len(pool))
	copy(snapshot, pool)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	s.id = uuid.New()
	s.session = domain.Session{UserID: userID, Tickets: tickets}
	s.pool = snapshot
	return nil
}

// Clear ends the session. Accessors fail until the next Initialize.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.id = uuid.Nil
	s.session = domain.Session{}
	s.pool = nil
}

// ApplyDrawResult overwrites the balance with the server-reported value.
func (s *Store) ApplyDrawResult(ticketsAfter int) error {
	if ticketsAfter < 0 {
		return &ValidationError{Field: "ticketsAfter", Reason: "must not be negative"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return &StateError{Op: "applyDrawResult"}
	}
	s.session.Tickets = ticketsAfter
	return nil
}

// CurrentTickets returns the balance.
func (s *Store) CurrentTickets() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return 0, &StateError{Op: "currentTickets"}
	}
	return s.session.Tickets, nil
}

// CurrentUserID returns the logged-in user id.
func (s *Store) CurrentUserID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.active {
		return "", &StateError{Op: "currentUserId"}
	}
	return s.session.UserID, nil
}

// Snapshot returns a copy of the session and whether one is active.
func (s *Store) Snapshot() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, s.active
}

// Active reports whether a session has been initialized.
func (s *Store) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SessionID identifies the current session for logs and export names.
// It is uuid.Nil before login.
func (s *Store) SessionID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Pool returns a copy of the character pool.
func (s *Store) Pool() []domain.CharacterPoolEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CharacterPoolEntry, len(s.pool))
	copy(out, s.pool)
	return out
}

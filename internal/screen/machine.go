// Package screen tracks which top-level view is visible.
package screen

import (
	"errors"
	"fmt"
	"sync"

	"github.com/naveenspark/gacha/internal/present"
)

// Screen is a top-level view.
type Screen int

const (
	Loading Screen = iota
	Login
	Lobby
)

var names = [...]string{"LOADING", "LOGIN", "LOBBY"}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(names) {
		return fmt.Sprintf("Screen(%d)", int(s))
	}
	return names[s]
}

// All lists every screen.
var All = []Screen{Loading, Login, Lobby}

// ErrInvalidTransition is returned for moves the machine does not allow.
// Going back to Login requires Reset.
var ErrInvalidTransition = errors.New("invalid screen transition")

// Machine holds the visible screen. Exactly one screen is visible at a time.
type Machine struct {
	mu      sync.Mutex
	current Screen
	sink    present.Sink
}

// New returns a machine showing Loading. A nil sink discards events.
func New(sink present.Sink) *Machine {
	if sink == nil {
		sink = present.Discard
	}
	return &Machine{current: Loading, sink: sink}
}

// Current returns the visible screen.
func (m *Machine) Current() Screen {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Visible reports whether s is the visible screen.
func (m *Machine) Visible(s Screen) bool {
	return m.Current() == s
}

// SwitchTo makes s the only visible screen. Switching to the current screen
// is a no-op.
func (m *Machine) SwitchTo(s Screen) error {
	m.mu.Lock()
	from := m.current
	if from == s {
		m.mu.Unlock()
		return nil
	}
	if !allowed(from, s) {
		m.mu.Unlock()
		return fmt.Errorf("screen.SwitchTo %s -> %s: %w", from, s, ErrInvalidTransition)
	}
	m.current = s
	m.mu.Unlock()

	m.sink.Emit(present.ScreenChanged{From: from.String(), To: s.String()})
	return nil
}

// Reset returns to Loading.
func (m *Machine) Reset() {
	m.mu.Lock()
	from := m.current
	m.current = Loading
	m.mu.Unlock()
	if from != Loading {
		m.sink.Emit(present.ScreenChanged{From: from.String(), To: Loading.String()})
	}
}

func allowed(from, to Screen) bool {
	switch from {
	case Loading:
		return to == Login || to == Lobby
	case Login:
		return to == Lobby
	}
	return false
}

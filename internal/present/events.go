// Package present is the boundary between the session core and whatever
// renders it. The core emits Events to a Sink and never renders itself.
package present

import (
	"sync"

	"github.com/naveenspark/gacha/pkg/domain"
)

// Event is a meaningful state change for the presentation layer.
type Event interface{ isEvent() }

// ScreenChanged reports a new visible screen.
type ScreenChanged struct{ From, To string }

// PhaseChanged reports a draw cycle phase transition.
type PhaseChanged struct{ From, To string }

// TicketsUpdated carries the server-confirmed balance.
type TicketsUpdated struct{ Tickets int }

// DrawStarted marks the start of a draw cycle.
type DrawStarted struct{ Type domain.DrawType }

// DrawRevealed carries the outcomes to show. Summary is nil for single draws.
type DrawRevealed struct {
	Batch   []domain.DrawOutcome
	Summary []domain.SummaryEntry
}

// ErrorShown is a transient, user-visible error message.
type ErrorShown struct{ Message string }

// ErrorCleared removes any visible error.
type ErrorCleared struct{}

func (ScreenChanged) isEvent()  {}
func (PhaseChanged) isEvent()   {}
func (TicketsUpdated) isEvent() {}
func (DrawStarted) isEvent()    {}
func (DrawRevealed) isEvent()   {}
func (ErrorShown) isEvent()     {}
func (ErrorCleared) isEvent()   {}

// Sink receives events. Implementations must not call back into the emitter.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Multi fans events out to every sink in order.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(e Event) {
		for _, s := range sinks {
			s.Emit(e)
		}
	})
}

// Recorder keeps every event it receives. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Phases returns the sequence of phases visited, starting with the first From.
func (r *Recorder) Phases() []string {
	var out []string
	for _, e := range r.Events() {
		pc, ok := e.(PhaseChanged)
		if !ok {
			continue
		}
		if len(out) == 0 {
			out = append(out, pc.From)
		}
		out = append(out, pc.To)
	}
	return out
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

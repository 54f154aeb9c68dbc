// Package draw runs the draw cycle: guards, the remote call, the reveal delay
// and balance reconciliation.
//
// A cycle moves IDLE -> REQUESTING -> REVEALING -> IDLE on success and
// IDLE -> REQUESTING -> IDLE on any failure. At most one cycle is in flight;
// requests made meanwhile are dropped, not queued.
package draw

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/naveenspark/gacha/internal/present"
	"github.com/naveenspark/gacha/internal/session"
	"github.com/naveenspark/gacha/internal/summary"
	"github.com/naveenspark/gacha/pkg/client"
	"github.com/naveenspark/gacha/pkg/domain"
)

// DefaultRevealDelay is the fixed pause between server confirmation and reveal.
const DefaultRevealDelay = 2 * time.Second

// Phase is the state of the draw cycle.
type Phase int

const (
	Idle Phase = iota
	Requesting
	Revealing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "IDLE"
	case Requesting:
		return "REQUESTING"
	case Revealing:
		return "REVEALING"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Remote is the draw capability of the service. *client.Client satisfies it.
type Remote interface {
	Draw(ctx context.Context, userID string, t domain.DrawType, cost int) (*domain.DrawResult, error)
}

// Options tunes an Orchestrator.
type Options struct {
	RevealDelay time.Duration // DefaultRevealDelay when zero
	Clock       Clock         // RealClock when nil
	Logger      zerolog.Logger
}

// Cycle is one in-flight draw.
type Cycle struct {
	ID        uuid.UUID
	Type      domain.DrawType
	Cost      int
	UserID    string
	SessionID uuid.UUID
	started   time.Time
}

// Outcome is how a Draw call ended.
type Outcome int

const (
	Dropped  Outcome = iota // another cycle was in flight
	Refused                 // a local guard failed, the service was not called
	Failed                  // the service call or response failed
	Revealed                // results applied and shown
)

// Result reports a full cycle run by Draw.
type Result struct {
	Outcome Outcome
	CycleID uuid.UUID
	Batch   []domain.DrawOutcome
	Summary []domain.SummaryEntry
	Tickets int
	Err     error
}

// Orchestrator coordinates draw cycles for one session store.
type Orchestrator struct {
	mu      sync.Mutex
	phase   Phase
	current *Cycle

	store  *session.Store
	remote Remote
	sink   present.Sink
	delay  time.Duration
	clock  Clock
	log    zerolog.Logger
}

// New creates an orchestrator. A nil sink discards events.
func New(store *session.Store, remote Remote, sink present.Sink, opts Options) *Orchestrator {
	if sink == nil {
		sink = present.Discard
	}
	if opts.RevealDelay == 0 {
		opts.RevealDelay = DefaultRevealDelay
	}
	if opts.Clock == nil {
		opts.Clock = RealClock
	}
	return &Orchestrator{
		store:  store,
		remote: remote,
		sink:   sink,
		delay:  opts.RevealDelay,
		clock:  opts.Clock,
		log:    opts.Logger,
	}
}

// Phase returns the current phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Animating reports whether a cycle is in flight.
func (o *Orchestrator) Animating() bool {
	return o.Phase() != Idle
}

// RevealDelay is the pause Reveal expects after a successful Resolve.
func (o *Orchestrator) RevealDelay() time.Duration {
	return o.delay
}

// Begin runs the local guards and, when they pass, starts a cycle.
// cost must match t; a mismatch is a caller bug and is not checked.
func (o *Orchestrator) Begin(t domain.DrawType, cost int) (*Cycle, error) {
	if _, err := domain.ParseDrawType(string(t)); err != nil {
		return nil, fmt.Errorf("draw.Begin: %w", err)
	}

	c, sess, err := o.claim(t, cost)
	switch {
	case errors.Is(err, ErrBusy):
		o.log.Debug().Str("type", string(t)).Msg("draw dropped, cycle in flight")
		return nil, err
	case errors.Is(err, ErrInsufficientTickets):
		o.log.Info().Int("tickets", sess.Tickets).Int("cost", cost).Msg("draw refused, not enough tickets")
		o.sink.Emit(present.ErrorShown{Message: MsgInsufficientTickets})
		return nil, err
	case err != nil:
		o.sink.Emit(present.ErrorShown{Message: MsgNoSession})
		return nil, err
	}

	o.log.Info().
		Str("cycle_id", c.ID.String()).
		Str("session_id", c.SessionID.String()).
		Str("type", string(t)).
		Int("cost", cost).
		Msg("draw started")

	o.sink.Emit(present.ErrorCleared{})
	o.sink.Emit(present.PhaseChanged{From: Idle.String(), To: Requesting.String()})
	o.sink.Emit(present.DrawStarted{Type: t})
	return c, nil
}

// Request calls the service and checks the response against the cycle.
// It reads no orchestrator state, so it may run off the UI loop.
func (o *Orchestrator) Request(ctx context.Context, c *Cycle) (res *domain.DrawResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, &TransportError{Err: fmt.Errorf("remote panic: %v", r)}
		}
	}()

	res, err = o.remote.Draw(ctx, c.UserID, c.Type, c.Cost)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, &ProtocolMismatchError{Reason: "empty response"}
	}
	if len(res.Results) != c.Type.Count() {
		return nil, batchMismatch(c.Type.Count(), len(res.Results))
	}
	if res.TicketsAfter < 0 {
		return nil, &ProtocolMismatchError{Reason: fmt.Sprintf("negative ticketsAfter %d", res.TicketsAfter)}
	}
	return res, nil
}

// Resolve applies the outcome of Request. On failure the cycle ends and the
// classified error is returned; on success the cycle enters REVEALING and the
// caller must wait RevealDelay before calling Reveal.
func (o *Orchestrator) Resolve(c *Cycle, res *domain.DrawResult, err error) error {
	if err == nil && res == nil {
		err = &ProtocolMismatchError{Reason: "empty response"}
	}

	if err == nil {
		if !o.advance(c, Requesting, Revealing) {
			return ErrStaleCycle
		}
		o.sink.Emit(present.PhaseChanged{From: Requesting.String(), To: Revealing.String()})
		return nil
	}
	if !o.owns(c, Requesting) {
		return ErrStaleCycle
	}

	cerr, msg := classify(err)
	o.log.Warn().
		Err(err).
		Str("cycle_id", c.ID.String()).
		Dur("took", time.Since(c.started)).
		Msg("draw failed")

	o.sink.Emit(present.ErrorShown{Message: msg})
	o.finish(Requesting)
	return cerr
}

// Reveal reconciles the balance with the server value, summarizes the batch
// and hands both to the presentation layer, then ends the cycle.
func (o *Orchestrator) Reveal(c *Cycle, res *domain.DrawResult) ([]domain.SummaryEntry, error) {
	if !o.owns(c, Revealing) {
		return nil, ErrStaleCycle
	}
	if res == nil {
		o.log.Error().Str("cycle_id", c.ID.String()).Msg("reveal without a draw result")
		o.sink.Emit(present.ErrorShown{Message: MsgSummonFailed})
		o.finish(Revealing)
		return nil, &ProtocolMismatchError{Reason: "empty response"}
	}

	if err := o.store.ApplyDrawResult(res.TicketsAfter); err != nil {
		o.log.Error().Err(err).Str("cycle_id", c.ID.String()).Msg("apply draw result")
		o.sink.Emit(present.ErrorShown{Message: MsgSummonFailed})
		o.finish(Revealing)
		return nil, fmt.Errorf("draw.Reveal: %w", err)
	}

	sum := summary.Summarize(res.Results)
	o.sink.Emit(present.TicketsUpdated{Tickets: res.TicketsAfter})
	o.sink.Emit(present.DrawRevealed{Batch: res.Results, Summary: sum})

	o.log.Info().
		Str("cycle_id", c.ID.String()).
		Int("results", len(res.Results)).
		Int("tickets_after", res.TicketsAfter).
		Dur("took", time.Since(c.started)).
		Msg("draw revealed")

	o.finish(Revealing)
	return sum, nil
}

// Draw runs a whole cycle, waiting out the reveal delay on the configured
// clock. Once the request is sent the cycle always completes; ctx only bounds
// the remote call. Failures are reported in Result, never returned.
func (o *Orchestrator) Draw(ctx context.Context, t domain.DrawType, cost int) Result {
	c, err := o.Begin(t, cost)
	if err != nil {
		if errors.Is(err, ErrBusy) {
			return Result{Outcome: Dropped, Err: err}
		}
		return Result{Outcome: Refused, Err: err}
	}

	res, err := o.Request(ctx, c)
	if err := o.Resolve(c, res, err); err != nil {
		return Result{Outcome: Failed, CycleID: c.ID, Err: err}
	}

	<-o.clock.After(o.delay)

	sum, err := o.Reveal(c, res)
	if err != nil {
		return Result{Outcome: Failed, CycleID: c.ID, Err: err}
	}
	return Result{
		Outcome: Revealed,
		CycleID: c.ID,
		Batch:   res.Results,
		Summary: sum,
		Tickets: res.TicketsAfter,
	}
}

// finish ends the in-flight cycle and reports the transition back to IDLE.
func (o *Orchestrator) release() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phase = Idle
	o.current = nil
}

// claim starts a cycle when the orchestrator is idle and the balance covers cost.
func (o *Orchestrator) claim(t domain.DrawType, cost int) (*Cycle, domain.Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.phase != Idle {
		return nil, domain.Session{}, ErrBusy
	}
	sess, ok := o.store.Snapshot()
	if !ok {
		return nil, sess, &session.StateError{Op: "draw"}
	}
	if sess.Tickets < cost {
		return nil, sess, fmt.Errorf("%w: have %d, need %d", ErrInsufficientTickets, sess.Tickets, cost)
	}

	c := &Cycle{
		ID:        uuid.New(),
		Type:      t,
		Cost:      cost,
		UserID:    sess.UserID,
		SessionID: o.store.SessionID(),
		started:   time.Now(),
	}
	o.current = c
	o.phase = Requesting
	return c, sess, nil
}

// owns reports whether c is the in-flight cycle and is in phase p.
func (o *Orchestrator) owns(c *Cycle, p Phase) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current == c && o.phase == p
}

// advance moves c from one phase to the next if it still owns the orchestrator.
func (o *Orchestrator) advance(c *Cycle, from, to Phase) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != c || o.phase != from {
		return false
	}
	o.phase = to
	return true
}

func (o *Orchestrator) finish(from Phase) {
	o.release()
	o.sink.Emit(present.PhaseChanged{From: from.String(), To: Idle.String()})
}

// classify maps a Request failure to its typed error and the message shown to the player.
func classify(err error) (error, string) {
	var pm *ProtocolMismatchError
	if errors.As(err, &pm) {
		return pm, MsgSummonFailed
	}
	if errors.Is(err, client.ErrMalformedResponse) {
		return &ProtocolMismatchError{Reason: err.Error()}, MsgSummonFailed
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te, MsgConnectionLost
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = MsgSummonFailed
		}
		return &RemoteError{Message: msg, Err: err}, msg
	}
	var re *RemoteError
	if errors.As(err, &re) {
		return re, re.Message
	}
	return &TransportError{Err: err}, MsgConnectionLost
}

package draw

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/gacha/internal/present"
	"github.com/naveenspark/gacha/internal/session"
	"github.com/naveenspark/gacha/internal/summary"
	"github.com/naveenspark/gacha/pkg/client"
	"github.com/naveenspark/gacha/pkg/domain"
)

type mockRemote struct{ mock.Mock }

func (m *mockRemote) Draw(ctx context.Context, userID string, t domain.DrawType, cost int) (*domain.DrawResult, error) {
	args := m.Called(ctx, userID, t, cost)
	res, _ := args.Get(0).(*domain.DrawResult)
	return res, args.Error(1)
}

type remoteFunc func(ctx context.Context, userID string, t domain.DrawType, cost int) (*domain.DrawResult, error)

func (f remoteFunc) Draw(ctx context.Context, userID string, t domain.DrawType, cost int) (*domain.DrawResult, error) {
	return f(ctx, userID, t, cost)
}

// instantClock fires immediately and records each requested delay.
type instantClock struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (c *instantClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	c.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func (c *instantClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

// gateClock blocks until the test closes release.
type gateClock struct {
	called  chan time.Duration
	release chan time.Time
}

func newGateClock() *gateClock {
	return &gateClock{called: make(chan time.Duration), release: make(chan time.Time)}
}

func (c *gateClock) After(d time.Duration) <-chan time.Time {
	c.called <- d
	return c.release
}

const testDelay = 2 * time.Second

func outcomes(names ...string) []domain.DrawOutcome {
	out := make([]domain.DrawOutcome, len(names))
	for i, n := range names {
		out[i] = domain.DrawOutcome{CharID: "id-" + n, Name: n, Rarity: domain.RarityCommon}
	}
	return out
}

type fixture struct {
	store  *session.Store
	remote *mockRemote
	rec    *present.Recorder
	clock  *instantClock
	orch   *Orchestrator
}

func newFixture(t *testing.T, tickets int) *fixture {
	t.Helper()
	f := &fixture{
		store:  session.NewStore(),
		remote: &mockRemote{},
		rec:    &present.Recorder{},
		clock:  &instantClock{},
	}
	require.NoError(t, f.store.Initialize("p1", tickets, nil))
	f.orch = New(f.store, f.remote, f.rec, Options{RevealDelay: testDelay, Clock: f.clock})
	return f
}

func (f *fixture) tickets(t *testing.T) int {
	t.Helper()
	n, err := f.store.CurrentTickets()
	require.NoError(t, err)
	return n
}

func errorMessages(events []present.Event) []string {
	var out []string
	for _, e := range events {
		if es, ok := e.(present.ErrorShown); ok {
			out = append(out, es.Message)
		}
	}
	return out
}

func TestDrawSingle(t *testing.T) {
	f := newFixture(t, 10)
	f.remote.On("Draw", mock.Anything, "p1", domain.DrawSingle, 1).
		Return(&domain.DrawResult{TicketsAfter: 9, Results: outcomes("Aria")}, nil).Once()

	res := f.orch.Draw(context.Background(), domain.DrawSingle, 1)

	require.NoError(t, res.Err)
	assert.Equal(t, Revealed, res.Outcome)
	assert.Equal(t, 9, res.Tickets)
	assert.Len(t, res.Batch, 1)
	assert.Nil(t, res.Summary, "single draws have no summary")
	assert.Equal(t, 9, f.tickets(t))
	assert.Equal(t, []string{"IDLE", "REQUESTING", "REVEALING", "IDLE"}, f.rec.Phases())
	assert.Equal(t, []time.Duration{testDelay}, f.clock.Waits())
	assert.False(t, f.orch.Animating())
	f.remote.AssertExpectations(t)
}

func TestDrawEventOrder(t *testing.T) {
	f := newFixture(t, 10)
	f.remote.On("Draw", mock.Anything, "p1", domain.DrawSingle, 1).
		Return(&domain.DrawResult{TicketsAfter: 9, Results: outcomes("Aria")}, nil)

	f.orch.Draw(context.Background(), domain.DrawSingle, 1)

	events := f.rec.Events()
	require.Len(t, events, 7)
	assert.Equal(t, present.ErrorCleared{}, events[0])
	assert.Equal(t, present.PhaseChanged{From: "IDLE", To: "REQUESTING"}, events[1])
	assert.Equal(t, present.DrawStarted{Type: domain.DrawSingle}, events[2])
	assert.Equal(t, present.PhaseChanged{From: "REQUESTING", To: "REVEALING"}, events[3])
	assert.Equal(t, present.TicketsUpdated{Tickets: 9}, events[4])
	assert.IsType(t, present.DrawRevealed{}, events[5])
	assert.Equal(t, present.PhaseChanged{From: "REVEALING", To: "IDLE"}, events[6])
}

func TestServerBalanceIsAuthoritative(t *testing.T) {
	f := newFixture(t, 10)
	// The service granted a bonus; the local cost must not be applied on top.
	f.remote.On("Draw", mock.Anything, "p1", domain.DrawSingle, 1).
		Return(&domain.DrawResult{TicketsAfter: 42, Results: outcomes("Aria")}, nil)

	res := f.orch.Draw(context.Background(), domain.DrawSingle, 1)

	require.Equal(t, Revealed, res.Outcome)
	assert.Equal(t, 42, f.tickets(t))
	assert.Contains(t, f.rec.Events(), present.TicketsUpdated{Tickets: 42})
}

func TestInsufficientTicketsNeverCallsRemote(t *testing.T) {
	tests := []struct {
		name    string
		tickets int
		typ     domain.DrawType
	}{
		{"single with zero", 0, domain.DrawSingle},
		{"ten with nine", 9, domain.DrawTen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.tickets)

			res := f.orch.Draw(context.Background(), tt.typ, tt.typ.Cost())

			assert.Equal(t, Refused, res.Outcome)
			assert.ErrorIs(t, res.Err, ErrInsufficientTickets)
			assert.Equal(t, []string{MsgInsufficientTickets}, errorMessages(f.rec.Events()))
			assert.Empty(t, f.rec.Phases())
			assert.Equal(t, tt.tickets, f.tickets(t))
			assert.False(t, f.orch.Animating())
			f.remote.AssertNotCalled(t, "Draw", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDrawWithoutSession(t *testing.T) {
	rec := &present.Recorder{}
	remote := &mockRemote{}
	o := New(session.NewStore(), remote, rec, Options{Clock: &instantClock{}})

	res := o.Draw(context.Background(), domain.DrawSingle, 1)

	assert.Equal(t, Refused, res.Outcome)
	var se *session.StateError
	assert.True(t, errors.As(res.Err, &se))
	assert.Equal(t, []string{MsgNoSession}, errorMessages(rec.Events()))
	remote.AssertNotCalled(t, "Draw", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUnknownDrawType(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.orch.Begin(domain.DrawType("hundred"), 100)

	require.Error(t, err)
	assert.Empty(t, f.rec.Events())
	assert.Equal(t, Idle, f.orch.Phase())
}

func TestDropsWhileRequesting(t *testing.T) {
	f := newFixture(t, 10)
	started := make(chan struct{})
	release := make(chan struct{})
	f.remote.On("Draw", mock.Anything, "p1", domain.DrawSingle, 1).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&domain.DrawResult{TicketsAfter: 9, Results: outcomes("Aria")}, nil).Once()

	done := make(chan Result, 1)
	go func() { done <- f.orch.Draw(context.Background(), domain.DrawSingle, 1) }()
	<-started

	assert.Equal(t, Requesting, f.orch.Phase())
	for i := 0; i < 5; i++ {
		res := f.orch.Draw(context.Background(), domain.DrawSingle, 1)
		assert.Equal(t, Dropped, res.Outcome)
		assert.ErrorIs(t, res.Err, ErrBusy)
	}

	close(release)
	res := <-done
	assert.Equal(t, Revealed, res.Outcome)
	assert.Equal(t, 9, f.tickets(t))
	f.remote.AssertNumberOfCalls(t, "Draw", 1)
}

func TestDropsWhileRevealing(t *testing.T) {
	store := session.NewStore()
	require.NoError(t, store.Initialize("p1", 10, nil))
	remote := &mockRemote{}
	remote.On("Draw", mock.Anything, "p1", domain.DrawTen, 10).
		Return(&domain.DrawResult{TicketsAfter: 0, Results: outcomes("A", "A", "B", "B", "B", "C", "C", "C", "C", "D")}, nil).Once()
	clock := newGateClock()
	o := New(store, remote, nil, Options{RevealDelay: testDelay, Clock: clock})

	done := make(chan Result, 1)
	go func() { done <- o.Draw(context.Background(), domain.DrawTen, 10) }()

	assert.Equal(t, testDelay, <-clock.called)
	assert.Equal(t, Revealing, o.Phase())
	assert.Equal(t, Dropped, o.Draw(context.Background(), domain.DrawSingle, 1).Outcome)

	// Balance is applied only at reveal.
	tickets, err := store.CurrentTickets()
	require.NoError(t, err)
	assert.Equal(t, 10, tickets)

	close(clock.release)
	res := <-done
	assert.Equal(t, Revealed, res.Outcome)
	assert.Equal(t, 10, summary.Total(res.Summary))
	remote.AssertNumberOfCalls(t, "Draw", 1)
}

func TestDrawFailures(t *testing.T) {
	tests := []struct {
		name    string
		typ     domain.DrawType
		res     *domain.DrawResult
		err     error
		wantMsg string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "business error",
			typ:     domain.DrawSingle,
			err:     fmt.Errorf("client.Draw: %w", &client.APIError{StatusCode: 400, Message: "user banned"}),
			wantMsg: "user banned",
			check: func(t *testing.T, err error) {
				var re *RemoteError
				require.True(t, errors.As(err, &re))
				assert.Equal(t, "user banned", re.Message)
			},
		},
		{
			name:    "business error without message",
			typ:     domain.DrawSingle,
			err:     &client.APIError{StatusCode: 400},
			wantMsg: MsgSummonFailed,
			check: func(t *testing.T, err error) {
				var re *RemoteError
				assert.True(t, errors.As(err, &re))
			},
		},
		{
			name:    "transport error",
			typ:     domain.DrawSingle,
			err:     errors.New("dial tcp: connection refused"),
			wantMsg: MsgConnectionLost,
			check: func(t *testing.T, err error) {
				var te *TransportError
				assert.True(t, errors.As(err, &te))
			},
		},
		{
			name:    "http error",
			typ:     domain.DrawTen,
			err:     &client.HTTPError{StatusCode: 502, Message: "bad gateway"},
			wantMsg: MsgConnectionLost,
			check: func(t *testing.T, err error) {
				assert.True(t, client.IsStatus(err, 502))
			},
		},
		{
			name:    "malformed response",
			typ:     domain.DrawSingle,
			err:     fmt.Errorf("client.Draw: %w: missing data", client.ErrMalformedResponse),
			wantMsg: MsgSummonFailed,
			check: func(t *testing.T, err error) {
				var pm *ProtocolMismatchError
				assert.True(t, errors.As(err, &pm))
			},
		},
		{
			name:    "short batch",
			typ:     domain.DrawTen,
			res:     &domain.DrawResult{TicketsAfter: 0, Results: outcomes("A", "B", "C", "D", "E", "F", "G", "H", "I")},
			wantMsg: MsgSummonFailed,
			check: func(t *testing.T, err error) {
				var pm *ProtocolMismatchError
				require.True(t, errors.As(err, &pm))
				assert.Contains(t, pm.Reason, "expected 10 results, got 9")
			},
		},
		{
			name:    "empty response",
			typ:     domain.DrawSingle,
			wantMsg: MsgSummonFailed,
			check: func(t *testing.T, err error) {
				var pm *ProtocolMismatchError
				assert.True(t, errors.As(err, &pm))
			},
		},
		{
			name:    "negative balance",
			typ:     domain.DrawSingle,
			res:     &domain.DrawResult{TicketsAfter: -1, Results: outcomes("A")},
			wantMsg: MsgSummonFailed,
			check: func(t *testing.T, err error) {
				var pm *ProtocolMismatchError
				assert.True(t, errors.As(err, &pm))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 10)
			f.remote.On("Draw", mock.Anything, "p1", tt.typ, tt.typ.Cost()).Return(tt.res, tt.err)

			res := f.orch.Draw(context.Background(), tt.typ, tt.typ.Cost())

			assert.Equal(t, Failed, res.Outcome)
			require.Error(t, res.Err)
			tt.check(t, res.Err)
			assert.Equal(t, []string{tt.wantMsg}, errorMessages(f.rec.Events()))
			assert.Equal(t, []string{"IDLE", "REQUESTING", "IDLE"}, f.rec.Phases())
			assert.Equal(t, 10, f.tickets(t))
			assert.Empty(t, f.clock.Waits(), "failures skip the reveal delay")
			assert.False(t, f.orch.Animating())
		})
	}
}

func TestRemotePanicEndsCycle(t *testing.T) {
	store := session.NewStore()
	require.NoError(t, store.Initialize("p1", 10, nil))
	rec := &present.Recorder{}
	remote := remoteFunc(func(context.Context, string, domain.DrawType, int) (*domain.DrawResult, error) {
		panic("socket exploded")
	})
	o := New(store, remote, rec, Options{Clock: &instantClock{}})

	res := o.Draw(context.Background(), domain.DrawSingle, 1)

	assert.Equal(t, Failed, res.Outcome)
	var te *TransportError
	assert.True(t, errors.As(res.Err, &te))
	assert.Equal(t, Idle, o.Phase())
	assert.Equal(t, []string{MsgConnectionLost}, errorMessages(rec.Events()))
}

func TestRecoversAfterFailure(t *testing.T) {
	f := newFixture(t, 10)
	f.remote.On("Draw", mock.Anything, "p1", domain.DrawSingle, 1).
		Return(nil, errors.New("timeout")).Once()
	f.remote.On("Draw", mock.Anything, "p1", domain.DrawSingle, 1).
		Return(&domain.DrawResult{TicketsAfter: 9, Results: outcomes("Aria")}, nil).Once()

	assert.Equal(t, Failed, f.orch.Draw(context.Background(), domain.DrawSingle, 1).Outcome)
	assert.Equal(t, Revealed, f.orch.Draw(context.Background(), domain.DrawSingle, 1).Outcome)
	assert.Equal(t, 9, f.tickets(t))
}

func TestStepwiseCycle(t *testing.T) {
	f := newFixture(t, 10)
	f.remote.On("Draw", mock.Anything, "p1", domain.DrawSingle, 1).
		Return(&domain.DrawResult{TicketsAfter: 9, Results: outcomes("Aria")}, nil)

	c, err := f.orch.Begin(domain.DrawSingle, 1)
	require.NoError(t, err)
	assert.Equal(t, "p1", c.UserID)
	assert.Equal(t, f.store.SessionID(), c.SessionID)
	assert.True(t, f.orch.Animating())

	_, err = f.orch.Begin(domain.DrawSingle, 1)
	assert.ErrorIs(t, err, ErrBusy)

	_, err = f.orch.Reveal(c, &domain.DrawResult{})
	assert.ErrorIs(t, err, ErrStaleCycle, "reveal before resolve")

	res, err := f.orch.Request(context.Background(), c)
	require.NoError(t, err)
	require.NoError(t, f.orch.Resolve(c, res, nil))
	assert.Equal(t, Revealing, f.orch.Phase())

	_, err = f.orch.Reveal(c, res)
	require.NoError(t, err)
	assert.Equal(t, Idle, f.orch.Phase())

	assert.ErrorIs(t, f.orch.Resolve(c, res, nil), ErrStaleCycle, "cycle already finished")
	_, err = f.orch.Reveal(c, res)
	assert.ErrorIs(t, err, ErrStaleCycle)
}

func TestRevealWithoutResultEndsCycle(t *testing.T) {
	f := newFixture(t, 10)
	f.remote.On("Draw", mock.Anything, "p1", domain.DrawSingle, 1).
		Return(&domain.DrawResult{TicketsAfter: 9, Results: outcomes("Aria")}, nil)

	c, err := f.orch.Begin(domain.DrawSingle, 1)
	require.NoError(t, err)
	res, err := f.orch.Request(context.Background(), c)
	require.NoError(t, f.orch.Resolve(c, res, err))

	_, err = f.orch.Reveal(c, nil)
	var pm *ProtocolMismatchError
	require.ErrorAs(t, err, &pm)

	phase := make(chan Phase, 1)
	go func() { phase <- f.orch.Phase() }()
	select {
	case p := <-phase:
		assert.Equal(t, Idle, p)
	case <-time.After(time.Second):
		t.Fatal("Phase() blocked after a failed reveal")
	}

	assert.Equal(t, 10, f.tickets(t), "balance untouched")
	assert.Equal(t, []string{MsgSummonFailed}, errorMessages(f.rec.Events()))
	assert.Equal(t, []string{"IDLE", "REQUESTING", "REVEALING", "IDLE"}, f.rec.Phases())

	res2, err := f.orch.Request(context.Background(), mustBegin(t, f.orch))
	require.NoError(t, err)
	assert.Len(t, res2.Results, 1, "orchestrator usable again")
}

func mustBegin(t *testing.T, o *Orchestrator) *Cycle {
	t.Helper()
	c, err := o.Begin(domain.DrawSingle, 1)
	require.NoError(t, err)
	return c
}

func TestResolveForeignCycle(t *testing.T) {
	f := newFixture(t, 10)
	c, err := f.orch.Begin(domain.DrawSingle, 1)
	require.NoError(t, err)

	other := *c
	assert.ErrorIs(t, f.orch.Resolve(&other, nil, errors.New("x")), ErrStaleCycle)
	assert.Equal(t, Requesting, f.orch.Phase())
}

func TestTenDrawSession(t *testing.T) {
	f := newFixture(t, 10)
	batch := outcomes("Aria", "Bram", "Bram", "Cid", "Bram", "Aria", "Bram", "Cid", "Bram", "Dax")
	f.remote.On("Draw", mock.Anything, "p1", domain.DrawTen, 10).
		Return(&domain.DrawResult{TicketsAfter: 0, Results: batch}, nil)

	res := f.orch.Draw(context.Background(), domain.DrawTen, domain.DrawTen.Cost())

	require.Equal(t, Revealed, res.Outcome)
	assert.Equal(t, 0, f.tickets(t))
	assert.Equal(t, []domain.SummaryEntry{
		{Name: "Bram", Count: 5},
		{Name: "Aria", Count: 2},
		{Name: "Cid", Count: 2},
		{Name: "Dax", Count: 1},
	}, res.Summary)
	assert.Equal(t, 10, summary.Total(res.Summary))

	var revealed *present.DrawRevealed
	for _, e := range f.rec.Events() {
		if dr, ok := e.(present.DrawRevealed); ok {
			revealed = &dr
		}
	}
	require.NotNil(t, revealed)
	assert.Len(t, revealed.Batch, 10)
	assert.Equal(t, res.Summary, revealed.Summary)

	// Empty balance now refuses locally.
	assert.Equal(t, Refused, f.orch.Draw(context.Background(), domain.DrawSingle, 1).Outcome)
	f.remote.AssertNumberOfCalls(t, "Draw", 1)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "IDLE", Idle.String())
	assert.Equal(t, "REQUESTING", Requesting.String())
	assert.Equal(t, "REVEALING", Revealing.String())
	assert.Equal(t, "Phase(7)", Phase(7).String())
}

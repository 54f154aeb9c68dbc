package tui

import (
	"github.com/naveenspark/gacha/internal/draw"
	"github.com/naveenspark/gacha/internal/present"
	"github.com/naveenspark/gacha/pkg/domain"
)

// board is the presentation state fed by core events. App holds it by pointer,
// so events emitted while Update runs land in the model Update returns.
type board struct {
	screen   string
	phase    string
	tickets  int
	drawType domain.DrawType
	batch    []domain.DrawOutcome
	summary  []domain.SummaryEntry
	revealed bool
	errMsg   string
	errSeq   int
}

func newBoard() *board {
	return &board{phase: draw.Idle.String()}
}

func (b *board) Emit(e present.Event) {
	switch e := e.(type) {
	case present.ScreenChanged:
		b.screen = e.To
	case present.PhaseChanged:
		b.phase = e.To
		if e.To == draw.Requesting.String() {
			b.clearResults()
		}
	case present.TicketsUpdated:
		b.tickets = e.Tickets
	case present.DrawStarted:
		b.drawType = e.Type
	case present.DrawRevealed:
		b.batch = e.Batch
		b.summary = e.Summary
		b.revealed = true
	case present.ErrorShown:
		b.errMsg = e.Message
		b.errSeq++
	case present.ErrorCleared:
		b.errMsg = ""
	}
}

// summoning reports whether the summon animation is showing.
func (b *board) summoning() bool {
	return b.phase != draw.Idle.String() && !b.revealed
}

func (b *board) clearResults() {
	b.batch = nil
	b.summary = nil
	b.revealed = false
}

// reset drops everything but the error sequence, so pending dismiss
// timers from the old session stay stale.
func (b *board) reset() {
	*b = board{phase: draw.Idle.String(), errSeq: b.errSeq}
}

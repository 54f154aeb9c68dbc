package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/naveenspark/gacha/internal/export"
	"github.com/naveenspark/gacha/internal/present"
	"github.com/naveenspark/gacha/pkg/domain"
)

// exportDoneMsg carries the outcome of an export.
type exportDoneMsg struct {
	art export.Artifact
	err error
}

type resultsModel struct {
	open      bool
	snap      present.Snapshot
	cycleID   uuid.UUID
	openedAt  int // shimmer frame at reveal, drives the border animation
	exporting bool
	notice    string
	noticeErr bool
}

func openResults(snap present.Snapshot, cycleID uuid.UUID, frame int) resultsModel {
	return resultsModel{open: true, snap: snap, cycleID: cycleID, openedAt: frame}
}

func (m resultsModel) export(e *export.Exporter) tea.Cmd {
	snap, id := m.snap, m.cycleID
	return func() tea.Msg {
		art, err := e.Export(context.Background(), id, snap)
		return exportDoneMsg{art: art, err: err}
	}
}

func (m resultsModel) done(msg exportDoneMsg) resultsModel {
	m.exporting = false
	if msg.err != nil {
		m.notice = "EXPORT FAILED. TRY A SCREENSHOT"
		m.noticeErr = true
		return m
	}
	m.noticeErr = false
	m.notice = "saved " + msg.art.Path
	if msg.art.Shared {
		m.notice += ", copied to clipboard"
	}
	return m
}

// bestRarity is the highest tier in the batch, used for the panel color.
func bestRarity(cards []present.Card) domain.Rarity {
	best := domain.RarityCommon
	for _, c := range cards {
		if c.Rarity.Rank() > best.Rank() {
			best = c.Rarity
		}
	}
	return best
}

func (m resultsModel) View(width, frame int) string {
	s := m.snap
	color := present.RarityHex(bestRarity(s.Cards))

	anim := frame - m.openedAt + 1
	if anim > 20 {
		anim = 0
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(cardBorder("top", goldStyle.Render(s.Title), color, anim, width) + "\n")
	bar := metaStyle.Render(" │ ")
	for _, c := range s.Cards {
		b.WriteString(bar + metaStyle.Render(fmt.Sprintf("%2d ", c.Index+1)) + rarityBadge(c.Rarity) + " " + selectedStyle.Render(c.Name) + "\n")
	}
	if s.ShowSummary() {
		b.WriteString(bar + "\n")
		b.WriteString(bar + goldStyle.Render(s.SummaryTitle) + "\n")
		for _, l := range s.SummaryLines {
			b.WriteString(bar + "  " + normalStyle.Render(l) + "\n")
		}
	}
	b.WriteString(cardBorder("bottom", "", color, anim, width) + "\n\n")

	share := buttonStyle.Render("[s] SHARE")
	if m.exporting {
		share = disabledButtonStyle.Render("GENERATING...")
	}
	b.WriteString(centerLine(buttonStyle.Render("[enter] CLOSE")+"    "+share, width) + "\n")

	if m.notice != "" {
		style := noticeStyle
		if m.noticeErr {
			style = errorStyle
		}
		b.WriteString("\n" + centerLine(style.Render(m.notice), width) + "\n")
	}
	return b.String()
}

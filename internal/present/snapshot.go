package present

import (
	"fmt"

	"github.com/naveenspark/gacha/pkg/domain"
)

// Card is one rendered result.
type Card struct {
	Index    int
	CharID   string
	Name     string
	Rarity   domain.Rarity
	Class    string // lower-case rarity, used as a style key
	ImageURL string // never empty; placeholder when the outcome had none
}

// Snapshot is the presentation of a revealed batch. The live results view and
// the exported image are both rendered from it.
type Snapshot struct {
	Title        string
	UserID       string
	Tickets      int
	Cards        []Card
	SummaryTitle string
	SummaryLines []string // empty when the summary panel is hidden
	Caption      string
}

// ShowSummary reports whether the summary panel is rendered.
func (s Snapshot) ShowSummary() bool {
	return len(s.SummaryLines) > 0
}

// BuildSnapshot assembles the presentation of a revealed batch.
func BuildSnapshot(userID string, tickets int, batch []domain.DrawOutcome, summary []domain.SummaryEntry) Snapshot {
	s := Snapshot{
		Title:   "SUMMON RESULTS",
		UserID:  userID,
		Tickets: tickets,
		Caption: "Look what I just pulled!",
	}
	s.Cards = make([]Card, len(batch))
	for i, o := range batch {
		s.Cards[i] = Card{
			Index:    i,
			CharID:   o.CharID,
			Name:     o.Name,
			Rarity:   domain.ParseRarity(string(o.Rarity)),
			Class:    o.Rarity.Class(),
			ImageURL: domain.PlaceholderImage(o.ImageURL, o.CharID),
		}
	}
	if len(batch) > 1 && len(summary) > 0 {
		s.SummaryTitle = "DRAW SUMMARY"
		s.SummaryLines = make([]string, len(summary))
		for i, e := range summary {
			s.SummaryLines[i] = fmt.Sprintf("%s x%d", e.Name, e.Count)
		}
	}
	return s
}

// Lines is the plain-text rendition of the snapshot, used for the clipboard
// and the headless printer.
func (s Snapshot) Lines() []string {
	lines := []string{s.Title, fmt.Sprintf("%s  tickets: %d", s.UserID, s.Tickets), ""}
	for _, c := range s.Cards {
		lines = append(lines, fmt.Sprintf("%2d. [%s] %s", c.Index+1, c.Rarity, c.Name))
	}
	if s.ShowSummary() {
		lines = append(lines, "", s.SummaryTitle)
		for _, l := range s.SummaryLines {
			lines = append(lines, "  "+l)
		}
	}
	return lines
}

// RarityHex is the accent color of a rarity tier, shared by the terminal
// styles and the exported image.
func RarityHex(r domain.Rarity) string {
	switch r {
	case domain.RarityLegendary:
		return "#F5C542"
	case domain.RarityEpic:
		return "#B46CF0"
	case domain.RarityRare:
		return "#4FA3F7"
	}
	return "#9CA3AF"
}

package domain

import "fmt"

// DrawType selects a single or ten-draw batch.
type DrawType string

const (
	DrawSingle DrawType = "single"
	DrawTen    DrawType = "ten"
)

// ParseDrawType validates a draw type string.
func ParseDrawType(s string) (DrawType, error) {
	switch DrawType(s) {
	case DrawSingle, DrawTen:
		return DrawType(s), nil
	}
	return "", fmt.Errorf("unknown draw type %q", s)
}

// Cost is the ticket price the client shows and sends for this draw type.
func (t DrawType) Cost() int {
	if t == DrawTen {
		return 10
	}
	return 1
}

// Count is the number of outcomes a successful draw must return.
func (t DrawType) Count() int {
	if t == DrawTen {
		return 10
	}
	return 1
}

// DrawOutcome is one drawn character instance.
type DrawOutcome struct {
	CharID   string `json:"charId"`
	Name     string `json:"name"`
	Rarity   Rarity `json:"rarity"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// InitResult is the payload of a successful initUser call.
type InitResult struct {
	UserID        string               `json:"userId"`
	Tickets       int                  `json:"tickets"`
	CharacterPool []CharacterPoolEntry `json:"characterPool"`
}

// DrawResult is the payload of a successful draw call.
// TicketsAfter is authoritative; the client never computes a balance itself.
type DrawResult struct {
	TicketsAfter int           `json:"ticketsAfter"`
	Results      []DrawOutcome `json:"results"`
}

// SummaryEntry is an aggregated count of one character name in a batch.
type SummaryEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

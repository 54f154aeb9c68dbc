package tui

import (
	"fmt"
	"strings"

	"github.com/naveenspark/gacha/pkg/domain"
)

// lobbyView renders the player's balance, the character pool and the draw buttons.
func lobbyView(userID string, tickets int, pool []domain.CharacterPoolEntry, errMsg string, width, height int) string {
	var b strings.Builder

	b.WriteString("\n")
	status := dimStyle.Render("player ") + selectedStyle.Render(userID) +
		metaStyle.Render("  .  ") +
		dimStyle.Render("tickets ") + accentStyle.Render(fmt.Sprintf("%d", tickets))
	b.WriteString(centerLine(status, width) + "\n\n")

	b.WriteString(" " + metaStyle.Render("CHARACTER POOL") + "\n")
	// Leave room for the buttons and the error line.
	maxRows := height - 8
	if maxRows < 3 {
		maxRows = 3
	}
	for i, e := range pool {
		if i == maxRows {
			b.WriteString("   " + metaStyle.Render(fmt.Sprintf("+%d more", len(pool)-i)) + "\n")
			break
		}
		b.WriteString("   " + rarityBadge(e.Rarity) + " " + normalStyle.Render(fmt.Sprintf("%-18s", e.Name)) + " " + metaStyle.Render(poolWeight(e.Weight)) + "\n")
	}
	if len(pool) == 0 {
		b.WriteString("   " + dimStyle.Render("pool is empty") + "\n")
	}

	b.WriteString("\n")
	single := drawButton("1", "SUMMON x1", domain.DrawSingle, tickets)
	ten := drawButton("0", "SUMMON x10", domain.DrawTen, tickets)
	b.WriteString(centerLine(single+"    "+ten, width) + "\n")

	if errMsg != "" {
		b.WriteString("\n" + centerLine(errorStyle.Render(errMsg), width) + "\n")
	}
	return b.String()
}

// drawButton dims a button the balance cannot cover. Pressing it still goes
// through the draw guards so the player sees why.
func drawButton(key, label string, t domain.DrawType, tickets int) string {
	text := fmt.Sprintf("[%s] %s  %d", key, label, t.Cost())
	if tickets < t.Cost() {
		return disabledButtonStyle.Render(text)
	}
	return buttonStyle.Render(text)
}

// summoningView is the in-flight animation.
func summoningView(t domain.DrawType, width, frame int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centerLine(renderShimmer("SUMMONING", frame, "#2a1a4a", "#b46cf0"), width) + "\n\n")
	label := "x1"
	if t == domain.DrawTen {
		label = "x10"
	}
	b.WriteString(centerLine(dimStyle.Render(label), width) + "\n")
	return b.String()
}

// poolWeight formats the service's display probability, already in percent.
func poolWeight(w float64) string {
	return fmt.Sprintf("%g%%", w)
}

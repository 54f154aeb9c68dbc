package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/gacha/internal/export"
	"github.com/naveenspark/gacha/internal/present"
	"github.com/naveenspark/gacha/pkg/domain"
)

var summonQuotes = [...]string{
	"The circle hums. Something answers.",
	"Ten tickets in, and the hall holds its breath.",
	"The seals crack one by one.",
	"Somewhere, a legendary is pretending not to notice you.",
	"The light bends. That is usually a good sign.",
	"Fortune favors the ones who press the button.",
}

var (
	goldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5c542")).Bold(true)
	descStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cmdStyle  = lipgloss.NewStyle().Bold(true)
)

func printHelp(out io.Writer) {
	title := goldStyle.Render("G A C H A")
	quote := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render(`"Spend a ticket. Tempt fate."`)

	commands := []struct{ cmd, desc string }{
		{"gacha", "Open the summoning hall (interactive TUI)"},
		{"gacha draw single", "Draw once without the TUI"},
		{"gacha draw ten", "Draw ten without the TUI"},
		{"  --user ID", "User id (default $GACHA_USER)"},
		{"  --export", "Save the result image, copy it to the clipboard"},
		{"gacha version", "Show version"},
		{"gacha help", "You are here"},
	}

	fmt.Fprintf(out, "\n  %s\n\n  %s\n\n  Commands:\n", title, quote)
	for _, c := range commands {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(out, "\n  %s\n\n", descStyle.Render("Settings: GACHA_API_URL, GACHA_USER, ~/.gacha/config.yaml"))
}

func printSummoning(out io.Writer, t domain.DrawType) {
	quote := summonQuotes[rand.IntN(len(summonQuotes))]
	fmt.Fprintf(out, "\n  %s  %s\n", goldStyle.Render(fmt.Sprintf("SUMMONING x%d", t.Count())), descStyle.Italic(true).Render(quote))
}

func printSnapshot(out io.Writer, s present.Snapshot) {
	fmt.Fprintf(out, "\n  %s  %s\n\n", goldStyle.Render(s.Title), descStyle.Render(fmt.Sprintf("%s . %d tickets left", s.UserID, s.Tickets)))
	for _, c := range s.Cards {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(present.RarityHex(c.Rarity))).Bold(true)
		fmt.Fprintf(out, "  %2d  %s %s\n", c.Index+1, style.Render(fmt.Sprintf("%-11s", "["+string(c.Rarity)+"]")), c.Name)
	}
	if s.ShowSummary() {
		fmt.Fprintf(out, "\n  %s\n", goldStyle.Render(s.SummaryTitle))
		for _, l := range s.SummaryLines {
			fmt.Fprintf(out, "    %s\n", l)
		}
	}
	fmt.Fprintln(out)
}

func printArtifact(out io.Writer, art export.Artifact) {
	line := "saved " + art.Path
	if art.Shared {
		line += " (copied to clipboard)"
	}
	fmt.Fprintf(out, "  %s\n\n", descStyle.Render(line))
}

package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/gacha/internal/present"
	"github.com/naveenspark/gacha/pkg/domain"
)

// Shimmer animation for the logo and the summoning circle.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmer renders text as a flowing wave of light between two colors.
// Letters are spaced apart and rendered without a background box.
func renderShimmer(text string, frame int, deep, bright string) string {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return ""
	}
	r0, g0, b0 := hexToRGB(deep)
	r1, g1, b1 := hexToRGB(bright)

	var out string
	t := float64(frame)
	for i, ch := range runes {
		x := 0.0
		if n > 1 {
			x = float64(i) / float64(n-1)
		}

		// One smooth wave advancing through the text, gently modulated.
		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0
		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		// Slow breathing tide
		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18
		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		r := clampByte(float64(r0) + b*float64(r1-r0))
		g := clampByte(float64(g0) + b*float64(g1-g0))
		bl := clampByte(float64(b0) + b*float64(b1-b0))
		c := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		out += lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c)).Render(string(ch))
		if i < n-1 {
			out += "  "
		}
	}
	return out
}

// renderLogo is the header logo: deep amber (#3a2a0a) to bright gold (#f5c542).
func renderLogo(frame int) string {
	return renderShimmer("GACHA", frame, "#3a2a0a", "#f5c542")
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f5c542"))

	goldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060")).
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0d0d12")).
			Background(lipgloss.Color("#f5c542")).
			Bold(true).
			Padding(0, 1)

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#8890a0")).
				Background(lipgloss.Color("#1e1e2a")).
				Padding(0, 1)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f5c542")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#e06060")).
			Padding(1, 3)
)

// RarityStyle returns a bold style in the rarity's accent color.
func RarityStyle(r domain.Rarity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(present.RarityHex(r))).Bold(true)
}

// rarityBadge renders "[LEGENDARY]" padded to a fixed width.
func rarityBadge(r domain.Rarity) string {
	return RarityStyle(r).Render(fmt.Sprintf("%-11s", "["+string(r)+"]"))
}

// cardBorder renders animated top or bottom border for result panels.
// pos: "top" or "bottom". label: optional header text (top only).
// baseColor: hex color. frame: 0=static, 1-20=animating. width: terminal width.
func cardBorder(pos, label, baseColor string, frame, width int) string {
	w := width - 4
	if w < 10 {
		w = 10
	}

	if pos == "bottom" {
		border := " └" + strings.Repeat("─", w)
		if frame > 0 && frame <= 20 {
			return animBorderLine(border, baseColor, frame, w)
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(baseColor)).Render(border)
	}

	if label == "" {
		header := " ┌" + strings.Repeat("─", w)
		if frame > 0 && frame <= 20 {
			return animBorderLine(header, baseColor, frame, w)
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(baseColor)).Render(header)
	}

	prefix := " ┌ " + label + " "
	remaining := w - lipgloss.Width(prefix) + 2 // +2 for " ┌"
	if remaining < 1 {
		remaining = 1
	}
	if frame > 0 && frame <= 20 {
		return prefix + animBorderDashes(remaining, baseColor, frame)
	}
	return prefix + lipgloss.NewStyle().Foreground(lipgloss.Color(baseColor)).Render(strings.Repeat("─", remaining))
}

// animBorderLine renders a full border line with sine-wave brightness animation.
func animBorderLine(line, baseColor string, frame, width int) string {
	var out string
	for i, ch := range line {
		out += lipgloss.NewStyle().Foreground(lipgloss.Color(waveColor(baseColor, frame, i, width))).Render(string(ch))
	}
	return out
}

// animBorderDashes renders N dashes with sine-wave brightness.
func animBorderDashes(n int, baseColor string, frame int) string {
	var out string
	for i := 0; i < n; i++ {
		out += lipgloss.NewStyle().Foreground(lipgloss.Color(waveColor(baseColor, frame, i, n))).Render("─")
	}
	return out
}

// waveColor dims baseColor to 40% and lifts it along a traveling sine wave.
func waveColor(baseColor string, frame, i, width int) string {
	r0, g0, b0 := hexToRGB(baseColor)
	rD, gD, bD := int(float64(r0)*0.4), int(float64(g0)*0.4), int(float64(b0)*0.4)

	x := float64(i) / float64(max(width, 1))
	phase := float64(frame)*0.3 - x*4.0
	b := math.Sin(phase)*0.5 + 0.5
	b = math.Pow(b, 1.5)
	r := clampByte(float64(rD) + b*float64(r0-rD))
	g := clampByte(float64(gD) + b*float64(g0-gD))
	bl := clampByte(float64(bD) + b*float64(b0-bD))
	return fmt.Sprintf("#%02X%02X%02X", r, g, bl)
}

// hexToRGB parses a hex color string (#RRGGBB) into r,g,b ints.
func hexToRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 128, 128, 128
	}
	var r, g, b int
	_, _ = fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b) //nolint:errcheck
	return r, g, b
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// centerLine pads s so it sits in the middle of width columns.
func centerLine(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

// helpView renders the key reference overlay.
func helpView() string {
	title := goldStyle.Render("G A C H A")
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	keys := []struct{ key, desc string }{
		{"enter", "Start session (login screen)"},
		{"1", "Summon x1 (1 ticket)"},
		{"0 / t", "Summon x10 (10 tickets)"},
		{"s", "Save and share results"},
		{"enter / esc", "Close results"},
		{"x", "Log out"},
		{"h", "Toggle this help"},
		{"q / ctrl+c", "Quit"},
	}
	commands := []struct{ cmd, desc string }{
		{"gacha", "Open the summoning hall (interactive TUI)"},
		{"gacha draw single|ten", "Draw once without the TUI"},
		{"gacha version", "Show version"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", title)
	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-14s", k.key)), descStyle.Render(k.desc))
	}
	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", c.cmd)), descStyle.Render(c.desc))
	}
	return b.String()
}

package tui

import (
	"strings"
	"testing"
)

func TestEditRuneAddCharacters(t *testing.T) {
	tests := []struct {
		name  string
		start string
		key   string
		want  string
	}{
		{"append to empty", "", "p", "p"},
		{"append letter", "playe", "r", "player"},
		{"append digit", "p", "1", "p1"},
		{"append dash", "p", "-", "p-"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editRune(tc.start, tc.key)
			if got != tc.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tc.start, tc.key, got, tc.want)
			}
		})
	}
}

func TestEditRuneBackspace(t *testing.T) {
	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"single char", "a", ""},
		{"longer string", "hello", "hell"},
		{"empty does nothing", "", ""},
		{"multi-byte rune", "hellé", "hell"},
		{"emoji", "p1\U0001f600", "p1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editRune(tc.start, "backspace")
			if got != tc.want {
				t.Errorf("editRune(%q, backspace) = %q, want %q", tc.start, got, tc.want)
			}
		})
	}
}

func TestEditRuneIgnoresNamedKeys(t *testing.T) {
	for _, key := range []string{"enter", "esc", "up", "down", "ctrl+c", "tab", "shift+enter", "pgup"} {
		t.Run(key, func(t *testing.T) {
			if got := editRune("p1", key); got != "p1" {
				t.Errorf("editRune(p1, %q) = %q, want unchanged", key, got)
			}
		})
	}
}

func TestEditRuneMaxInputLen(t *testing.T) {
	atLimit := strings.Repeat("a", maxInputLen)
	if got := editRune(atLimit, "b"); got != atLimit {
		t.Errorf("at limit accepted a rune: %d runes", len([]rune(got)))
	}
	below := strings.Repeat("a", maxInputLen-1)
	if got := editRune(below, "b"); got != below+"b" {
		t.Errorf("below limit rejected a rune")
	}
	if got := editRune(atLimit, "backspace"); len(got) != maxInputLen-1 {
		t.Errorf("backspace at limit: len = %d", len(got))
	}
}

func TestTruncateToHeight(t *testing.T) {
	input := "line1\nline2\nline3\nline4\nline5\n"

	got := truncateToHeight(input, 3)
	if strings.Count(got, "\n") > 3 || strings.Contains(got, "line4") {
		t.Errorf("truncateToHeight(5 lines, 3) = %q", got)
	}
	if !strings.Contains(got, "line3") {
		t.Errorf("truncateToHeight dropped line3: %q", got)
	}
	if got := truncateToHeight(input, 10); got != input {
		t.Errorf("within limit: got %q", got)
	}
	if got := truncateToHeight(input, 0); got != input {
		t.Errorf("maxLines=0: got %q", got)
	}
	if got := truncateToHeight(input, -1); got != input {
		t.Errorf("maxLines=-1: got %q", got)
	}
}

func TestRenderInput(t *testing.T) {
	if got := renderInput("", "enter a user id", false, 0); !strings.Contains(got, "enter a user id") {
		t.Errorf("empty input should show placeholder: %q", got)
	}
	if got := renderInput("p1", "enter a user id", true, 0); !strings.Contains(got, "p1") || strings.Contains(got, "enter a user id") {
		t.Errorf("typed input should replace placeholder: %q", got)
	}
}

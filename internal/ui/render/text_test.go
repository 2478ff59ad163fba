package render

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Blue in Green", "Blue in Green"},
		{"keeps tab", "a\tb", "a\tb"},
		{"drops newline", "line\nbreak", "linebreak"},
		{"drops C1 control", "a\u0085b", "ab"},
		{"invalid utf8", "caf\xe9", "caf"},
		{"nbsp", "a\u00a0b", "a b"},
		{"unicode kept", "Björk – 日本", "Björk – 日本"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"truncation with ellipsis", "hello world", 8, "hello w…"},
		{"wide characters", "日本語テキスト", 7, "日本語…"},
		{"sanitized first", "a\nb\nc", 3, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
			if w := runewidth.StringWidth(got); w > tt.maxWidth {
				t.Errorf("width %d exceeds %d", w, tt.maxWidth)
			}
		})
	}
}

func TestTruncateAndPad(t *testing.T) {
	for _, width := range []int{1, 4, 10, 30} {
		for _, s := range []string{"", "short", "a much longer piece of text", "日本語"} {
			got := TruncateAndPad(s, width)
			if w := runewidth.StringWidth(got); w != width {
				t.Errorf("TruncateAndPad(%q, %d) width = %d", s, width, w)
			}
		}
	}
}

func TestRow(t *testing.T) {
	if got := Row("left", "right", 12); got != "left   right" {
		t.Errorf("Row = %q", got)
	}
	if got := Row("left", "right", 5); got != "left right" {
		t.Errorf("Row when too narrow = %q, want a single space gap", got)
	}
	styled := lipgloss.NewStyle().Bold(true).Render("x")
	if got := lipgloss.Width(Row(styled, "y", 10)); got != 10 {
		t.Errorf("styled Row width = %d, want 10", got)
	}
}

func TestSeparatorAndEmptyLine(t *testing.T) {
	if got := Separator(3); got != "───" {
		t.Errorf("Separator(3) = %q", got)
	}
	if got := EmptyLine(2); got != "  " {
		t.Errorf("EmptyLine(2) = %q", got)
	}
	if Separator(-1) != "" || EmptyLine(-1) != "" {
		t.Error("negative widths should render nothing")
	}
}

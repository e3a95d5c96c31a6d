package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const DefaultTabWidth = 4

const ellipsis = "…"

// ExpandTabs replaces tabs with spaces up to the next tab stop, counting
// columns the way the terminal will.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var b strings.Builder
	column := 0
	for _, r := range text {
		if r != '\t' {
			b.WriteRune(r)
			column += runewidth.RuneWidth(r)
			continue
		}
		pad := tabWidth - column%tabWidth
		b.WriteString(strings.Repeat(" ", pad))
		column += pad
	}
	return b.String()
}

// DisplayWidth is the number of terminal cells text occupies.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// Truncate shortens text to at most width cells, marking the cut with an
// ellipsis.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, ellipsis)
}

// PadRight fills text with spaces to exactly width cells, truncating first
// when it is too long.
func PadRight(text string, width int) string {
	text = Truncate(text, width)
	return runewidth.FillRight(text, width)
}

// PadLeft right-aligns text in a field of width cells.
func PadLeft(text string, width int) string {
	text = Truncate(text, width)
	return runewidth.FillLeft(text, width)
}

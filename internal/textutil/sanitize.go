package textutil

import "strings"

// Invisible formatting runes are shown as labels so a remote file name or
// text body cannot reorder or hide what the terminal displays.
var formattingLabels = map[rune]string{
	0x00AD: "⟪SHY⟫",
	0x061C: "⟪ALM⟫",
	0x180E: "⟪MVS⟫",
	0x200B: "⟪ZWSP⟫",
	0x200C: "⟪ZWNJ⟫",
	0x200D: "⟪ZWJ⟫",
	0x200E: "⟪LRM⟫",
	0x200F: "⟪RLM⟫",
	0x2028: "⟪LSEP⟫",
	0x2029: "⟪PSEP⟫",
	0x202A: "⟪LRE⟫",
	0x202B: "⟪RLE⟫",
	0x202C: "⟪PDF⟫",
	0x202D: "⟪LRO⟫",
	0x202E: "⟪RLO⟫",
	0x2060: "⟪WJ⟫",
	0x2066: "⟪LRI⟫",
	0x2067: "⟪RLI⟫",
	0x2068: "⟪FSI⟫",
	0x2069: "⟪PDI⟫",
	0xFEFF: "⟪BOM⟫",
}

// SanitizeLine makes a single line safe to draw: control characters become
// '?', line breaks and tabs become spaces and formatting runes are labeled.
func SanitizeLine(text string) string {
	if !needsSanitizing(text, false) {
		return text
	}
	return rewrite(text, false)
}

// SanitizeBody is SanitizeLine for multi-line text: '\n' and '\t' survive so
// the caller can split and expand them, a lone '\r' is dropped.
func SanitizeBody(text string) string {
	if !needsSanitizing(text, true) {
		return text
	}
	return rewrite(text, true)
}

func needsSanitizing(text string, keepLayout bool) bool {
	for _, r := range text {
		if unsafeRune(r, keepLayout) {
			return true
		}
	}
	return false
}

func unsafeRune(r rune, keepLayout bool) bool {
	if _, ok := formattingLabels[r]; ok {
		return true
	}
	switch r {
	case '\n', '\t':
		return !keepLayout
	}
	return r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0)
}

func rewrite(text string, keepLayout bool) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if label, ok := formattingLabels[r]; ok {
			b.WriteString(label)
			continue
		}
		switch {
		case r == '\n' || r == '\t':
			if keepLayout {
				b.WriteRune(r)
			} else {
				b.WriteByte(' ')
			}
		case r == '\r':
			if !keepLayout {
				b.WriteByte(' ')
			}
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0):
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Lines splits sanitized text into display lines with tabs expanded.
// A trailing newline does not produce an empty last line.
func Lines(text string, tabWidth int) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(SanitizeBody(text), "\n")
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = ExpandTabs(line, tabWidth)
	}
	return lines
}

package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/rpeek/internal/state"
	"github.com/kk-code-lab/rpeek/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(state *statepkg.AppState) []string {
	actions := []helpOverlayEntry{
		{keys: "m or click ⋯", desc: "Action menu for the selection"},
		{keys: "r", desc: "Reload recent files"},
	}
	if state != nil && state.OpenerAvailable {
		actions = append(actions, helpOverlayEntry{keys: "o", desc: "Open in the default viewer"})
	}
	if state != nil && state.ClipboardAvailable {
		actions = append(actions, helpOverlayEntry{keys: "y", desc: "Copy file link"})
	}

	sections := []helpOverlaySection{
		{
			title: "Files",
			entries: []helpOverlayEntry{
				{keys: "↑/↓ j/k", desc: "Move selection"},
				{keys: "↵ → l, click", desc: "Preview, or open externally"},
				{keys: "g / G", desc: "First / last file"},
			},
		},
		{
			title: "Search",
			entries: []helpOverlayEntry{
				{keys: "/", desc: "Search the store"},
				{keys: "↵", desc: "Open the selected result"},
				{keys: "Ctrl+W / Ctrl+U", desc: "Delete word / clear query"},
				{keys: "Esc", desc: "Clear query, then leave search"},
			},
		},
		{
			title: "Preview",
			entries: []helpOverlayEntry{
				{keys: "↑/↓ PgUp/PgDn", desc: "Scroll"},
				{keys: "f or ↵", desc: "Toggle full screen"},
				{keys: "Esc ← q", desc: "Close preview"},
			},
		},
		{title: "Actions", entries: actions},
		{
			title: "Exit",
			entries: []helpOverlayEntry{
				{keys: "q", desc: "Quit"},
				{keys: "Ctrl+C", desc: "Quit immediately"},
				{keys: "?", desc: "Close this help"},
			},
		},
	}

	lines := make([]string, 0, 32)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}
	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	return fmt.Sprintf("  %s %s", textutil.PadRight(entry.keys, 16), entry.desc)
}

func (r *Renderer) drawHelpOverlay(state *statepkg.AppState, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	r.fillRect(0, 0, w, h, baseStyle)

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg).Bold(true)
	titleStart := 0
	if tw := textutil.DisplayWidth(title); w > tw {
		titleStart = (w - tw) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	row := 2
	for _, line := range buildHelpOverlayLines(state) {
		if row >= h-1 {
			break
		}
		r.drawClipped(2, row, w-4, strings.TrimRight(line, " "), baseStyle)
		row++
	}

	if h > 0 {
		r.drawClipped(0, h-1, w, "? toggle · Esc/q close", headerStyle)
	}
}

package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/rpeek/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading padding.
func buildFooterHelpText(state *statepkg.AppState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ")
}

func buildFooterHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}

	switch {
	case state.Menu.Open:
		return []string{"↑↓: choose", "↵: run", "Esc: close"}
	case state.PreviewOpen():
		segments := []string{"Esc: close", "↑↓/Pg: scroll", "f: full screen"}
		if state.OpenerAvailable {
			segments = append(segments, "o: open")
		}
		if state.ClipboardAvailable {
			segments = append(segments, "y: copy link")
		}
		return segments
	case state.SearchActive:
		return []string{"type: search", "↑↓: select", "↵: open", "Esc: clear/exit"}
	default:
		segments := []string{"↵: preview", "/: search", "m: menu"}
		if state.OpenerAvailable {
			segments = append(segments, "o: open")
		}
		segments = append(segments, "r: reload")
		if state.ClipboardAvailable {
			segments = append(segments, "y: copy link")
		}
		return append(segments, "?: help")
	}
}

package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kk-code-lab/rpeek/internal/search"
	"github.com/kk-code-lab/rpeek/internal/textutil"
)

// drawTextLine draws text starting at (x, y) without exceeding maxWidth
// cells and returns the column after the last drawn cell. Text must already
// be sanitized.
func (r *Renderer) drawTextLine(x, y, maxWidth int, text string, style tcell.Style) int {
	if maxWidth <= 0 {
		return x
	}
	limit := x + maxWidth
	col := x
	for _, ru := range text {
		w := runewidth.RuneWidth(ru)
		if w == 0 {
			// Combining marks attach to the previous cell.
			if col > x {
				mainc, combc, st, _ := r.screen.GetContent(col-1, y)
				r.screen.SetContent(col-1, y, mainc, append(combc, ru), st)
			}
			continue
		}
		if col+w > limit {
			break
		}
		r.screen.SetContent(col, y, ru, nil, style)
		col += w
	}
	return col
}

// drawHighlighted draws text like drawTextLine, switching to matchStyle for
// the runes covered by spans.
func (r *Renderer) drawHighlighted(x, y, maxWidth int, text string, spans []search.MatchSpan, style, matchStyle tcell.Style) int {
	if len(spans) == 0 {
		return r.drawTextLine(x, y, maxWidth, text, style)
	}
	limit := x + maxWidth
	col := x
	span := 0
	idx := 0
	for _, ru := range text {
		for span < len(spans) && idx >= spans[span].End {
			span++
		}
		st := style
		if span < len(spans) && idx >= spans[span].Start {
			st = matchStyle
		}
		idx++

		w := runewidth.RuneWidth(ru)
		if w == 0 {
			if col > x {
				mainc, combc, prev, _ := r.screen.GetContent(col-1, y)
				r.screen.SetContent(col-1, y, mainc, append(combc, ru), prev)
			}
			continue
		}
		if col+w > limit {
			break
		}
		r.screen.SetContent(col, y, ru, nil, st)
		col += w
	}
	return col
}

// drawClipped sanitizes and truncates text to width before drawing it.
func (r *Renderer) drawClipped(x, y, width int, text string, style tcell.Style) int {
	text = textutil.Truncate(textutil.SanitizeLine(text), width)
	return r.drawTextLine(x, y, width, text, style)
}

func (r *Renderer) fillRow(x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		r.screen.SetContent(x+i, y, ' ', nil, style)
	}
}

func (r *Renderer) fillRect(x, y, width, height int, style tcell.Style) {
	for row := 0; row < height; row++ {
		r.fillRow(x, y+row, width, style)
	}
}

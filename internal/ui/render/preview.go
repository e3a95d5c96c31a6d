package render

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rpeek/internal/archive"
	"github.com/kk-code-lab/rpeek/internal/filetype"
	"github.com/kk-code-lab/rpeek/internal/preview"
	statepkg "github.com/kk-code-lab/rpeek/internal/state"
	"github.com/kk-code-lab/rpeek/internal/textutil"
)

const previewInnerPadding = 1

// drawPreview renders the preview pane: a title row followed by whatever
// the session's directive asks for.
func (r *Renderer) drawPreview(state *statepkg.AppState, l Layout) {
	x := l.PreviewStart + previewInnerPadding
	width := l.PreviewWidth - previewInnerPadding*2
	if width <= 0 {
		return
	}
	top := 1
	if !l.ShowList {
		r.fillRect(l.PreviewStart, top, l.PreviewWidth, l.Height-2, tcell.StyleDefault)
	}

	d := preview.DirectiveFor(state.Preview)
	r.drawPreviewTitle(state, d, x, top, width)

	body := Rect{X: x, Y: top + 1, W: width, H: state.PreviewViewportHeight()}
	if body.Y+body.H > l.Height-1 {
		body.H = l.Height - 1 - body.Y
	}
	if body.H <= 0 {
		return
	}

	dim := tcell.StyleDefault.Foreground(r.theme.DimFg)
	switch d.Kind {
	case preview.DirectiveLoading:
		r.drawClipped(body.X, body.Y, body.W, "Loading…", dim)
	case preview.DirectiveError:
		r.drawClipped(body.X, body.Y, body.W, d.Message, tcell.StyleDefault.Foreground(r.theme.ErrorFg))
		if body.H > 2 {
			r.drawClipped(body.X, body.Y+2, body.W, "Esc closes the preview; open the file again to retry.", dim)
		}
	case preview.DirectiveText:
		r.drawTextBody(state, body)
	case preview.DirectiveArchive:
		r.drawArchiveBody(state, d.Entries, body)
	case preview.DirectiveEmbed:
		r.drawEmbedCard(state, d, body)
	case preview.DirectiveExternal:
		lines := []string{
			"No preview available for this file type.",
			"",
			"o opens it in the default viewer.",
		}
		r.drawLines(body, lines, dim)
	}
}

func (r *Renderer) drawPreviewTitle(state *statepkg.AppState, d preview.Directive, x, y, width int) {
	style := tcell.StyleDefault.Bold(true)
	status := previewStatusLabel(state, d)
	statusWidth := textutil.DisplayWidth(status)

	nameWidth := width - statusWidth - 1
	if nameWidth < 1 {
		nameWidth = width
		status = ""
	}
	r.drawClipped(x, y, nameWidth, d.Name, style)
	if status != "" {
		r.drawTextLine(x+width-statusWidth, y, statusWidth, status, tcell.StyleDefault.Foreground(r.theme.DimFg))
	}
}

func previewStatusLabel(state *statepkg.AppState, d preview.Directive) string {
	switch d.Kind {
	case preview.DirectiveLoading:
		return "loading"
	case preview.DirectiveError:
		return "error"
	}
	total := state.PreviewLineCount()
	if total <= state.PreviewViewportHeight() {
		return ""
	}
	last := state.PreviewScrollOffset + state.PreviewViewportHeight()
	if last > total {
		last = total
	}
	return fmt.Sprintf("%d-%d/%d", state.PreviewScrollOffset+1, last, total)
}

func (r *Renderer) drawTextBody(state *statepkg.AppState, body Rect) {
	if len(state.PreviewLines) == 0 {
		r.drawClipped(body.X, body.Y, body.W, "(empty file)", tcell.StyleDefault.Foreground(r.theme.DimFg))
		return
	}
	start := state.PreviewScrollOffset
	for row := 0; row < body.H; row++ {
		idx := start + row
		if idx >= len(state.PreviewLines) {
			break
		}
		line := textutil.Truncate(state.PreviewLines[idx], body.W)
		r.drawTextLine(body.X, body.Y+row, body.W, line, tcell.StyleDefault)
	}
}

// archiveRows renders a listing as display rows: a summary, a blank line,
// then one row per entry with its size right-aligned.
func archiveRows(entries []archive.Entry, width int) []string {
	summary := archive.Summarize(entries)
	rows := make([]string, 0, len(entries)+statepkg.ArchiveHeaderRows)
	rows = append(rows,
		fmt.Sprintf("Zip contents (%d items: %d files, %d folders, %s)",
			len(entries), summary.Files, summary.Dirs, humanize.Bytes(summary.TotalBytes)),
		"",
	)

	pathWidth := width - sizeColumnWidth - 1
	for _, e := range entries {
		path := textutil.SanitizeLine(e.Path)
		if pathWidth < 8 {
			rows = append(rows, textutil.Truncate(path, width))
			continue
		}
		size := ""
		if !e.IsDir {
			size = humanize.Bytes(e.Size)
		}
		rows = append(rows, textutil.PadRight(path, pathWidth)+" "+textutil.PadLeft(size, sizeColumnWidth))
	}
	return rows
}

func (r *Renderer) drawArchiveBody(state *statepkg.AppState, entries []archive.Entry, body Rect) {
	rows := archiveRows(entries, body.W)
	start := state.PreviewScrollOffset
	dirStyle := tcell.StyleDefault.Foreground(r.theme.DirectoryFg)
	for row := 0; row < body.H; row++ {
		idx := start + row
		if idx >= len(rows) {
			break
		}
		style := tcell.StyleDefault
		switch entry := idx - statepkg.ArchiveHeaderRows; {
		case idx == 0:
			style = style.Bold(true)
		case entry >= 0 && entries[entry].IsDir:
			style = dirStyle
		}
		r.drawTextLine(body.X, body.Y+row, body.W, textutil.Truncate(rows[idx], body.W), style)
	}
}

func (r *Renderer) drawEmbedCard(state *statepkg.AppState, d preview.Directive, body Rect) {
	kind := "Document"
	switch d.Media {
	case filetype.CategoryImage:
		kind = "Image"
	case filetype.CategoryVideo:
		kind = "Video"
	case filetype.CategoryDocument:
		if state.Preview.Classification.Extension == "pdf" {
			kind = "PDF document"
		}
	}

	lines := []string{kind}
	if size := state.Preview.Ref.Size; size > 0 {
		lines = append(lines, "Size: "+humanize.Bytes(uint64(size)))
	}
	lines = append(lines,
		"URL:  "+d.URL,
		"",
		"The terminal cannot display this file inline.",
		"o opens it in the default viewer, y copies the link.",
	)
	r.drawLines(body, lines, tcell.StyleDefault)
}

func (r *Renderer) drawLines(body Rect, lines []string, style tcell.Style) {
	for i, line := range lines {
		if i >= body.H {
			return
		}
		r.drawClipped(body.X, body.Y+i, body.W, line, style)
	}
}

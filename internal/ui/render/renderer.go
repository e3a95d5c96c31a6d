package render

import (
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rpeek/internal/model"
	"github.com/kk-code-lab/rpeek/internal/search"
	statepkg "github.com/kk-code-lab/rpeek/internal/state"
	"github.com/kk-code-lab/rpeek/internal/textutil"
)

const (
	sizeColumnWidth = 9
	dateColumnWidth = 14
	actionsMarker   = "⋯"
	yankFlash       = 100 * time.Millisecond
)

var nowFn = time.Now

// Renderer handles all UI rendering
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme

	mu     sync.Mutex
	layout Layout
	drawn  bool
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// LastLayout returns the layout of the most recent frame.
func (r *Renderer) LastLayout() (Layout, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layout, r.drawn
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()
	w, h := r.screen.Size()

	layout := ComputeLayout(state, w, h)
	r.mu.Lock()
	r.layout = layout
	r.drawn = true
	r.mu.Unlock()

	if state == nil {
		r.screen.Show()
		return
	}
	if state.HelpVisible {
		r.drawHelpOverlay(state, w, h)
		r.screen.Show()
		return
	}

	r.drawHeader(state, w)
	if state.SearchActive && layout.ShowList {
		r.drawSearchLine(state, layout)
	}
	if layout.ShowList {
		r.drawList(state, layout)
	}
	if layout.ShowList && layout.ShowPreview {
		sepX := layout.PreviewStart - 1
		style := tcell.StyleDefault.Foreground(r.theme.DimFg)
		for y := 1; y < h-1; y++ {
			r.screen.SetContent(sepX, y, '│', nil, style)
		}
	}
	if layout.ShowPreview {
		r.drawPreview(state, layout)
	}
	if layout.ShowMenu {
		r.drawMenu(state, layout.Menu)
	}
	r.drawStatusLine(state, w, h)

	r.screen.Show()
}

// drawHeader renders the top bar with the application name and context.
func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	style := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)
	r.fillRow(0, 0, w, style)

	x := r.drawTextLine(0, 0, w, "rpeek", style.Bold(true))
	if state.Source != "" && x < w {
		x = r.drawClipped(x, 0, w-x, " "+state.Source, style.Foreground(r.theme.DimFg))
	}

	context := "recent files"
	switch {
	case state.SearchResultsOpen:
		context = fmt.Sprintf("results for %q", state.SearchQuery)
	case state.FilesLoading:
		context = "loading…"
	}
	if x+3 < w {
		x = r.drawTextLine(x, 0, w-x, " › ", style)
		r.drawClipped(x, 0, w-x, context, style.Bold(true))
	}
}

func (r *Renderer) drawSearchLine(state *statepkg.AppState, l Layout) {
	y := 1
	style := tcell.StyleDefault.Foreground(r.theme.SearchFg)
	r.fillRow(l.ListStart, y, l.ListWidth, tcell.StyleDefault)

	status := ""
	if state.SearchPending {
		status = "searching…"
	}
	statusWidth := textutil.DisplayWidth(status)

	prompt := "/ "
	x := r.drawTextLine(l.ListStart, y, l.ListWidth, prompt, style.Bold(true))
	avail := l.ListWidth - (x - l.ListStart) - statusWidth - 2
	query := textutil.SanitizeLine(state.SearchQuery)
	// Keep the tail of a long query visible next to the cursor.
	for avail > 0 && textutil.DisplayWidth(query) > avail {
		_, size := utf8.DecodeRuneInString(query)
		query = query[size:]
	}
	x = r.drawTextLine(x, y, avail, query, style)
	if x < l.ListStart+l.ListWidth {
		r.screen.SetContent(x, y, ' ', nil, style.Reverse(true))
	}
	if statusWidth > 0 {
		r.drawTextLine(l.ListStart+l.ListWidth-statusWidth, y, statusWidth, status, tcell.StyleDefault.Foreground(r.theme.DimFg))
	}
}

// drawList renders the recent files or the open search results.
func (r *Renderer) drawList(state *statepkg.AppState, l Layout) {
	files := state.DisplayFiles()
	dim := tcell.StyleDefault.Foreground(r.theme.DimFg)

	if len(files) == 0 {
		msg := "no files"
		style := dim
		switch {
		case state.SearchResultsOpen && state.SearchErr != nil:
			msg = "search failed: " + state.SearchErr.Error()
			style = tcell.StyleDefault.Foreground(r.theme.ErrorFg)
		case state.SearchResultsOpen:
			msg = "no matching files"
		case state.FilesErr != nil:
			msg = "could not load files: " + state.FilesErr.Error()
			style = tcell.StyleDefault.Foreground(r.theme.ErrorFg)
		case state.FilesLoading:
			msg = "loading…"
		}
		if l.ListRows > 0 {
			r.drawClipped(l.ListStart+1, l.ListTop, l.ListWidth-1, msg, style)
		}
		return
	}

	highlight := ""
	if state.SearchResultsOpen {
		highlight = state.SearchQuery
	}
	scroll := state.DisplayScroll()
	selected := state.DisplayIndex()
	for row := 0; row < l.ListRows; row++ {
		idx := scroll + row
		if idx >= len(files) {
			break
		}
		style := tcell.StyleDefault
		if idx == selected {
			style = style.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
		}
		r.drawFileRow(files[idx], l, l.ListTop+row, style, highlight)
	}
}

func (r *Renderer) drawFileRow(file model.FileRef, l Layout, y int, style tcell.Style, query string) {
	r.fillRow(l.ListStart, y, l.ListWidth, style)

	width := l.ListWidth
	showActions := width >= minListWidth
	showSize := width >= minListWidth
	showDate := width >= 56

	nameWidth := width - 1
	if showActions {
		nameWidth -= actionsWidth
	}
	if showSize {
		nameWidth -= sizeColumnWidth + 1
	}
	if showDate {
		nameWidth -= dateColumnWidth + 1
	}

	x := l.ListStart + 1
	name := textutil.SanitizeLine(file.Name)
	spans := search.MatchSpans(query, name)
	x = r.drawHighlighted(x, y, nameWidth, textutil.PadRight(name, nameWidth), spans, style, style.Foreground(r.theme.MatchFg).Bold(true))

	if showSize {
		x++
		r.drawTextLine(x, y, sizeColumnWidth, textutil.PadLeft(formatSize(file.Size), sizeColumnWidth), style)
		x += sizeColumnWidth
	}
	if showDate {
		x++
		r.drawTextLine(x, y, dateColumnWidth, textutil.PadLeft(formatCreated(file.CreatedAt), dateColumnWidth), style)
	}
	if showActions {
		r.drawTextLine(l.ListStart+width-actionsWidth, y, actionsWidth, actionsMarker, style.Foreground(r.theme.ActionFg))
	}
}

func (r *Renderer) drawMenu(state *statepkg.AppState, box Rect) {
	style := tcell.StyleDefault.Background(r.theme.MenuBg).Foreground(r.theme.MenuFg)
	r.fillRect(box.X, box.Y, box.W, box.H, style)
	for i, item := range state.Menu.Items {
		itemStyle := style
		if i == state.Menu.Selected {
			itemStyle = style.Background(r.theme.MenuActiveBg).Foreground(r.theme.MenuActiveFg)
			r.fillRow(box.X, box.Y+1+i, box.W, itemStyle)
		}
		r.drawTextLine(box.X+menuPadding, box.Y+1+i, box.W-menuPadding, item.Label(), itemStyle)
	}
}

// drawStatusLine renders the bottom row: errors and messages on the left,
// key hints otherwise, the position on the right.
func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	if h < 2 {
		return
	}
	y := h - 1
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	if !state.LastYankTime.IsZero() && nowFn().Sub(state.LastYankTime) < yankFlash {
		style = style.Background(r.theme.FlashBg)
	}
	r.fillRow(0, y, w, style)

	right := ""
	if files := state.DisplayFiles(); len(files) > 0 {
		right = fmt.Sprintf(" %d/%d ", state.DisplayIndex()+1, len(files))
	}
	rightWidth := textutil.DisplayWidth(right)

	left := buildFooterHelpText(state)
	leftStyle := style.Foreground(r.theme.DimFg)
	switch {
	case state.LastError != nil:
		left = " " + state.LastError.Error()
		leftStyle = style.Foreground(r.theme.ErrorFg)
	case state.StatusMessage != "":
		left = " " + state.StatusMessage
		leftStyle = style
	}
	r.drawClipped(0, y, w-rightWidth, left, leftStyle)
	if rightWidth > 0 && rightWidth < w {
		r.drawTextLine(w-rightWidth, y, rightWidth, right, style)
	}
}

func formatSize(size int64) string {
	if size <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(size))
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, nowFn(), "ago", "from now")
}

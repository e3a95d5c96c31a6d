package render

import (
	statepkg "github.com/kk-code-lab/rpeek/internal/state"
	"github.com/kk-code-lab/rpeek/internal/textutil"
)

const (
	minSplitWidth     = 80
	minListWidth      = 32
	previewWidthRatio = 0.55
	actionsWidth      = 2
	menuPadding       = 2
)

// Rect is a screen area.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside the area.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Layout describes where the last frame placed each surface. Mouse handling
// hit-tests against it.
type Layout struct {
	Width, Height int

	ShowList  bool
	ListStart int
	ListWidth int
	ListTop   int
	ListRows  int

	ShowPreview  bool
	PreviewStart int
	PreviewWidth int

	ShowMenu bool
	Menu     Rect
}

// ActionsColumn reports whether x falls on the actions marker of a row.
func (l Layout) ActionsColumn(x int) bool {
	if !l.ShowList || l.ListWidth < minListWidth {
		return false
	}
	end := l.ListStart + l.ListWidth
	return x >= end-actionsWidth && x < end
}

// RowAt maps a screen position to a list row offset, or -1.
func (l Layout) RowAt(x, y int) int {
	if !l.ShowList || x < l.ListStart || x >= l.ListStart+l.ListWidth {
		return -1
	}
	row := y - l.ListTop
	if row < 0 || row >= l.ListRows {
		return -1
	}
	return row
}

// MenuItemAt maps a screen position to an action menu item, or -1.
func (l Layout) MenuItemAt(x, y int) int {
	if !l.ShowMenu || !l.Menu.Contains(x, y) {
		return -1
	}
	item := y - l.Menu.Y - 1
	if item < 0 || item >= l.Menu.H-2 {
		return -1
	}
	return item
}

// ComputeLayout places the list, preview and menu for a screen of w x h.
func ComputeLayout(state *statepkg.AppState, w, h int) Layout {
	l := Layout{Width: w, Height: h}
	if state == nil {
		return l
	}

	l.ListTop = state.ListTop()
	l.ListRows = h - l.ListTop - 1
	if l.ListRows < 0 {
		l.ListRows = 0
	}

	switch {
	case !state.PreviewOpen():
		l.ShowList = true
		l.ListWidth = w
	case state.PreviewFullScreen || w < minSplitWidth:
		l.ShowPreview = true
		l.PreviewWidth = w
	default:
		l.ShowList = true
		l.ShowPreview = true
		l.PreviewWidth = int(float64(w)*previewWidthRatio + 0.5)
		l.ListWidth = w - l.PreviewWidth - 1
		if l.ListWidth < minListWidth {
			l.ListWidth = minListWidth
			l.PreviewWidth = w - l.ListWidth - 1
		}
		l.PreviewStart = l.ListWidth + 1
	}

	if state.Menu.Open && l.ShowList {
		l.Menu = menuRect(state, l)
		l.ShowMenu = l.Menu.W > 0
	}
	return l
}

func menuRect(state *statepkg.AppState, l Layout) Rect {
	width := 0
	for _, item := range state.Menu.Items {
		if lw := textutil.DisplayWidth(item.Label()); lw > width {
			width = lw
		}
	}
	width += menuPadding * 2
	height := len(state.Menu.Items) + 2
	if width > l.ListWidth || height > l.Height-1 {
		return Rect{}
	}

	rowY := l.ListTop + state.Menu.Index - state.DisplayScroll()
	y := rowY + 1
	if y+height > l.Height-1 {
		y = rowY - height
	}
	if y < 0 {
		y = 0
	}
	x := l.ListStart + l.ListWidth - width
	if x < l.ListStart {
		x = l.ListStart
	}
	return Rect{X: x, Y: y, W: width, H: height}
}

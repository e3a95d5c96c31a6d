package state

import (
	"github.com/kk-code-lab/rpeek/internal/model"
	"github.com/kk-code-lab/rpeek/internal/search"
)

// Action is the base interface for all state mutations
type Action interface{}

// ===== LIST ACTIONS =====

type NavigateUpAction struct{}
type NavigateDownAction struct{}
type NavigateHomeAction struct{}
type NavigateEndAction struct{}
type ScrollPageUpAction struct{}
type ScrollPageDownAction struct{}

// ActivateAction opens the selected file: a preview when the file can be
// previewed, the external viewer otherwise.
type ActivateAction struct{}

// ListClickColumn identifies the part of a row that was clicked.
type ListClickColumn int

const (
	ColumnRow ListClickColumn = iota
	ColumnActions
)

// ListClickAction is a primary click on a list row. Index is a display
// index; a negative index is a click outside any row.
type ListClickAction struct {
	Index  int
	Column ListClickColumn
}

type RefreshAction struct{}

type RecentFilesLoadedAction struct {
	Files []model.FileRef
	Err   error
}

// ===== SEARCH ACTIONS =====

type SearchStartAction struct{}
type SearchCharAction struct {
	Char rune
}
type SearchBackspaceAction struct{}
type SearchDeleteWordAction struct{}
type SearchResetQueryAction struct{}
type SearchExitAction struct{}
type SearchResultsAction struct {
	Result search.Result
}

// ===== PREVIEW ACTIONS =====

// PreviewChangedAction tells the reducer the preview session moved; the
// reducer reads the session for the current state.
type PreviewChangedAction struct{}
type PreviewCloseAction struct{}
type PreviewToggleFullScreenAction struct{}
type PreviewScrollUpAction struct{}
type PreviewScrollDownAction struct{}
type PreviewScrollPageUpAction struct{}
type PreviewScrollPageDownAction struct{}
type PreviewScrollToStartAction struct{}
type PreviewScrollToEndAction struct{}

// ===== MENU ACTIONS =====

type MenuOpenAction struct{}
type MenuCloseAction struct{}
type MenuUpAction struct{}
type MenuDownAction struct{}
type MenuChooseAction struct{}
type MenuClickAction struct {
	Item int
}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}

type OpenExternalAction struct{}
type YankURLAction struct{}
type HelpToggleAction struct{}
type HelpHideAction struct{}
type ClearStatusAction struct{}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}
type SuspendAction struct{}

package state

import (
	"time"

	"github.com/kk-code-lab/rpeek/internal/filetype"
	"github.com/kk-code-lab/rpeek/internal/model"
	"github.com/kk-code-lab/rpeek/internal/preview"
	"github.com/kk-code-lab/rpeek/internal/textutil"
)

// ArchiveHeaderRows is the number of preview rows drawn above an archive
// listing (summary line and a blank separator).
const ArchiveHeaderRows = 2

// MenuItem is an entry of the per-file action menu.
type MenuItem int

const (
	MenuPreview MenuItem = iota
	MenuOpenExternal
	MenuCopyURL
)

func (m MenuItem) Label() string {
	switch m {
	case MenuPreview:
		return "Preview"
	case MenuOpenExternal:
		return "Open externally"
	case MenuCopyURL:
		return "Copy link"
	default:
		return ""
	}
}

// ActionMenu is the modal menu opened from the actions column of a row.
type ActionMenu struct {
	Open     bool
	Index    int // display index of the row the menu belongs to
	Items    []MenuItem
	Selected int
}

// AppState is the single source of truth
type AppState struct {
	// Source names the remote store in the header.
	Source string

	// Recent files shown when no search results are open
	Files        []model.FileRef
	FilesLoading bool
	FilesErr     error

	// Selection & viewport
	SelectedIndex int
	ScrollOffset  int

	// Search
	SearchActive      bool
	SearchQuery       string
	SearchPending     bool // a query was typed and its results have not arrived
	SearchResultsOpen bool
	SearchResults     []model.FileRef
	SearchErr         error
	SearchIndex       int
	SearchScroll      int

	// Preview mirrors the preview session; PreviewLines caches the
	// sanitized text body.
	Preview             preview.State
	PreviewLines        []string
	PreviewFullScreen   bool
	PreviewScrollOffset int

	Menu        ActionMenu
	HelpVisible bool

	// Dimensions
	ScreenWidth  int
	ScreenHeight int

	ClipboardAvailable bool
	OpenerAvailable    bool
	LastYankTime       time.Time
	StatusMessage      string
	LastError          error
}

// PreviewOpen reports whether the preview surface is shown.
func (s *AppState) PreviewOpen() bool {
	return s.Preview.Status != preview.StatusClosed
}

// DisplayFiles returns the rows of the list: search results while the result
// surface is open, recent files otherwise.
func (s *AppState) DisplayFiles() []model.FileRef {
	if s.SearchResultsOpen {
		return s.SearchResults
	}
	return s.Files
}

// DisplayIndex is the selected row of DisplayFiles.
func (s *AppState) DisplayIndex() int {
	if s.SearchResultsOpen {
		return s.SearchIndex
	}
	return s.SelectedIndex
}

// DisplayScroll is the first visible row of DisplayFiles.
func (s *AppState) DisplayScroll() int {
	if s.SearchResultsOpen {
		return s.SearchScroll
	}
	return s.ScrollOffset
}

// CurrentFile returns the selected file or nil.
func (s *AppState) CurrentFile() *model.FileRef {
	files := s.DisplayFiles()
	idx := s.DisplayIndex()
	if idx < 0 || idx >= len(files) {
		return nil
	}
	return &files[idx]
}

// CanPreview is the single previewability check used by every entry point
// (enter key, row click, action menu).
func CanPreview(ref model.FileRef) bool {
	return filetype.IsPreviewable(filetype.Classify(ref.Name))
}

// ListTop is the first screen row used by the list.
func (s *AppState) ListTop() int {
	if s.SearchActive {
		return 2
	}
	return 1
}

// ListViewportHeight is the number of list rows that fit on screen.
func (s *AppState) ListViewportHeight() int {
	h := s.ScreenHeight - s.ListTop() - 1
	if h < 1 {
		return 1
	}
	return h
}

// PreviewViewportHeight is the number of content rows below the preview
// title.
func (s *AppState) PreviewViewportHeight() int {
	h := s.ScreenHeight - 3
	if h < 1 {
		return 1
	}
	return h
}

// PreviewLineCount is the number of scrollable rows of the preview body.
func (s *AppState) PreviewLineCount() int {
	if s.Preview.Status != preview.StatusReady {
		return 0
	}
	switch s.Preview.Strategy {
	case filetype.StrategyText:
		return len(s.PreviewLines)
	case filetype.StrategyArchive:
		return len(s.Preview.Entries) + ArchiveHeaderRows
	default:
		return 0
	}
}

func (s *AppState) maxPreviewScroll() int {
	limit := s.PreviewLineCount() - s.PreviewViewportHeight()
	if limit < 0 {
		return 0
	}
	return limit
}

func (s *AppState) setPreview(ps preview.State) {
	textChanged := ps.Text != s.Preview.Text || !ps.Ref.Same(s.Preview.Ref)
	if !ps.Ref.Same(s.Preview.Ref) || ps.Status != s.Preview.Status {
		s.PreviewScrollOffset = 0
	}
	s.Preview = ps
	if ps.Status != preview.StatusReady || ps.Strategy != filetype.StrategyText {
		s.PreviewLines = nil
	} else if textChanged || s.PreviewLines == nil {
		s.PreviewLines = textutil.Lines(ps.Text, textutil.DefaultTabWidth)
	}
	if ps.Status == preview.StatusClosed {
		s.PreviewFullScreen = false
	}
	if s.PreviewScrollOffset > s.maxPreviewScroll() {
		s.PreviewScrollOffset = s.maxPreviewScroll()
	}
}

package state

import (
	"errors"
	"fmt"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/kk-code-lab/rpeek/internal/logging"
	"github.com/kk-code-lab/rpeek/internal/model"
	"github.com/kk-code-lab/rpeek/internal/preview"
)

var nowFn = time.Now

var errClipboardUnavailable = errors.New("no clipboard command available")

// PreviewController is the preview surface driven by the reducer.
type PreviewController interface {
	Open(ref model.FileRef)
	Close()
	State() preview.State
}

// QueryController receives search input and reports results asynchronously
// through SearchResultsAction.
type QueryController interface {
	SetQuery(query string)
	Navigate()
	Reset()
}

// Effects performs the side effects the reducer cannot do itself.
// RefreshRecent reports back through RecentFilesLoadedAction.
type Effects interface {
	OpenExternal(ref model.FileRef) error
	CopyText(text string) error
	RefreshRecent()
}

// StateReducer handles all state mutations
type StateReducer struct {
	preview PreviewController
	search  QueryController
	effects Effects
}

// NewStateReducer creates a reducer. Nil collaborators are replaced by
// no-op implementations.
func NewStateReducer(pc PreviewController, qc QueryController, fx Effects) *StateReducer {
	if pc == nil {
		pc = &closedPreview{}
	}
	if qc == nil {
		qc = nopQuery{}
	}
	if fx == nil {
		fx = nopEffects{}
	}
	return &StateReducer{preview: pc, search: qc, effects: fx}
}

// Reduce applies action to state.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch a := action.(type) {

	// ===== LIST =====

	case NavigateDownAction:
		r.moveSelection(state, 1)
	case NavigateUpAction:
		r.moveSelection(state, -1)
	case ScrollPageDownAction:
		r.moveSelection(state, state.ListViewportHeight())
	case ScrollPageUpAction:
		r.moveSelection(state, -state.ListViewportHeight())
	case NavigateHomeAction:
		r.selectIndex(state, 0)
	case NavigateEndAction:
		r.selectIndex(state, len(state.DisplayFiles())-1)

	case ActivateAction:
		file := state.CurrentFile()
		if file == nil {
			return state, nil
		}
		return state, r.activate(state, *file)

	case ListClickAction:
		return state, r.handleListClick(state, a)

	case RefreshAction:
		state.FilesLoading = true
		r.effects.RefreshRecent()

	case RecentFilesLoadedAction:
		state.FilesLoading = false
		state.FilesErr = a.Err
		if a.Err == nil {
			state.Files = a.Files
		}
		r.clampSelection(state)

	// ===== SEARCH =====

	case SearchStartAction:
		state.SearchActive = true
		state.Menu = ActionMenu{}
		r.clampSelection(state)

	case SearchCharAction:
		if !state.SearchActive {
			return state, nil
		}
		r.setQuery(state, state.SearchQuery+string(a.Char))

	case SearchBackspaceAction:
		if !state.SearchActive || state.SearchQuery == "" {
			return state, nil
		}
		runes := []rune(state.SearchQuery)
		r.setQuery(state, string(runes[:len(runes)-1]))

	case SearchDeleteWordAction:
		if !state.SearchActive {
			return state, nil
		}
		runes := []rune(state.SearchQuery)
		r.setQuery(state, string(runes[:previousWordBoundary(runes, len(runes))]))

	case SearchResetQueryAction:
		r.setQuery(state, "")

	case SearchExitAction:
		state.SearchActive = false
		state.SearchQuery = ""
		r.search.Navigate()
		r.closeResults(state)
		r.search.Reset()

	case SearchResultsAction:
		r.applyResults(state, a)

	// ===== PREVIEW =====

	case PreviewChangedAction:
		state.setPreview(r.preview.State())

	case PreviewCloseAction:
		r.preview.Close()
		state.setPreview(r.preview.State())

	case PreviewToggleFullScreenAction:
		if state.PreviewOpen() {
			state.PreviewFullScreen = !state.PreviewFullScreen
		}

	case PreviewScrollDownAction:
		r.scrollPreview(state, 1)
	case PreviewScrollUpAction:
		r.scrollPreview(state, -1)
	case PreviewScrollPageDownAction:
		r.scrollPreview(state, state.PreviewViewportHeight())
	case PreviewScrollPageUpAction:
		r.scrollPreview(state, -state.PreviewViewportHeight())
	case PreviewScrollToStartAction:
		state.PreviewScrollOffset = 0
	case PreviewScrollToEndAction:
		state.PreviewScrollOffset = state.maxPreviewScroll()

	// ===== MENU =====

	case MenuOpenAction:
		r.openMenu(state)
	case MenuCloseAction:
		state.Menu = ActionMenu{}
	case MenuDownAction:
		if state.Menu.Open && state.Menu.Selected < len(state.Menu.Items)-1 {
			state.Menu.Selected++
		}
	case MenuUpAction:
		if state.Menu.Open && state.Menu.Selected > 0 {
			state.Menu.Selected--
		}
	case MenuChooseAction:
		return state, r.chooseMenuItem(state)
	case MenuClickAction:
		if !state.Menu.Open || a.Item < 0 || a.Item >= len(state.Menu.Items) {
			return state, nil
		}
		state.Menu.Selected = a.Item
		return state, r.chooseMenuItem(state)

	// ===== VIEW =====

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		r.clampSelection(state)
		if state.PreviewScrollOffset > state.maxPreviewScroll() {
			state.PreviewScrollOffset = state.maxPreviewScroll()
		}

	case OpenExternalAction:
		ref, ok := r.targetFile(state)
		if !ok {
			return state, nil
		}
		return state, r.openExternal(state, ref)

	case YankURLAction:
		ref, ok := r.targetFile(state)
		if !ok {
			return state, nil
		}
		return state, r.copyURL(state, ref)

	case HelpToggleAction:
		state.HelpVisible = !state.HelpVisible
	case HelpHideAction:
		state.HelpVisible = false
	case ClearStatusAction:
		state.StatusMessage = ""
		state.LastError = nil
	}

	return state, nil
}

// activate opens ref the way a click on it would: previewable files go to
// the preview surface, everything else to the external viewer.
func (r *StateReducer) activate(state *AppState, ref model.FileRef) error {
	if state.SearchResultsOpen {
		r.finishSearch(state)
	}
	if !CanPreview(ref) {
		return r.openExternal(state, ref)
	}
	r.preview.Open(ref)
	state.setPreview(r.preview.State())
	return nil
}

func (r *StateReducer) handleListClick(state *AppState, a ListClickAction) error {
	click := &ClickEvent{}

	// Open overlays own every click outside themselves.
	if state.HelpVisible {
		state.HelpVisible = false
		click.Consume()
	}
	if state.Menu.Open {
		state.Menu = ActionMenu{}
		click.Consume()
	}

	if !click.Consumed() && a.Column == ColumnActions {
		if r.selectIndex(state, a.Index) {
			r.openMenu(state)
		}
		click.Consume()
	}

	return r.rowClick(state, a.Index, click)
}

func (r *StateReducer) rowClick(state *AppState, idx int, click *ClickEvent) error {
	if click.Consumed() {
		return nil
	}
	if !r.selectIndex(state, idx) {
		return nil
	}
	return r.activate(state, state.DisplayFiles()[idx])
}

func (r *StateReducer) openMenu(state *AppState) {
	file := state.CurrentFile()
	if file == nil {
		return
	}
	items := make([]MenuItem, 0, 3)
	if CanPreview(*file) {
		items = append(items, MenuPreview)
	}
	items = append(items, MenuOpenExternal, MenuCopyURL)
	state.Menu = ActionMenu{
		Open:  true,
		Index: state.DisplayIndex(),
		Items: items,
	}
}

func (r *StateReducer) chooseMenuItem(state *AppState) error {
	menu := state.Menu
	state.Menu = ActionMenu{}
	if !menu.Open || menu.Selected < 0 || menu.Selected >= len(menu.Items) {
		return nil
	}
	files := state.DisplayFiles()
	if menu.Index < 0 || menu.Index >= len(files) {
		return nil
	}
	ref := files[menu.Index]

	switch menu.Items[menu.Selected] {
	case MenuPreview:
		return r.activate(state, ref)
	case MenuOpenExternal:
		return r.openExternal(state, ref)
	case MenuCopyURL:
		return r.copyURL(state, ref)
	}
	return nil
}

// targetFile is the file acted upon: the previewed one while the preview is
// open, the selected row otherwise.
func (r *StateReducer) targetFile(state *AppState) (model.FileRef, bool) {
	if state.PreviewOpen() {
		return state.Preview.Ref, true
	}
	if file := state.CurrentFile(); file != nil {
		return *file, true
	}
	return model.FileRef{}, false
}

func (r *StateReducer) openExternal(state *AppState, ref model.FileRef) error {
	if ref.URL == "" {
		return fmt.Errorf("%s has no link", ref.Name)
	}
	if err := r.effects.OpenExternal(ref); err != nil {
		logging.Warn("open externally failed", zap.String("name", ref.Name), zap.Error(err))
		return fmt.Errorf("open %s: %w", ref.Name, err)
	}
	state.StatusMessage = "opened " + ref.Name
	return nil
}

func (r *StateReducer) copyURL(state *AppState, ref model.FileRef) error {
	if !state.ClipboardAvailable {
		return errClipboardUnavailable
	}
	if err := r.effects.CopyText(ref.URL); err != nil {
		logging.Warn("copy link failed", zap.String("name", ref.Name), zap.Error(err))
		return fmt.Errorf("copy link: %w", err)
	}
	state.LastYankTime = nowFn()
	state.StatusMessage = "copied link to " + ref.Name
	return nil
}

func (r *StateReducer) setQuery(state *AppState, query string) {
	state.SearchQuery = query
	state.SearchPending = query != ""
	r.search.SetQuery(query)
	if query == "" {
		r.closeResults(state)
	}
}

// applyResults installs a delivered result unless the query it answers is
// no longer the one being typed.
func (r *StateReducer) applyResults(state *AppState, a SearchResultsAction) {
	res := a.Result
	if !res.Open {
		r.closeResults(state)
		return
	}
	if !state.SearchActive || res.Query != state.SearchQuery {
		return
	}
	state.SearchPending = false
	state.SearchResultsOpen = true
	state.SearchErr = res.Err
	state.SearchResults = res.Files
	if res.Err != nil {
		state.SearchResults = nil
	}
	state.SearchIndex = 0
	state.SearchScroll = 0
	state.Menu = ActionMenu{}
}

func (r *StateReducer) closeResults(state *AppState) {
	if state.SearchResultsOpen {
		state.Menu = ActionMenu{}
	}
	state.SearchPending = false
	state.SearchResultsOpen = false
	state.SearchResults = nil
	state.SearchErr = nil
	state.SearchIndex = 0
	state.SearchScroll = 0
}

// finishSearch closes the result surface after a result was chosen.
func (r *StateReducer) finishSearch(state *AppState) {
	r.search.Reset()
	state.SearchActive = false
	state.SearchQuery = ""
	r.closeResults(state)
}

func (r *StateReducer) moveSelection(state *AppState, delta int) {
	files := state.DisplayFiles()
	if len(files) == 0 {
		return
	}
	idx := state.DisplayIndex()
	if idx < 0 {
		idx = 0
	} else {
		idx += delta
	}
	r.selectIndex(state, clamp(idx, 0, len(files)-1))
}

// selectIndex moves the selection to a display index and scrolls it into
// view. It reports false for an index outside the list.
func (r *StateReducer) selectIndex(state *AppState, idx int) bool {
	files := state.DisplayFiles()
	if idx < 0 || idx >= len(files) {
		return false
	}
	height := state.ListViewportHeight()
	scroll := state.DisplayScroll()
	if idx < scroll {
		scroll = idx
	} else if idx >= scroll+height {
		scroll = idx - height + 1
	}
	if state.SearchResultsOpen {
		state.SearchIndex = idx
		state.SearchScroll = scroll
	} else {
		state.SelectedIndex = idx
		state.ScrollOffset = scroll
	}
	return true
}

func (r *StateReducer) clampSelection(state *AppState) {
	files := state.DisplayFiles()
	if len(files) == 0 {
		if state.SearchResultsOpen {
			state.SearchIndex, state.SearchScroll = 0, 0
		} else {
			state.SelectedIndex, state.ScrollOffset = 0, 0
		}
		return
	}
	idx := clamp(state.DisplayIndex(), 0, len(files)-1)
	if state.SearchResultsOpen {
		state.SearchScroll = clamp(state.SearchScroll, 0, idx)
	} else {
		state.ScrollOffset = clamp(state.ScrollOffset, 0, idx)
	}
	r.selectIndex(state, idx)
}

func (r *StateReducer) scrollPreview(state *AppState, delta int) {
	if !state.PreviewOpen() {
		return
	}
	state.PreviewScrollOffset = clamp(state.PreviewScrollOffset+delta, 0, state.maxPreviewScroll())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isSearchWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func previousWordBoundary(runes []rune, pos int) int {
	if pos > len(runes) {
		pos = len(runes)
	}
	for pos > 0 && !isSearchWordChar(runes[pos-1]) {
		pos--
	}
	for pos > 0 && isSearchWordChar(runes[pos-1]) {
		pos--
	}
	return pos
}

type closedPreview struct{}

func (*closedPreview) Open(model.FileRef)   {}
func (*closedPreview) Close()               {}
func (*closedPreview) State() preview.State { return preview.State{} }

type nopQuery struct{}

func (nopQuery) SetQuery(string) {}
func (nopQuery) Navigate()       {}
func (nopQuery) Reset()          {}

type nopEffects struct{}

func (nopEffects) OpenExternal(model.FileRef) error { return nil }
func (nopEffects) CopyText(string) error            { return nil }
func (nopEffects) RefreshRecent()                   {}

package input

import (
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rpeek/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false when
// the event asks the application to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.emit(statepkg.ResizeAction{Width: w, Height: h})
		return true
	default:
		return true
	}
}

func (ih *InputHandler) emit(action statepkg.Action) {
	ih.actionChan <- action
}

// processKeyEvent routes a key to the innermost active surface: help, the
// action menu, the search line, the preview and finally the list.
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		ih.emit(statepkg.QuitAction{})
		return false
	case tcell.KeyCtrlZ:
		ih.emit(statepkg.SuspendAction{})
		return true
	}

	st := ih.state
	if st == nil {
		st = &statepkg.AppState{}
	}

	switch {
	case st.HelpVisible:
		ih.helpKey(ev)
		return true
	case st.Menu.Open:
		ih.menuKey(ev)
		return true
	case st.SearchActive && !st.PreviewOpen():
		ih.searchKey(ev, st)
		return true
	case st.PreviewOpen():
		ih.previewKey(ev)
		return true
	default:
		return ih.listKey(ev)
	}
}

func (ih *InputHandler) helpKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.emit(statepkg.HelpHideAction{})
	case tcell.KeyRune:
		switch ev.Rune() {
		case '?', 'q', 'Q':
			ih.emit(statepkg.HelpHideAction{})
		}
	}
}

func (ih *InputHandler) menuKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyLeft:
		ih.emit(statepkg.MenuCloseAction{})
	case tcell.KeyUp:
		ih.emit(statepkg.MenuUpAction{})
	case tcell.KeyDown:
		ih.emit(statepkg.MenuDownAction{})
	case tcell.KeyEnter:
		ih.emit(statepkg.MenuChooseAction{})
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k':
			ih.emit(statepkg.MenuUpAction{})
		case 'j':
			ih.emit(statepkg.MenuDownAction{})
		case 'q', 'm':
			ih.emit(statepkg.MenuCloseAction{})
		}
	}
}

func (ih *InputHandler) searchKey(ev *tcell.EventKey, st *statepkg.AppState) {
	switch ev.Key() {
	case tcell.KeyEscape:
		if st.SearchQuery != "" {
			ih.emit(statepkg.SearchResetQueryAction{})
		} else {
			ih.emit(statepkg.SearchExitAction{})
		}
	case tcell.KeyEnter:
		ih.emit(statepkg.ActivateAction{})
	case tcell.KeyUp:
		ih.emit(statepkg.NavigateUpAction{})
	case tcell.KeyDown:
		ih.emit(statepkg.NavigateDownAction{})
	case tcell.KeyPgUp:
		ih.emit(statepkg.ScrollPageUpAction{})
	case tcell.KeyPgDn:
		ih.emit(statepkg.ScrollPageDownAction{})
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.emit(statepkg.SearchBackspaceAction{})
	case tcell.KeyCtrlW:
		ih.emit(statepkg.SearchDeleteWordAction{})
	case tcell.KeyCtrlU:
		ih.emit(statepkg.SearchResetQueryAction{})
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
			return
		}
		ih.emit(statepkg.SearchCharAction{Char: ev.Rune()})
	}
}

func (ih *InputHandler) previewKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyLeft:
		ih.emit(statepkg.PreviewCloseAction{})
	case tcell.KeyUp:
		ih.emit(statepkg.PreviewScrollUpAction{})
	case tcell.KeyDown:
		ih.emit(statepkg.PreviewScrollDownAction{})
	case tcell.KeyPgUp:
		ih.emit(statepkg.PreviewScrollPageUpAction{})
	case tcell.KeyPgDn:
		ih.emit(statepkg.PreviewScrollPageDownAction{})
	case tcell.KeyHome:
		ih.emit(statepkg.PreviewScrollToStartAction{})
	case tcell.KeyEnd:
		ih.emit(statepkg.PreviewScrollToEndAction{})
	case tcell.KeyEnter:
		ih.emit(statepkg.PreviewToggleFullScreenAction{})
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'h':
			ih.emit(statepkg.PreviewCloseAction{})
		case 'k':
			ih.emit(statepkg.PreviewScrollUpAction{})
		case 'j':
			ih.emit(statepkg.PreviewScrollDownAction{})
		case ' ':
			ih.emit(statepkg.PreviewScrollPageDownAction{})
		case 'b':
			ih.emit(statepkg.PreviewScrollPageUpAction{})
		case 'g':
			ih.emit(statepkg.PreviewScrollToStartAction{})
		case 'G':
			ih.emit(statepkg.PreviewScrollToEndAction{})
		case 'f':
			ih.emit(statepkg.PreviewToggleFullScreenAction{})
		case 'o':
			ih.emit(statepkg.OpenExternalAction{})
		case 'y':
			ih.emit(statepkg.YankURLAction{})
		case '?':
			ih.emit(statepkg.HelpToggleAction{})
		}
	}
}

func (ih *InputHandler) listKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.emit(statepkg.ClearStatusAction{})
	case tcell.KeyUp:
		ih.emit(statepkg.NavigateUpAction{})
	case tcell.KeyDown:
		ih.emit(statepkg.NavigateDownAction{})
	case tcell.KeyPgUp:
		ih.emit(statepkg.ScrollPageUpAction{})
	case tcell.KeyPgDn:
		ih.emit(statepkg.ScrollPageDownAction{})
	case tcell.KeyHome:
		ih.emit(statepkg.NavigateHomeAction{})
	case tcell.KeyEnd:
		ih.emit(statepkg.NavigateEndAction{})
	case tcell.KeyEnter, tcell.KeyRight:
		ih.emit(statepkg.ActivateAction{})
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			ih.emit(statepkg.QuitAction{})
			return false
		case 'k':
			ih.emit(statepkg.NavigateUpAction{})
		case 'j':
			ih.emit(statepkg.NavigateDownAction{})
		case 'g':
			ih.emit(statepkg.NavigateHomeAction{})
		case 'G':
			ih.emit(statepkg.NavigateEndAction{})
		case 'l':
			ih.emit(statepkg.ActivateAction{})
		case '/':
			ih.emit(statepkg.SearchStartAction{})
		case 'm':
			ih.emit(statepkg.MenuOpenAction{})
		case 'o':
			ih.emit(statepkg.OpenExternalAction{})
		case 'y':
			ih.emit(statepkg.YankURLAction{})
		case 'r':
			ih.emit(statepkg.RefreshAction{})
		case '?':
			ih.emit(statepkg.HelpToggleAction{})
		}
	}
	return true
}

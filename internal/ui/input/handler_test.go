package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpeek/internal/model"
	"github.com/kk-code-lab/rpeek/internal/preview"
	statepkg "github.com/kk-code-lab/rpeek/internal/state"
)

func processKey(t *testing.T, state *statepkg.AppState, ev *tcell.EventKey) (statepkg.Action, bool) {
	t.Helper()
	actionChan := make(chan statepkg.Action, 4)
	handler := NewInputHandler(actionChan)
	handler.SetState(state)

	keepRunning := handler.ProcessEvent(ev)
	select {
	case action := <-actionChan:
		return action, keepRunning
	default:
		return nil, keepRunning
	}
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func previewState() *statepkg.AppState {
	return &statepkg.AppState{
		Preview: preview.State{Status: preview.StatusReady, Ref: model.FileRef{Name: "a.txt"}},
	}
}

func TestListKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want statepkg.Action
	}{
		{"down arrow", key(tcell.KeyDown), statepkg.NavigateDownAction{}},
		{"j", runeKey('j'), statepkg.NavigateDownAction{}},
		{"k", runeKey('k'), statepkg.NavigateUpAction{}},
		{"enter", key(tcell.KeyEnter), statepkg.ActivateAction{}},
		{"right", key(tcell.KeyRight), statepkg.ActivateAction{}},
		{"slash", runeKey('/'), statepkg.SearchStartAction{}},
		{"menu", runeKey('m'), statepkg.MenuOpenAction{}},
		{"open", runeKey('o'), statepkg.OpenExternalAction{}},
		{"yank", runeKey('y'), statepkg.YankURLAction{}},
		{"refresh", runeKey('r'), statepkg.RefreshAction{}},
		{"help", runeKey('?'), statepkg.HelpToggleAction{}},
		{"end", runeKey('G'), statepkg.NavigateEndAction{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, running := processKey(t, &statepkg.AppState{}, tt.ev)
			if !running {
				t.Fatalf("handler asked to quit")
			}
			if got != tt.want {
				t.Fatalf("got %T, want %T", got, tt.want)
			}
		})
	}
}

func TestQuitKeys(t *testing.T) {
	for _, ev := range []*tcell.EventKey{runeKey('q'), key(tcell.KeyCtrlC)} {
		got, running := processKey(t, &statepkg.AppState{}, ev)
		if running {
			t.Fatalf("expected quit for %v", ev.Name())
		}
		if _, ok := got.(statepkg.QuitAction); !ok {
			t.Fatalf("expected QuitAction, got %T", got)
		}
	}
}

func TestSearchModeTypesLetters(t *testing.T) {
	state := &statepkg.AppState{SearchActive: true}
	got, running := processKey(t, state, runeKey('q'))
	if !running {
		t.Fatalf("q must be search input in search mode")
	}
	char, ok := got.(statepkg.SearchCharAction)
	if !ok || char.Char != 'q' {
		t.Fatalf("expected SearchCharAction{q}, got %#v", got)
	}
}

func TestSearchEscapeClearsQueryThenExits(t *testing.T) {
	state := &statepkg.AppState{SearchActive: true, SearchQuery: "abc"}
	got, _ := processKey(t, state, key(tcell.KeyEscape))
	if _, ok := got.(statepkg.SearchResetQueryAction); !ok {
		t.Fatalf("expected SearchResetQueryAction, got %T", got)
	}

	state.SearchQuery = ""
	got, _ = processKey(t, state, key(tcell.KeyEscape))
	if _, ok := got.(statepkg.SearchExitAction); !ok {
		t.Fatalf("expected SearchExitAction, got %T", got)
	}
}

func TestSearchEditingKeys(t *testing.T) {
	state := &statepkg.AppState{SearchActive: true, SearchQuery: "abc"}
	if got, _ := processKey(t, state, key(tcell.KeyBackspace2)); got != (statepkg.SearchBackspaceAction{}) {
		t.Fatalf("backspace produced %T", got)
	}
	if got, _ := processKey(t, state, key(tcell.KeyCtrlW)); got != (statepkg.SearchDeleteWordAction{}) {
		t.Fatalf("ctrl-w produced %T", got)
	}
	if got, _ := processKey(t, state, key(tcell.KeyEnter)); got != (statepkg.ActivateAction{}) {
		t.Fatalf("enter produced %T", got)
	}
}

func TestPreviewKeysScrollAndClose(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want statepkg.Action
	}{
		{key(tcell.KeyDown), statepkg.PreviewScrollDownAction{}},
		{runeKey('k'), statepkg.PreviewScrollUpAction{}},
		{key(tcell.KeyPgDn), statepkg.PreviewScrollPageDownAction{}},
		{runeKey('G'), statepkg.PreviewScrollToEndAction{}},
		{key(tcell.KeyEscape), statepkg.PreviewCloseAction{}},
		{runeKey('q'), statepkg.PreviewCloseAction{}},
		{runeKey('f'), statepkg.PreviewToggleFullScreenAction{}},
		{runeKey('o'), statepkg.OpenExternalAction{}},
	}
	for _, tt := range tests {
		got, running := processKey(t, previewState(), tt.ev)
		if !running {
			t.Fatalf("%s quit the app while previewing", tt.ev.Name())
		}
		if got != tt.want {
			t.Fatalf("%s: got %T, want %T", tt.ev.Name(), got, tt.want)
		}
	}
}

func TestMenuKeysTakePriority(t *testing.T) {
	state := &statepkg.AppState{Menu: statepkg.ActionMenu{Open: true}}
	if got, _ := processKey(t, state, key(tcell.KeyDown)); got != (statepkg.MenuDownAction{}) {
		t.Fatalf("down produced %T", got)
	}
	if got, _ := processKey(t, state, key(tcell.KeyEnter)); got != (statepkg.MenuChooseAction{}) {
		t.Fatalf("enter produced %T", got)
	}
	if got, running := processKey(t, state, runeKey('q')); !running || got != (statepkg.MenuCloseAction{}) {
		t.Fatalf("q should close the menu, got %T running=%v", got, running)
	}
}

func TestHelpSwallowsKeys(t *testing.T) {
	state := &statepkg.AppState{HelpVisible: true}
	if got, _ := processKey(t, state, runeKey('j')); got != nil {
		t.Fatalf("expected no action while help is visible, got %T", got)
	}
	if got, _ := processKey(t, state, key(tcell.KeyEscape)); got != (statepkg.HelpHideAction{}) {
		t.Fatalf("escape produced %T", got)
	}
}

func TestResizeEvent(t *testing.T) {
	actionChan := make(chan statepkg.Action, 1)
	handler := NewInputHandler(actionChan)
	handler.ProcessEvent(tcell.NewEventResize(80, 24))

	got := <-actionChan
	resize, ok := got.(statepkg.ResizeAction)
	if !ok || resize.Width != 80 || resize.Height != 24 {
		t.Fatalf("unexpected action %#v", got)
	}
}

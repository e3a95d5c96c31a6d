package app

import (
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	statepkg "github.com/kk-code-lab/rpeek/internal/state"
)

const (
	animationInterval = 50 * time.Millisecond
	yankFlash         = 100 * time.Millisecond
	wheelStep         = 3
)

// Run processes terminal events and dispatched actions until quit.
func (app *Application) Run() {
	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-app.ctx.Done():
				return
			}
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	var animationTimer *time.Timer
	var animationCh <-chan time.Time

	startAnimation := func() {
		if animationTimer == nil {
			animationTimer = time.NewTimer(animationInterval)
		} else {
			if !animationTimer.Stop() {
				select {
				case <-animationTimer.C:
				default:
				}
			}
			animationTimer.Reset(animationInterval)
		}
		animationCh = animationTimer.C
	}

	stopAnimation := func() {
		if animationTimer == nil {
			return
		}
		if !animationTimer.Stop() {
			select {
			case <-animationTimer.C:
			default:
			}
		}
		animationCh = nil
	}

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		if app.shouldAnimate() {
			startAnimation()
		} else {
			stopAnimation()
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-animationCh:
			renderPending = true
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}

	stopAnimation()
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse turns wheel motion into scrolling and primary-button presses
// into clicks on the list, its actions column or the action menu.
func (app *Application) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		app.scrollWheel(-wheelStep)
		return
	case buttons&tcell.WheelDown != 0:
		app.scrollWheel(wheelStep)
		return
	}

	pressed := buttons&tcell.Button1 != 0
	wasDown := app.buttonDown
	app.buttonDown = pressed
	if !pressed || wasDown {
		return
	}

	layout, ok := app.renderer.LastLayout()
	if !ok {
		return
	}
	x, y := ev.Position()

	if app.state.Menu.Open {
		if item := layout.MenuItemAt(x, y); item >= 0 {
			app.handleAction(statepkg.MenuClickAction{Item: item})
			return
		}
		if layout.Menu.Contains(x, y) {
			return
		}
	}

	row := layout.RowAt(x, y)
	if row < 0 {
		// Clicks outside the list only dismiss open overlays.
		if app.state.Menu.Open {
			app.handleAction(statepkg.MenuCloseAction{})
		} else if app.state.HelpVisible {
			app.handleAction(statepkg.HelpHideAction{})
		}
		return
	}

	column := statepkg.ColumnRow
	if layout.ActionsColumn(x) {
		column = statepkg.ColumnActions
	}
	app.handleAction(statepkg.ListClickAction{
		Index:  app.state.DisplayScroll() + row,
		Column: column,
	})
}

func (app *Application) scrollWheel(delta int) {
	if app.state.PreviewOpen() {
		action := statepkg.Action(statepkg.PreviewScrollDownAction{})
		if delta < 0 {
			action = statepkg.PreviewScrollUpAction{}
			delta = -delta
		}
		for i := 0; i < delta; i++ {
			app.handleAction(action)
		}
		return
	}
	if delta < 0 {
		app.handleAction(statepkg.NavigateUpAction{})
	} else {
		app.handleAction(statepkg.NavigateDownAction{})
	}
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) shouldAnimate() bool {
	if app.state == nil || app.state.LastYankTime.IsZero() {
		return false
	}
	return time.Since(app.state.LastYankTime) < yankFlash
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	}

	if isUserAction(action) {
		app.state.StatusMessage = ""
		app.state.LastError = nil
	}
	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
	}
	return true
}

// isUserAction reports whether action came from the keyboard or mouse, as
// opposed to a background completion.
func isUserAction(action statepkg.Action) bool {
	switch action.(type) {
	case statepkg.PreviewChangedAction, statepkg.SearchResultsAction,
		statepkg.RecentFilesLoadedAction, statepkg.ResizeAction:
		return false
	}
	return true
}

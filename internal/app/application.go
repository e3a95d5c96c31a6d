package app

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/rpeek/internal/model"
	"github.com/kk-code-lab/rpeek/internal/preview"
	"github.com/kk-code-lab/rpeek/internal/search"
	statepkg "github.com/kk-code-lab/rpeek/internal/state"
	inputui "github.com/kk-code-lab/rpeek/internal/ui/input"
	renderui "github.com/kk-code-lab/rpeek/internal/ui/render"
)

// RecentLister loads the files shown before anything is searched.
type RecentLister interface {
	Recent(ctx context.Context, limit int) ([]model.FileRef, error)
}

// Options wires the application to the remote store.
type Options struct {
	Recent        RecentLister
	Searcher      search.Searcher
	Loader        preview.Loader
	QuietInterval time.Duration
	RecentLimit   int
	// Source is shown in the header, typically the store host.
	Source string
}

// Application represents the running app.
type Application struct {
	screen     tcell.Screen
	state      *statepkg.AppState
	reducer    *statepkg.StateReducer
	renderer   *renderui.Renderer
	input      *inputui.InputHandler
	actionCh   chan statepkg.Action
	shouldQuit bool
	buttonDown bool

	ctx    context.Context
	cancel context.CancelFunc

	session     *preview.Session
	search      *search.Controller
	recent      RecentLister
	recentLimit int

	clipboardCmd   []string
	clipboardAvail bool
	openerCmd      []string
	openerAvail    bool
}

// Close stops background work and restores the terminal.
func (app *Application) Close() error {
	app.cancel()
	app.search.Close()
	app.session.Close()
	app.screen.Fini()
	return nil
}

// dispatch queues an action from any goroutine. Sends after Close are
// dropped.
func (app *Application) dispatch(action statepkg.Action) {
	select {
	case <-app.ctx.Done():
		return
	case app.actionCh <- action:
	default:
		go func() {
			select {
			case app.actionCh <- action:
			case <-app.ctx.Done():
			}
		}()
	}
}

// NewApplication initializes the terminal and wires the preview session and
// search controller to the action loop.
func NewApplication(opts Options) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return newApplicationWithScreen(screen, opts), nil
}

func newApplicationWithScreen(screen tcell.Screen, opts Options) *Application {
	// Parse mouse sequences so modified clicks don't leak as key events.
	screen.EnableMouse()

	clipboardCmd, clipboardAvail := detectClipboard()
	openerCmd, openerAvail := detectOpener()

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		screen:         screen,
		actionCh:       make(chan statepkg.Action, 16),
		ctx:            ctx,
		cancel:         cancel,
		recent:         opts.Recent,
		recentLimit:    opts.RecentLimit,
		clipboardCmd:   clipboardCmd,
		clipboardAvail: clipboardAvail,
		openerCmd:      openerCmd,
		openerAvail:    openerAvail,
	}

	app.session = preview.NewSession(opts.Loader)
	app.session.SetOnChange(func(preview.State) {
		app.dispatch(statepkg.PreviewChangedAction{})
	})

	searcher := opts.Searcher
	if searcher == nil {
		searcher = search.SearcherFunc(func(context.Context, string) ([]model.FileRef, error) {
			return nil, nil
		})
	}
	app.search = search.NewController(searcher, opts.QuietInterval, func(res search.Result) {
		app.dispatch(statepkg.SearchResultsAction{Result: res})
	})

	w, h := screen.Size()
	app.state = &statepkg.AppState{
		Source:             opts.Source,
		FilesLoading:       opts.Recent != nil,
		ScreenWidth:        w,
		ScreenHeight:       h,
		ClipboardAvailable: clipboardAvail,
		OpenerAvailable:    openerAvail,
	}
	app.reducer = statepkg.NewStateReducer(app.session, app.search, app)
	app.renderer = renderui.NewRenderer(screen)
	app.input = inputui.NewInputHandler(app.actionCh)
	app.input.SetState(app.state)

	app.RefreshRecent()
	return app
}

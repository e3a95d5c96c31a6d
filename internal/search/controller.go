// Package search debounces search-as-you-type queries against the store.
package search

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kk-code-lab/rpeek/internal/logging"
	"github.com/kk-code-lab/rpeek/internal/metrics"
	"github.com/kk-code-lab/rpeek/internal/model"
)

// DefaultQuietInterval is how long a query must stay unchanged before a
// request is issued.
const DefaultQuietInterval = 300 * time.Millisecond

// Searcher runs a query against the remote catalog.
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.FileRef, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, query string) ([]model.FileRef, error)

func (f SearcherFunc) Search(ctx context.Context, query string) ([]model.FileRef, error) {
	return f(ctx, query)
}

// Result is delivered when the result surface changes. Open is false when
// the surface should be hidden (empty query or navigation).
type Result struct {
	Query string
	Files []model.FileRef
	Err   error
	Open  bool
}

type stopper interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) stopper

func realAfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// Controller issues at most one request per quiet interval and delivers a
// response only while its query is still the current one. Superseded
// requests are not aborted; their responses are dropped by token.
type Controller struct {
	searcher Searcher
	quiet    time.Duration
	deliver  func(Result)
	after    afterFunc

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	token  int
	query  string
	timer  stopper
	closed bool
}

// NewController creates a controller. deliver may be called from timer and
// request goroutines.
func NewController(searcher Searcher, quiet time.Duration, deliver func(Result)) *Controller {
	if quiet <= 0 {
		quiet = DefaultQuietInterval
	}
	if deliver == nil {
		deliver = func(Result) {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		searcher: searcher,
		quiet:    quiet,
		deliver:  deliver,
		after:    realAfterFunc,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Query returns the current query.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// SetQuery records a new query and restarts the quiet interval. An empty
// query hides the results at once.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	if c.closed || query == c.query {
		c.mu.Unlock()
		return
	}
	c.query = query
	c.token++
	token := c.token
	c.stopTimerLocked()

	if query == "" {
		c.mu.Unlock()
		c.deliver(Result{})
		return
	}

	c.timer = c.after(c.quiet, func() { c.fire(token) })
	c.mu.Unlock()
}

// Navigate hides the results and drops responses to earlier requests.
func (c *Controller) Navigate() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.token++
	c.stopTimerLocked()
	c.mu.Unlock()
	c.deliver(Result{})
}

// Reset clears the query without notifying, e.g. after a result was chosen.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.token++
	c.query = ""
	c.stopTimerLocked()
	c.mu.Unlock()
}

// Close stops pending timers and suppresses further deliveries.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.token++
	c.stopTimerLocked()
	c.mu.Unlock()
	c.cancel()
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) isTokenCurrent(token int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.token == token
}

func (c *Controller) fire(token int) {
	c.mu.Lock()
	if c.closed || c.token != token {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	query := c.query
	c.mu.Unlock()

	go c.run(token, query)
}

func (c *Controller) run(token int, query string) {
	logging.Debug("search request", zap.String("query", query), zap.Int("token", token))

	files, err := c.searcher.Search(c.ctx, query)
	metrics.RecordSearch(err)

	if !c.isTokenCurrent(token) {
		metrics.RecordSearchStale()
		logging.Debug("stale search result discarded", zap.String("query", query))
		return
	}
	if err != nil {
		logging.Warn("search failed", zap.String("query", query), zap.Error(err))
	}
	c.deliver(Result{Query: query, Files: files, Err: err, Open: true})
}

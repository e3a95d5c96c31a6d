package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-code-lab/rpeek/internal/model"
)

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) after(d time.Duration, f func()) stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{fn: f}
	c.timers = append(c.timers, t)
	return t
}

// fireActive runs every timer that was not stopped.
func (c *fakeClock) fireActive() int {
	c.mu.Lock()
	var active []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped {
			t.stopped = true
			active = append(active, t)
		}
	}
	c.mu.Unlock()
	for _, t := range active {
		t.fn()
	}
	return len(active)
}

type recordingSearcher struct {
	mu      sync.Mutex
	queries []string
	gate    map[string]chan struct{}
}

func (s *recordingSearcher) Search(ctx context.Context, query string) ([]model.FileRef, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	gate := s.gate[query]
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return []model.FileRef{{Name: query + ".txt", URL: "https://x/" + query + ".txt"}}, nil
}

func (s *recordingSearcher) issued() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

func newTestController(searcher Searcher) (*Controller, *fakeClock, chan Result) {
	results := make(chan Result, 16)
	c := NewController(searcher, DefaultQuietInterval, func(r Result) { results <- r })
	clock := &fakeClock{}
	c.after = clock.after
	return c, clock, results
}

func receive(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
		return Result{}
	}
}

func TestRapidKeystrokesIssueSingleRequest(t *testing.T) {
	searcher := &recordingSearcher{}
	c, clock, results := newTestController(searcher)
	defer c.Close()

	c.SetQuery("c")
	c.SetQuery("cl")
	c.SetQuery("clo")

	require.Equal(t, 1, clock.fireActive())
	r := receive(t, results)

	assert.Equal(t, []string{"clo"}, searcher.issued())
	assert.True(t, r.Open)
	assert.Equal(t, "clo", r.Query)
	require.Len(t, r.Files, 1)
	assert.Equal(t, "clo.txt", r.Files[0].Name)
}

func TestRapidKeystrokesRealTimer(t *testing.T) {
	searcher := &recordingSearcher{}
	results := make(chan Result, 4)
	c := NewController(searcher, DefaultQuietInterval, func(r Result) { results <- r })
	defer c.Close()

	c.SetQuery("c")
	time.Sleep(10 * time.Millisecond)
	c.SetQuery("cl")
	time.Sleep(10 * time.Millisecond)
	c.SetQuery("clo")

	r := receive(t, results)
	assert.Equal(t, "clo", r.Query)

	time.Sleep(DefaultQuietInterval + 100*time.Millisecond)
	assert.Equal(t, []string{"clo"}, searcher.issued())
}

func TestSupersededRequestIsIssuedButDiscarded(t *testing.T) {
	gate := make(chan struct{})
	searcher := &recordingSearcher{gate: map[string]chan struct{}{"old": gate}}
	c, clock, results := newTestController(searcher)
	defer c.Close()

	c.SetQuery("old")
	require.Equal(t, 1, clock.fireActive())

	require.Eventually(t, func() bool { return len(searcher.issued()) == 1 }, time.Second, 5*time.Millisecond)

	c.SetQuery("new")
	require.Equal(t, 1, clock.fireActive())
	r := receive(t, results)
	assert.Equal(t, "new", r.Query)

	close(gate)
	select {
	case stale := <-results:
		t.Fatalf("stale result delivered: %+v", stale)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, []string{"old", "new"}, searcher.issued())
}

func TestEmptyQueryClosesImmediately(t *testing.T) {
	searcher := &recordingSearcher{}
	c, clock, results := newTestController(searcher)
	defer c.Close()

	c.SetQuery("re")
	c.SetQuery("")

	r := receive(t, results)
	assert.False(t, r.Open)
	assert.Empty(t, r.Files)
	assert.Equal(t, 0, clock.fireActive())
	assert.Empty(t, searcher.issued())
}

func TestNavigateDropsInFlightResult(t *testing.T) {
	gate := make(chan struct{})
	searcher := &recordingSearcher{gate: map[string]chan struct{}{"doc": gate}}
	c, clock, results := newTestController(searcher)
	defer c.Close()

	c.SetQuery("doc")
	clock.fireActive()
	require.Eventually(t, func() bool { return len(searcher.issued()) == 1 }, time.Second, 5*time.Millisecond)

	c.Navigate()
	r := receive(t, results)
	assert.False(t, r.Open)

	close(gate)
	select {
	case stale := <-results:
		t.Fatalf("result delivered after navigation: %+v", stale)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSameQueryIsNoop(t *testing.T) {
	c, clock, _ := newTestController(&recordingSearcher{})
	defer c.Close()

	c.SetQuery("x")
	c.SetQuery("x")
	assert.Len(t, clock.timers, 1)
}

func TestSearchErrorIsDelivered(t *testing.T) {
	failing := SearcherFunc(func(ctx context.Context, query string) ([]model.FileRef, error) {
		return nil, errors.New("store unavailable")
	})
	c, clock, results := newTestController(failing)
	defer c.Close()

	c.SetQuery("q")
	clock.fireActive()
	r := receive(t, results)
	assert.True(t, r.Open)
	assert.EqualError(t, r.Err, "store unavailable")
}

func TestCloseSuppressesDelivery(t *testing.T) {
	c, clock, results := newTestController(&recordingSearcher{})
	c.SetQuery("q")
	c.Close()
	clock.fireActive()
	select {
	case r := <-results:
		t.Fatalf("delivery after close: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
}

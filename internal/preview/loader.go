package preview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kk-code-lab/rpeek/internal/archive"
	"github.com/kk-code-lab/rpeek/internal/content"
	"github.com/kk-code-lab/rpeek/internal/filetype"
	"github.com/kk-code-lab/rpeek/internal/model"
)

// Loader materializes preview content asynchronously.
type Loader interface {
	Start(req LoadRequest)
	Cancel(token int)
}

// LoadRequest describes the content to materialize.
type LoadRequest struct {
	Token    int
	Ref      model.FileRef
	Strategy filetype.Strategy
	Callback func(LoadResult)
}

// LoadResult carries the materialized content or the failure.
type LoadResult struct {
	Token   int
	Ref     model.FileRef
	Text    string
	Entries []archive.Entry
	Err     error
	Elapsed time.Duration
}

// NewAsyncLoader constructs the default goroutine-based loader. A positive
// timeout bounds each fetch; zero waits indefinitely.
func NewAsyncLoader(fetcher content.Fetcher, timeout time.Duration) Loader {
	return &asyncLoader{
		fetcher: fetcher,
		timeout: timeout,
		jobs:    make(map[int]context.CancelFunc),
	}
}

type asyncLoader struct {
	fetcher content.Fetcher
	timeout time.Duration

	mu   sync.Mutex
	jobs map[int]context.CancelFunc
}

func (l *asyncLoader) Start(req LoadRequest) {
	if req.Token == 0 || req.Callback == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.mu.Lock()
	l.jobs[req.Token] = cancel
	l.mu.Unlock()

	go func() {
		defer func() {
			l.mu.Lock()
			delete(l.jobs, req.Token)
			l.mu.Unlock()
			cancel()
		}()

		start := time.Now()
		result := materialize(ctx, l.fetcher, l.timeout, req)
		result.Elapsed = time.Since(start)

		select {
		case <-ctx.Done():
			return
		default:
		}

		req.Callback(result)
	}()
}

func (l *asyncLoader) Cancel(token int) {
	l.mu.Lock()
	if cancel, ok := l.jobs[token]; ok {
		cancel()
		delete(l.jobs, token)
	}
	l.mu.Unlock()
}

// materialize fetches the payload behind req.Ref and turns it into text or an
// archive listing.
func materialize(ctx context.Context, fetcher content.Fetcher, timeout time.Duration, req LoadRequest) LoadResult {
	result := LoadResult{Token: req.Token, Ref: req.Ref}

	fetchCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	payload, err := fetch(fetchCtx, fetcher, req.Ref.URL)
	if err != nil {
		result.Err = err
		return result
	}

	switch req.Strategy {
	case filetype.StrategyText:
		result.Text, result.Err = content.DecodeText(req.Ref.URL, payload)
	case filetype.StrategyArchive:
		result.Entries, result.Err = archive.List(req.Ref.URL, payload.Body)
	}
	return result
}

// fetch runs the fetcher but gives up when ctx ends, even if the fetcher
// itself ignores the context.
func fetch(ctx context.Context, fetcher content.Fetcher, url string) (*content.Payload, error) {
	if fetcher == nil {
		return nil, content.NetworkError(url, errors.New("no fetcher configured"))
	}

	type outcome struct {
		payload *content.Payload
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		payload, err := fetcher.Fetch(ctx, url)
		done <- outcome{payload: payload, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			if content.KindOf(out.err) == 0 {
				return nil, content.NetworkError(url, out.err)
			}
			return nil, out.err
		}
		if out.payload == nil {
			return &content.Payload{}, nil
		}
		return out.payload, nil
	case <-ctx.Done():
		return nil, content.NetworkError(url, ctx.Err())
	}
}

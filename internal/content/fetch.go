package content

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kk-code-lab/rpeek/internal/logging"
)

// Payload is the raw body behind a file URL.
type Payload struct {
	Body        []byte
	ContentType string
}

// Fetcher retrieves the bytes stored at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Payload, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (*Payload, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (*Payload, error) {
	return f(ctx, url)
}

// HTTPFetcherConfig configures an HTTPFetcher.
type HTTPFetcherConfig struct {
	Timeout   time.Duration
	AuthToken string
	UserAgent string
}

// HTTPFetcher fetches whole payloads over HTTP.
type HTTPFetcher struct {
	client    *http.Client
	authToken string
	userAgent string
}

// NewHTTPFetcher builds a fetcher with its own transport.
func NewHTTPFetcher(cfg HTTPFetcherConfig) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        16,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		authToken: cfg.AuthToken,
		userAgent: cfg.UserAgent,
	}
}

// Fetch downloads the full body at url. Transport failures and non-2xx
// statuses are reported as network errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NetworkError(url, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if f.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+f.authToken)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, NetworkError(url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NetworkError(url, fmt.Errorf("server returned %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NetworkError(url, err)
	}

	logging.Debug("content fetched",
		zap.String("request_id", requestID),
		zap.String("url", url),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Payload{Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
}

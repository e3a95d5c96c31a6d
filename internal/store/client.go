// Package store is a read-only client for the remote file catalog.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kk-code-lab/rpeek/internal/logging"
	"github.com/kk-code-lab/rpeek/internal/model"
)

// Config holds client configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	AuthToken string
	Limit     int
}

// Client lists and searches files in the catalog.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	authToken  string
	limit      int
}

type listResponse struct {
	Total     int             `json:"total"`
	Documents []model.FileRef `json:"documents"`
}

// New creates a catalog client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", cfg.BaseURL)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: base,
		httpClient: &http.Client{
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
		limit:     cfg.Limit,
	}, nil
}

// Search returns files whose names match query.
func (c *Client) Search(ctx context.Context, query string) ([]model.FileRef, error) {
	params := url.Values{}
	params.Set("search", query)
	if c.limit > 0 {
		params.Set("limit", strconv.Itoa(c.limit))
	}
	return c.list(ctx, params)
}

// Recent returns the most recently uploaded files.
func (c *Client) Recent(ctx context.Context, limit int) ([]model.FileRef, error) {
	params := url.Values{}
	params.Set("sort", "$createdAt-desc")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return c.list(ctx, params)
}

func (c *Client) list(ctx context.Context, params url.Values) ([]model.FileRef, error) {
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: "api/files", RawQuery: params.Encode()})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list files: server returned %d", resp.StatusCode)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode file list: %w", err)
	}

	files := body.Documents
	for i := range files {
		files[i].URL = c.resolve(files[i].URL)
	}

	logging.Debug("file list fetched",
		zap.String("request_id", requestID),
		zap.String("query", params.Get("search")),
		zap.Int("count", len(files)),
	)
	return files, nil
}

// resolve makes relative file URLs absolute against the base URL.
func (c *Client) resolve(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() {
		return raw
	}
	return c.baseURL.ResolveReference(u).String()
}

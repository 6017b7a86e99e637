// Package fetcher downloads uploaded export files.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxSize is the largest file Download accepts. It matches the Telegram bot
// API download limit.
const MaxSize = 20 * 1024 * 1024

// ErrTooLarge is returned when a download exceeds the size limit.
var ErrTooLarge = errors.New("file is too large")

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads files over HTTP.
type Fetcher struct {
	client  HTTPClient
	timeout time.Duration
	limit   int64
}

// New creates a Fetcher with the given HTTP client.
func New(client HTTPClient) *Fetcher {
	return &Fetcher{
		client:  client,
		timeout: 30 * time.Second,
		limit:   MaxSize,
	}
}

// Download fetches the body at url in full.
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "vetremind/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if resp.ContentLength > f.limit {
		return nil, fmt.Errorf("%d bytes: %w", resp.ContentLength, ErrTooLarge)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.limit {
		return nil, fmt.Errorf("more than %d bytes: %w", f.limit, ErrTooLarge)
	}
	return body, nil
}

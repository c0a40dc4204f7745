// Package http provides HTTP implementations of webform.Fetcher and
// webform.SitemapService for static pages that don't need JavaScript.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Traves-Theberge/webform-cli"
	"github.com/avast/retry-go/v4"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// DefaultRetryDelay is the initial backoff delay between attempts.
const DefaultRetryDelay = time.Second

// userAgent identifies requests made by the fetcher.
const userAgent = "webform/1.0 (+https://github.com/Traves-Theberge/webform-cli)"

// Ensure Fetcher implements webform.Fetcher at compile time.
var _ webform.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	retries uint
	delay   time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for each HTTP request.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRetry retries failed requests up to n more times with exponential
// backoff starting at delay. Client errors (4xx other than 429) are never
// retried. Defaults to no retries.
func WithRetry(n uint, delay time.Duration) Option {
	return func(f *Fetcher) {
		f.retries = n
		f.delay = delay
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		delay:   DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return retry.DoWithData(
		func() (string, error) {
			return f.fetchOnce(ctx, url)
		},
		retry.Context(ctx),
		retry.Attempts(f.retries+1),
		retry.Delay(f.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", retry.Unrecoverable(err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
		if permanent(resp.StatusCode) {
			return "", retry.Unrecoverable(err)
		}
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// permanent reports whether a status code will not change on retry.
func permanent(code int) bool {
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// Package crawl runs extraction over batches of pages.
// It coordinates rate limiting, fetching and the extraction pipeline for
// every page, concurrently and with results kept in input order.
package crawl

import (
	"context"
	"net/url"

	"github.com/Traves-Theberge/webform-cli"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages processed at once when
// Runner.Concurrency is not set.
const DefaultConcurrency = 4

// Runner extracts one schema from many pages.
type Runner struct {
	Fetcher  webform.Fetcher
	Pipeline *webform.Pipeline

	// Limiter is optional. When set, requests are rate limited per host.
	// Targets without a host, such as local files, are not limited.
	Limiter webform.DomainLimiter

	// AfterExtract is optional. It runs for every page that was extracted
	// and may replace the result; an error marks the page as failed.
	AfterExtract func(ctx context.Context, page *PageResult, html string) error

	Concurrency int
}

// PageResult is the outcome of extracting one page.
type PageResult struct {
	URL    string
	Result *webform.Result
	Err    error
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
// Events are delivered from a single goroutine.
type ProgressFunc func(event ProgressEvent)

// pageOutcome carries a page result back to the collector.
type pageOutcome struct {
	position int
	page     PageResult
}

// Run extracts s from every URL and returns one PageResult per URL, in input
// order. A page that fails is recorded in its PageResult and does not stop
// the others. If ctx is canceled, Run returns the results gathered so far
// together with the context error.
func (r *Runner) Run(ctx context.Context, urls []string, s *webform.Schema, progress ProgressFunc) ([]PageResult, error) {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(urls)
	notify(progress, ProgressEvent{Type: ProgressStarted, Total: total})

	outcomes := make(chan pageOutcome, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				outcomes <- pageOutcome{position: i, page: r.processURL(gctx, u, s)}
				return nil
			})
		}
		_ = g.Wait()
		close(outcomes)
	}()

	results := make([]PageResult, total)
	completed := 0
	for o := range outcomes {
		completed++
		results[o.position] = o.page

		event := ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, URL: o.page.URL}
		if o.page.Err != nil {
			event.Type = ProgressFailed
			event.Error = o.page.Err
		}
		notify(progress, event)
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}

	notify(progress, ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return results, nil
}

// processURL fetches and extracts a single page.
func (r *Runner) processURL(ctx context.Context, pageURL string, s *webform.Schema) PageResult {
	page := PageResult{URL: pageURL}

	if err := ctx.Err(); err != nil {
		page.Err = err
		return page
	}

	if r.Limiter != nil {
		u, err := url.Parse(pageURL)
		if err != nil {
			page.Err = webform.Errorf(webform.EINVALID, "invalid URL %q: %v", pageURL, err)
			return page
		}
		if u.Host != "" {
			if err := r.Limiter.Wait(ctx, u.Host); err != nil {
				page.Err = err
				return page
			}
		}
	}

	html, err := r.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		page.Err = err
		return page
	}

	res, err := r.Pipeline.Run(html, s)
	if err != nil {
		page.Err = err
		return page
	}
	page.Result = res

	if r.AfterExtract != nil {
		if err := r.AfterExtract(ctx, &page, html); err != nil {
			page.Err = err
		}
	}
	return page
}

func notify(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}

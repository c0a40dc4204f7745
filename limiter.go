package webform

import "context"

// DomainLimiter paces fetches so no single host is hit too often during a
// batch extraction.
type DomainLimiter interface {
	// Wait blocks until host may be fetched again.
	// Returns the context error if ctx is done first.
	Wait(ctx context.Context, host string) error
}

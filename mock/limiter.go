package mock

import (
	"context"

	"github.com/Traves-Theberge/webform-cli"
)

var _ webform.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of webform.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

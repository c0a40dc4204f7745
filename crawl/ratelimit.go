package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/Traves-Theberge/webform-cli"
	"golang.org/x/time/rate"
)

var _ webform.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces page fetches to each host with its own token bucket,
// so a batch can hit several sites at once without bursting any one of them.
// Host names are compared case-insensitively.
type DomainLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	every   rate.Limit
}

// NewDomainLimiter returns a limiter allowing perHost fetches per second to
// each host, with no burst. A perHost of zero or less disables limiting.
func NewDomainLimiter(perHost float64) *DomainLimiter {
	every := rate.Limit(perHost)
	if perHost <= 0 {
		every = rate.Inf
	}
	return &DomainLimiter{
		buckets: make(map[string]*rate.Limiter),
		every:   every,
	}
}

// Wait blocks until host may be fetched again or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.bucket(strings.ToLower(host)).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.buckets[host]
	if !ok {
		b = rate.NewLimiter(d.every, 1)
		d.buckets[host] = b
	}
	return b
}

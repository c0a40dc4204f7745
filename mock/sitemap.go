package mock

import (
	"context"

	"github.com/Traves-Theberge/webform-cli"
)

var _ webform.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of webform.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *webform.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *webform.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

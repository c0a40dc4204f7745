package webform

import (
	"context"
	"regexp"
)

// SitemapService discovers page URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the page URLs listed in a site's sitemaps.
	// Sitemap locations come from robots.txt, falling back to /sitemap.xml.
	// Sitemap indexes are resolved recursively. When baseURL has a path,
	// only URLs below that path are returned.
	//
	// If filter is nil, all URLs are returned.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter selects URLs by pattern.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one are kept.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any are dropped, after Include.
	Exclude []*regexp.Regexp
}

// NewURLFilter compiles include patterns into a filter.
// Returns nil when there are no patterns and EINVALID for a bad pattern.
func NewURLFilter(include []string) (*URLFilter, error) {
	if len(include) == 0 {
		return nil, nil
	}
	f := &URLFilter{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid filter %q: %v", p, err)
		}
		f.Include = append(f.Include, re)
	}
	return f, nil
}

// Match reports whether the URL passes the filter. A nil filter passes all.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}

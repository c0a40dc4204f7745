package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Traves-Theberge/webform-cli"
	"github.com/beevik/etree"
)

// Ensure SitemapService implements webform.SitemapService.
var _ webform.SitemapService = (*SitemapService)(nil)

// SitemapService discovers page URLs from website sitemaps via HTTP.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs returns the deduplicated page URLs listed in the site's
// sitemaps, in sitemap order. Returns an empty slice when the site has no
// sitemap and EINVALID when baseURL cannot be parsed.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *webform.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, webform.Errorf(webform.EINVALID, "invalid base URL %q", baseURL)
	}
	scope := strings.TrimSuffix(base.Path, "/")
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := s.locateSitemaps(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{svc: s, visited: map[string]bool{}, found: map[string]bool{}}
	for _, sm := range sitemaps {
		if err := w.visit(ctx, sm); err != nil {
			return nil, err
		}
	}

	urls := []string{}
	for _, u := range w.urls {
		if inScope(u, scope) && filter.Match(u) {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// inScope reports whether rawURL's path lies at or below scope, respecting
// path segment boundaries: /docs covers /docs/intro but not /documentation.
func inScope(rawURL, scope string) bool {
	if scope == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == scope || strings.HasPrefix(u.Path, scope+"/")
}

// locateSitemaps reads Sitemap directives from robots.txt, falling back to
// /sitemap.xml when robots.txt lists none.
func (s *SitemapService) locateSitemaps(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if body, err := s.get(ctx, robots); err == nil {
		listed, err := sitemapDirectives(body)
		body.Close()
		if err == nil && len(listed) > 0 {
			return listed, nil
		}
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	ok, err := s.exists(ctx, fallback)
	if err != nil {
		// Only cancellation is fatal; anything else means no sitemap.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if !ok {
		return nil, nil
	}
	return []string{fallback}, nil
}

func sitemapDirectives(r io.Reader) ([]string, error) {
	const directive = "sitemap:"

	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) < len(directive) || !strings.EqualFold(line[:len(directive)], directive) {
			continue
		}
		if loc := strings.TrimSpace(line[len(directive):]); loc != "" {
			out = append(out, loc)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return out, nil
}

// sitemapWalk accumulates page URLs across nested sitemap indexes.
type sitemapWalk struct {
	svc     *SitemapService
	visited map[string]bool
	found   map[string]bool
	urls    []string
}

func (w *sitemapWalk) visit(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[sitemapURL] {
		return nil
	}
	w.visited[sitemapURL] = true

	body, err := w.svc.get(ctx, sitemapURL)
	if err != nil {
		return err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return fmt.Errorf("parsing sitemap %s: %w", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		for _, loc := range root.FindElements("./sitemap/loc") {
			if child := strings.TrimSpace(loc.Text()); child != "" {
				if err := w.visit(ctx, child); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, loc := range root.FindElements("./url/loc") {
		u := strings.TrimSpace(loc.Text())
		if u == "" || w.found[u] {
			continue
		}
		w.found[u] = true
		w.urls = append(w.urls, u)
	}
	return nil
}

// get fetches targetURL and returns its body. Non-200 responses are errors.
func (s *SitemapService) get(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}
	return resp.Body, nil
}

// exists reports whether a HEAD request for targetURL returns 200 OK.
func (s *SitemapService) exists(ctx context.Context, targetURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

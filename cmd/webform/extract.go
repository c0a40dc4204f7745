package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Traves-Theberge/webform-cli"
	"github.com/Traves-Theberge/webform-cli/crawl"
	"github.com/Traves-Theberge/webform-cli/fs"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if !c.LLM && (c.Instructions != "" || c.Context) {
		err := webform.Errorf(webform.EINVALID, "--instructions and --context require --llm")
		fmt.Fprintf(deps.Stderr, "error: %s\n", webform.ErrorMessage(err))
		return err
	}

	s, err := webform.LoadSchema(deps.Ctx, deps.Schemas, c.Schema)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webform.ErrorMessage(err))
		if webform.ErrorCode(err) == webform.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Hint: Run 'webform schemas' to see available schemas")
		}
		return err
	}

	if c.Validate {
		c.validateSchema(deps)
	}

	targets, err := c.targets(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webform.ErrorMessage(err))
		return err
	}

	var fallbacks sync.Map
	runner := &crawl.Runner{
		Fetcher:     deps.Fetcher,
		Pipeline:    &webform.Pipeline{Extractor: deps.Extractor, Now: deps.Now},
		Limiter:     deps.Limiter,
		Concurrency: c.Concurrency,
	}
	if c.LLM {
		runner.AfterExtract = c.reformat(deps, s, &fallbacks)
	}

	batch := len(targets) > 1
	var progress crawl.ProgressFunc
	if batch {
		progress = func(e crawl.ProgressEvent) {
			switch e.Type {
			case crawl.ProgressStarted:
				fmt.Fprintf(deps.Stderr, "Extracting %d pages\n", e.Total)
			case crawl.ProgressFailed:
				fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", crawl.TruncateURL(e.URL, 60), webform.ErrorMessage(e.Error))
			}
		}
	}

	pages, err := runner.Run(deps.Ctx, targets, s, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	for _, p := range pages {
		if _, ok := fallbacks.Load(p.URL); ok {
			fmt.Fprintf(deps.Stderr, "warning: %s: model reply was not a JSON object; showing extracted data\n", p.URL)
		}
	}

	if !batch {
		return c.writeSingle(deps, pages[0])
	}
	return c.writeBatch(deps, pages)
}

// validateSchema prints the schema's contract violations as warnings. The
// schema is validated as written, before normalization.
func (c *ExtractCmd) validateSchema(deps *Dependencies) {
	data, err := deps.Schemas.ReadSchema(deps.Ctx, c.Schema)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "warning: schema %s: %s\n", c.Schema, webform.ErrorMessage(err))
		return
	}
	for _, d := range deps.Validator.ValidateJSON(data).Errors {
		fmt.Fprintf(deps.Stderr, "warning: schema %s: %s\n", c.Schema, formatDiagnostic(d))
	}
}

// targets returns the pages to extract: the explicit targets followed by any
// URLs discovered from the sitemap.
func (c *ExtractCmd) targets(deps *Dependencies) ([]string, error) {
	targets := append([]string{}, c.Targets...)

	if c.Sitemap != "" {
		filter, err := webform.NewURLFilter(c.Filter)
		if err != nil {
			return nil, err
		}
		urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.Sitemap, filter)
		if err != nil {
			return nil, err
		}
		if len(urls) == 0 {
			return nil, webform.Errorf(webform.ENOTFOUND, "no URLs found in sitemap for %s", c.Sitemap)
		}
		targets = append(targets, urls...)
	}

	if len(targets) == 0 {
		return nil, webform.Errorf(webform.EINVALID, "nothing to extract: pass URLs, files or --sitemap")
	}
	return targets, nil
}

// reformat returns a hook that sends each page's fields to the model and
// replaces them with the reply, keeping the page's metadata.
func (c *ExtractCmd) reformat(deps *Dependencies, s *webform.Schema, fallbacks *sync.Map) func(context.Context, *crawl.PageResult, string) error {
	return func(ctx context.Context, page *crawl.PageResult, html string) error {
		req := &webform.ReformatRequest{
			Data:         page.Result.Output.Fields(),
			Schema:       s,
			Instructions: c.Instructions,
		}
		if c.Context {
			content, err := webform.PageContent(html, deps.Content, deps.Converter, webform.DefaultContentLimit)
			if err != nil {
				deps.Logger.Warn("page content unavailable", "url", page.URL, "err", err)
			}
			req.Content = content
		}

		res, err := deps.Reformatter.Reformat(ctx, req)
		if err != nil {
			return err
		}
		if !res.Structured {
			fallbacks.Store(page.URL, true)
		}

		out := webform.Output(maps.Clone(res.Data))
		if out == nil {
			out = webform.Output{}
		}
		if md, ok := page.Result.Output.Metadata(); ok {
			out[webform.MetadataKey] = md
		}
		page.Result.Output = out
		return nil
	}
}

func (c *ExtractCmd) writeSingle(deps *Dependencies, page crawl.PageResult) error {
	if page.Err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", webform.ErrorMessage(page.Err))
		return page.Err
	}
	c.reportFieldErrors(deps, page)

	if c.Output == "" {
		return c.render(deps.Stdout, page.Result.Output)
	}

	var buf bytes.Buffer
	if err := c.render(&buf, page.Result.Output); err != nil {
		return err
	}
	if err := fs.WriteFile(c.Output, buf.Bytes()); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	fmt.Fprintf(deps.Stderr, "Wrote %s (%s)\n", c.Output, crawl.FormatBytes(buf.Len()))
	return nil
}

func (c *ExtractCmd) writeBatch(deps *Dependencies, pages []crawl.PageResult) error {
	var writer *fs.Writer
	if c.Output != "" {
		writer = fs.NewWriter(c.Output, c.ext())
	}

	var failed, shown, written int
	for _, page := range pages {
		if page.Err != nil {
			failed++
			continue
		}
		c.reportFieldErrors(deps, page)

		var buf bytes.Buffer
		if err := c.render(&buf, page.Result.Output); err != nil {
			return err
		}

		if writer == nil {
			if shown > 0 {
				fmt.Fprintln(deps.Stdout)
			}
			fmt.Fprintf(deps.Stdout, "# %s\n", page.URL)
			_, _ = deps.Stdout.Write(buf.Bytes())
			shown++
			continue
		}

		if err := c.writePage(writer, page.URL, buf.Bytes()); err != nil {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", page.URL, err)
			failed++
			continue
		}
		written += buf.Len()
	}

	summary := fmt.Sprintf("Extracted %d of %d pages", len(pages)-failed, len(pages))
	if writer != nil {
		summary += fmt.Sprintf(" (%s written to %s)", crawl.FormatBytes(written), c.Output)
	}
	fmt.Fprintln(deps.Stderr, summary)

	if failed == len(pages) {
		return webform.Errorf(webform.EINTERNAL, "all %d pages failed", failed)
	}
	return nil
}

// writePage writes one page's output below the writer's directory. URLs are
// laid out by host and path; local files keep their base name.
func (c *ExtractCmd) writePage(w *fs.Writer, target string, data []byte) error {
	if isURL(target) {
		_, err := w.WritePage(target, data)
		return err
	}
	base := filepath.Base(target)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + c.ext()
	return fs.WriteFile(filepath.Join(c.Output, name), data)
}

func (c *ExtractCmd) reportFieldErrors(deps *Dependencies, page crawl.PageResult) {
	for _, fe := range page.Result.FieldErrors {
		fmt.Fprintf(deps.Stderr, "warning: %s: %v\n", page.URL, fe)
	}
}

func (c *ExtractCmd) render(w io.Writer, out webform.Output) error {
	if c.Format == "text" {
		return webform.RenderText(w, out, !c.NoMetadata)
	}
	return webform.RenderJSON(w, out, !c.NoMetadata)
}

func (c *ExtractCmd) ext() string {
	if c.Format == "text" {
		return ".txt"
	}
	return ".json"
}

func formatDiagnostic(d webform.Diagnostic) string {
	if d.Path == "" {
		return d.Message
	}
	return d.Path + ": " + d.Message
}

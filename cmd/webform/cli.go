package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Traves-Theberge/webform-cli"
	"github.com/Traves-Theberge/webform-cli/config"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Config    *config.Manager
	Schemas   webform.SchemaStore
	Validator webform.SchemaValidator

	Fetcher     webform.Fetcher
	Sitemaps    webform.SitemapService
	Limiter     webform.DomainLimiter
	Extractor   webform.FieldExtractor
	Reformatter webform.Reformatter
	Content     webform.ContentExtractor
	Converter   webform.Converter

	// Now stamps extraction metadata. Defaults to time.Now.
	Now func() time.Time
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose    bool   `short:"v" help:"Log debug output to stderr"`
	ConfigFile string `name:"config-file" help:"Config file (default: $WEBFORM_CONFIG or ~/.webform/config.yaml)"`
	SchemasDir string `name:"schemas-dir" help:"Directory containing schemas (default from config)"`

	Extract  ExtractCmd  `cmd:"" help:"Extract structured data from web pages or HTML files"`
	Validate ValidateCmd `cmd:"" help:"Check a schema against the schema contract"`
	Schemas  SchemasCmd  `cmd:"" help:"List available schemas"`
	Config   ConfigCmd   `cmd:"" help:"Show or change settings"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Targets []string `arg:"" optional:"" help:"URLs or local HTML files"`
	Schema  string   `short:"s" required:"" help:"Schema name"`

	Format     string `short:"f" enum:"json,text" default:"json" help:"Output format (json, text)"`
	NoMetadata bool   `name:"no-metadata" help:"Omit _metadata from output"`
	Output     string `short:"o" help:"Write output to a file, or to a directory when extracting several pages"`
	Validate   bool   `help:"Validate the schema before extracting"`

	LLM          bool   `name:"llm" help:"Reformat results with Gemini"`
	Instructions string `short:"i" help:"Instructions for the model (requires --llm)"`
	Context      bool   `help:"Send the page's main content to the model (requires --llm)"`

	Browser     bool          `short:"b" help:"Render pages with headless Chrome"`
	Timeout     time.Duration `short:"t" default:"30s" help:"Fetch timeout per page"`
	Retries     uint          `default:"2" help:"Retries for failed fetches"`
	Sitemap     string        `help:"Discover URLs from this site's sitemap"`
	Filter      []string      `short:"F" name:"filter" help:"Filter sitemap URLs by regex (repeatable)"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent fetch limit"`
	RateLimit   float64       `name:"rate-limit" default:"2" help:"Requests per second per host (0 disables)"`
}

// ValidateCmd is the "validate" subcommand.
type ValidateCmd struct {
	Schema string `arg:"" help:"Schema name, or path to a schema file"`
	JSON   bool   `name:"json" help:"Print the report as JSON"`
}

// SchemasCmd is the "schemas" subcommand.
type SchemasCmd struct{}

// ConfigCmd is the "config" subcommand.
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" default:"1" help:"Show current settings"`
	Set  ConfigSetCmd  `cmd:"" help:"Store a setting"`
}

// ConfigShowCmd is the "config show" subcommand.
type ConfigShowCmd struct{}

// ConfigSetCmd is the "config set" subcommand.
type ConfigSetCmd struct {
	Key   string `arg:"" enum:"api_key,model,schemas_dir" help:"Setting (api_key, model, schemas_dir)"`
	Value string `arg:"" help:"Value to store"`
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Traves-Theberge/webform-cli"
	"github.com/Traves-Theberge/webform-cli/config"
	"github.com/Traves-Theberge/webform-cli/crawl"
	"github.com/Traves-Theberge/webform-cli/fs"
	"github.com/Traves-Theberge/webform-cli/gemini"
	"github.com/Traves-Theberge/webform-cli/goquery"
	"github.com/Traves-Theberge/webform-cli/htmltomarkdown"
	webhttp "github.com/Traves-Theberge/webform-cli/http"
	"github.com/Traves-Theberge/webform-cli/jsonschema"
	"github.com/Traves-Theberge/webform-cli/rod"
	webslog "github.com/Traves-Theberge/webform-cli/slog"
	"github.com/Traves-Theberge/webform-cli/trafilatura"
	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	// A missing .env file is fine.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// tokenizerModel is used for prompt token counting. The local tokenizer
// only knows a fixed set of models, so it does not follow the configured one.
const tokenizerModel = "gemini-2.5-flash"

// maxPromptTokens bounds reformatting prompts.
const maxPromptTokens = 200_000

// Main represents the program.
type Main struct {
	// Closers are released when Run returns.
	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close releases resources acquired by Run.
func (m *Main) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	m.closers = nil
	return first
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webform"),
		kong.Description("Extract structured data from web pages with CSS-selector schemas"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'webform --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(cli.Verbose, stderr)

	cfgPath := cli.ConfigFile
	if cfgPath == "" {
		if cfgPath, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	deps.Config, err = config.NewManager(cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Fix or remove %s\n", cfgPath)
		return err
	}
	cfg, err := deps.Config.Load()
	if err != nil {
		return err
	}

	schemasDir := cli.SchemasDir
	if schemasDir == "" {
		schemasDir = cfg.SchemasDir
	}
	deps.Schemas = webslog.NewLoggingSchemaStore(fs.NewSchemaStore(schemasDir), deps.Logger)
	deps.Validator = jsonschema.NewValidator()

	if strings.HasPrefix(kongCtx.Command(), "extract") {
		defer m.Close()
		if err := m.wireExtract(ctx, deps, &cli.Extract, cfg); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireExtract connects the services used by the extract command.
func (m *Main) wireExtract(ctx context.Context, deps *Dependencies, c *ExtractCmd, cfg *config.Config) error {
	logger := deps.Logger.With("run", uuid.NewString())
	deps.Logger = logger

	var fetcher webform.Fetcher
	if c.Browser {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(c.Timeout))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = f
	} else {
		fetcher = webhttp.NewFetcher(
			webhttp.WithTimeout(c.Timeout),
			webhttp.WithRetry(c.Retries, webhttp.DefaultRetryDelay),
		)
	}
	deps.Fetcher = webslog.NewLoggingFetcher(&localFetcher{next: fetcher}, logger)
	m.closers = append(m.closers, deps.Fetcher)

	deps.Sitemaps = webslog.NewLoggingSitemapService(webhttp.NewSitemapService(nil), logger)
	deps.Limiter = crawl.NewDomainLimiter(c.RateLimit)
	deps.Extractor = webslog.NewLoggingFieldExtractor(goquery.NewExtractor(), logger)
	deps.Content = trafilatura.NewExtractor()
	deps.Converter = htmltomarkdown.NewConverter()

	if !c.LLM {
		return nil
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		fmt.Fprintln(deps.Stderr, "Hint: Run 'webform config set api_key <key>' or set GEMINI_API_KEY. Get a key at https://aistudio.google.com/apikey")
		return webform.Errorf(webform.EINVALID, "Gemini API key not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Check your Gemini API key is valid")
		return fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	var opts []gemini.Option
	if counter, err := gemini.NewTokenCounter(tokenizerModel); err != nil {
		logger.Warn("token counting disabled", "err", err)
	} else {
		opts = append(opts, gemini.WithTokenLimit(counter, maxPromptTokens))
	}
	deps.Reformatter = webslog.NewLoggingReformatter(gemini.NewReformatter(client, cfg.Model, opts...), logger)
	return nil
}

// newLogger returns a debug-level text logger on w when verbose is set, and a
// logger that discards everything otherwise.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

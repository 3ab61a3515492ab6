package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/mpawlak/a11y"
	"github.com/mpawlak/a11y/crawl"
	"github.com/mpawlak/a11y/gemini"
	"github.com/mpawlak/a11y/goquery"
	a11yhttp "github.com/mpawlak/a11y/http"
	"github.com/mpawlak/a11y/index"
	"github.com/mpawlak/a11y/rod"
	"github.com/mpawlak/a11y/scan"
	"github.com/mpawlak/a11y/search"
	a11yslog "github.com/mpawlak/a11y/slog"
	"github.com/mpawlak/a11y/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by the audit store.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Store a11y.AuditStore
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
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
		kong.Name("a11y"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'a11y --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set A11Y_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.Store = sqlite.NewAuditService(m.DB)
	deps.DB = m.DB
	deps.Store = m.Store

	// Gemini-backed commands need an API client; the remaining commands
	// run fully offline.
	if cmd == "index" || cmd == "search" {
		client, err := newGeminiClient(ctx, stderr)
		if err != nil {
			return err
		}
		limiter := gemini.NewLimiter()

		if cmd == "search" {
			deps.Search = a11yslog.NewLoggingSearchService(
				search.NewService(m.Store, gemini.NewEmbeddingProvider(client, limiter), logger),
				logger,
			)
		}

		if cmd == "index" {
			var fetcher a11y.PageFetcher
			if cli.Index.Browser {
				f, err := rod.NewFetcher()
				if err != nil {
					fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
					return fmt.Errorf("failed to start browser: %w", err)
				}
				fetcher = f
			} else {
				fetcher = a11yhttp.NewFetcher()
			}
			fetcher = a11yslog.NewLoggingFetcher(fetcher, logger)
			defer fetcher.Close()

			deps.Indexer = &index.Pipeline{
				Crawler: crawl.New(fetcher, logger),
				Scanner: &scan.Orchestrator{
					Fetcher:     fetcher,
					Engine:      goquery.NewEngine(),
					Suggestions: scan.NewSuggestionCache(gemini.NewSuggestionProvider(client, limiter), logger),
					Logger:      logger,
					BatchSize:   cli.Index.Concurrency,
				},
				Store:     m.Store,
				Embedder:  gemini.NewEmbeddingProvider(client, limiter),
				Sitemaps:  a11yhttp.NewSitemapService(nil),
				Logger:    logger,
				MaxDepth:  cli.Index.Depth,
				BatchSize: cli.Index.Concurrency,
			}
		}
	}

	return kongCtx.Run(deps)
}

func newGeminiClient(ctx context.Context, stderr io.Writer) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

func defaultDBPath() string {
	if path := os.Getenv("A11Y_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "a11y.db"
	}
	dir := filepath.Join(home, ".a11y")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "a11y.db")
}

package main

import (
	"context"
	"io"

	"github.com/mpawlak/a11y"
	"github.com/mpawlak/a11y/index"
	"github.com/mpawlak/a11y/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	DB      *sqlite.DB
	Store   a11y.AuditStore
	Search  a11y.SearchService
	Indexer *index.Pipeline
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Index      IndexCmd      `cmd:"" help:"Crawl and audit a website for accessibility violations"`
	Search     SearchCmd     `cmd:"" help:"Search stored violations by natural language query"`
	Violations ViolationsCmd `cmd:"" help:"List stored violations with optional filters"`
	List       ListCmd       `cmd:"" help:"List audited websites"`
	Pages      PagesCmd      `cmd:"" help:"List audited pages for a website"`
	Export     ExportCmd     `cmd:"" help:"Export a website's audit as markdown reports"`
	Delete     DeleteCmd     `cmd:"" help:"Delete a website and its audit data"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Target      string `arg:"" help:"Website URL or bare domain to audit"`
	Depth       int    `short:"d" default:"2" help:"Maximum crawl depth"`
	Concurrency int    `short:"c" default:"5" help:"Concurrent page scan limit"`
	Browser     bool   `short:"b" help:"Render pages in a headless browser instead of plain HTTP"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Natural language query"`
	Limit int    `short:"n" default:"10" help:"Maximum number of results"`
}

// ViolationsCmd is the "violations" subcommand.
type ViolationsCmd struct {
	Rule     string `short:"r" help:"Filter by exact rule ID"`
	Severity string `short:"s" help:"Filter by severity (critical, high, medium, low)"`
	Domain   string `short:"D" help:"Filter by domain substring"`
	Limit    int    `short:"n" default:"50" help:"Maximum number of results"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// PagesCmd is the "pages" subcommand.
type PagesCmd struct {
	Domain string `arg:"" help:"Website domain"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Domain string `arg:"" help:"Website domain"`
	Out    string `short:"o" default:"." help:"Output directory for the report tree"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Domain string `arg:"" help:"Website domain"`
	Force  bool   `help:"Confirm deletion"`
}

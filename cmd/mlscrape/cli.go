package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/mlscrape"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Scraper mlscrape.ScrapeService
	Readers mlscrape.RowReaders
	Domain  string
	Limit   int
	Now     func() time.Time
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config kong.ConfigFlag `help:"Load flags from a TOML config file"`

	LogLevel  string        `default:"info" enum:"debug,info,warn,error" help:"Log level (${enum})"`
	LogFormat string        `default:"text" enum:"text,json" help:"Log format (${enum})"`
	Domain    string        `default:"mercadolivre.com.br" help:"Only URLs containing this domain are scraped"`
	Timeout   time.Duration `default:"10s" help:"Per-request fetch timeout"`
	Delay     time.Duration `default:"1500ms" help:"Pause between batch requests"`
	Limit     int           `default:"50" help:"Maximum links per batch"`

	Serve  ServeCmd  `cmd:"" help:"Run the HTTP API server"`
	Scrape ScrapeCmd `cmd:"" help:"Scrape a single listing and print the result"`
	Batch  BatchCmd  `cmd:"" help:"Scrape every listing linked from a spreadsheet or CSV file"`
	Export ExportCmd `cmd:"" help:"Convert saved batch results to a CSV export"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr            string        `default:":8080" help:"Listen address"`
	ShutdownTimeout time.Duration `default:"10s" help:"Grace period for in-flight requests on shutdown"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL string `arg:"" help:"Listing URL"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File   string `arg:"" type:"existingfile" help:"Spreadsheet or CSV file with listing links (.xlsx, .xls, .csv)"`
	Export string `short:"e" help:"Also write a CSV export into this directory (created if missing)"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Results string `arg:"" type:"existingfile" help:"Batch results JSON file"`
	Output  string `short:"o" help:"Output file (defaults to a timestamped name in the current directory)"`
}

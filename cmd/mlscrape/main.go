package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/mlscrape"
	"github.com/fwojciec/mlscrape/csv"
	"github.com/fwojciec/mlscrape/excelize"
	"github.com/fwojciec/mlscrape/goquery"
	mlhttp "github.com/fwojciec/mlscrape/http"
	"github.com/fwojciec/mlscrape/scrape"
	mlslog "github.com/fwojciec/mlscrape/slog"
	"github.com/fwojciec/mlscrape/toml"
	"github.com/fwojciec/mlscrape/xls"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", errorText(err))
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config files read before flags and environment. Missing files are
	// skipped.
	ConfigPaths []string

	// Fetcher replaces the HTTP fetcher when set.
	Fetcher mlscrape.Fetcher

	// Now is used for export filenames.
	Now func() time.Time
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: []string{toml.DefaultConfigPath},
		Now:         time.Now,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Now:    m.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("mlscrape"),
		kong.Description("Extract Mercado Livre listing data one URL at a time or from a spreadsheet of links."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Configuration(toml.Loader, m.ConfigPaths...),
		kong.DefaultEnvars("MLSCRAPE"),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return mlscrape.Errorf(mlscrape.EINVALID, "no command specified. Run 'mlscrape --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return mlscrape.Errorf(mlscrape.EINVALID, "%s", err)
	}

	logger, err := newLogger(cli.LogLevel, cli.LogFormat, stderr)
	if err != nil {
		return err
	}
	deps.Logger = logger
	deps.Domain = cli.Domain
	deps.Limit = cli.Limit

	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = mlhttp.NewFetcher(
			mlhttp.WithTimeout(cli.Timeout),
			mlhttp.WithDomain(cli.Domain),
		)
	}
	defer fetcher.Close()

	scraper := scrape.NewScraper(
		mlslog.NewLoggingFetcher(fetcher, logger),
		mlslog.NewLoggingExtractor(goquery.NewExtractor(), logger),
		logger,
	)
	scraper.Domain = cli.Domain
	scraper.Delay = cli.Delay
	deps.Scraper = scraper

	deps.Readers = mlslog.WrapRowReaders(mlscrape.RowReaders{
		".csv":  csv.NewRowReader(),
		".xlsx": excelize.NewRowReader(),
		".xls":  xls.NewRowReader(),
	}, logger)

	return kongCtx.Run(deps)
}

// errorText prefers the application message and falls back to the full error
// text, which is fine to show on a terminal.
func errorText(err error) string {
	var e *mlscrape.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func newLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, mlscrape.Errorf(mlscrape.EINVALID, "invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, mlscrape.Errorf(mlscrape.EINVALID, "invalid log format %q", format)
	}
}

package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/mlscrape"
	main "github.com/fwojciec/mlscrape/cmd/mlscrape"
	"github.com/fwojciec/mlscrape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	listingA = "https://produto.mercadolivre.com.br/MLB-1-furadeira"
	listingB = "https://produto.mercadolivre.com.br/MLB-2-serra"
)

const listingHTML = `<html><body>
<h1 class="ui-pdp-title">Furadeira</h1>
<div class="ui-pdp-description__content">Potente<br>500W</div>
<table><tr class="andes-table__row"><th class="andes-table__header">Marca</th><td class="andes-table__column">Acme</td></tr></table>
</body></html>`

// newMain returns a Main that reads no config files and serves pages from
// the given map. Unknown URLs fail to fetch.
func newMain(pages map[string]string) (*main.Main, *[]string) {
	var fetched []string
	m := main.NewMain()
	m.ConfigPaths = nil
	m.Now = func() time.Time { return time.UnixMilli(1760000000123) }
	m.Fetcher = &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			fetched = append(fetched, url)
			html, ok := pages[url]
			if !ok {
				return "", assert.AnError
			}
			return html, nil
		},
		CloseFn: func() error { return nil },
	}
	return m, &fetched
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns error without command", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(nil)
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), nil, stdout, stderr)

		require.Error(t, err)
		assert.Equal(t, mlscrape.EINVALID, mlscrape.ErrorCode(err))
		assert.Contains(t, stdout.String(), "Usage:")
	})

	t.Run("prints help", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(nil)
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "scrape")
		assert.Contains(t, stdout.String(), "batch")
	})

	t.Run("rejects unknown log level", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(nil)

		err := m.Run(context.Background(), []string{"--log-level=loud", "scrape", listingA}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, mlscrape.EINVALID, mlscrape.ErrorCode(err))
	})
}

func TestScrapeCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints extracted listing as JSON", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(map[string]string{listingA: listingHTML})
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"scrape", listingA}, stdout, stderr)

		require.NoError(t, err)
		var result mlscrape.ExtractionResult
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.True(t, result.Success)
		assert.Equal(t, "Furadeira", result.Title)
		assert.Equal(t, "Potente\n500W", result.Description)
		assert.Equal(t, mlscrape.Characteristics{{Key: "Marca", Value: "Acme"}}, result.Characteristics)
	})

	t.Run("returns not found when description is missing", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(map[string]string{listingA: "<html><body><h1 class=\"ui-pdp-title\">X</h1></body></html>"})
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"scrape", listingA}, stdout, &bytes.Buffer{})

		assert.Equal(t, mlscrape.ENOTFOUND, mlscrape.ErrorCode(err))
		assert.Contains(t, stdout.String(), `"success": false`)
	})

	t.Run("rejects foreign domain without fetching", func(t *testing.T) {
		t.Parallel()

		m, fetched := newMain(nil)

		err := m.Run(context.Background(), []string{"scrape", "https://example.com/item"}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, mlscrape.EINVALID, mlscrape.ErrorCode(err))
		assert.Empty(t, *fetched)
	})

	t.Run("collapses fetch failure", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(nil)

		err := m.Run(context.Background(), []string{"scrape", listingA}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, mlscrape.EFETCH, mlscrape.ErrorCode(err))
		assert.Equal(t, "extraction failed or blocked", mlscrape.ErrorMessage(err))
	})
}

func TestBatchCmd(t *testing.T) {
	t.Parallel()

	t.Run("scrapes harvested links and writes export", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		file := writeFile(t, dir, "links.csv", "nome;link\nFuradeira;"+listingA+"\nSerra;"+listingB+"\nFuradeira;"+listingA+"\n")
		m, fetched := newMain(map[string]string{listingA: listingHTML})
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--delay=0", "batch", file, "--export", dir}, stdout, stderr)

		require.NoError(t, err)
		assert.Equal(t, []string{listingA, listingB}, *fetched)

		var outcome mlscrape.BatchOutcome
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &outcome))
		assert.True(t, outcome.Success)
		assert.Equal(t, 2, outcome.Total)
		require.Len(t, outcome.Results, 2)
		assert.True(t, outcome.Results[0].Success)
		assert.False(t, outcome.Results[1].Success)
		assert.Contains(t, stderr.String(), "Done: 1 of 2 succeeded")

		export, err := os.ReadFile(filepath.Join(dir, "mlscrape-export-1760000000123.csv"))
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSuffix(string(export), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "\uFEFF"+`"URL";"Status";"Title";"Description";"Marca"`, lines[0])
		assert.Equal(t, `"`+listingA+`";"Completed";"Furadeira";"Potente  500W";"Acme"`, lines[1])
		assert.Equal(t, `"`+listingB+`";"Error: extraction failed or blocked";"";"";"-"`, lines[2])
	})

	t.Run("honors limit flag", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, t.TempDir(), "links.csv", listingA+"\n"+listingB+"\n")
		m, fetched := newMain(map[string]string{listingA: listingHTML, listingB: listingHTML})

		err := m.Run(context.Background(), []string{"--delay=0", "--limit=1", "batch", file}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, []string{listingA}, *fetched)
	})

	t.Run("reads limit from config file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		file := writeFile(t, dir, "links.csv", listingA+"\n"+listingB+"\n")
		config := writeFile(t, dir, "config.toml", "limit = 1\ndelay = \"0s\"\n")
		m, fetched := newMain(map[string]string{listingA: listingHTML, listingB: listingHTML})
		m.ConfigPaths = []string{config}

		err := m.Run(context.Background(), []string{"batch", file}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, []string{listingA}, *fetched)
	})

	t.Run("rejects unsupported file", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, t.TempDir(), "links.txt", listingA+"\n")
		m, _ := newMain(nil)

		err := m.Run(context.Background(), []string{"batch", file}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, mlscrape.EINVALID, mlscrape.ErrorCode(err))
	})

	t.Run("rejects file without links", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, t.TempDir(), "links.csv", "nome\nFuradeira\n")
		m, _ := newMain(nil)

		err := m.Run(context.Background(), []string{"batch", file}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, mlscrape.EINVALID, mlscrape.ErrorCode(err))
		assert.Equal(t, "no listing links found in file", mlscrape.ErrorMessage(err))
	})
}

func TestBatchCmd_EnvLimit(t *testing.T) {
	t.Setenv("MLSCRAPE_LIMIT", "1")

	file := writeFile(t, t.TempDir(), "links.csv", listingA+"\n"+listingB+"\n")
	m, fetched := newMain(map[string]string{listingA: listingHTML, listingB: listingHTML})

	err := m.Run(context.Background(), []string{"--delay=0", "batch", file}, &bytes.Buffer{}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, []string{listingA}, *fetched)
}

func TestExportCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes export to output file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		results := writeFile(t, dir, "results.json", `{"success":true,"total":1,"results":[{"url":"`+listingA+`","success":true,"title":"Furadeira","description":"Potente","characteristics":{"Marca":"Acme"}}]}`)
		output := filepath.Join(dir, "out.csv")
		m, _ := newMain(nil)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"export", results, "--output", output}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Exported 1 results")
		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t,
			"\uFEFF"+`"URL";"Status";"Title";"Description";"Marca"`+"\n"+
				`"`+listingA+`";"Completed";"Furadeira";"Potente";"Acme"`+"\n",
			string(data))
	})

	t.Run("rejects malformed results file", func(t *testing.T) {
		t.Parallel()

		results := writeFile(t, t.TempDir(), "results.json", `[1,2`)
		m, _ := newMain(nil)

		err := m.Run(context.Background(), []string{"export", results}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, mlscrape.EINVALID, mlscrape.ErrorCode(err))
	})

	t.Run("rejects empty results", func(t *testing.T) {
		t.Parallel()

		results := writeFile(t, t.TempDir(), "results.json", `{"success":true,"total":0,"results":[]}`)
		m, _ := newMain(nil)

		err := m.Run(context.Background(), []string{"export", results}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Equal(t, "no results to export", mlscrape.ErrorMessage(err))
	})
}

func TestServeCmd(t *testing.T) {
	t.Parallel()

	t.Run("stops when context is cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		m, _ := newMain(nil)
		stderr := &bytes.Buffer{}

		err := m.Run(ctx, []string{"serve", "--addr=127.0.0.1:0"}, &bytes.Buffer{}, stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "shutting down")
	})
}

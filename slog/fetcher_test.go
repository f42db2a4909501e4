package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/mlscrape/mock"
	mlslog "github.com/fwojciec/mlscrape/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs url, size and duration at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>listing</html>", nil
			},
		}

		fetcher := mlslog.NewLoggingFetcher(inner, logger)
		html, err := fetcher.Fetch(context.Background(), "https://produto.mercadolivre.com.br/MLB-1")

		require.NoError(t, err)
		assert.Equal(t, "<html>listing</html>", html)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://produto.mercadolivre.com.br/MLB-1")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs the transport error at warn level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("connection reset by peer")
			},
		}

		fetcher := mlslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://produto.mercadolivre.com.br/MLB-1")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "bytes=0")
		assert.Contains(t, output, "err=\"connection reset by peer\"")
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	closeErr := errors.New("idle connections busy")
	inner := &mock.Fetcher{
		CloseFn: func() error { return closeErr },
	}

	err := mlslog.NewLoggingFetcher(inner, slog.New(slog.DiscardHandler)).Close()

	assert.ErrorIs(t, err, closeErr)
}

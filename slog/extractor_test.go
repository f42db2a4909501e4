package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/mlscrape"
	"github.com/fwojciec/mlscrape/mock"
	mlslog "github.com/fwojciec/mlscrape/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs title and characteristic count at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Extractor{
			ExtractFn: func(html string) (*mlscrape.Fields, error) {
				return &mlscrape.Fields{
					Title:           "Furadeira",
					Description:     "desc",
					Characteristics: mlscrape.Characteristics{{Key: "Marca", Value: "Acme"}},
				}, nil
			},
		}

		extractor := mlslog.NewLoggingExtractor(inner, logger)
		fields, err := extractor.Extract("<html></html>")

		require.NoError(t, err)
		assert.Equal(t, "desc", fields.Description)
		output := buf.String()
		assert.Contains(t, output, "extract")
		assert.Contains(t, output, "title=Furadeira")
		assert.Contains(t, output, "characteristics=1")
	})

	t.Run("logs error when description is missing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Extractor{
			ExtractFn: func(html string) (*mlscrape.Fields, error) {
				return nil, mlscrape.Errorf(mlscrape.ENOTFOUND, "description not found")
			},
		}

		extractor := mlslog.NewLoggingExtractor(inner, logger)
		_, err := extractor.Extract("<html></html>")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "description not found")
	})

	t.Run("stays quiet at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(html string) (*mlscrape.Fields, error) {
				return &mlscrape.Fields{Description: "desc"}, nil
			},
		}

		_, err := mlslog.NewLoggingExtractor(inner, logger).Extract("<html></html>")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}

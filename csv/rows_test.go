package csv_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/mlscrape"
	"github.com/fwojciec/mlscrape/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowReader_ReadRows(t *testing.T) {
	t.Parallel()

	t.Run("reads comma separated rows", func(t *testing.T) {
		t.Parallel()

		input := "name,link\nDrill,https://produto.mercadolivre.com.br/MLB-1\n"

		rows, err := csv.NewRowReader().ReadRows(strings.NewReader(input))

		require.NoError(t, err)
		assert.Equal(t, []mlscrape.Row{
			{"name", "link"},
			{"Drill", "https://produto.mercadolivre.com.br/MLB-1"},
		}, rows)
	})

	t.Run("detects semicolon delimiter", func(t *testing.T) {
		t.Parallel()

		input := "nome;link;preço\nFuradeira, 500W;https://produto.mercadolivre.com.br/MLB-1;10,50\n"

		rows, err := csv.NewRowReader().ReadRows(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, mlscrape.Row{"Furadeira, 500W", "https://produto.mercadolivre.com.br/MLB-1", "10,50"}, rows[1])
	})

	t.Run("strips byte order mark", func(t *testing.T) {
		t.Parallel()

		input := "\xEF\xBB\xBFhttps://produto.mercadolivre.com.br/MLB-1\n"

		rows, err := csv.NewRowReader().ReadRows(strings.NewReader(input))

		require.NoError(t, err)
		assert.Equal(t, []mlscrape.Row{{"https://produto.mercadolivre.com.br/MLB-1"}}, rows)
	})

	t.Run("accepts ragged rows", func(t *testing.T) {
		t.Parallel()

		input := "a,b,c\nd\ne,f\n"

		rows, err := csv.NewRowReader().ReadRows(strings.NewReader(input))

		require.NoError(t, err)
		assert.Equal(t, []mlscrape.Row{{"a", "b", "c"}, {"d"}, {"e", "f"}}, rows)
	})

	t.Run("returns no rows for empty input", func(t *testing.T) {
		t.Parallel()

		rows, err := csv.NewRowReader().ReadRows(strings.NewReader(""))

		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

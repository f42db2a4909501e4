package toml_test

import (
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/mlscrape/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	Addr     string        `default:":8080"`
	Delay    time.Duration `default:"1500ms"`
	Limit    int           `default:"50"`
	LogLevel string        `default:"info"`
	Verbose  bool
}

func parse(t *testing.T, config string, args ...string) (*testCLI, error) {
	t.Helper()

	resolver, err := toml.Loader(strings.NewReader(config))
	require.NoError(t, err)

	cli := &testCLI{}
	parser, err := kong.New(cli, kong.Resolvers(resolver), kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse(args)
	return cli, err
}

func TestLoader(t *testing.T) {
	t.Parallel()

	t.Run("sets flags from top-level keys", func(t *testing.T) {
		t.Parallel()

		cli, err := parse(t, `
addr = ":9090"
delay = "2s"
limit = 10
log_level = "debug"
verbose = true
`)

		require.NoError(t, err)
		assert.Equal(t, ":9090", cli.Addr)
		assert.Equal(t, 2*time.Second, cli.Delay)
		assert.Equal(t, 10, cli.Limit)
		assert.Equal(t, "debug", cli.LogLevel)
		assert.True(t, cli.Verbose)
	})

	t.Run("command line flags win over config", func(t *testing.T) {
		t.Parallel()

		cli, err := parse(t, `limit = 10`, "--limit=3")

		require.NoError(t, err)
		assert.Equal(t, 3, cli.Limit)
	})

	t.Run("missing keys keep defaults", func(t *testing.T) {
		t.Parallel()

		cli, err := parse(t, ``)

		require.NoError(t, err)
		assert.Equal(t, ":8080", cli.Addr)
		assert.Equal(t, 1500*time.Millisecond, cli.Delay)
	})

	t.Run("accepts dashed keys", func(t *testing.T) {
		t.Parallel()

		cli, err := parse(t, `log-level = "warn"`)

		require.NoError(t, err)
		assert.Equal(t, "warn", cli.LogLevel)
	})

	t.Run("rejects tables for scalar flags", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, "[addr]\nhost = \"x\"\n")

		assert.Error(t, err)
	})
}

func TestLoader_InvalidTOML(t *testing.T) {
	t.Parallel()

	_, err := toml.Loader(strings.NewReader("addr = "))

	assert.Error(t, err)
}

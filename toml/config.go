// Package toml loads TOML configuration files into kong flag resolvers.
package toml

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigPath is the config file read when --config is not given.
const DefaultConfigPath = "~/.config/mlscrape/config.toml"

// Loader is a kong.ConfigurationLoader. Top-level keys name flags, with
// underscores standing in for dashes ("log_level" sets --log-level). Values
// are handed to kong as strings so each flag keeps its own decoding.
func Loader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := toml.NewDecoder(r).Decode(&values); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var resolver kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, key := range []string{strings.ReplaceAll(flag.Name, "-", "_"), flag.Name} {
			v, ok := values[key]
			if !ok {
				continue
			}
			switch v := v.(type) {
			case map[string]any, []any:
				return nil, fmt.Errorf("config key %q: expected a single value", key)
			case string:
				return v, nil
			default:
				return fmt.Sprint(v), nil
			}
		}
		return nil, nil
	}
	return resolver, nil
}

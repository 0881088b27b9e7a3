package cli

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadYAML is a [kong.ConfigurationLoader] that reads a YAML configuration
// file, such as the one written by the init command.
//
// Keys are flag names. Nested mappings are flattened by joining keys with
// '-', so the following are equivalent:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Underscores may be used in place of hyphens. Command-line flags override
// configuration file values. An empty file configures nothing.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	cfg := config{}
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] for flattened YAML configs.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		if sub, ok := value.(map[string]any); ok {
			c.flatten(prefix+key+"-", sub)

			continue
		}

		c[prefix+key] = scalar(value)
	}
}

// scalar converts numbers to strings, which kong parses per flag type.
func scalar(v any) any {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = scalar(e)
		}

		return out
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

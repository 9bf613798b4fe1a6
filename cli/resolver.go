package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/cadscript/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from
// the mapping stored under name in a YAML document.
//
// Nested mappings are flattened by joining keys with "-", and keys may use
// "_" in place of "-":
//
//	config:
//	  log:
//	    level: debug
//	    pretty: false
//	  base_dir: /opt/cad/scripts
//
// resolves --log-level, --log-pretty, and --base-dir. Command-line flags
// override configured values. A document that cannot be parsed, or lacks
// the mapping, resolves nothing.
func resolve(ctx context.Context, name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).DecodeContext(ctx, &doc); err != nil {
			if !errors.Is(err, io.EOF) {
				log.WarnContext(ctx, "ignoring configuration",
					slog.String("reason", err.Error()))
			}

			return config{}, nil
		}

		sub, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		flat := make(config)
		flat.flatten("", sub)

		return flat, nil
	}
}

// config implements [kong.Resolver] over flattened flag names.
type config map[string]any

// flatten stores the leaves of m under their "-"-joined key paths.
func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		key = prefix + strings.ReplaceAll(key, "_", "-")

		if sub, ok := value.(map[string]any); ok {
			c.flatten(key+"-", sub)

			continue
		}

		c[key] = scalar(value)
	}
}

// scalar converts decoded YAML values to the forms kong mappers accept.
// Numbers become strings, and sequences of numbers become sequences of
// strings.
func scalar(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for n, e := range v {
			out[n] = scalar(e)
		}

		return out
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	return nil, nil
}

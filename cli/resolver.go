package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/logchan/pkg"
)

// resolve is a [kong.ConfigurationLoader] that reads flag defaults from a
// YAML document.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Keys are flag names. Nested mappings are joined with "-", and "_" may be
// used in place of "-":
//
//	log:
//	  level: debug
//	slack_webhook: https://hooks.slack.com/services/T000/B000/XXXX
//	slack:
//	  warnings: false
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--slack-webhook=https://hooks.slack.com/services/T000/B000/XXXX
//	--no-slack-warnings
//
// Environment variables and command-line flags override config file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pkg.ErrInvalidConfig.Wrap(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, pkg.ErrInvalidConfig.
			With(slog.String("format", "yaml")).
			Wrap(err)
	}

	cfg := config{}
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] for flattened YAML documents.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[normalizeKey(flag.Name)]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flatten adds the scalars of m to r, joining nested keys with "-".
func (r config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		key = normalizeKey(prefix + key)

		switch v := val.(type) {
		case map[string]any:
			r.flatten(key+"-", v)
		case map[any]any:
			sub := make(map[string]any, len(v))
			for k, e := range v {
				sub[fmt.Sprint(k)] = e
			}

			r.flatten(key+"-", sub)
		default:
			r[key] = scalar(v)
		}
	}
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", "-"))
}

// scalar converts a decoded YAML value to a form Kong can map.
func scalar(v any) any {
	switch n := v.(type) {
	case nil:
		return ""
	case bool, string:
		return n
	// Kong requires numbers as strings for parsing
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case []any:
		elem := make([]string, len(n))
		for i, e := range n {
			elem[i] = fmt.Sprint(scalar(e))
		}

		return strings.Join(elem, ",")
	default:
		return fmt.Sprint(n)
	}
}

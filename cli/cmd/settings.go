package cmd

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/logchan/profile"
)

// setting is the effective value of one global flag.
type setting struct {
	name   string
	env    string
	value  any
	redact bool
}

// settings returns the global flags of ktx with their effective values, in
// declaration order. Help, version and profiling flags are omitted.
func settings(ktx *kong.Context) []setting {
	if ktx == nil {
		return nil
	}

	prefixIgnore := []string{"help", "version", profile.Tag}

	var out []setting

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		out = append(out, setting{
			name:   flag.Name,
			env:    strings.Join(flag.Envs, ","),
			value:  plain(ktx.FlagValue(flag)),
			redact: flag.Tag != nil && flag.Tag.Has("redact"),
		})
	}

	return out
}

// display returns the value of s as shown to users.
func (s setting) display() any {
	if str, ok := s.value.(string); ok && s.redact {
		return redactURL(str)
	}

	return s.value
}

// plain converts flag values to bool, string or number.
func plain(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case bool, string, int, int64, uint64, float64:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// redactURL keeps the scheme and host of a URL and hides the rest, which
// carries the webhook secret.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "<redacted>"
	}

	return u.Scheme + "://" + u.Host + "/<redacted>"
}

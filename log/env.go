package log

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ardnew/logchan/pkg"
)

// Environment keys read by [FromEnv].
const (
	EnvFile            = "LOG_FILE"
	EnvLevel           = "LOG_LEVEL"
	EnvTimeLayout      = "LOG_TIME_LAYOUT"
	EnvWebhook         = "SLACK_WEBHOOK_URL"
	EnvSlackChannel    = "SLACK_CHANNEL"
	EnvSlackUsername   = "SLACK_USERNAME"
	EnvSlackIcon       = "SLACK_ICON"
	EnvSlackTimeout    = "SLACK_TIMEOUT"
	EnvSlackFilter     = "SLACK_FILTER"
	EnvWarningsToSlack = "SEND_WARNINGS_TO_SLACK"
	EnvErrorsToSlack   = "SEND_ERRORS_TO_SLACK"
)

// FromEnv returns the options described by the environment, as reported by
// lookup (typically [os.LookupEnv]). Unset and empty keys keep their
// defaults.
//
// LOG_LEVEL must name a level, SEND_WARNINGS_TO_SLACK and
// SEND_ERRORS_TO_SLACK must parse with [strconv.ParseBool], and
// SLACK_TIMEOUT with [time.ParseDuration]; otherwise FromEnv fails.
func FromEnv(lookup func(string) (string, bool)) ([]Option, error) {
	get := func(key string) (string, bool) {
		if lookup == nil {
			return "", false
		}

		v, ok := lookup(key)
		v = strings.TrimSpace(v)

		return v, ok && v != ""
	}

	var opts []Option

	if v, ok := get(EnvFile); ok {
		opts = append(opts, WithFile(v))
	}

	if v, ok := get(EnvLevel); ok {
		level, err := ParseLevel(v)
		if err != nil {
			return nil, err
		}

		opts = append(opts, WithLevel(level))
	}

	if v, ok := get(EnvTimeLayout); ok {
		opts = append(opts, WithTimeLayout(v))
	}

	if v, ok := get(EnvWebhook); ok {
		opts = append(opts, WithSlackWebhook(v))
	}

	if v, ok := get(EnvSlackChannel); ok {
		opts = append(opts, WithSlackChannel(v))
	}

	if v, ok := get(EnvSlackUsername); ok {
		opts = append(opts, WithSlackUsername(v))
	}

	if v, ok := get(EnvSlackIcon); ok {
		opts = append(opts, WithSlackIcon(v))
	}

	if v, ok := get(EnvSlackTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, envError(EnvSlackTimeout, v, err)
		}

		opts = append(opts, WithSlackTimeout(d))
	}

	if v, ok := get(EnvSlackFilter); ok {
		opts = append(opts, WithSlackFilter(v))
	}

	for _, route := range []struct {
		key string
		opt func(bool) Option
	}{
		{EnvWarningsToSlack, WithWarningsToSlack},
		{EnvErrorsToSlack, WithErrorsToSlack},
	} {
		v, ok := get(route.key)
		if !ok {
			continue
		}

		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, envError(route.key, v, err)
		}

		opts = append(opts, route.opt(b))
	}

	return opts, nil
}

func envError(key, value string, err error) error {
	return pkg.ErrInvalidConfig.
		With(slog.String("key", key), slog.String("value", value)).
		Wrap(err)
}

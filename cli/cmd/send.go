package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/logchan/log"
)

// Send logs one record to the configured channel.
type Send struct {
	Level   log.Level `arg:""                                   help:"Record level (${logLevels})."`
	Message string    `arg:""                                   help:"Record message."`
	Data    []string  `help:"Extra data; JSON values are decoded, anything else is a string." placeholder:"KEY=VALUE" short:"d"`
	Route   string    `default:"auto" enum:"auto,always,never"  help:"Slack routing (${enum})."`
}

// Run executes the send command.
func (s *Send) Run(ctx context.Context) error {
	attrs, err := parseData(s.Data)
	if err != nil {
		return err
	}

	route, err := parseRoute(s.Route)
	if err != nil {
		return err
	}

	channelFrom(ctx).Route(route).Log(ctx, s.Level, s.Message, attrs...)

	diagFrom(ctx).LogAttrs(ctx, slog.LevelDebug, "record sent",
		slog.String("level", s.Level.String()),
		slog.String("route", s.Route),
		slog.Int("data", len(attrs)),
	)

	return nil
}

// parseData converts "key=value" pairs to attributes. A value that decodes as
// a single JSON value keeps its JSON type; anything else is a string.
func parseData(pairs []string) ([]slog.Attr, error) {
	attrs := make([]slog.Attr, 0, len(pairs))

	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			return nil, ErrInvalidData.With(slog.String("data", pair))
		}

		if v, err := log.DecodeJSON([]byte(val)); err == nil {
			attrs = append(attrs, slog.Any(key, v))
		} else {
			attrs = append(attrs, slog.String(key, val))
		}
	}

	return attrs, nil
}

// parseRoute maps a --route value to a [log.Route].
func parseRoute(s string) (log.Route, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return log.RouteDefault, nil
	case "always":
		return log.RouteSlack, nil
	case "never":
		return log.RouteSkip, nil
	default:
		return log.RouteDefault, ErrInvalidRoute.With(slog.String("route", s))
	}
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ardnew/logchan/log"
)

// Burst logs a numbered series of records, e.g. to exercise Slack routing or
// concurrent writers.
type Burst struct {
	Level    log.Level     `default:"INFO" help:"Record level (${logLevels})." short:"l"`
	Message  string        `default:"burst" help:"Message prefix."`
	Count    int           `default:"5" help:"Number of records." short:"n"`
	Interval time.Duration `default:"0s" help:"Pause between records."`
	Route    string        `default:"auto" enum:"auto,always,never" help:"Slack routing (${enum})."`
}

// Run executes the burst command.
func (b *Burst) Run(ctx context.Context) error {
	route, err := parseRoute(b.Route)
	if err != nil {
		return err
	}

	ch := channelFrom(ctx).Route(route)

	start := time.Now()

	for i := 1; i <= b.Count; i++ {
		if i > 1 && b.Interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(b.Interval):
			}
		}

		ch.Log(ctx, b.Level, fmt.Sprintf("%s %d/%d", b.Message, i, b.Count),
			slog.Int("seq", i),
			slog.Int("count", b.Count),
		)
	}

	diagFrom(ctx).LogAttrs(ctx, slog.LevelDebug, "burst complete",
		slog.Int("count", b.Count),
		slog.Duration("elapsed", time.Since(start)),
	)

	return nil
}

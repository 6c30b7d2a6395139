package log

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ardnew/logchan/pkg"
)

// Route is the Slack routing choice carried by a log call.
type Route uint8

const (
	RouteDefault Route = iota // level default
	RouteSlack                // always send
	RouteSkip                 // never send
)

// RouteOf returns [RouteSlack] if send is true and [RouteSkip] otherwise.
func RouteOf(send bool) Route {
	if send {
		return RouteSlack
	}

	return RouteSkip
}

// Channel writes leveled records to a log file and relays selected records to
// a Slack channel.
//
// Every call that passes the minimum level appends one line to the file.
// Whether the record is also posted to Slack depends, in order, on:
//
//  1. the override set with [Channel.Slack], if any;
//  2. the default routing of the record's level (WARNING, ERROR and CRITICAL
//     by default, see [WithSlackRoute]);
//  3. the routing filter set with [WithSlackFilter], if any.
//
// A routing filter is an expr-lang boolean expression. It can use
// level (name), rank (0 to 4), message, data (the record data as a map) and
// levels (a map of name to rank), e.g.:
//
//	rank >= levels.ERROR || data.env == "prod"
//
// Sink failures never reach the caller. They are written to the diagnostics
// writer (see [WithDiagnostics]) instead.
//
// A Channel is an immutable value and is safe for concurrent use. The zero
// Channel discards everything.
type Channel struct {
	file    *fileSink
	slack   *slackSink
	console *consoleSink
	filter  *filter
	diag    *slog.Logger
	format  Formatter
	now     func() time.Time
	level   Level
	routes  [len(levelTable)]bool
	route   Route
	channel string
}

// Make returns a Channel configured by opts on top of the defaults described
// by [WithDefaults].
//
// Make fails if the webhook URL is not an absolute http(s) URL, if the
// routing filter does not compile, or if the Slack timeout is not positive.
// A webhook outside "https://hooks.slack.com/" is accepted with a warning.
func Make(opts ...Option) (Channel, error) {
	cfg := makeConfig(opts...)

	if err := cfg.validate(); err != nil {
		return Channel{}, err
	}

	c := Channel{
		file:    &fileSink{path: cfg.file},
		diag:    NewDiagnostic(cfg.diag, slog.LevelWarn),
		format:  newFormatter(cfg),
		now:     cfg.now,
		level:   cfg.level,
		routes:  cfg.routes,
		channel: cfg.channel,
	}

	if cfg.webhook != "" {
		c.slack = &slackSink{
			url:     cfg.webhook,
			client:  cfg.client,
			timeout: cfg.timeout,
		}

		if err := ValidateWebhook(cfg.webhook); errors.Is(err, pkg.ErrUnrecognizedWebhook) {
			c.warn("webhook is not a Slack incoming webhook", slog.Any("error", err))
		}
	}

	if cfg.filter != "" {
		f, err := compileFilter(cfg.filter)
		if err != nil {
			return Channel{}, err
		}

		c.filter = f
	}

	if cfg.console != nil {
		c.console = newConsoleSink(cfg.console)
	}

	return c, nil
}

// Slack returns a copy of c whose calls send to Slack if send is true, and
// never send otherwise, regardless of level routing and filter.
func (c Channel) Slack(send bool) Channel {
	c.route = RouteOf(send)

	return c
}

// Route returns a copy of c whose calls use route r.
func (c Channel) Route(r Route) Channel {
	c.route = r

	return c
}

// Level returns the minimum level of c.
func (c Channel) Level() Level { return c.level }

// File returns the log file path of c, or "" for the zero Channel.
func (c Channel) File() string {
	if c.file == nil {
		return ""
	}

	return c.file.path
}

// Webhook reports whether c relays records to Slack at all.
func (c Channel) Webhook() bool { return c.slack != nil }

// SlackChannel returns the target Slack channel name.
func (c Channel) SlackChannel() string { return c.channel }

// Routes reports whether records at level are sent to Slack by default.
func (c Channel) Routes(level Level) bool { return c.routes[level.clamp()] }

// DebugContext logs a message at DEBUG level with the provided context.
func (c Channel) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	c.Log(ctx, LevelDebug, msg, attrs...)
}

// Debug logs a message at DEBUG level.
func (c Channel) Debug(msg string, attrs ...slog.Attr) {
	c.Log(DefaultContextProvider(), LevelDebug, msg, attrs...)
}

// InfoContext logs a message at INFO level with the provided context.
func (c Channel) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	c.Log(ctx, LevelInfo, msg, attrs...)
}

// Info logs a message at INFO level.
func (c Channel) Info(msg string, attrs ...slog.Attr) {
	c.Log(DefaultContextProvider(), LevelInfo, msg, attrs...)
}

// WarningContext logs a message at WARNING level with the provided context.
func (c Channel) WarningContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	c.Log(ctx, LevelWarning, msg, attrs...)
}

// Warning logs a message at WARNING level.
func (c Channel) Warning(msg string, attrs ...slog.Attr) {
	c.Log(DefaultContextProvider(), LevelWarning, msg, attrs...)
}

// ErrorContext logs a message at ERROR level with the provided context.
func (c Channel) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	c.Log(ctx, LevelError, msg, attrs...)
}

// Error logs a message at ERROR level.
func (c Channel) Error(msg string, attrs ...slog.Attr) {
	c.Log(DefaultContextProvider(), LevelError, msg, attrs...)
}

// CriticalContext logs a message at CRITICAL level with the provided context.
func (c Channel) CriticalContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	c.Log(ctx, LevelCritical, msg, attrs...)
}

// Critical logs a message at CRITICAL level.
func (c Channel) Critical(msg string, attrs ...slog.Attr) {
	c.Log(DefaultContextProvider(), LevelCritical, msg, attrs...)
}

// Log writes a record at level with attrs as its data.
//
// The call blocks until the file line is written and, if the record is
// routed to Slack, until the webhook answers or the Slack timeout or ctx
// expires. Levels outside DEBUG..CRITICAL are clamped.
func (c Channel) Log(ctx context.Context, level Level, msg string, attrs ...slog.Attr) {
	// Silently return for zero value channels
	if c.file == nil {
		return
	}

	level = level.clamp()
	if !level.AtLeast(c.level) {
		return
	}

	r := Record{
		Time:    c.now(),
		Level:   level,
		Message: msg,
		Data:    Attrs(attrs...),
	}

	line := c.format.FileLine(r)

	if err := c.file.write(line); err != nil {
		c.report(ctx, "log file write failed", err, slog.String("level", level.String()))
	}

	if c.console != nil {
		if err := c.console.write(level, line); err != nil {
			c.report(ctx, "console write failed", err)
		}
	}

	if c.slack == nil || !c.routed(ctx, r) {
		return
	}

	if err := c.slack.send(ctx, c.format.SlackPayload(r)); err != nil {
		c.report(ctx, "slack relay failed", err, slog.String("level", level.String()))
	}
}

// routed reports whether r is sent to Slack.
func (c Channel) routed(ctx context.Context, r Record) bool {
	switch c.route {
	case RouteSlack:
		return true
	case RouteSkip:
		return false
	}

	if !c.routes[r.Level] {
		return false
	}

	if c.filter == nil {
		return true
	}

	ok, err := c.filter.match(r)
	if err != nil {
		// Evaluation errors fail open.
		c.report(ctx, "slack filter failed", err)

		return true
	}

	return ok
}

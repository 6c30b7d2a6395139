package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// DefaultContextProvider returns the default context used by context-unaware
// logging functions and methods.
var DefaultContextProvider = context.TODO

// defaultChannel is the process-wide channel used by the package-level
// functions. Setup is expected once, before concurrent use; later calls
// replace it, last writer wins.
var defaultChannel atomic.Pointer[Channel]

// Setup makes a Channel from opts, installs it as the default channel, and
// returns it. On error the default channel is left unchanged.
func Setup(opts ...Option) (Channel, error) {
	c, err := Make(opts...)
	if err != nil {
		return Channel{}, err
	}

	SetDefault(c)

	return c, nil
}

// SetDefault installs c as the default channel.
func SetDefault(c Channel) {
	defaultChannel.Store(&c)
}

// Default returns the default channel. If none was installed, one is made
// with the defaults: [DefaultFile], no webhook, [DefaultLevel].
func Default() Channel {
	if c := defaultChannel.Load(); c != nil {
		return *c
	}

	// Make cannot fail without options.
	c, _ := Make()
	if defaultChannel.CompareAndSwap(nil, &c) {
		return c
	}

	return *defaultChannel.Load()
}

// Slack returns a copy of the default channel with a Slack override; see
// [Channel.Slack].
func Slack(send bool) Channel { return Default().Slack(send) }

// Log writes a record at level using the default channel.
func Log(ctx context.Context, level Level, msg string, attrs ...slog.Attr) {
	Default().Log(ctx, level, msg, attrs...)
}

// DebugContext logs a message at DEBUG level using the default channel with
// the provided context.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().DebugContext(ctx, msg, attrs...)
}

// Debug logs a message at DEBUG level using the default channel.
func Debug(msg string, attrs ...slog.Attr) {
	DebugContext(DefaultContextProvider(), msg, attrs...)
}

// InfoContext logs a message at INFO level using the default channel with
// the provided context.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().InfoContext(ctx, msg, attrs...)
}

// Info logs a message at INFO level using the default channel.
func Info(msg string, attrs ...slog.Attr) {
	InfoContext(DefaultContextProvider(), msg, attrs...)
}

// WarningContext logs a message at WARNING level using the default channel
// with the provided context.
func WarningContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().WarningContext(ctx, msg, attrs...)
}

// Warning logs a message at WARNING level using the default channel.
func Warning(msg string, attrs ...slog.Attr) {
	WarningContext(DefaultContextProvider(), msg, attrs...)
}

// ErrorContext logs a message at ERROR level using the default channel with
// the provided context.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().ErrorContext(ctx, msg, attrs...)
}

// Error logs a message at ERROR level using the default channel.
func Error(msg string, attrs ...slog.Attr) {
	ErrorContext(DefaultContextProvider(), msg, attrs...)
}

// CriticalContext logs a message at CRITICAL level using the default channel
// with the provided context.
func CriticalContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().CriticalContext(ctx, msg, attrs...)
}

// Critical logs a message at CRITICAL level using the default channel.
func Critical(msg string, attrs ...slog.Attr) {
	CriticalContext(DefaultContextProvider(), msg, attrs...)
}

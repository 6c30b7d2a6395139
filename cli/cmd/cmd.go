package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/logchan/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	channelKey    struct{}
	diagnosticKey struct{}
)

// WithChannel returns a new context.Context containing the channel commands
// log to.
func WithChannel(ctx context.Context, ch log.Channel) context.Context {
	return context.WithValue(ctx, channelKey{}, ch)
}

// channelFrom returns the channel stored by [WithChannel], or the default
// channel.
func channelFrom(ctx context.Context) log.Channel {
	if ch, ok := ctx.Value(channelKey{}).(log.Channel); ok {
		return ch
	}

	return log.Default()
}

// WithDiagnostic returns a new context.Context containing the logger for the
// command's own messages.
func WithDiagnostic(ctx context.Context, diag *slog.Logger) context.Context {
	return context.WithValue(ctx, diagnosticKey{}, diag)
}

// diagFrom returns the logger stored by [WithDiagnostic], or one that
// discards everything.
func diagFrom(ctx context.Context) *slog.Logger {
	if diag, ok := ctx.Value(diagnosticKey{}).(*slog.Logger); ok && diag != nil {
		return diag
	}

	return slog.New(slog.DiscardHandler)
}

// stdout returns the standard output of the kong context in ctx.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

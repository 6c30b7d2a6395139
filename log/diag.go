package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// NewDiagnostic returns a logger that writes colorized text lines to w.
// It is the side channel used for sink failures, and is never routed through
// a [Channel]. A nil writer selects [os.Stderr]; a nil level logs at
// [slog.LevelInfo] and above.
func NewDiagnostic(w io.Writer, level slog.Leveler) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	return slog.New(newPrettyTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// report writes a sink failure to the diagnostics logger.
func (c Channel) report(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if c.diag == nil {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	c.diag.LogAttrs(ctx, slog.LevelError, msg,
		append([]slog.Attr{slog.Any("error", err)}, attrs...)...)
}

// warn writes a configuration warning to the diagnostics logger.
func (c Channel) warn(msg string, attrs ...slog.Attr) {
	if c.diag == nil {
		return
	}

	c.diag.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
}

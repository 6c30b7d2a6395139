package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty text handler. Styles are bound to
// the renderer of the output, so color is dropped when the output is not a
// terminal.
type palette struct {
	key   lipgloss.Style
	str   lipgloss.Style
	num   lipgloss.Style
	yes   lipgloss.Style
	no    lipgloss.Style
	dur   lipgloss.Style
	stamp lipgloss.Style
	debug lipgloss.Style
	info  lipgloss.Style
	warn  lipgloss.Style
	err   lipgloss.Style
}

func newPalette(r *lipgloss.Renderer) palette {
	fg := func(color string) lipgloss.Style {
		return r.NewStyle().
			TabWidth(lipgloss.NoTabConversion).
			Foreground(lipgloss.Color(color))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		stamp: fg("4"),
		debug: fg(LevelDebug.Color()),
		info:  fg(LevelInfo.Color()),
		warn:  fg(LevelWarning.Color()),
		err:   fg(LevelError.Color()).Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	default:
		return p.debug
	}
}

// prettyTextHandler writes one colorized "key=value" line per record.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  palette
	attrs  []byte
	prefix string
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	return &prettyTextHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: newPalette(lipgloss.NewRenderer(w)),
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		buf.WriteString(h.style.stamp.Render(r.Time.Format(time.RFC3339)))
		buf.WriteByte(' ')
	}

	buf.WriteString(h.style.level(r.Level).Render(r.Level.String()))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	buf := bytes.NewBuffer(append([]byte(nil), h.attrs...))
	for _, a := range attrs {
		h.writeAttr(buf, h.prefix, a)
	}

	c := *h
	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, prefix, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.style.key.Render(prefix + a.Key))
	buf.WriteByte('=')
	h.writeValue(buf, a.Value)
}

func (h *prettyTextHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		h.writeString(buf, v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		buf.WriteString(h.style.num.Render(v.String()))

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(h.style.yes.Render("true"))
		} else {
			buf.WriteString(h.style.no.Render("false"))
		}

	case slog.KindDuration:
		buf.WriteString(h.style.dur.Render(v.Duration().String()))

	case slog.KindTime:
		buf.WriteString(h.style.stamp.Render(v.Time().Format(time.RFC3339)))

	default:
		if val := ValueOf(v.Any()); val.Kind() == KindString {
			h.writeString(buf, val.Str())
		} else {
			buf.WriteString(h.style.str.Render(val.String()))
		}
	}
}

func (h *prettyTextHandler) writeString(buf *bytes.Buffer, s string) {
	if needsQuote(s) {
		s = strconv.Quote(s)
	}

	buf.WriteString(h.style.str.Render(s))
}

// needsQuote reports whether s must be quoted to stay on one field.
func needsQuote(s string) bool {
	if s == "" {
		return true
	}

	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' || r == 0x7f {
			return true
		}
	}

	return false
}

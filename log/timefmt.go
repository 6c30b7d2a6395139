package log

import (
	"strings"
	"time"
)

// FormatTime defines a function that formats a time.Time value as a string.
// An empty result omits the timestamp.
type FormatTime func(time.Time) string

// ISO8601 is the default file timestamp layout: RFC 3339 with milliseconds.
const ISO8601 = "2006-01-02T15:04:05.000Z07:00"

// DefaultTimeLayout is the default layout name for file timestamps.
const DefaultTimeLayout = "ISO8601"

// SlackTimeLayout is the layout of the Timestamp field in Slack messages.
const SlackTimeLayout = time.DateTime

// timeLayout maps normalized layout names to their time layouts.
var timeLayout = map[string]string{
	"iso8601":     ISO8601,
	"iso":         ISO8601,
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"datetime":    time.DateTime,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rfc822z":     time.RFC822Z,
	"kitchen":     time.Kitchen,
	"stampmilli":  time.StampMilli,
	"none":        "",
}

// makeFormatTimeFunc resolves a named layout (case, punctuation and spaces
// ignored) or uses layout verbatim as a [time.Time.Format] layout. Blank
// layouts and "none" disable timestamps.
func makeFormatTimeFunc(layout string) FormatTime {
	name := strings.Map(
		func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				return r
			}

			return -1
		},
		strings.ToLower(layout),
	)

	if std, ok := timeLayout[name]; ok {
		layout = std
	}

	if strings.TrimSpace(layout) == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}

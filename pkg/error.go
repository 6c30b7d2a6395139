package pkg

import (
	"log/slog"
	"strings"
)

// Error is an error with a fixed message, an optional wrapped cause, and
// structured attributes that are emitted when the error is logged.
//
// Errors derived from the same sentinel via [Error.Wrap] or [Error.With]
// match that sentinel with [errors.Is].
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError returns a new [Error] with the given message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an [*Error] with the same message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t != nil && t.msg == e.msg
}

// Attrs returns a copy of the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Sentinel errors shared by the log channel and the CLI.
// Test for them with errors.Is.
var (
	// ErrInvalidLevel is returned when a level name cannot be parsed.
	ErrInvalidLevel = NewError("invalid log level")

	// ErrInvalidWebhook is returned when a webhook URL is not an absolute
	// http(s) URL.
	ErrInvalidWebhook = NewError("invalid webhook URL")

	// ErrUnrecognizedWebhook is returned by strict validation when a webhook
	// URL is well formed but is not a Slack incoming webhook.
	ErrUnrecognizedWebhook = NewError("webhook URL is not a Slack incoming webhook")

	// ErrInvalidFilter is returned when a routing filter expression does not
	// compile to a boolean program.
	ErrInvalidFilter = NewError("invalid routing filter")

	// ErrInvalidConfig is returned for malformed configuration values, such
	// as unparsable booleans or durations.
	ErrInvalidConfig = NewError("invalid configuration")

	// ErrWriteFile is returned when a log line cannot be appended.
	ErrWriteFile = NewError("write log file")

	// ErrSlackRequest is returned when the webhook request cannot be sent.
	ErrSlackRequest = NewError("send Slack message")

	// ErrSlackStatus is returned when the webhook answers with a non-2xx
	// status.
	ErrSlackStatus = NewError("unexpected Slack response")

	// ErrEncodePayload is returned when a Slack payload cannot be encoded.
	ErrEncodePayload = NewError("encode Slack payload")
)

package log

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ardnew/logchan/pkg"
)

// DefaultFile is the default log file path.
const DefaultFile = "logs/app.log"

// DefaultSlackChannel is the default Slack channel name.
const DefaultSlackChannel = "#logs"

// DefaultSlackUsername is the default bot display name used in Slack.
const DefaultSlackUsername = "LogBot"

// DefaultSlackIcon is the default bot icon used in Slack.
const DefaultSlackIcon = ":robot_face:"

// DefaultSlackTimeout bounds each webhook request.
const DefaultSlackTimeout = 10 * time.Second

// slackWebhookPrefix is the URL prefix of Slack incoming webhooks.
const slackWebhookPrefix = "https://hooks.slack.com/"

// config holds the configuration of a Channel. It is immutable once the
// Channel is made.
type config struct {
	file       string
	webhook    string
	channel    string
	username   string
	icon       string
	timeLayout string
	filter     string
	level      Level
	routes     [len(levelTable)]bool
	timeout    time.Duration
	client     *http.Client
	console    io.Writer
	diag       io.Writer
	now        func() time.Time
}

// makeConfig creates a new config with defaults applied, overridden by any
// provided options.
func makeConfig(opts ...Option) config {
	return apply(apply(config{}, WithDefaults()), opts...)
}

// WithDefaults returns a functional option that resets every setting to its
// default: [DefaultFile], no webhook, [DefaultSlackChannel], [DefaultLevel],
// per-level Slack routing from [Level.SlackByDefault], and diagnostics on
// standard error.
func WithDefaults() Option {
	return func(c config) config {
		c = config{
			file:       DefaultFile,
			channel:    DefaultSlackChannel,
			username:   DefaultSlackUsername,
			icon:       DefaultSlackIcon,
			timeLayout: DefaultTimeLayout,
			level:      DefaultLevel,
			timeout:    DefaultSlackTimeout,
			client:     http.DefaultClient,
			diag:       os.Stderr,
			now:        time.Now,
		}

		for l := range Levels() {
			c.routes[l] = l.SlackByDefault()
		}

		return c
	}
}

// WithFile returns a functional option that sets the log file path.
// An empty path selects [DefaultFile].
func WithFile(path string) Option {
	return func(c config) config {
		if strings.TrimSpace(path) == "" {
			path = DefaultFile
		}

		c.file = path

		return c
	}
}

// WithLevel returns a functional option that sets the minimum level.
// Records below this level are discarded.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level.clamp()

		return c
	}
}

// WithSlackWebhook returns a functional option that sets the Slack incoming
// webhook URL. An empty URL disables the Slack sink.
func WithSlackWebhook(rawURL string) Option {
	return func(c config) config {
		c.webhook = strings.TrimSpace(rawURL)

		return c
	}
}

// WithSlackChannel returns a functional option that sets the target channel
// name. An empty name selects [DefaultSlackChannel].
func WithSlackChannel(name string) Option {
	return func(c config) config {
		if strings.TrimSpace(name) == "" {
			name = DefaultSlackChannel
		}

		c.channel = name

		return c
	}
}

// WithSlackUsername returns a functional option that sets the bot display
// name. An empty name omits it from the payload.
func WithSlackUsername(name string) Option {
	return func(c config) config {
		c.username = name

		return c
	}
}

// WithSlackIcon returns a functional option that sets the bot icon.
// Values of the form ":name:" are sent as an emoji, anything else as an
// icon URL. An empty value omits the icon.
func WithSlackIcon(icon string) Option {
	return func(c config) config {
		c.icon = icon

		return c
	}
}

// WithSlackTimeout returns a functional option that bounds each webhook
// request.
func WithSlackTimeout(d time.Duration) Option {
	return func(c config) config {
		c.timeout = d

		return c
	}
}

// WithHTTPClient returns a functional option that sets the client used for
// webhook requests. A nil client selects [http.DefaultClient].
func WithHTTPClient(client *http.Client) Option {
	return func(c config) config {
		if client == nil {
			client = http.DefaultClient
		}

		c.client = client

		return c
	}
}

// WithSlackRoute returns a functional option that sets whether records at
// level are relayed to Slack when the call carries no explicit override.
func WithSlackRoute(level Level, send bool) Option {
	return func(c config) config {
		if level.Valid() {
			c.routes[level] = send
		}

		return c
	}
}

// WithWarningsToSlack sets the default routing of WARNING records.
func WithWarningsToSlack(send bool) Option {
	return WithSlackRoute(LevelWarning, send)
}

// WithErrorsToSlack sets the default routing of ERROR and CRITICAL records.
func WithErrorsToSlack(send bool) Option {
	return func(c config) config {
		return apply(c,
			WithSlackRoute(LevelError, send),
			WithSlackRoute(LevelCritical, send),
		)
	}
}

// WithSlackFilter returns a functional option that sets an expression that
// must hold for a record to follow its level's default Slack routing.
// See [Channel] for the variables available to the expression.
// An empty expression removes the filter.
func WithSlackFilter(expression string) Option {
	return func(c config) config {
		c.filter = strings.TrimSpace(expression)

		return c
	}
}

// WithTimeLayout returns a functional option that sets the layout of file
// timestamps.
//
// The layout can be a named layout such as "ISO8601", "RFC3339",
// "RFC3339Nano" or "DateTime". Otherwise, it is passed verbatim to
// [time.Time.Format]. "none" or a blank layout omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		c.timeLayout = layout

		return c
	}
}

// WithConsole returns a functional option that mirrors every file line to w
// with a colored level tag. A nil writer disables the mirror.
func WithConsole(w io.Writer) Option {
	return func(c config) config {
		c.console = w

		return c
	}
}

// WithDiagnostics returns a functional option that sets where sink failures
// and configuration warnings are reported. A nil writer discards them.
func WithDiagnostics(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}

		c.diag = w

		return c
	}
}

// WithClock returns a functional option that sets the source of record
// timestamps. A nil clock selects [time.Now].
func WithClock(now func() time.Time) Option {
	return func(c config) config {
		if now == nil {
			now = time.Now
		}

		c.now = now

		return c
	}
}

// validate reports configuration errors that must fail channel setup.
func (c config) validate() error {
	if c.webhook != "" {
		err := ValidateWebhook(c.webhook)
		if err != nil && !errors.Is(err, pkg.ErrUnrecognizedWebhook) {
			return err
		}
	}

	if c.timeout <= 0 {
		return pkg.ErrInvalidConfig.
			With(slog.Duration("slack_timeout", c.timeout)).
			Wrap(errTimeout)
	}

	return nil
}

var errTimeout = pkg.NewError("timeout must be positive")

// ValidateWebhook checks a webhook URL.
//
// It returns an error wrapping [pkg.ErrInvalidWebhook] if rawURL is not an
// absolute http or https URL, and an error wrapping
// [pkg.ErrUnrecognizedWebhook] if it is well formed but does not start with
// "https://hooks.slack.com/".
func ValidateWebhook(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		// The parse error quotes the URL, which carries the webhook secret.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}

		return pkg.ErrInvalidWebhook.Wrap(err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return pkg.ErrInvalidWebhook.
			With(slog.String("scheme", u.Scheme)).
			Wrap(errWebhookScheme)
	}

	if !strings.HasPrefix(rawURL, slackWebhookPrefix) {
		return pkg.ErrUnrecognizedWebhook.With(slog.String("host", u.Host))
	}

	return nil
}

var errWebhookScheme = pkg.NewError("expected an absolute http(s) URL")

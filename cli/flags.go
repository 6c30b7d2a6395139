package cli

import (
	"io"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/logchan/log"
)

// logFlags configures the file side of the default channel.
type logFlags struct {
	File       string    `default:"${logFile}"       env:"LOG_FILE"        help:"Append records to this file."                 type:"path"`
	Level      log.Level `default:"${logLevel}"      env:"LOG_LEVEL"       help:"Minimum record level (${logLevels})."`
	TimeLayout string    `default:"${logTimeLayout}" env:"LOG_TIME_LAYOUT" help:"Timestamp layout, or \"none\"."`
	Console    bool      `default:"false"                                  help:"Mirror records to standard error." negatable:""`
}

func (logFlags) vars() kong.Vars {
	return kong.Vars{
		"logFile":       log.DefaultFile,
		"logLevel":      log.DefaultLevel.String(),
		"logLevels":     strings.Join(log.LevelNames(), ","),
		"logTimeLayout": log.DefaultTimeLayout,
	}
}

func (logFlags) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Log file options"

	return group
}

func (f logFlags) options(console io.Writer) []log.Option {
	opts := []log.Option{
		log.WithFile(f.File),
		log.WithLevel(f.Level),
		log.WithTimeLayout(f.TimeLayout),
	}

	if f.Console {
		opts = append(opts, log.WithConsole(console))
	}

	return opts
}

// slackFlags configures the Slack side of the default channel.
type slackFlags struct {
	Webhook  string        `env:"SLACK_WEBHOOK_URL"                                    help:"Slack incoming webhook URL." redact:""`
	Channel  string        `default:"${slackChannel}"  env:"SLACK_CHANNEL"             help:"Target Slack channel."`
	Username string        `default:"${slackUsername}" env:"SLACK_USERNAME"            help:"Bot display name."`
	Icon     string        `default:"${slackIcon}"     env:"SLACK_ICON"                help:"Bot icon, as :emoji: or image URL."`
	Timeout  time.Duration `default:"${slackTimeout}"  env:"SLACK_TIMEOUT"             help:"Bound on each webhook request."`
	Filter   string        `env:"SLACK_FILTER"                                         help:"Expression a routed record must satisfy."`
	Warnings bool          `default:"true"             env:"SEND_WARNINGS_TO_SLACK"    help:"Relay WARNING records."          negatable:""`
	Errors   bool          `default:"true"             env:"SEND_ERRORS_TO_SLACK"      help:"Relay ERROR and CRITICAL records." negatable:""`
}

func (slackFlags) vars() kong.Vars {
	return kong.Vars{
		"slackChannel":  log.DefaultSlackChannel,
		"slackUsername": log.DefaultSlackUsername,
		"slackIcon":     log.DefaultSlackIcon,
		"slackTimeout":  log.DefaultSlackTimeout.String(),
	}
}

func (slackFlags) group() kong.Group {
	var group kong.Group

	group.Key = "slack"
	group.Title = "Slack options"

	return group
}

func (f slackFlags) options() []log.Option {
	return []log.Option{
		log.WithSlackWebhook(f.Webhook),
		log.WithSlackChannel(f.Channel),
		log.WithSlackUsername(f.Username),
		log.WithSlackIcon(f.Icon),
		log.WithSlackTimeout(f.Timeout),
		log.WithSlackFilter(f.Filter),
		log.WithWarningsToSlack(f.Warnings),
		log.WithErrorsToSlack(f.Errors),
	}
}

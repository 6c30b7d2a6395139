// Package cli contains the command line interface for logchan.
//
// # Usage
//
// Every command shares the flags that configure the default log channel.
// Each flag can also be set from the environment or a configuration file:
//
//	logchan --log-level=debug send info "deploy finished" -d version=1.4.2
//	SLACK_WEBHOOK_URL=https://hooks.slack.com/... logchan send error "payment failed"
//
// Precedence, lowest first: built-in defaults, the configuration file,
// environment variables, command-line flags.
//
// # Configuration File
//
// The configuration file is YAML, read from config.yaml (or config.yml) in
// the user configuration directory, e.g. ~/.config/logchan/config.yaml.
// Keys are flag names; see [resolve]. Use "logchan init" to write one from
// the current flag values.
//
// # Log File Options
//
//   - --log-file ($LOG_FILE): log file path (default: logs/app.log)
//   - --log-level ($LOG_LEVEL): minimum level (default: INFO)
//   - --log-time-layout ($LOG_TIME_LAYOUT): timestamp layout (default: ISO8601)
//   - --log-console: mirror records to standard error
//
// # Slack Options
//
//   - --slack-webhook ($SLACK_WEBHOOK_URL): incoming webhook URL
//   - --slack-channel ($SLACK_CHANNEL): target channel (default: #logs)
//   - --slack-username ($SLACK_USERNAME), --slack-icon ($SLACK_ICON)
//   - --slack-timeout ($SLACK_TIMEOUT): request bound (default: 10s)
//   - --slack-filter ($SLACK_FILTER): routing expression
//   - --[no-]slack-warnings ($SEND_WARNINGS_TO_SLACK)
//   - --[no-]slack-errors ($SEND_ERRORS_TO_SLACK)
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o logchan .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/logchan/pprof)
package cli

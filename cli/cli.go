package cli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/logchan/cli/cmd"
	"github.com/ardnew/logchan/log"
	"github.com/ardnew/logchan/pkg"
)

// CLI is the top-level command-line interface for logchan.
type CLI struct {
	Log   logFlags    `embed:"" group:"log"   prefix:"log-"`
	Slack slackFlags  `embed:"" group:"slack" prefix:"slack-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Verbose bool             `help:"Report debug diagnostics on standard error." short:"v"`
	Version kong.VersionFlag `help:"Print version information and exit."`

	Send     cmd.Send     `cmd:"" help:"Log one record"`
	Burst    cmd.Burst    `cmd:"" help:"Log a numbered series of records"`
	Config   cmd.Config   `cmd:"" help:"Show the effective configuration"`
	Validate cmd.Validate `cmd:"" help:"Check the configuration strictly"`
	Init     cmd.Init     `cmd:"" help:"Initialize configuration file"`
}

// Run executes the logchan CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	files := configFiles()

	vars := kong.Vars{
		cmd.ConfigIdentifier: files[0],
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            versionText(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Slack.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Parse command line
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Slack.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve, files...),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	diagLevel := slog.LevelInfo
	if cli.Verbose {
		diagLevel = slog.LevelDebug
	}

	diag := log.NewDiagnostic(ktx.Stderr, diagLevel)

	ch, err := log.Setup(cli.options(ktx)...)
	if err != nil {
		return err
	}

	diag.LogAttrs(ctx, slog.LevelDebug, "channel initialized",
		slog.String("file", ch.File()),
		slog.String("level", ch.Level().String()),
		slog.Bool("slack", ch.Webhook()),
		slog.String("channel", ch.SlackChannel()),
	)

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithChannel(ctx, ch)
	ctx = cmd.WithDiagnostic(ctx, diag)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx, diag)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}

// options returns the channel options described by the parsed flags.
func (c *CLI) options(ktx *kong.Context) []log.Option {
	return append(
		append(c.Log.options(ktx.Stderr), c.Slack.options()...),
		log.WithDiagnostics(ktx.Stderr),
	)
}

// versionText returns the --version output: name, version and authors.
func versionText() string {
	authors := make([]string, 0, len(pkg.Author))
	for _, a := range pkg.Author {
		authors = append(authors, a.String())
	}

	return pkg.Name + " " + pkg.Version() + " (" + strings.Join(authors, ", ") + ")"
}

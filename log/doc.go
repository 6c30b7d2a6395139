// Package log provides a leveled logging channel that appends every record
// to a file and relays selected records to a Slack incoming webhook.
//
// # Basic Usage
//
//	ch, err := log.Make(
//		log.WithFile("logs/app.log"),
//		log.WithSlackWebhook(os.Getenv("SLACK_WEBHOOK_URL")))
//	if err != nil {
//		return err
//	}
//
//	ch.Info("application started", slog.String("version", "1.0.0"))
//	ch.Warning("disk low", slog.Int("free_mb", 120))
//
// Each record that passes the minimum level becomes one entry in the file:
//
//	2025-01-01T12:00:00.000Z [WARNING] disk low
//	{
//	  "free_mb": 120
//	}
//
// # Levels
//
// Five levels are defined, in ascending rank: [LevelDebug], [LevelInfo],
// [LevelWarning], [LevelError] and [LevelCritical]. Records below the
// channel level set with [WithLevel] are discarded by every sink.
//
// # Slack Routing
//
// WARNING, ERROR and CRITICAL records are relayed to Slack by default; see
// [WithWarningsToSlack], [WithErrorsToSlack] and [WithSlackRoute]. A single
// call can force or suppress the relay:
//
//	ch.Slack(true).Info("deploy finished")  // sent
//	ch.Slack(false).Error("retrying")       // not sent
//
// The routing can be narrowed further with an expression; see
// [WithSlackFilter].
//
// Sink failures are never returned to the caller. They are reported on the
// diagnostics writer (standard error by default, see [WithDiagnostics]).
//
// # Default Channel
//
// The package-level functions such as [Info] and [Error] use a process-wide
// channel installed by [Setup] or [SetDefault]. If neither was called, a
// channel with the defaults is made on first use.
//
// Options can also be read from the environment with [FromEnv]:
//
//	opts, err := log.FromEnv(os.LookupEnv)
//	if err != nil {
//		return err
//	}
//
//	if _, err := log.Setup(opts...); err != nil {
//		return err
//	}
//
//	log.Error("payment failed", slog.String("order", "A-1"))
//
// # Context-Aware Logging
//
// Each level has a context-aware and a context-unaware variant. The Slack
// request is bound to the context passed to the former. The latter use
// [DefaultContextProvider], which returns [context.TODO] by default.
package log

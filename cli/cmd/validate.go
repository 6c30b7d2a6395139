package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/logchan/log"
)

// Validate checks the configuration more strictly than startup does: the
// webhook must be a Slack incoming webhook.
type Validate struct {
	RequireWebhook bool `help:"Fail if no webhook is configured." name:"require-webhook"`
}

// Run executes the validate command.
func (v *Validate) Run(ctx context.Context) error {
	ch := channelFrom(ctx)
	w := stdout(ctx)

	var webhook string

	for _, s := range settings(kongContextFrom(ctx)) {
		if s.redact {
			webhook, _ = s.value.(string)
		}
	}

	switch {
	case webhook != "":
		if err := log.ValidateWebhook(webhook); err != nil {
			return err
		}

	case v.RequireWebhook:
		return ErrNoWebhook

	default:
		diagFrom(ctx).LogAttrs(ctx, slog.LevelWarn, "no webhook configured; records stay local")
	}

	_, err := fmt.Fprintf(w, "ok: file=%s level=%s slack=%t\n",
		ch.File(), ch.Level(), ch.Webhook())

	return err
}

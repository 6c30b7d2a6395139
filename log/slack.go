package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ardnew/logchan/pkg"
)

// maxErrorBody bounds how much of a failed webhook response is kept for
// diagnostics.
const maxErrorBody = 512

// slackSink posts payloads to an incoming webhook. Each send is a single
// attempt bounded by timeout.
type slackSink struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// send posts p as JSON. Transport errors, timeouts and non-2xx responses are
// returned; nothing is retried.
func (s slackSink) send(ctx context.Context, p SlackPayload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return pkg.ErrEncodePayload.Wrap(err)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return pkg.ErrSlackRequest.Wrap(err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		// The webhook URL is a credential; keep it out of diagnostics.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}

		return pkg.ErrSlackRequest.
			With(slog.Duration("timeout", s.timeout)).
			Wrap(err)
	}
	defer resp.Body.Close()

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pkg.ErrSlackStatus.
			With(slog.Int("status", resp.StatusCode)).
			With(slog.String("body", strings.TrimSpace(string(snippet))))
	}

	return nil
}

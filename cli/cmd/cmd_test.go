package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/logchan/log"
	"github.com/ardnew/logchan/pkg"
)

// testFlags mirrors the shape of the global flags.
type testFlags struct {
	File    string `name:"file"`
	Level   string `name:"level" default:"info"`
	Webhook string `name:"webhook" redact:"" env:"TEST_WEBHOOK"`
	Count   int    `name:"count"`
	Console bool   `name:"console"`

	Version kong.VersionFlag `name:"version"`
}

// testContext returns a context holding a kong context parsed from args and a
// channel writing to a temporary file without timestamps.
func testContext(t *testing.T, args []string, opts ...log.Option) (context.Context, *bytes.Buffer, string) {
	t.Helper()

	var cli testFlags

	out := new(bytes.Buffer)
	confPath := filepath.Join(t.TempDir(), "conf", "config.yaml")

	parser, err := kong.New(&cli,
		kong.Writers(out, io.Discard),
		kong.Vars{ConfigIdentifier: confPath},
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "app.log")

	ch, err := log.Make(append([]log.Option{
		log.WithFile(path),
		log.WithTimeLayout("none"),
		log.WithDiagnostics(io.Discard),
	}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(context.Background(), ktx)
	ctx = WithChannel(ctx, ch)

	return ctx, out, path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}

	return string(b)
}

// countingWebhook returns a webhook URL and a counter of received requests.
func countingWebhook(t *testing.T) (string, *atomic.Int32) {
	t.Helper()

	n := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n.Add(1)
	}))
	t.Cleanup(srv.Close)

	return srv.URL, n
}

func TestParseData(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    string
		wantErr bool
	}{
		{"number", []string{"free_mb=120"}, `{"free_mb":120}`, false},
		{"string", []string{"host=db1"}, `{"host":"db1"}`, false},
		{"json", []string{`tags=["a","b"]`, `ok=true`}, `{"tags":["a","b"],"ok":true}`, false},
		{"leading zeros", []string{"zip=007"}, `{"zip":"007"}`, false},
		{"empty value", []string{"note="}, `{"note":""}`, false},
		{"equals in value", []string{"expr=a=b"}, `{"expr":"a=b"}`, false},
		{"missing equals", []string{"oops"}, "", true},
		{"missing key", []string{"=1"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs, err := parseData(tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseData() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidData) {
					t.Errorf("expected ErrInvalidData, got %v", err)
				}

				return
			}

			if got := log.Attrs(attrs...).String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseRoute(t *testing.T) {
	tests := []struct {
		in   string
		want log.Route
	}{
		{"", log.RouteDefault},
		{"auto", log.RouteDefault},
		{"Always", log.RouteSlack},
		{"never", log.RouteSkip},
	}

	for _, tt := range tests {
		got, err := parseRoute(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("parseRoute(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	if _, err := parseRoute("sometimes"); !errors.Is(err, ErrInvalidRoute) {
		t.Errorf("expected ErrInvalidRoute, got %v", err)
	}
}

func TestSendRun(t *testing.T) {
	ctx, _, path := testContext(t, nil)

	s := &Send{Level: log.LevelWarning, Message: "disk low", Data: []string{"free_mb=120"}}
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Send.Run() error = %v", err)
	}

	want := "[WARNING] disk low\n{\n  \"free_mb\": 120\n}\n"
	if got := readFile(t, path); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSendRunRoute(t *testing.T) {
	tests := []struct {
		route string
		level log.Level
		want  int32
	}{
		{"auto", log.LevelInfo, 0},
		{"auto", log.LevelError, 1},
		{"always", log.LevelInfo, 1},
		{"never", log.LevelCritical, 0},
	}

	for _, tt := range tests {
		t.Run(tt.route+"-"+tt.level.String(), func(t *testing.T) {
			webhook, n := countingWebhook(t)
			ctx, _, _ := testContext(t, nil, log.WithSlackWebhook(webhook))

			s := &Send{Level: tt.level, Message: "x", Route: tt.route}
			if err := s.Run(ctx); err != nil {
				t.Fatalf("Send.Run() error = %v", err)
			}

			if got := n.Load(); got != tt.want {
				t.Errorf("got %d slack requests, want %d", got, tt.want)
			}
		})
	}
}

func TestBurstRun(t *testing.T) {
	ctx, _, path := testContext(t, nil)

	b := &Burst{Level: log.LevelInfo, Message: "burst", Count: 3, Route: "auto"}
	if err := b.Run(ctx); err != nil {
		t.Fatalf("Burst.Run() error = %v", err)
	}

	got := readFile(t, path)
	for _, want := range []string{
		"[INFO] burst 1/3\n",
		"[INFO] burst 2/3\n",
		"[INFO] burst 3/3\n",
		`"seq": 3`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestBurstRunCanceled(t *testing.T) {
	ctx, _, path := testContext(t, nil)

	ctx, cancel := context.WithCancel(ctx)
	cancel()

	b := &Burst{Level: log.LevelInfo, Message: "burst", Count: 2, Interval: time.Hour}
	if err := b.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if got := strings.Count(readFile(t, path), "[INFO]"); got != 1 {
		t.Errorf("expected 1 record before cancel, got %d", got)
	}
}

func TestConfigRun(t *testing.T) {
	args := []string{
		"--webhook=https://hooks.slack.com/services/T000/B000/secret",
		"--level=debug",
		"--count=3",
	}

	tests := []struct {
		format string
		want   []string
	}{
		{"json", []string{`"webhook": "https://hooks.slack.com/<redacted>"`, `"level": "debug"`, `"count": 3`}},
		{"yaml", []string{"hooks.slack.com/<redacted>", "level: debug", "count: 3"}},
		{"text", []string{"FLAG", "webhook", "https://hooks.slack.com/<redacted>", "TEST_WEBHOOK"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			ctx, out, _ := testContext(t, args)

			if err := (&Config{Format: tt.format}).Run(ctx); err != nil {
				t.Fatalf("Config.Run() error = %v", err)
			}

			got := out.String()
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("expected %q in output:\n%s", want, got)
				}
			}

			if strings.Contains(got, "secret") {
				t.Errorf("expected webhook redacted:\n%s", got)
			}

			if strings.Contains(got, "help") || strings.Contains(got, "version") {
				t.Errorf("expected help and version flags omitted:\n%s", got)
			}
		})
	}
}

func TestValidateRun(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		require bool
		want    error
	}{
		{"slack webhook", []string{"--webhook=https://hooks.slack.com/services/T/B/X"}, false, nil},
		{"foreign webhook", []string{"--webhook=https://example.com/hook"}, false, pkg.ErrUnrecognizedWebhook},
		{"no webhook", nil, false, nil},
		{"required webhook", nil, true, ErrNoWebhook},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, _ := testContext(t, tt.args)

			err := (&Validate{RequireWebhook: tt.require}).Run(ctx)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate.Run() error = %v", err)
				}

				if !strings.HasPrefix(out.String(), "ok: ") {
					t.Errorf("unexpected output %q", out.String())
				}

				return
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("Validate.Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRedactURL(t *testing.T) {
	tests := map[string]string{
		"":                                   "",
		"https://hooks.slack.com/services/x": "https://hooks.slack.com/<redacted>",
		"not a url":                          "<redacted>",
	}

	for in, want := range tests {
		if got := redactURL(in); got != want {
			t.Errorf("redactURL(%q) = %q, want %q", in, got, want)
		}
	}
}

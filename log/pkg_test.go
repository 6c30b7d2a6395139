package log

import (
	"context"
	"net/http"
	"testing"
)

// useDefault installs c as the default channel for the duration of the test.
func useDefault(t *testing.T, c Channel) {
	t.Helper()

	prev := defaultChannel.Load()
	SetDefault(c)

	t.Cleanup(func() { defaultChannel.Store(prev) })
}

func TestPackage_Default_Lazy(t *testing.T) {
	prev := defaultChannel.Swap(nil)
	t.Cleanup(func() { defaultChannel.Store(prev) })

	c := Default()
	if c.File() != DefaultFile || c.Level() != DefaultLevel || c.Webhook() {
		t.Errorf("expected default channel, got file=%q level=%v webhook=%v",
			c.File(), c.Level(), c.Webhook())
	}

	if Default().File() != c.File() {
		t.Error("expected the lazy default to be kept")
	}
}

func TestPackage_Setup(t *testing.T) {
	prev := defaultChannel.Load()
	t.Cleanup(func() { defaultChannel.Store(prev) })

	c, path, _ := testChannel(t, WithTimeLayout("none"))

	got, err := Setup(WithFile(path), WithTimeLayout("none"), WithLevel(LevelError))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if Default().Level() != LevelError || got.File() != c.File() {
		t.Errorf("expected Setup to install the new channel")
	}

	if _, err := Setup(WithSlackFilter("rank >")); err == nil {
		t.Fatal("expected error from invalid setup")
	}

	if Default().Level() != LevelError {
		t.Error("expected failed Setup to keep the previous default")
	}
}

func TestPackage_LogFunctions_UseDefault(t *testing.T) {
	c, path, _ := testChannel(t, WithLevel(LevelDebug), WithTimeLayout("none"))
	useDefault(t, c)

	Debug("d")
	Info("i")
	Warning("w")
	Error("e")
	Critical("c")

	ctx := context.Background()
	DebugContext(ctx, "d")
	InfoContext(ctx, "i")
	WarningContext(ctx, "w")
	ErrorContext(ctx, "e")
	CriticalContext(ctx, "c")
	Log(ctx, LevelInfo, "log")

	want := "[DEBUG] d\n[INFO] i\n[WARNING] w\n[ERROR] e\n[CRITICAL] c\n"
	want += want + "[INFO] log\n"

	if got := readLog(t, path); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPackage_Slack_UsesDefault(t *testing.T) {
	rec, srv := newSlackRecorder(t, http.StatusOK)

	c, _, _ := testChannel(t, WithSlackWebhook(srv.URL))
	useDefault(t, c)

	Slack(true).Info("forced")
	Slack(false).Critical("suppressed")
	Warning("routed")

	if got := rec.count(); got != 2 {
		t.Errorf("expected 2 slack messages, got %d", got)
	}
}

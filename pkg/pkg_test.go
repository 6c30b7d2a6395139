package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "logchan"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from the VERSION file next to this test.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version() != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version())
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Error("Expected Author to have at least one entry")
	}

	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew, got %v", Author)
	}
}

func TestAuthorInfo_String(t *testing.T) {
	tests := []struct {
		in   AuthorInfo
		want string
	}{
		{AuthorInfo{"ardnew", "andrew@ardnew.com"}, "ardnew <andrew@ardnew.com>"},
		{AuthorInfo{"ardnew", ""}, "ardnew"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"plain", "/usr/local/bin/logchan", "logchan"},
		{"extension", "logchan.exe", "logchan"},
		{"renamed", "/opt/alerts", "alerts"},
		{"dlv", "/tmp/__debug_bin1234", Name},
		{"dot prefix", "/home/u/.logchan", "logchan"},
		{"only dots", "/tmp/...", Name},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.FromSlash(tt.path)
			if got := prefixOf(path); got != tt.want {
				t.Errorf("prefixOf(%q) = %q, want %q", path, got, tt.want)
			}
		})
	}
}

func TestError_Format(t *testing.T) {
	base := NewError("write log file")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"message only", base, "write log file"},
		{"wrapped", base.Wrap(errors.New("disk full")), "write log file: disk full"},
		{"cause only", NewError("").Wrap(errors.New("boom")), "boom"},
		{"empty", NewError(""), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestError_IsMatchesSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrSlackRequest.
		With(slog.String("url", "http://localhost")).
		Wrap(cause)

	if !errors.Is(err, ErrSlackRequest) {
		t.Error("expected derived error to match its sentinel")
	}

	if !errors.Is(err, cause) {
		t.Error("expected derived error to match its cause")
	}

	if errors.Is(err, ErrWriteFile) {
		t.Error("expected derived error not to match another sentinel")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !errors.Is(wrapped, ErrSlackRequest) {
		t.Error("expected sentinel to match through fmt.Errorf wrapping")
	}
}

func TestError_WithDoesNotMutate(t *testing.T) {
	base := NewError("base")
	a := base.With(slog.Int("a", 1))
	b := a.With(slog.Int("b", 2))

	if len(base.Attrs()) != 0 {
		t.Errorf("expected base to have no attrs, got %v", base.Attrs())
	}

	if len(a.Attrs()) != 1 || len(b.Attrs()) != 2 {
		t.Errorf("expected 1 and 2 attrs, got %d and %d", len(a.Attrs()), len(b.Attrs()))
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrWriteFile.
		With(slog.String("file", "logs/app.log")).
		Wrap(errors.New("permission denied"))

	v := err.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("expected group value, got %v", v.Kind())
	}

	got := map[string]string{}
	for _, a := range v.Group() {
		got[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"error": "write log file",
		"cause": "permission denied",
		"file":  "logs/app.log",
	}

	for k, w := range want {
		if got[k] != w {
			t.Errorf("expected %s=%q, got %q", k, w, got[k])
		}
	}
}

package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestErrWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("operation failed", Err(errors.New("connection refused")))

	out := buf.String()
	if !strings.Contains(out, "error=") {
		t.Errorf("expected error attribute in output, got: %s", out)
	}
	if !strings.Contains(out, "connection refused") {
		t.Errorf("expected error message in output, got: %s", out)
	}
}

func TestErrNil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("operation succeeded", Err(nil))

	if strings.Contains(buf.String(), "error=") {
		t.Errorf("expected no error attribute for nil error, got: %s", buf.String())
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"empty token", "", "<empty>"},
		{"short token", "abc", "[token:3 chars]"},
		{"api token", "tk_d8f3a9b2c1e4f5a6", "[token:19 chars]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeToken(tt.token)
			if got != tt.want {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
			if tt.token != "" && strings.Contains(got, tt.token) {
				t.Errorf("sanitized output %q leaks token content", got)
			}
		})
	}
}

func TestSetupDebugLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := Setup(&buf, true)
	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("expected debug message to be logged in debug mode")
	}

	buf.Reset()
	logger = Setup(&buf, false)
	logger.Debug("hidden message")
	if strings.Contains(buf.String(), "hidden message") {
		t.Error("expected debug message to be suppressed at info level")
	}
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	WithTool(WithOperation(logger, "list"), "vikunja_list_tasks").Info("done",
		Status(StatusSuccess), TaskID(42))

	out := buf.String()
	for _, want := range []string{"operation=list", "tool=vikunja_list_tasks", "status=success", "task_id=42"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}
}

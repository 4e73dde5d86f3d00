package server

import (
	"context"
	"testing"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/config"
)

func testCreds() config.Credentials {
	return config.Credentials{BaseURL: "https://vikunja.example.com", Token: "secret-token"}
}

func TestNewServerContext(t *testing.T) {
	sc, err := NewServerContext(context.Background(), testCreds())
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}

	if sc.Client() == nil {
		t.Fatal("expected a Vikunja client")
	}
	if sc.Guard() == nil {
		t.Fatal("expected a relation guard")
	}
	if sc.BaseURL() != "https://vikunja.example.com" {
		t.Errorf("unexpected base URL %q", sc.BaseURL())
	}
	if sc.IsShutdown() {
		t.Error("fresh context must not be shutdown")
	}

	// No provider attached: metrics must still be a safe no-op recorder.
	sc.Metrics().RecordAPIRetry(context.Background(), "tasks")
}

func TestNewServerContextRejectsIncompleteCredentials(t *testing.T) {
	if _, err := NewServerContext(context.Background(), config.Credentials{Token: "secret-token"}); err == nil {
		t.Error("expected error for missing base URL")
	}
	if _, err := NewServerContext(context.Background(), config.Credentials{BaseURL: "https://vikunja.example.com"}); err == nil {
		t.Error("expected error for missing token")
	}
}

func TestServerContextShutdown(t *testing.T) {
	sc, err := NewServerContext(context.Background(), testCreds())
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}

	if err := sc.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("expected shutdown state")
	}

	select {
	case <-sc.Context().Done():
	default:
		t.Error("expected context cancellation on shutdown")
	}

	// Shutdown is idempotent
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}

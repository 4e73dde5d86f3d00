package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	content := `{"url": "https://vikunja.example.com/", "token": "tk-secret"}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	creds, source, err := ResolveFromFile(path)
	if err != nil {
		t.Fatalf("expected resolution to succeed, got %v", err)
	}
	if creds.BaseURL != "https://vikunja.example.com" {
		t.Errorf("expected trailing slash stripped, got %q", creds.BaseURL)
	}
	if creds.Token != "tk-secret" {
		t.Errorf("unexpected token %q", creds.Token)
	}
	if source == "" {
		t.Error("expected non-empty source")
	}
}

func TestResolveFromFilePrefixedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	content := `{"vikunja_url": "https://tasks.example.com", "vikunja_token": "tk-alt"}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	creds, _, err := ResolveFromFile(path)
	if err != nil {
		t.Fatalf("expected resolution to succeed, got %v", err)
	}
	if creds.BaseURL != "https://tasks.example.com" || creds.Token != "tk-alt" {
		t.Errorf("unexpected credentials %+v", creds)
	}
}

func TestResolveFallsThroughToEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.json")

	t.Setenv(EnvURL, "https://env.example.com")
	t.Setenv(EnvToken, "tk-env")

	creds, source, err := ResolveFromFile(path)
	if err != nil {
		t.Fatalf("expected env fallback to succeed, got %v", err)
	}
	if creds.BaseURL != "https://env.example.com" {
		t.Errorf("unexpected base URL %q", creds.BaseURL)
	}
	if source != "environment" {
		t.Errorf("expected source 'environment', got %q", source)
	}
}

func TestResolveMalformedFileFallsThrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv(EnvURL, "https://env.example.com")
	t.Setenv(EnvToken, "tk-env")

	_, source, err := ResolveFromFile(path)
	if err != nil {
		t.Fatalf("expected env fallback to succeed, got %v", err)
	}
	if source != "environment" {
		t.Errorf("expected fallback to environment, got %q", source)
	}
}

func TestResolveUnavailable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.json")

	t.Setenv(EnvURL, "")
	t.Setenv(EnvToken, "")

	_, _, err := ResolveFromFile(path)
	if !errors.Is(err, ErrCredentialsUnavailable) {
		t.Fatalf("expected ErrCredentialsUnavailable, got %v", err)
	}
}

func TestResolvePartialCredentialsUnavailable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.json")

	// URL without a token is not usable.
	t.Setenv(EnvURL, "https://env.example.com")
	t.Setenv(EnvToken, "")

	_, _, err := ResolveFromFile(path)
	if !errors.Is(err, ErrCredentialsUnavailable) {
		t.Fatalf("expected ErrCredentialsUnavailable, got %v", err)
	}
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables used as the lowest-priority credential source.
const (
	EnvURL   = "VIKUNJA_URL"
	EnvToken = "VIKUNJA_TOKEN"
)

// ErrCredentialsUnavailable is returned when no credential source yields a
// usable base URL and token pair.
var ErrCredentialsUnavailable = errors.New("vikunja credentials unavailable")

// Credentials holds the resolved Vikunja connection parameters.
// Immutable once resolved; the API client owns the only reference.
type Credentials struct {
	BaseURL string
	Token   string
}

// fileConfig is the on-disk shape of the config file. Both the short and the
// prefixed field names are accepted for compatibility with existing setups.
type fileConfig struct {
	URL          string `json:"url"`
	Token        string `json:"token"`
	VikunjaURL   string `json:"vikunja_url"`
	VikunjaToken string `json:"vikunja_token"`
}

// DefaultConfigPath returns the default location of the credentials file.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "vikunja-mcp", "config.json")
}

// Resolve loads credentials from the first source that yields both a URL and
// a token. Sources are tried in order:
//
//  1. Config file (~/.config/vikunja-mcp/config.json)
//  2. Environment variables (VIKUNJA_URL, VIKUNJA_TOKEN)
//
// The returned source string names where the credentials came from, for
// startup logging. The token itself must never be logged.
func Resolve() (Credentials, string, error) {
	return resolve(DefaultConfigPath())
}

// ResolveFromFile is like Resolve but reads the given config file path
// instead of the default location. Used by tests and the --config flag.
func ResolveFromFile(path string) (Credentials, string, error) {
	return resolve(path)
}

func resolve(configPath string) (Credentials, string, error) {
	if configPath != "" {
		if creds, ok := fromFile(configPath); ok {
			return creds, fmt.Sprintf("config file (%s)", configPath), nil
		}
	}

	if creds, ok := fromEnv(); ok {
		return creds, "environment", nil
	}

	return Credentials{}, "", fmt.Errorf(
		"%w: create %s or set %s and %s",
		ErrCredentialsUnavailable, configPath, EnvURL, EnvToken)
}

// fromFile reads credentials from a JSON config file. Malformed or partial
// files are skipped so resolution can fall through to the environment.
func fromFile(path string) (Credentials, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, false
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return Credentials{}, false
	}

	url := fc.URL
	if url == "" {
		url = fc.VikunjaURL
	}
	token := fc.Token
	if token == "" {
		token = fc.VikunjaToken
	}

	return normalize(url, token)
}

func fromEnv() (Credentials, bool) {
	return normalize(os.Getenv(EnvURL), os.Getenv(EnvToken))
}

func normalize(url, token string) (Credentials, bool) {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	token = strings.TrimSpace(token)
	if url == "" || token == "" {
		return Credentials{}, false
	}
	return Credentials{BaseURL: url, Token: token}, true
}

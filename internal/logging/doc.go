// Package logging provides slog helpers shared across the codebase:
// consistent attribute keys, nil-safe error attributes, and token masking.
//
// The Vikunja API token must never appear in log output; use SanitizeToken
// for any diagnostic that needs to reference it.
package logging

// Package config resolves Vikunja credentials from a config file or
// environment variables, in priority order. The resolved Credentials value is
// immutable for the process lifetime and is injected into the API client at
// construction; no package performs ambient credential lookups at call time.
package config

// Package common provides shared utilities for MCP tool implementations:
// argument extraction, pagination and shaping option parsing, error message
// guidance, and instrumentation wrappers used by every tool package.
package common

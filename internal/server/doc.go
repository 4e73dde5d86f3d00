// Package server provides the MCP server context and the operational HTTP
// surfaces of the vikunja-mcp application.
//
// # Key Components
//
// ServerContext carries the process-wide state every tool handler needs: the
// credentials resolved at startup, the authenticated Vikunja client built
// from them, the relation graph guard, and the observability plumbing
// (metrics recorder and audit logger). Credentials are resolved once and
// never change for the lifetime of the process.
//
// HealthChecker serves the /healthz, /readyz and /healthz/detailed endpoints
// used by Kubernetes probes when running the streamable HTTP transport.
//
// MetricsServer serves Prometheus metrics on a dedicated port, keeping
// operational metrics off the MCP traffic port.
package server

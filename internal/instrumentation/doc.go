// Package instrumentation provides OpenTelemetry-based observability for the
// vikunja-mcp server.
//
// It wires three concerns behind one Provider:
//
//   - Metrics: counters and histograms for HTTP requests, Vikunja API
//     operations (including retries), and MCP tool invocations. Exported via
//     Prometheus (default), OTLP, or stdout.
//   - Tracing: spans for tool invocations and API operations, exported via
//     OTLP or stdout, disabled by default.
//   - Audit logging: a structured slog entry per tool invocation with its
//     outcome, duration, and trace context.
//
// Configuration comes from environment variables (see DefaultConfig) and can
// be overridden by flags at the command layer. With instrumentation disabled
// the recorder methods become no-ops, so call sites need no guards.
package instrumentation

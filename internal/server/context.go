package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/config"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/instrumentation"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/relations"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

// ServerContext holds the shared state of one MCP server process: the
// resolved credentials, the Vikunja client built from them, and the
// observability plumbing. Credentials are resolved once at startup and are
// immutable for the process lifetime.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	creds  config.Credentials
	client *vikunja.Client
	guard  *relations.Guard

	provider *instrumentation.Provider
	audit    *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithClient replaces the Vikunja client. Used by tests to point the server
// at a fake API.
func WithClient(client *vikunja.Client) Option {
	return func(sc *ServerContext) { sc.client = client }
}

// WithInstrumentation attaches an instrumentation provider.
func WithInstrumentation(provider *instrumentation.Provider) Option {
	return func(sc *ServerContext) { sc.provider = provider }
}

// WithAuditLogger attaches an audit logger for tool invocations.
func WithAuditLogger(audit *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) { sc.audit = audit }
}

// NewServerContext creates the server context from resolved credentials.
func NewServerContext(ctx context.Context, creds config.Credentials, opts ...Option) (*ServerContext, error) {
	if creds.BaseURL == "" || creds.Token == "" {
		return nil, fmt.Errorf("incomplete credentials: base URL and token are both required")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		creds:  creds,
	}
	for _, opt := range opts {
		opt(sc)
	}

	if sc.client == nil {
		sc.client = vikunja.NewClient(creds,
			vikunja.WithRetryObserver(func(ctx context.Context, resource string) {
				sc.Metrics().RecordAPIRetry(ctx, resource)
			}))
	}
	sc.guard = relations.NewGuard(sc.client)

	return sc, nil
}

// Context returns the server's shutdown-aware context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Client returns the Vikunja API client.
func (sc *ServerContext) Client() *vikunja.Client {
	return sc.client
}

// Guard returns the relation graph guard.
func (sc *ServerContext) Guard() *relations.Guard {
	return sc.guard
}

// BaseURL returns the resolved Vikunja base URL. The token is deliberately
// not exposed; only the client holds it.
func (sc *ServerContext) BaseURL() string {
	return sc.creds.BaseURL
}

// Metrics returns the metrics recorder, or a no-op recorder when no
// instrumentation provider is attached.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	if sc.provider == nil {
		return &instrumentation.Metrics{}
	}
	return sc.provider.Metrics()
}

// Instrumentation returns the attached provider, which may be nil.
func (sc *ServerContext) Instrumentation() *instrumentation.Provider {
	return sc.provider
}

// Audit returns the audit logger, or nil when audit logging is not
// configured.
func (sc *ServerContext) Audit() *instrumentation.AuditLogger {
	return sc.audit
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}

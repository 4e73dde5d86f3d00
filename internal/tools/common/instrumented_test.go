package common

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/config"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/instrumentation"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), config.Credentials{
		BaseURL: "https://vikunja.example.com",
		Token:   "test-token",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestInstrumentedToolHandlerPassthrough(t *testing.T) {
	sc := newTestServerContext(t)

	called := false
	handler := InstrumentedToolHandler("test_tool", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			called = true
			return mcp.NewToolResultText("ok"), nil
		})

	result, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, called)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
}

func TestInstrumentedToolHandlerPropagatesError(t *testing.T) {
	sc := newTestServerContext(t)

	wantErr := errors.New("boom")
	handler := InstrumentedToolHandler("test_tool", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return nil, wantErr
		})

	result, err := handler(context.Background(), mcp.CallToolRequest{})
	assert.ErrorIs(t, err, wantErr)
	assert.Nil(t, result)
}

func TestInstrumentedToolHandlerStartsSpan(t *testing.T) {
	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{
		ServiceName:     "vikunja-mcp-test",
		ServiceVersion:  "test",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	sc := newTestServerContext(t)

	var traceID string
	handler := InstrumentedToolHandler("vikunja_get_task", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			traceID = instrumentation.GetTraceID(ctx)
			return mcp.NewToolResultText("ok"), nil
		})

	_, err = handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, traceID, "handler context should carry the tool span")
}

func TestInstrumentedToolHandlerWithOperation(t *testing.T) {
	sc := newTestServerContext(t)

	handler := InstrumentedToolHandlerWithOperation("vikunja_list_tasks", "tasks", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("Error: Resource not found."), nil
		})

	result, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

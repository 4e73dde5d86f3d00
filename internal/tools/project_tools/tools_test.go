package project_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/config"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/server"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

func newTestContext(t *testing.T, handler http.Handler) *server.ServerContext {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	client := vikunja.NewClient(
		config.Credentials{BaseURL: ts.URL, Token: "test-token"},
		vikunja.WithHTTPClient(ts.Client()),
	)
	sc, err := server.NewServerContext(context.Background(),
		config.Credentials{BaseURL: ts.URL, Token: "test-token"},
		server.WithClient(client),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestHandleListProjects(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects", r.URL.Path)
		json.NewEncoder(w).Encode([]vikunja.Project{
			{ID: 1, Title: "Inbox"},
			{ID: 2, Title: "Work"},
		})
	}))

	result, err := handleListProjects(context.Background(), callRequest(map[string]interface{}{}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Inbox")
	assert.Contains(t, text, "Work")
}

func TestHandleCreateProject(t *testing.T) {
	var gotBody map[string]interface{}
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/projects", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(vikunja.Project{ID: 9, Title: "Roadmap"})
	}))

	result, err := handleCreateProject(context.Background(), callRequest(map[string]interface{}{
		"title":             "Roadmap",
		"hex_color":         "#4287f5",
		"parent_project_id": float64(2),
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	assert.Equal(t, "Roadmap", gotBody["title"])
	assert.Equal(t, "#4287f5", gotBody["hex_color"])
	assert.Equal(t, float64(2), gotBody["parent_project_id"])
	assert.Contains(t, resultText(t, result), `"id": 9`)
}

func TestHandleCreateProjectRequiresTitle(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued")
	}))

	result, err := handleCreateProject(context.Background(), callRequest(map[string]interface{}{}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "title is required")
}

func TestHandleUpdateProjectSendsOnlyProvided(t *testing.T) {
	var gotBody map[string]interface{}
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/projects/9", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(vikunja.Project{ID: 9, Title: "Renamed"})
	}))

	result, err := handleUpdateProject(context.Background(), callRequest(map[string]interface{}{
		"project_id": float64(9),
		"title":      "Renamed",
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, map[string]interface{}{"title": "Renamed"}, gotBody)
}

func TestHandleDeleteProject(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/projects/9", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))

	result, err := handleDeleteProject(context.Background(), callRequest(map[string]interface{}{
		"project_id": float64(9),
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Project #9 has been successfully deleted")
}

func TestHandleMoveTask(t *testing.T) {
	var gotBody map[string]interface{}
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/tasks/42", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(vikunja.Task{ID: 42, Title: "Moved", ProjectID: 9})
	}))

	result, err := handleMoveTask(context.Background(), callRequest(map[string]interface{}{
		"task_id":           float64(42),
		"target_project_id": float64(9),
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, map[string]interface{}{"project_id": float64(9)}, gotBody)
}

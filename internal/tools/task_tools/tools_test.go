package task_tools

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

func TestHandleGetTask(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/tasks/42", r.URL.Path)
		json.NewEncoder(w).Encode(vikunja.Task{ID: 42, Title: "Review PR", Priority: 3})
	}))

	result, err := handleGetTask(context.Background(), callRequest(map[string]interface{}{
		"task_id": float64(42),
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Review PR")
	assert.Contains(t, text, "High")
}

func TestHandleGetTaskMissingID(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued")
	}))

	result, err := handleGetTask(context.Background(), callRequest(map[string]interface{}{}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "task_id is required")
}

func TestHandleGetTaskNotFound(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "task does not exist"})
	}))

	result, err := handleGetTask(context.Background(), callRequest(map[string]interface{}{
		"task_id": float64(99),
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Resource not found")
}

func TestHandleListTasksProjectScoped(t *testing.T) {
	var gotQuery map[string][]string
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects/5/tasks", r.URL.Path)
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode([]vikunja.Task{
			{ID: 1, Title: "First"},
			{ID: 2, Title: "Second", Done: true},
		})
	}))

	result, err := handleListTasks(context.Background(), callRequest(map[string]interface{}{
		"project_id":      float64(5),
		"filter_done":     false,
		"filter_priority": float64(3),
		"sort_by":         "due_date",
		"sort_order":      "desc",
		"limit":           float64(10),
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	assert.Equal(t, []string{"due_date"}, gotQuery["sort_by"])
	assert.Equal(t, []string{"desc"}, gotQuery["order_by"])
	assert.Equal(t, []string{"done", "priority"}, gotQuery["filter_by"])
	assert.Equal(t, []string{"false", "3"}, gotQuery["filter_value"])
	assert.Equal(t, []string{"equals", "greater_equals"}, gotQuery["filter_comparator"])
	assert.Equal(t, []string{"and"}, gotQuery["filter_concat"])
	assert.Equal(t, []string{"1"}, gotQuery["page"])
	assert.Equal(t, []string{"10"}, gotQuery["per_page"])

	text := resultText(t, result)
	assert.Contains(t, text, "First")
	assert.Contains(t, text, "Second")
}

func TestHandleListTasksAllProjects(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tasks/all", r.URL.Path)
		json.NewEncoder(w).Encode([]vikunja.Task{})
	}))

	result, err := handleListTasks(context.Background(), callRequest(map[string]interface{}{}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "No tasks found")
}

func TestHandleListTasksRejectsBadSort(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued")
	}))

	result, err := handleListTasks(context.Background(), callRequest(map[string]interface{}{
		"sort_by": "color",
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "sort_by must be one of")
}

func TestHandleCreateTask(t *testing.T) {
	var gotBody map[string]interface{}
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/projects/5/tasks", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(vikunja.Task{ID: 7, Title: "Deploy v2.0", ProjectID: 5, Priority: 4})
	}))

	result, err := handleCreateTask(context.Background(), callRequest(map[string]interface{}{
		"project_id": float64(5),
		"title":      "Deploy v2.0",
		"priority":   float64(4),
		"due_date":   "2026-12-31T23:59:59Z",
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	assert.Equal(t, "Deploy v2.0", gotBody["title"])
	assert.Equal(t, float64(4), gotBody["priority"])
	assert.Contains(t, gotBody["due_date"], "2026-12-31")
	assert.Contains(t, resultText(t, result), `"id": 7`)
}

func TestHandleCreateTaskRequiresTitle(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued")
	}))

	result, err := handleCreateTask(context.Background(), callRequest(map[string]interface{}{
		"project_id": float64(5),
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "title is required")
}

func TestHandleCreateTaskRejectsBadDate(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued")
	}))

	result, err := handleCreateTask(context.Background(), callRequest(map[string]interface{}{
		"project_id": float64(5),
		"title":      "X",
		"due_date":   "tomorrow",
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "ISO 8601")
}

func TestHandleUpdateTaskSendsOnlyProvided(t *testing.T) {
	var gotBody map[string]interface{}
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/tasks/42", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(vikunja.Task{ID: 42, Title: "Old title", Done: true})
	}))

	result, err := handleUpdateTask(context.Background(), callRequest(map[string]interface{}{
		"task_id": float64(42),
		"done":    true,
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, map[string]interface{}{"done": true}, gotBody)
}

func TestHandleUpdateTaskRequiresAField(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued")
	}))

	result, err := handleUpdateTask(context.Background(), callRequest(map[string]interface{}{
		"task_id": float64(42),
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "no fields to update")
}

func TestHandleDeleteTask(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/tasks/42", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))

	result, err := handleDeleteTask(context.Background(), callRequest(map[string]interface{}{
		"task_id": float64(42),
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Task #42 has been successfully deleted")
}

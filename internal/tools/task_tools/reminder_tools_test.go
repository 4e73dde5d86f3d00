package task_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

func reminderAt(t *testing.T, value string) vikunja.Reminder {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return vikunja.Reminder{Reminder: ts}
}

func TestHandleListReminders(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(vikunja.Task{ID: 42, Title: "Release", Reminders: []vikunja.Reminder{
			reminderAt(t, "2026-12-24T09:00:00Z"),
			reminderAt(t, "2026-12-25T09:00:00Z"),
		}})
	}))

	result, err := handleListReminders(context.Background(), callRequest(map[string]interface{}{
		"task_id": float64(42),
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "# Reminders for Task #42")
	assert.Contains(t, text, "1. 2026-12-24 09:00:00 UTC")
	assert.Contains(t, text, "2. 2026-12-25 09:00:00 UTC")
}

func TestHandleListRemindersEmpty(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(vikunja.Task{ID: 42, Title: "Release"})
	}))

	result, err := handleListReminders(context.Background(), callRequest(map[string]interface{}{
		"task_id": float64(42),
	}), sc)
	require.NoError(t, err)
	assert.Equal(t, "No reminders set for this task.", resultText(t, result))
}

func TestHandleAddReminderAppends(t *testing.T) {
	var gotBody struct {
		Reminders []vikunja.Reminder `json:"reminders"`
	}
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(vikunja.Task{ID: 42, Reminders: []vikunja.Reminder{
				reminderAt(t, "2026-12-24T09:00:00Z"),
			}})
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			json.NewEncoder(w).Encode(vikunja.Task{ID: 42, Reminders: gotBody.Reminders})
		}
	}))

	result, err := handleAddReminder(context.Background(), callRequest(map[string]interface{}{
		"task_id":       float64(42),
		"reminder_date": "2026-12-25T09:00:00Z",
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	require.Len(t, gotBody.Reminders, 2)
	assert.Equal(t, "2026-12-25T09:00:00Z", gotBody.Reminders[1].Reminder.Format(time.RFC3339))
}

func TestHandleDeleteReminderByIndex(t *testing.T) {
	var gotBody struct {
		Reminders []vikunja.Reminder `json:"reminders"`
	}
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(vikunja.Task{ID: 42, Reminders: []vikunja.Reminder{
				reminderAt(t, "2026-12-24T09:00:00Z"),
				reminderAt(t, "2026-12-25T09:00:00Z"),
			}})
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			json.NewEncoder(w).Encode(vikunja.Task{ID: 42, Reminders: gotBody.Reminders})
		}
	}))

	result, err := handleDeleteReminder(context.Background(), callRequest(map[string]interface{}{
		"task_id":        float64(42),
		"reminder_index": float64(1),
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	require.Len(t, gotBody.Reminders, 1)
	assert.Equal(t, "2026-12-25T09:00:00Z", gotBody.Reminders[0].Reminder.Format(time.RFC3339))
	assert.Contains(t, resultText(t, result), "1 reminder(s) remaining")
}

func TestHandleDeleteReminderOutOfRange(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Error("no update should be issued")
		}
		json.NewEncoder(w).Encode(vikunja.Task{ID: 42, Reminders: []vikunja.Reminder{
			reminderAt(t, "2026-12-24T09:00:00Z"),
		}})
	}))

	result, err := handleDeleteReminder(context.Background(), callRequest(map[string]interface{}{
		"task_id":        float64(42),
		"reminder_index": float64(5),
	}), sc)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "out of range")
}

func TestHandleCompleteTasksPartialFailure(t *testing.T) {
	sc := newTestContext(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		if r.URL.Path == "/api/v1/tasks/20" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "task does not exist"})
			return
		}
		json.NewEncoder(w).Encode(vikunja.Task{Done: true})
	}))

	result, err := handleCompleteTasks(context.Background(), callRequest(map[string]interface{}{
		"task_ids": []interface{}{float64(10), float64(20)},
	}), sc)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text := resultText(t, result)
	var br struct {
		Total      int `json:"total"`
		Successful int `json:"successful"`
		Failed     int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &br))
	assert.Equal(t, 2, br.Total)
	assert.Equal(t, 1, br.Successful)
	assert.Equal(t, 1, br.Failed)
}

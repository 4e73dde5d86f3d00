package shape

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

func metaFor(tasks int) vikunja.PageMeta {
	return vikunja.PageMeta{Total: tasks, Count: tasks, Limit: 50}
}

func makeTasks(n int, descLen int) []vikunja.Task {
	tasks := make([]vikunja.Task, n)
	for i := range tasks {
		tasks[i] = vikunja.Task{
			ID:          int64(i + 1),
			Title:       fmt.Sprintf("Task %d", i+1),
			Description: strings.Repeat("x", descLen),
			Priority:    3,
		}
	}
	return tasks
}

func TestTimestamp(t *testing.T) {
	at := time.Date(2024, 12, 16, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-12-16 14:30:00 UTC", Timestamp(&at))
	assert.Equal(t, "", Timestamp(nil))
}

func TestRecurrence(t *testing.T) {
	tests := []struct {
		rrule string
		want  string
	}{
		{"", ""},
		{"FREQ=DAILY;INTERVAL=1", "Every day"},
		{"FREQ=WEEKLY;INTERVAL=2", "Every 2 weeks"},
		{"FREQ=WEEKLY;BYDAY=MO,FR", "Every week on Mon, Fri"},
		{"FREQ=MONTHLY;BYMONTHDAY=15", "Every month on day 15"},
		{"FREQ=YEARLY", "Every year"},
		{"FREQ=MINUTELY", "FREQ=MINUTELY"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Recurrence(tt.rrule), "rrule %q", tt.rrule)
	}
}

func TestPriorityName(t *testing.T) {
	assert.Equal(t, "None", PriorityName(0))
	assert.Equal(t, "High", PriorityName(3))
	assert.Equal(t, "DO NOW", PriorityName(5))
	assert.Equal(t, "9", PriorityName(9))
}

func TestTasksMarkdownConcise(t *testing.T) {
	tasks := []vikunja.Task{
		{ID: 1, Title: "Write report", Priority: 3},
		{ID: 2, Title: "Ship release", Done: true},
	}
	res := Tasks(tasks, metaFor(2), Options{Detail: Concise, Format: FormatMarkdown})

	assert.False(t, res.Truncated)
	assert.Contains(t, res.Content, "# Tasks (2 of 2)")
	assert.Contains(t, res.Content, "- [ ] **#1**: Write report (High)")
	assert.Contains(t, res.Content, "- [x] **#2**: Ship release")
	// Concise output carries no descriptions.
	assert.NotContains(t, res.Content, "##")
}

func TestTasksMarkdownDetailed(t *testing.T) {
	due := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tasks := []vikunja.Task{{
		ID:          1,
		Title:       "Write report",
		Description: "Quarterly numbers",
		DueDate:     &due,
		Labels:      []vikunja.Label{{ID: 5, Title: "work"}},
		Repeats:     "FREQ=WEEKLY;INTERVAL=1",
	}}
	res := Tasks(tasks, metaFor(1), Options{Detail: Detailed, Format: FormatMarkdown})

	assert.Contains(t, res.Content, "## [ ] Write report (#1)")
	assert.Contains(t, res.Content, "Quarterly numbers")
	assert.Contains(t, res.Content, "- **Due**: 2025-03-01 09:00:00 UTC")
	assert.Contains(t, res.Content, "- **Labels**: `work`")
	assert.Contains(t, res.Content, "- **Repeats**: Every week")
}

func TestTasksEmpty(t *testing.T) {
	res := Tasks(nil, metaFor(0), Options{Format: FormatMarkdown})
	assert.Equal(t, "No tasks found.", res.Content)
}

func TestTasksJSONEnvelope(t *testing.T) {
	next := 2
	meta := vikunja.PageMeta{Total: 5, Count: 2, Limit: 2, Offset: 0, HasMore: true, NextOffset: &next}
	tasks := makeTasks(2, 10)

	res := Tasks(tasks, meta, Options{Detail: Concise, Format: FormatJSON})
	require.False(t, res.Truncated)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content), &out))
	assert.Equal(t, float64(5), out["total"])
	assert.Equal(t, float64(2), out["count"])
	assert.Equal(t, true, out["has_more"])
	assert.Equal(t, float64(2), out["next_offset"])

	records := out["tasks"].([]any)
	require.Len(t, records, 2)
	first := records[0].(map[string]any)
	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, "Task 1", first["title"])
	// Concise JSON drops everything but the identifying fields.
	assert.NotContains(t, first, "description")
}

func TestMarkdownTruncatesAtRecordBoundary(t *testing.T) {
	tasks := makeTasks(30, 400)
	opts := Options{Detail: Detailed, Format: FormatMarkdown, CharLimit: 3000}

	res := Tasks(tasks, metaFor(30), opts)
	require.True(t, res.Truncated)
	require.Positive(t, res.Omitted)
	assert.LessOrEqual(t, len(res.Content), 3000)

	// Never cut mid-record: every record either appears whole or not at all.
	visible := 0
	for i := 1; i <= 30; i++ {
		heading := fmt.Sprintf("## [ ] Task %d (#%d)", i, i)
		if strings.Contains(res.Content, heading) {
			visible++
			assert.Contains(t, res.Content, fmt.Sprintf("(#%d)\n\n%s", i, strings.Repeat("x", 400)))
		}
	}
	assert.Equal(t, 30, visible+res.Omitted)
	assert.Contains(t, res.Content, fmt.Sprintf("%d tasks omitted", res.Omitted))
}

func TestJSONTruncatesAtRecordBoundary(t *testing.T) {
	tasks := makeTasks(30, 400)
	opts := Options{Detail: Detailed, Format: FormatJSON, CharLimit: 3000}

	res := Tasks(tasks, metaFor(30), opts)
	require.True(t, res.Truncated)
	assert.LessOrEqual(t, len(res.Content), 3000)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content), &out))
	records := out["tasks"].([]any)
	assert.Equal(t, true, out["truncated"])
	assert.Equal(t, float64(res.Omitted), out["omitted"])
	assert.Equal(t, 30, len(records)+res.Omitted)
}

func TestTruncationIsDeterministic(t *testing.T) {
	tasks := makeTasks(25, 300)
	opts := Options{Detail: Detailed, Format: FormatMarkdown, CharLimit: 2500}

	first := Tasks(tasks, metaFor(25), opts)
	for i := 0; i < 5; i++ {
		again := Tasks(tasks, metaFor(25), opts)
		assert.Equal(t, first, again)
	}
}

func TestCappedPreservesRuneBoundaries(t *testing.T) {
	// A payload of multibyte runes must never be cut mid-rune, whichever
	// branch of the cap applies.
	multibyte := strings.Repeat("é", 200)

	for _, limit := range []int{10, 101, 150, 399} {
		res := capped(multibyte, limit)
		require.True(t, res.Truncated, "limit %d", limit)
		assert.LessOrEqual(t, len(res.Content), limit, "limit %d", limit)
		assert.True(t, utf8.ValidString(res.Content), "limit %d produced invalid UTF-8", limit)
	}
}

func TestSingleTaskMarkdownCapIsValidUTF8(t *testing.T) {
	task := vikunja.Task{ID: 3, Title: "Résumé", Description: strings.Repeat("über ", 200)}

	res := Task(task, Options{Detail: Detailed, Format: FormatMarkdown, CharLimit: 301})
	require.True(t, res.Truncated)
	assert.True(t, utf8.ValidString(res.Content))
	assert.LessOrEqual(t, len(res.Content), 301)
}

func TestProjectsMarkdown(t *testing.T) {
	projects := []vikunja.Project{
		{ID: 1, Title: "Inbox"},
		{ID: 2, Title: "Work", Description: "Office tasks", HexColor: "#ff0000"},
	}
	meta := vikunja.PageMeta{Total: 2, Count: 2, Limit: 50}

	concise := Projects(projects, meta, Options{Detail: Concise, Format: FormatMarkdown})
	assert.Contains(t, concise.Content, "- **#1**: Inbox")
	assert.NotContains(t, concise.Content, "Office tasks")

	detailed := Projects(projects, meta, Options{Detail: Detailed, Format: FormatMarkdown})
	assert.Contains(t, detailed.Content, "## Work (#2)")
	assert.Contains(t, detailed.Content, "Office tasks")
	assert.Contains(t, detailed.Content, "- **Color**: #ff0000")
}

func TestSingleTaskJSON(t *testing.T) {
	task := vikunja.Task{ID: 9, Title: "Solo", Description: "full record"}

	concise := Task(task, Options{Detail: Concise, Format: FormatJSON})
	assert.NotContains(t, concise.Content, "full record")

	detailed := Task(task, Options{Detail: Detailed, Format: FormatJSON})
	assert.Contains(t, detailed.Content, "full record")
}

func TestMarkdownListFooter(t *testing.T) {
	next := 20
	meta := vikunja.PageMeta{Total: 45, Count: 20, Limit: 20, Offset: 0, HasMore: true, NextOffset: &next}
	res := Tasks(makeTasks(20, 5), meta, Options{Detail: Concise, Format: FormatMarkdown})

	assert.Contains(t, res.Content, "Showing tasks 1-20 of 45. Use offset=20 to see more.")
}

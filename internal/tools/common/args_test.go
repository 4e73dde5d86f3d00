package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/shape"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

func TestRequireID(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		want    int64
		wantErr string
	}{
		{
			name: "valid id",
			args: map[string]interface{}{"task_id": float64(42)},
			want: 42,
		},
		{
			name:    "missing",
			args:    map[string]interface{}{},
			wantErr: "task_id is required",
		},
		{
			name:    "wrong type",
			args:    map[string]interface{}{"task_id": "42"},
			wantErr: "task_id must be a number",
		},
		{
			name:    "zero",
			args:    map[string]interface{}{"task_id": float64(0)},
			wantErr: "task_id must be a positive integer",
		},
		{
			name:    "negative",
			args:    map[string]interface{}{"task_id": float64(-3)},
			wantErr: "task_id must be a positive integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequireID(tt.args, "task_id")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionalID(t *testing.T) {
	id, present, err := OptionalID(map[string]interface{}{}, "project_id")
	require.NoError(t, err)
	assert.False(t, present)
	assert.Zero(t, id)

	id, present, err = OptionalID(map[string]interface{}{"project_id": float64(7)}, "project_id")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, int64(7), id)

	_, present, err = OptionalID(map[string]interface{}{"project_id": "x"}, "project_id")
	require.Error(t, err)
	assert.True(t, present)
}

func TestIDList(t *testing.T) {
	ids, err := IDList(map[string]interface{}{"label_ids": float64(3)}, "label_ids")
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids)

	ids, err = IDList(map[string]interface{}{
		"label_ids": []interface{}{float64(1), float64(2), float64(5)},
	}, "label_ids")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 5}, ids)

	_, err = IDList(map[string]interface{}{"label_ids": []interface{}{}}, "label_ids")
	assert.Error(t, err)

	_, err = IDList(map[string]interface{}{"label_ids": []interface{}{"a"}}, "label_ids")
	assert.Error(t, err)

	_, err = IDList(map[string]interface{}{}, "label_ids")
	assert.Error(t, err)
}

func TestCursorFromArgs(t *testing.T) {
	cur := CursorFromArgs(map[string]interface{}{})
	assert.Equal(t, vikunja.DefaultPageSize, cur.Limit())
	assert.Equal(t, 0, cur.Offset())

	cur = CursorFromArgs(map[string]interface{}{
		"limit":  float64(50),
		"offset": float64(100),
	})
	assert.Equal(t, 50, cur.Limit())
	assert.Equal(t, 100, cur.Offset())

	// Values beyond the maximum are clamped rather than rejected.
	cur = CursorFromArgs(map[string]interface{}{"limit": float64(500)})
	assert.Equal(t, vikunja.MaxPageSize, cur.Limit())
}

func TestShapeOptionsFromArgs(t *testing.T) {
	opts := ShapeOptionsFromArgs(map[string]interface{}{})
	assert.Equal(t, shape.Concise, opts.Detail)
	assert.Equal(t, shape.FormatMarkdown, opts.Format)

	opts = ShapeOptionsFromArgs(map[string]interface{}{
		"detail_level":    "detailed",
		"response_format": "json",
	})
	assert.Equal(t, shape.Detailed, opts.Detail)
	assert.Equal(t, shape.FormatJSON, opts.Format)
}

func TestOptionalHelpers(t *testing.T) {
	args := map[string]interface{}{
		"title": "Weekly report",
		"done":  true,
		"limit": float64(25),
	}
	assert.Equal(t, "Weekly report", OptionalString(args, "title", "fallback"))
	assert.Equal(t, "fallback", OptionalString(args, "missing", "fallback"))
	assert.True(t, OptionalBool(args, "done", false))
	assert.False(t, OptionalBool(args, "missing", false))
	assert.Equal(t, 25, OptionalInt(args, "limit", 10))
	assert.Equal(t, 10, OptionalInt(args, "missing", 10))
}

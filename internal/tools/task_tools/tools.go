package task_tools

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/filter"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/server"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/shape"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/tools/batch"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/tools/common"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

var sortFields = map[string]bool{
	"id": true, "title": true, "priority": true,
	"due_date": true, "created": true, "updated": true,
}

// RegisterTaskTools registers all task-related tools with the MCP server.
// Write operations are only registered when readOnly is false.
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerTaskReadTools(s, sc); err != nil {
		return fmt.Errorf("failed to register task read tools: %w", err)
	}
	if !readOnly {
		if err := registerTaskWriteTools(s, sc); err != nil {
			return fmt.Errorf("failed to register task write tools: %w", err)
		}
	}
	return registerReminderTools(s, sc, readOnly)
}

func registerTaskReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getTaskTool := mcp.NewTool("vikunja_get_task",
		mcp.WithDescription("Get full details of a single task including labels, assignees, reminders and relations"),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("ID of the task to retrieve"),
		),
		mcp.WithString("response_format",
			mcp.Description("Output format: 'markdown' for human-readable or 'json' for machine-readable (default: markdown)"),
		),
	)

	s.AddTool(getTaskTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_get_task", "tasks", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetTask(ctx, request, sc)
		}))

	listTasksTool := mcp.NewTool("vikunja_list_tasks",
		mcp.WithDescription("List tasks with filtering by project, completion status and priority, plus sorting and pagination"),
		mcp.WithNumber("project_id",
			mcp.Description("Restrict to one project. Omit to list tasks across all projects."),
		),
		mcp.WithBoolean("filter_done",
			mcp.Description("Filter by completion status: true=completed only, false=incomplete only. Omit for all."),
		),
		mcp.WithNumber("filter_priority",
			mcp.Description("Minimum priority level 0-5 (0=None, 1=Low, 2=Medium, 3=High, 4=Urgent, 5=DO NOW)"),
		),
		mcp.WithString("sort_by",
			mcp.Description("Sort field: 'id', 'title', 'priority', 'due_date', 'created', 'updated' (default: id)"),
		),
		mcp.WithString("sort_order",
			mcp.Description("Sort order: 'asc' or 'desc' (default: asc)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tasks to return (1-50, default: 20)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of tasks to skip for pagination (default: 0)"),
		),
		mcp.WithString("response_format",
			mcp.Description("Output format: 'markdown' or 'json' (default: markdown)"),
		),
		mcp.WithString("detail_level",
			mcp.Description("Detail level: 'concise' for summary or 'detailed' for full info (default: concise)"),
		),
	)

	s.AddTool(listTasksTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_list_tasks", "tasks", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListTasks(ctx, request, sc)
		}))

	return nil
}

func registerTaskWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	createTaskTool := mcp.NewTool("vikunja_create_task",
		mcp.WithDescription("Create a new task in a project with title, description, priority, dates and recurrence"),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("ID of the project to create the task in (get with vikunja_list_projects)"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("description",
			mcp.Description("Detailed description in Markdown"),
		),
		mcp.WithNumber("priority",
			mcp.Description("Task priority: 0=None, 1=Low, 2=Medium, 3=High, 4=Urgent, 5=DO NOW (default: 0)"),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date in ISO 8601 format, e.g. 2026-12-31T23:59:59Z"),
		),
		mcp.WithString("start_date",
			mcp.Description("Start date in ISO 8601 format"),
		),
		mcp.WithString("end_date",
			mcp.Description("End date in ISO 8601 format"),
		),
		mcp.WithString("repeats",
			mcp.Description("Recurrence rule in RRULE format, e.g. FREQ=WEEKLY;INTERVAL=2"),
		),
	)

	s.AddTool(createTaskTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_create_task", "tasks", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateTask(ctx, request, sc)
		}))

	updateTaskTool := mcp.NewTool("vikunja_update_task",
		mcp.WithDescription("Update an existing task. Only the provided fields are changed."),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("ID of the task to update"),
		),
		mcp.WithString("title",
			mcp.Description("New task title"),
		),
		mcp.WithString("description",
			mcp.Description("New description in Markdown"),
		),
		mcp.WithBoolean("done",
			mcp.Description("Completion status: true to mark done, false to reopen"),
		),
		mcp.WithNumber("priority",
			mcp.Description("New priority 0-5"),
		),
		mcp.WithString("due_date",
			mcp.Description("New due date in ISO 8601 format"),
		),
		mcp.WithString("repeats",
			mcp.Description("New recurrence rule in RRULE format"),
		),
	)

	s.AddTool(updateTaskTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_update_task", "tasks", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateTask(ctx, request, sc)
		}))

	deleteTaskTool := mcp.NewTool("vikunja_delete_task",
		mcp.WithDescription("Delete a task permanently. This cannot be undone."),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("ID of the task to delete"),
		),
	)

	s.AddTool(deleteTaskTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_delete_task", "tasks", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteTask(ctx, request, sc)
		}))

	completeTasksTool := mcp.NewTool("vikunja_complete_tasks",
		mcp.WithDescription("Mark one or more tasks as done. Partial failures are reported per task."),
		mcp.WithArray("task_ids",
			mcp.Required(),
			mcp.Description("Task ID or array of task IDs to mark as done"),
		),
	)

	s.AddTool(completeTasksTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_complete_tasks", "tasks", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCompleteTasks(ctx, request, sc)
		}))

	return nil
}

func handleGetTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskID, err := common.RequireID(args, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := sc.Client().GetTask(ctx, taskID)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	opts := common.ShapeOptionsFromArgs(args)
	opts.Detail = shape.Detailed
	return mcp.NewToolResultText(shape.Task(*task, opts).Content), nil
}

func handleListTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query := url.Values{}

	sortBy := common.OptionalString(args, "sort_by", "id")
	if !sortFields[sortBy] {
		return mcp.NewToolResultError(fmt.Sprintf(
			"sort_by must be one of: id, title, priority, due_date, created, updated (got %q)", sortBy)), nil
	}
	sortOrder := common.OptionalString(args, "sort_order", "asc")
	if sortOrder != "asc" && sortOrder != "desc" {
		return mcp.NewToolResultError("sort_order must be 'asc' or 'desc'"), nil
	}
	query.Set("sort_by", sortBy)
	query.Set("order_by", sortOrder)

	var conds []filter.Condition
	if done, ok := args["filter_done"].(bool); ok {
		conds = append(conds, filter.Condition{
			Field:      "done",
			Comparator: filter.Equals,
			Value:      strconv.FormatBool(done),
		})
	}
	if prio, ok := args["filter_priority"].(float64); ok {
		p := int(prio)
		if p < 0 || p > 5 {
			return mcp.NewToolResultError("filter_priority must be between 0 and 5"), nil
		}
		conds = append(conds, filter.Condition{
			Field:      "priority",
			Comparator: filter.GreaterEquals,
			Value:      strconv.Itoa(p),
		})
	}
	filter.Apply(query, filter.ModeAnd, conds...)

	cur := common.CursorFromArgs(args)

	var (
		tasks []vikunja.Task
		err   error
	)
	if projectID, ok, idErr := common.OptionalID(args, "project_id"); idErr != nil {
		return mcp.NewToolResultError(idErr.Error()), nil
	} else if ok {
		tasks, err = sc.Client().ListProjectTasks(ctx, projectID, cur, query)
	} else {
		tasks, err = sc.Client().ListAllTasks(ctx, cur, query)
	}
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	res := shape.Tasks(tasks, cur.Meta(), common.ShapeOptionsFromArgs(args))
	return mcp.NewToolResultText(res.Content), nil
}

func handleCreateTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	projectID, err := common.RequireID(args, "project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := common.OptionalString(args, "title", "")
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	input := vikunja.TaskInput{
		Title:       title,
		Description: common.OptionalString(args, "description", ""),
		Repeats:     common.OptionalString(args, "repeats", ""),
	}
	input.Priority = common.OptionalInt(args, "priority", 0)
	if input.Priority < 0 || input.Priority > 5 {
		return mcp.NewToolResultError("priority must be between 0 and 5"), nil
	}

	for _, f := range []struct {
		key  string
		dest **time.Time
	}{
		{"due_date", &input.DueDate},
		{"start_date", &input.StartDate},
		{"end_date", &input.EndDate},
	} {
		if t, perr := optionalTime(args, f.key); perr != nil {
			return mcp.NewToolResultError(perr.Error()), nil
		} else if t != nil {
			*f.dest = t
		}
	}

	task, err := sc.Client().CreateTask(ctx, projectID, input)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	res := shape.Task(*task, shape.Options{Detail: shape.Detailed, Format: shape.FormatJSON})
	return mcp.NewToolResultText(res.Content), nil
}

func handleUpdateTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskID, err := common.RequireID(args, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var patch vikunja.TaskPatch
	changed := false

	if title, ok := args["title"].(string); ok {
		if title == "" {
			return mcp.NewToolResultError("title cannot be empty"), nil
		}
		patch.Title = &title
		changed = true
	}
	if desc, ok := args["description"].(string); ok {
		patch.Description = &desc
		changed = true
	}
	if done, ok := args["done"].(bool); ok {
		patch.Done = &done
		changed = true
	}
	if prio, ok := args["priority"].(float64); ok {
		p := int(prio)
		if p < 0 || p > 5 {
			return mcp.NewToolResultError("priority must be between 0 and 5"), nil
		}
		patch.Priority = &p
		changed = true
	}
	if t, perr := optionalTime(args, "due_date"); perr != nil {
		return mcp.NewToolResultError(perr.Error()), nil
	} else if t != nil {
		patch.DueDate = t
		changed = true
	}
	if rrule, ok := args["repeats"].(string); ok {
		patch.Repeats = &rrule
		changed = true
	}

	if !changed {
		return mcp.NewToolResultError("no fields to update: provide at least one of title, description, done, priority, due_date, repeats"), nil
	}

	task, err := sc.Client().UpdateTask(ctx, taskID, patch)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	res := shape.Task(*task, shape.Options{Detail: shape.Detailed, Format: shape.FormatJSON})
	return mcp.NewToolResultText(res.Content), nil
}

func handleDeleteTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskID, err := common.RequireID(args, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := sc.Client().DeleteTask(ctx, taskID); err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Task #%d has been successfully deleted.", taskID)), nil
}

func handleCompleteTasks(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskIDs, err := batch.ParseIDOrArray(args["task_ids"], "task_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	done := true
	results := batch.ProcessBatch(taskIDs, func(taskID int64) (string, error) {
		if _, err := sc.Client().UpdateTask(ctx, taskID, vikunja.TaskPatch{Done: &done}); err != nil {
			return "", fmt.Errorf("%s", common.Guidance(err))
		}
		return fmt.Sprintf("Task #%d marked as done", taskID), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

// optionalTime parses an ISO 8601 argument. Date-only values are accepted and
// interpreted as midnight UTC.
func optionalTime(args map[string]interface{}, key string) (*time.Time, error) {
	s, ok := args[key].(string)
	if !ok || s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("%s must be an ISO 8601 timestamp such as 2026-12-31T23:59:59Z", key)
}

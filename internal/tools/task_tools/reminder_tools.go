package task_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/server"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/shape"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/tools/common"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

// Reminders live on the task record itself. The API has no dedicated reminder
// endpoint, so add and delete read the task and write back the full list
// through the task update endpoint.
func registerReminderTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listRemindersTool := mcp.NewTool("vikunja_list_reminders",
		mcp.WithDescription("List all reminders set on a task"),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("ID of the task"),
		),
		mcp.WithString("response_format",
			mcp.Description("Output format: 'markdown' or 'json' (default: markdown)"),
		),
	)

	s.AddTool(listRemindersTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_list_reminders", "tasks", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListReminders(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	addReminderTool := mcp.NewTool("vikunja_add_reminder",
		mcp.WithDescription("Add a time-based reminder to a task"),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("ID of the task"),
		),
		mcp.WithString("reminder_date",
			mcp.Required(),
			mcp.Description("Date/time in ISO 8601 format, e.g. 2026-12-25T09:00:00Z"),
		),
	)

	s.AddTool(addReminderTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_add_reminder", "tasks", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAddReminder(ctx, request, sc)
		}))

	deleteReminderTool := mcp.NewTool("vikunja_delete_reminder",
		mcp.WithDescription("Delete a reminder from a task by its position in the reminder list"),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("ID of the task"),
		),
		mcp.WithNumber("reminder_index",
			mcp.Required(),
			mcp.Description("1-based index of the reminder to delete (see vikunja_list_reminders)"),
		),
	)

	s.AddTool(deleteReminderTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_delete_reminder", "tasks", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteReminder(ctx, request, sc)
		}))

	return nil
}

func handleListReminders(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskID, err := common.RequireID(args, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := sc.Client().GetTask(ctx, taskID)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	if shape.ParseFormat(common.OptionalString(args, "response_format", "")) == shape.FormatJSON {
		res := shape.JSON(map[string]interface{}{"reminders": task.Reminders}, shape.DefaultCharLimit)
		return mcp.NewToolResultText(res.Content), nil
	}

	if len(task.Reminders) == 0 {
		return mcp.NewToolResultText("No reminders set for this task."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Reminders for Task #%d\n\n", taskID)
	for i, r := range task.Reminders {
		reminder := r.Reminder
		fmt.Fprintf(&sb, "%d. %s\n", i+1, shape.Timestamp(&reminder))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func handleAddReminder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskID, err := common.RequireID(args, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	when, err := optionalTime(args, "reminder_date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if when == nil {
		return mcp.NewToolResultError("reminder_date is required"), nil
	}

	task, err := sc.Client().GetTask(ctx, taskID)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	reminders := append(append([]vikunja.Reminder{}, task.Reminders...), vikunja.Reminder{Reminder: *when})
	updated, err := sc.Client().UpdateTask(ctx, taskID, vikunja.TaskPatch{Reminders: &reminders})
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	res := shape.JSON(map[string]interface{}{
		"task_id":   taskID,
		"reminders": updated.Reminders,
	}, shape.DefaultCharLimit)
	return mcp.NewToolResultText(res.Content), nil
}

func handleDeleteReminder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskID, err := common.RequireID(args, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	index, err := common.RequireID(args, "reminder_index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := sc.Client().GetTask(ctx, taskID)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	if index > int64(len(task.Reminders)) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"Reminder index %d is out of range. Task has %d reminder(s).", index, len(task.Reminders))), nil
	}

	reminders := append([]vikunja.Reminder{}, task.Reminders...)
	reminders = append(reminders[:index-1], reminders[index:]...)

	if _, err := sc.Client().UpdateTask(ctx, taskID, vikunja.TaskPatch{Reminders: &reminders}); err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Reminder %d deleted from task #%d. %d reminder(s) remaining.", index, taskID, len(reminders))), nil
}

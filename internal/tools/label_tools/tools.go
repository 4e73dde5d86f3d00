package label_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/filter"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/server"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/shape"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/tools/common"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

// RegisterLabelTools registers all label-related tools with the MCP server.
// Write operations are only registered when readOnly is false.
func RegisterLabelTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listLabelsTool := mcp.NewTool("vikunja_list_labels",
		mcp.WithDescription("List all labels accessible to the authenticated user"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of labels to return (1-50, default: 20)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of labels to skip for pagination (default: 0)"),
		),
		mcp.WithString("response_format",
			mcp.Description("Output format: 'markdown' or 'json' (default: markdown)"),
		),
	)

	s.AddTool(listLabelsTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_list_labels", "labels", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListLabels(ctx, request, sc)
		}))

	getTasksByLabelTool := mcp.NewTool("vikunja_get_tasks_by_label",
		mcp.WithDescription("Get all tasks carrying a specific label"),
		mcp.WithNumber("label_id",
			mcp.Required(),
			mcp.Description("ID of the label to filter by (get with vikunja_list_labels)"),
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
			mcp.Description("Detail level: 'concise' or 'detailed' (default: concise)"),
		),
	)

	s.AddTool(getTasksByLabelTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_get_tasks_by_label", "tasks", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetTasksByLabel(ctx, request, sc)
		}))

	filterTasksTool := mcp.NewTool("vikunja_filter_tasks_by_labels",
		mcp.WithDescription("Filter tasks by multiple labels combined with AND (all labels) or OR (any label)"),
		mcp.WithArray("label_ids",
			mcp.Required(),
			mcp.Description("Label IDs to filter by"),
		),
		mcp.WithString("combinator",
			mcp.Description("How to combine the labels: 'and' requires all, 'or' requires any (default: and)"),
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
			mcp.Description("Detail level: 'concise' or 'detailed' (default: concise)"),
		),
	)

	s.AddTool(filterTasksTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_filter_tasks_by_labels", "tasks", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFilterTasksByLabels(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createLabelTool := mcp.NewTool("vikunja_create_label",
		mcp.WithDescription("Create a new label for categorizing tasks"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Label title"),
		),
		mcp.WithString("description",
			mcp.Description("Label description"),
		),
		mcp.WithString("hex_color",
			mcp.Description("Label color as a hex code, e.g. #e8ccd7"),
		),
	)

	s.AddTool(createLabelTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_create_label", "labels", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateLabel(ctx, request, sc)
		}))

	deleteLabelTool := mcp.NewTool("vikunja_delete_label",
		mcp.WithDescription("Delete a label permanently. It is removed from all tasks carrying it."),
		mcp.WithNumber("label_id",
			mcp.Required(),
			mcp.Description("ID of the label to delete"),
		),
	)

	s.AddTool(deleteLabelTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_delete_label", "labels", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteLabel(ctx, request, sc)
		}))

	addLabelTool := mcp.NewTool("vikunja_add_label_to_task",
		mcp.WithDescription("Add an existing label to a task"),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("ID of the task"),
		),
		mcp.WithNumber("label_id",
			mcp.Required(),
			mcp.Description("ID of the label to add"),
		),
	)

	s.AddTool(addLabelTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_add_label_to_task", "labels", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAddLabelToTask(ctx, request, sc)
		}))

	removeLabelTool := mcp.NewTool("vikunja_remove_label_from_task",
		mcp.WithDescription("Remove a label from a task"),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("ID of the task"),
		),
		mcp.WithNumber("label_id",
			mcp.Required(),
			mcp.Description("ID of the label to remove"),
		),
	)

	s.AddTool(removeLabelTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_remove_label_from_task", "labels", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRemoveLabelFromTask(ctx, request, sc)
		}))

	return nil
}

func handleListLabels(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	cur := common.CursorFromArgs(args)
	labels, err := sc.Client().ListLabels(ctx, cur)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	res := shape.Labels(labels, cur.Meta(), common.ShapeOptionsFromArgs(args))
	return mcp.NewToolResultText(res.Content), nil
}

func handleCreateLabel(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title := common.OptionalString(args, "title", "")
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	created, err := sc.Client().CreateLabel(ctx, vikunja.Label{
		Title:       title,
		Description: common.OptionalString(args, "description", ""),
		HexColor:    common.OptionalString(args, "hex_color", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	res := shape.JSON(created, shape.DefaultCharLimit)
	return mcp.NewToolResultText(res.Content), nil
}

func handleDeleteLabel(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	labelID, err := common.RequireID(args, "label_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := sc.Client().DeleteLabel(ctx, labelID); err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Label #%d has been successfully deleted.", labelID)), nil
}

func handleAddLabelToTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskID, err := common.RequireID(args, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	labelID, err := common.RequireID(args, "label_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := sc.Client().AddLabelToTask(ctx, taskID, labelID); err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Label #%d added to task #%d.", labelID, taskID)), nil
}

func handleRemoveLabelFromTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskID, err := common.RequireID(args, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	labelID, err := common.RequireID(args, "label_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := sc.Client().RemoveLabelFromTask(ctx, taskID, labelID); err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Label #%d removed from task #%d.", labelID, taskID)), nil
}

func handleGetTasksByLabel(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	labelID, err := common.RequireID(args, "label_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return filteredTasks(ctx, args, sc, filter.Labels(filter.ModeAnd, labelID))
}

func handleFilterTasksByLabels(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	labelIDs, err := common.IDList(args, "label_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mode := filter.ModeAnd
	switch common.OptionalString(args, "combinator", "and") {
	case "and":
	case "or":
		mode = filter.ModeOr
	default:
		return mcp.NewToolResultError("combinator must be 'and' or 'or'"), nil
	}

	return filteredTasks(ctx, args, sc, filter.Labels(mode, labelIDs...))
}

// filteredTasks runs a validated label predicate set against the task listing
// endpoint. The service-side labels comparator is membership-based, so AND
// sets are re-verified record by record before shaping.
func filteredTasks(ctx context.Context, args map[string]interface{}, sc *server.ServerContext, preds []filter.Predicate) (*mcp.CallToolResult, error) {
	query, err := filter.BuildLabelQuery(preds)
	if err != nil {
		if errors.Is(err, filter.ErrEmptyFilter) {
			return mcp.NewToolResultError("label_ids must not be empty"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	cur := common.CursorFromArgs(args)
	tasks, err := sc.Client().ListAllTasks(ctx, cur, query)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	matched := tasks[:0]
	for _, task := range tasks {
		ids := make([]int64, 0, len(task.Labels))
		for _, l := range task.Labels {
			ids = append(ids, l.ID)
		}
		if filter.Matches(ids, preds) {
			matched = append(matched, task)
		}
	}

	dropped := len(tasks) - len(matched)

	meta := cur.Meta()
	meta.Count = len(matched)
	// The service total counts membership matches, so records dropped by
	// the local re-verification are subtracted. Drops on other pages are
	// unknowable here; the adjusted total remains an upper bound.
	if dropped > 0 {
		meta.Total -= dropped
		if meta.Total < meta.Count {
			meta.Total = meta.Count
		}
	}

	res := shape.Tasks(matched, meta, common.ShapeOptionsFromArgs(args))
	return mcp.NewToolResultText(res.Content), nil
}

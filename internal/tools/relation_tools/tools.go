package relation_tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/relations"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/server"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/shape"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/tools/common"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

func relationKindNames() string {
	names := make([]string, 0, len(vikunja.RelationKinds))
	for _, k := range vikunja.RelationKinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

// RegisterRelationTools registers all task-relation tools with the MCP
// server. Write operations are only registered when readOnly is false.
func RegisterRelationTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getRelationsTool := mcp.NewTool("vikunja_get_relations",
		mcp.WithDescription("Get all relationships of a task, grouped by relation kind"),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("ID of the task"),
		),
		mcp.WithString("response_format",
			mcp.Description("Output format: 'markdown' or 'json' (default: markdown)"),
		),
	)

	s.AddTool(getRelationsTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_get_relations", "relations", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetRelations(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createRelationTool := mcp.NewTool("vikunja_create_relation",
		mcp.WithDescription("Create a relationship between two tasks. Hierarchical kinds (subtask, blocking, precedes and their inverses) are checked for cycles before submission."),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Source task ID"),
		),
		mcp.WithNumber("other_task_id",
			mcp.Required(),
			mcp.Description("Related task ID"),
		),
		mcp.WithString("relation_kind",
			mcp.Required(),
			mcp.Description("Relationship type. Options: "+relationKindNames()),
		),
	)

	s.AddTool(createRelationTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_create_relation", "relations", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateRelation(ctx, request, sc)
		}))

	deleteRelationTool := mcp.NewTool("vikunja_delete_relation",
		mcp.WithDescription("Delete a relationship between two tasks"),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("Source task ID"),
		),
		mcp.WithNumber("other_task_id",
			mcp.Required(),
			mcp.Description("Related task ID"),
		),
		mcp.WithString("relation_kind",
			mcp.Required(),
			mcp.Description("Relationship type to delete. Options: "+relationKindNames()),
		),
	)

	s.AddTool(deleteRelationTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_delete_relation", "relations", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteRelation(ctx, request, sc)
		}))

	return nil
}

func relationArgs(args map[string]interface{}) (taskID, otherID int64, kind vikunja.RelationKind, errMsg string) {
	taskID, err := common.RequireID(args, "task_id")
	if err != nil {
		return 0, 0, "", err.Error()
	}
	otherID, err = common.RequireID(args, "other_task_id")
	if err != nil {
		return 0, 0, "", err.Error()
	}
	kindStr := common.OptionalString(args, "relation_kind", "")
	kind, ok := vikunja.ParseRelationKind(kindStr)
	if !ok {
		return 0, 0, "", fmt.Sprintf("relation_kind must be one of: %s (got %q)", relationKindNames(), kindStr)
	}
	return taskID, otherID, kind, ""
}

func handleCreateRelation(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	taskID, otherID, kind, errMsg := relationArgs(request.GetArguments())
	if errMsg != "" {
		return mcp.NewToolResultError(errMsg), nil
	}

	edge := relations.Edge{From: taskID, To: otherID, Kind: kind}
	if err := sc.Guard().Validate(ctx, edge); err != nil {
		var cycleErr *relations.CycleError
		switch {
		case errors.Is(err, relations.ErrSelfRelation):
			return mcp.NewToolResultError("A task cannot relate to itself. task_id and other_task_id must differ."), nil
		case errors.As(err, &cycleErr):
			return mcp.NewToolResultError(fmt.Sprintf(
				"Error: %v. Creating it would make these tasks mutually dependent; remove one of the existing relations first.", cycleErr)), nil
		default:
			return mcp.NewToolResultError(common.Guidance(err)), nil
		}
	}

	if err := sc.Client().CreateRelation(ctx, taskID, otherID, kind); err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Relationship '%s' created between task #%d and #%d.", kind, taskID, otherID)), nil
}

func handleDeleteRelation(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	taskID, otherID, kind, errMsg := relationArgs(request.GetArguments())
	if errMsg != "" {
		return mcp.NewToolResultError(errMsg), nil
	}

	if err := sc.Client().DeleteRelation(ctx, taskID, otherID, kind); err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Relationship '%s' between task #%d and #%d deleted.", kind, taskID, otherID)), nil
}

func handleGetRelations(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskID, err := common.RequireID(args, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	related, err := sc.Client().TaskRelations(ctx, taskID)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	if shape.ParseFormat(common.OptionalString(args, "response_format", "")) == shape.FormatJSON {
		res := shape.JSON(map[string]interface{}{"related_tasks": related}, shape.DefaultCharLimit)
		return mcp.NewToolResultText(res.Content), nil
	}

	total := 0
	for _, tasks := range related {
		total += len(tasks)
	}
	if total == 0 {
		return mcp.NewToolResultText("No relationships defined for this task."), nil
	}

	kinds := make([]string, 0, len(related))
	for kind := range related {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Relationships for Task #%d\n", taskID)
	for _, kind := range kinds {
		tasks := related[vikunja.RelationKind(kind)]
		if len(tasks) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n## %s\n", strings.ToUpper(kind[:1])+kind[1:])
		for _, task := range tasks {
			fmt.Fprintf(&sb, "- **#%d**: %s\n", task.ID, task.Title)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

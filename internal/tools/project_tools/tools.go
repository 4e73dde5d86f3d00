package project_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/IAMSamuelRodda/vikunja-mcp/internal/server"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/shape"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/tools/common"
	"github.com/IAMSamuelRodda/vikunja-mcp/internal/vikunja"
)

// RegisterProjectTools registers all project-related tools with the MCP
// server. Write operations are only registered when readOnly is false.
func RegisterProjectTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listProjectsTool := mcp.NewTool("vikunja_list_projects",
		mcp.WithDescription("List all projects accessible to the authenticated user"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of projects to return (1-50, default: 20)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of projects to skip for pagination (default: 0)"),
		),
		mcp.WithString("response_format",
			mcp.Description("Output format: 'markdown' or 'json' (default: markdown)"),
		),
		mcp.WithString("detail_level",
			mcp.Description("Detail level: 'concise' or 'detailed' (default: concise)"),
		),
	)

	s.AddTool(listProjectsTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_list_projects", "projects", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListProjects(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createProjectTool := mcp.NewTool("vikunja_create_project",
		mcp.WithDescription("Create a new project, optionally nested under a parent project"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Project title"),
		),
		mcp.WithString("description",
			mcp.Description("Project description"),
		),
		mcp.WithString("hex_color",
			mcp.Description("Project color as a hex code, e.g. #4287f5"),
		),
		mcp.WithNumber("parent_project_id",
			mcp.Description("ID of the parent project for nesting"),
		),
	)

	s.AddTool(createProjectTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_create_project", "projects", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateProject(ctx, request, sc)
		}))

	updateProjectTool := mcp.NewTool("vikunja_update_project",
		mcp.WithDescription("Update a project's title, description or color. Only the provided fields are changed."),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("ID of the project to update"),
		),
		mcp.WithString("title",
			mcp.Description("New project title"),
		),
		mcp.WithString("description",
			mcp.Description("New project description"),
		),
		mcp.WithString("hex_color",
			mcp.Description("New project color as a hex code"),
		),
	)

	s.AddTool(updateProjectTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_update_project", "projects", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateProject(ctx, request, sc)
		}))

	deleteProjectTool := mcp.NewTool("vikunja_delete_project",
		mcp.WithDescription("Delete a project and all its tasks permanently. This cannot be undone."),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("ID of the project to delete"),
		),
	)

	s.AddTool(deleteProjectTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_delete_project", "projects", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteProject(ctx, request, sc)
		}))

	moveTaskTool := mcp.NewTool("vikunja_move_task",
		mcp.WithDescription("Move a task to a different project"),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("ID of the task to move"),
		),
		mcp.WithNumber("target_project_id",
			mcp.Required(),
			mcp.Description("ID of the destination project"),
		),
	)

	s.AddTool(moveTaskTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_move_task", "tasks", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleMoveTask(ctx, request, sc)
		}))

	return nil
}

func handleListProjects(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	cur := common.CursorFromArgs(args)
	projects, err := sc.Client().ListProjects(ctx, cur)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	res := shape.Projects(projects, cur.Meta(), common.ShapeOptionsFromArgs(args))
	return mcp.NewToolResultText(res.Content), nil
}

func handleCreateProject(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title := common.OptionalString(args, "title", "")
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	project := vikunja.Project{
		Title:       title,
		Description: common.OptionalString(args, "description", ""),
		HexColor:    common.OptionalString(args, "hex_color", ""),
	}
	if parentID, ok, err := common.OptionalID(args, "parent_project_id"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	} else if ok {
		project.ParentProjectID = parentID
	}

	created, err := sc.Client().CreateProject(ctx, project)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	res := shape.Project(*created, shape.Options{Detail: shape.Detailed, Format: shape.FormatJSON})
	return mcp.NewToolResultText(res.Content), nil
}

func handleUpdateProject(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	projectID, err := common.RequireID(args, "project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var patch vikunja.ProjectPatch
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
	if color, ok := args["hex_color"].(string); ok {
		patch.HexColor = &color
		changed = true
	}
	if !changed {
		return mcp.NewToolResultError("no fields to update: provide at least one of title, description, hex_color"), nil
	}

	updated, err := sc.Client().UpdateProject(ctx, projectID, patch)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	res := shape.Project(*updated, shape.Options{Detail: shape.Detailed, Format: shape.FormatJSON})
	return mcp.NewToolResultText(res.Content), nil
}

func handleDeleteProject(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	projectID, err := common.RequireID(args, "project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := sc.Client().DeleteProject(ctx, projectID); err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Project #%d has been successfully deleted.", projectID)), nil
}

func handleMoveTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskID, err := common.RequireID(args, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	targetID, err := common.RequireID(args, "target_project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := sc.Client().UpdateTask(ctx, taskID, vikunja.TaskPatch{ProjectID: &targetID})
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	res := shape.Task(*task, shape.Options{Detail: shape.Detailed, Format: shape.FormatJSON})
	return mcp.NewToolResultText(res.Content), nil
}

package team_tools

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

// RegisterTeamTools registers team collaboration tools with the MCP server.
// Write operations are only registered when readOnly is false.
func RegisterTeamTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTeamsTool := mcp.NewTool("vikunja_list_teams",
		mcp.WithDescription("List all teams the authenticated user belongs to"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of teams to return (1-50, default: 20)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of teams to skip for pagination (default: 0)"),
		),
		mcp.WithString("response_format",
			mcp.Description("Output format: 'markdown' or 'json' (default: markdown)"),
		),
	)

	s.AddTool(listTeamsTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_list_teams", "teams", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListTeams(ctx, request, sc)
		}))

	getTeamMembersTool := mcp.NewTool("vikunja_get_team_members",
		mcp.WithDescription("List all members of a team"),
		mcp.WithNumber("team_id",
			mcp.Required(),
			mcp.Description("ID of the team (get with vikunja_list_teams)"),
		),
	)

	s.AddTool(getTeamMembersTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_get_team_members", "teams", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetTeamMembers(ctx, request, sc)
		}))

	searchUsersTool := mcp.NewTool("vikunja_search_users",
		mcp.WithDescription("Search users by name or username, e.g. to find a user_id for vikunja_assign_task"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search string matched against usernames and names"),
		),
	)

	s.AddTool(searchUsersTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_search_users", "users", "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearchUsers(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	assignTaskTool := mcp.NewTool("vikunja_assign_task",
		mcp.WithDescription("Assign a task to a user"),
		mcp.WithNumber("task_id",
			mcp.Required(),
			mcp.Description("ID of the task"),
		),
		mcp.WithNumber("user_id",
			mcp.Required(),
			mcp.Description("ID of the user to assign (find with vikunja_search_users)"),
		),
	)

	s.AddTool(assignTaskTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_assign_task", "tasks", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAssignTask(ctx, request, sc)
		}))

	shareProjectTool := mcp.NewTool("vikunja_share_project",
		mcp.WithDescription("Share a project with a team at a permission level"),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("ID of the project to share"),
		),
		mcp.WithNumber("team_id",
			mcp.Required(),
			mcp.Description("ID of the team to share with"),
		),
		mcp.WithNumber("permission_level",
			mcp.Description("0=read, 1=read+write, 2=admin (default: 0)"),
		),
	)

	s.AddTool(shareProjectTool, common.InstrumentedToolHandlerWithOperation(
		"vikunja_share_project", "projects", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleShareProject(ctx, request, sc)
		}))

	return nil
}

func handleListTeams(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	cur := common.CursorFromArgs(args)
	teams, err := sc.Client().ListTeams(ctx, cur)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	res := shape.Teams(teams, cur.Meta(), common.ShapeOptionsFromArgs(args))
	return mcp.NewToolResultText(res.Content), nil
}

func handleGetTeamMembers(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	teamID, err := common.RequireID(args, "team_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	members, err := sc.Client().TeamMembers(ctx, teamID)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	if len(members) == 0 {
		return mcp.NewToolResultText("This team has no members."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Members of Team #%d\n\n", teamID)
	for _, m := range members {
		sb.WriteString(userLine(m))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func handleSearchUsers(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query := common.OptionalString(args, "query", "")
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	users, err := sc.Client().SearchUsers(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	if len(users) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No users found matching %q.", query)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Users matching %q\n\n", query)
	for _, u := range users {
		sb.WriteString(userLine(u))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func handleAssignTask(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	taskID, err := common.RequireID(args, "task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	userID, err := common.RequireID(args, "user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := sc.Client().AssignUser(ctx, taskID, userID); err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("User #%d assigned to task #%d.", userID, taskID)), nil
}

func handleShareProject(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	projectID, err := common.RequireID(args, "project_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	teamID, err := common.RequireID(args, "team_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	right := common.OptionalInt(args, "permission_level", 0)
	if right < 0 || right > 2 {
		return mcp.NewToolResultError("permission_level must be 0 (read), 1 (read+write) or 2 (admin)"), nil
	}

	share := vikunja.TeamProject{TeamID: teamID, Right: right}
	if err := sc.Client().ShareProjectWithTeam(ctx, projectID, share); err != nil {
		return mcp.NewToolResultError(common.Guidance(err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Project #%d shared with team #%d at permission level %d.", projectID, teamID, right)), nil
}

func userLine(u vikunja.User) string {
	name := u.Username
	if u.Name != "" {
		name = fmt.Sprintf("%s (%s)", u.Name, u.Username)
	}
	return fmt.Sprintf("- **#%d**: %s\n", u.ID, name)
}

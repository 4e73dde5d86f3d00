// Package team_tools provides MCP tools for team collaboration: listing
// teams and members, searching users, assigning tasks and sharing projects
// with teams.
package team_tools

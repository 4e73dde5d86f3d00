// Package project_tools provides MCP tools for Vikunja project management:
// project CRUD and moving tasks between projects.
package project_tools

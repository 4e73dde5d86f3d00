// Package label_tools provides MCP tools for Vikunja labels: label CRUD,
// attaching labels to tasks, and label-based task filtering with AND/OR
// combinators.
package label_tools

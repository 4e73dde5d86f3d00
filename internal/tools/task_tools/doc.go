// Package task_tools provides MCP tools for Vikunja task management.
//
// It covers task CRUD, list filtering and pagination, and reminder
// management. Reminders are stored on the task record, so the reminder tools
// operate through the task read and update endpoints.
package task_tools

// Package relation_tools provides MCP tools for task relationships. Relation
// creation runs a cycle check over the hierarchical relation families before
// anything is submitted to the service.
package relation_tools

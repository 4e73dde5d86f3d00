package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the vikunja-mcp application
var rootCmd = &cobra.Command{
	Use:   "vikunja-mcp",
	Short: "MCP server for Vikunja task management",
	Long: `vikunja-mcp bridges AI assistants to a Vikunja instance via the
Model Context Protocol (MCP).

It exposes tools for managing tasks, projects, labels, task
relationships, reminders and team sharing over the Vikunja REST API.
Credentials are read from ~/.config/vikunja-mcp/config.json or the
VIKUNJA_URL and VIKUNJA_TOKEN environment variables.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "vikunja-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	tqmcp "github.com/valter-silva-au/taskquery/internal/mcp"
	"github.com/valter-silva-au/taskquery/internal/scoring"
)

var mcpTasksFlag string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the tq MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tq MCP server on stdio",
	Long: `Start the tq MCP server on stdio transport.

The server exposes the query engine as MCP tools that AI coding assistants
can call: run_query, explain_query, list_tasks, get_metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Engine == nil {
			return fmt.Errorf("query engine not initialized")
		}

		settings := scoring.DefaultSettings()
		maxMatches := 0
		if Cfg != nil {
			settings = Cfg.Scoring
			maxMatches = Cfg.MaxMatches
		}

		srv := tqmcp.NewServer(Engine, resolveTasksFile(mcpTasksFlag), settings, maxMatches, MetricsCalc, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpServeCmd.Flags().StringVarP(&mcpTasksFlag, "file", "f", "", "Task collection file (default from config)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

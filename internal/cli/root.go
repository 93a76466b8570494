package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "tq",
	Short: "taskquery - query engine for task collections",
	Long: `taskquery (tq) compiles short textual queries into filter/sort/group
pipelines over task collections and can explain, per task, why it matched
or failed each clause.

Queries are one clause per line. Lines combine with an implicit AND;
within a line, clauses combine with AND, OR, NOT, and parentheses.
Terminal "sort by" and "group by" lines shape the output.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tq %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Flags for "tq explain".
var (
	explainTasksFlag     string
	explainReferenceFlag string
	explainAllFlag       bool
)

var explainCmd = &cobra.Command{
	Use:   "explain <query-text>",
	Short: "Explain why each task matches or fails a query",
	Long: `Run a query and print, for every task in the collection, a
human-readable narrative of why it matched or failed the query's clauses.

By default only non-matching tasks are narrated, since the question is
usually "why is this task missing?". Use --all to narrate matches too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reference, err := parseReference(explainReferenceFlag)
		if err != nil {
			return err
		}

		result, tasks, err := runQuery(args[0], resolveTasksFile(explainTasksFlag), true, reference)
		if err != nil {
			return err
		}

		matched := make(map[string]bool, len(result.Tasks))
		for _, t := range result.Tasks {
			matched[t.ID] = true
		}

		out := cmd.OutOrStdout()
		shown := 0
		for _, t := range tasks {
			if matched[t.ID] && !explainAllFlag {
				continue
			}
			fmt.Fprintf(out, "%-12s %s\n", t.ID, explainStyle.Render(result.Explanations[t.ID]))
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(out, "All tasks match the query.")
		}
		fmt.Fprintf(out, "\n%s\n", dimStyle.Render(fmt.Sprintf("%d of %d task(s) matched", result.Total, len(tasks))))

		return nil
	},
}

func init() {
	explainCmd.Flags().StringVarP(&explainTasksFlag, "file", "f", "", "Task collection file (default from config)")
	explainCmd.Flags().StringVar(&explainReferenceFlag, "reference", "", "Reference date for relative clauses (YYYY-MM-DD, default today)")
	explainCmd.Flags().BoolVar(&explainAllFlag, "all", false, "Narrate matching tasks as well")
	rootCmd.AddCommand(explainCmd)
}

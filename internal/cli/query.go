package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/taskquery/internal/query"
)

// Flags for "tq query".
var (
	queryFileFlag      string
	queryTasksFlag     string
	queryExplainFlag   bool
	queryReferenceFlag string
	queryJSONFlag      bool
	queryCountFlag     bool
)

var queryCmd = &cobra.Command{
	Use:   "query [query-text]",
	Short: "Run a query over a task collection",
	Long: `Run a query over a task collection and print the filtered, sorted,
and optionally grouped results.

The query text is a single argument; use "-" to read it from stdin, or
--query-file to read it from a file. Multi-line queries combine their
lines with an implicit AND.

Examples:
  tq query 'due before 2026-01-01'
  tq query 'tag includes work
AND priority is high'
  tq query 'not done
sort by urgency desc
group by status' --explain`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readQueryText(args)
		if err != nil {
			return err
		}

		reference, err := parseReference(queryReferenceFlag)
		if err != nil {
			return err
		}

		result, _, err := runQuery(text, resolveTasksFile(queryTasksFlag), queryExplainFlag, reference)
		if err != nil {
			return err
		}

		switch {
		case queryJSONFlag:
			return printResultJSON(cmd.OutOrStdout(), result)
		case queryCountFlag:
			fmt.Fprintln(cmd.OutOrStdout(), result.Total)
			return nil
		default:
			printResult(cmd.OutOrStdout(), result, queryExplainFlag)
			return nil
		}
	},
}

// readQueryText resolves the query text from the positional argument,
// stdin ("-"), or --query-file.
func readQueryText(args []string) (string, error) {
	if queryFileFlag != "" {
		raw, err := os.ReadFile(queryFileFlag)
		if err != nil {
			return "", fmt.Errorf("reading query file: %w", err)
		}
		return string(raw), nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("missing query text (or use --query-file)")
	}
	if args[0] == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading query from stdin: %w", err)
		}
		return string(raw), nil
	}
	return args[0], nil
}

// jsonResult is the JSON output shape for --json.
type jsonResult struct {
	Total        int               `json:"total"`
	Tasks        []jsonTask        `json:"tasks"`
	Groups       []jsonGroup       `json:"groups,omitempty"`
	Explanations map[string]string `json:"explanations,omitempty"`
}

type jsonTask struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Priority string   `json:"priority"`
	Due      string   `json:"due,omitempty"`
	Path     string   `json:"path,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

type jsonGroup struct {
	Key   string   `json:"key"`
	Tasks []string `json:"tasks"` // task ids, preserving group order
}

func printResultJSON(out io.Writer, result *query.Result) error {
	payload := jsonResult{
		Total:        result.Total,
		Tasks:        make([]jsonTask, 0, len(result.Tasks)),
		Explanations: result.Explanations,
	}
	for _, t := range result.Tasks {
		jt := jsonTask{
			ID:       t.ID,
			Name:     t.Name,
			Status:   t.Status.Name,
			Priority: t.Priority.String(),
			Path:     t.Path,
			Tags:     t.Tags,
		}
		if t.DueAt != nil {
			jt.Due = t.DueAt.Format("2006-01-02")
		}
		payload.Tasks = append(payload.Tasks, jt)
	}
	for _, g := range result.Groups {
		jg := jsonGroup{Key: g.Key, Tasks: make([]string, 0, len(g.Tasks))}
		for _, t := range g.Tasks {
			jg.Tasks = append(jg.Tasks, t.ID)
		}
		payload.Groups = append(payload.Groups, jg)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}

func init() {
	queryCmd.Flags().StringVar(&queryFileFlag, "query-file", "", "Read the query text from a file")
	queryCmd.Flags().StringVarP(&queryTasksFlag, "file", "f", "", "Task collection file (default from config)")
	queryCmd.Flags().BoolVar(&queryExplainFlag, "explain", false, "Include per-task match/mismatch explanations")
	queryCmd.Flags().StringVar(&queryReferenceFlag, "reference", "", "Reference date for relative clauses (YYYY-MM-DD, default today)")
	queryCmd.Flags().BoolVar(&queryJSONFlag, "json", false, "Print the result as JSON")
	queryCmd.Flags().BoolVar(&queryCountFlag, "count", false, "Print only the match count")
	rootCmd.AddCommand(queryCmd)
}

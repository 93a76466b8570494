package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// Flags for "tq metrics".
var (
	metricsSinceFlag string
	metricsJSONFlag  bool
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show query metrics derived from the event log",
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized")
		}

		since := time.Time{}
		if metricsSinceFlag != "" {
			parsed, err := parseSince(metricsSinceFlag)
			if err != nil {
				return err
			}
			since = parsed
		}

		metrics, err := MetricsCalc.Calculate(since)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		if metricsJSONFlag {
			out, err := json.MarshalIndent(metrics, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding metrics: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Println("Query metrics")
		fmt.Printf("  queries run:    %d\n", metrics.QueriesRun)
		fmt.Printf("  queries failed: %d\n", metrics.QueriesFailed)
		fmt.Printf("  compiles:       %d\n", metrics.Compiles)
		fmt.Printf("  cache hits:     %d (%.0f%%)\n", metrics.CacheHits, metrics.CacheHitRate*100)
		fmt.Printf("  tasks matched:  %d\n", metrics.TasksMatched)
		fmt.Printf("  events:         %d\n", metrics.EventCount)
		if metrics.OldestEvent != nil && metrics.NewestEvent != nil {
			fmt.Printf("  window:         %s to %s\n",
				metrics.OldestEvent.Format("2006-01-02 15:04"),
				metrics.NewestEvent.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	metricsCmd.Flags().StringVar(&metricsSinceFlag, "since", "", "Only count events after this time (duration like 24h/7d, or YYYY-MM-DD)")
	metricsCmd.Flags().BoolVar(&metricsJSONFlag, "json", false, "Output metrics as JSON")
	rootCmd.AddCommand(metricsCmd)
}

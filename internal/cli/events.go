package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/taskquery/internal/observability"
)

// Flags for "tq events".
var (
	eventsSinceFlag string
	eventsTypeFlag  string
	eventsLevelFlag string
	eventsLimitFlag int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recorded query events",
	Long: `Read the append-only event log and print recent query events.

Events record compiles, cache hits, executions, and failures. Use
--since, --type, and --level to narrow the output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventLog == nil {
			return fmt.Errorf("event log not initialized")
		}

		filter := observability.EventFilter{
			Type:  eventsTypeFlag,
			Level: eventsLevelFlag,
		}
		if eventsSinceFlag != "" {
			since, err := parseSince(eventsSinceFlag)
			if err != nil {
				return err
			}
			filter.Since = &since
		}

		events, err := EventLog.Read(filter)
		if err != nil {
			return fmt.Errorf("reading event log: %w", err)
		}

		if eventsLimitFlag > 0 && len(events) > eventsLimitFlag {
			events = events[len(events)-eventsLimitFlag:]
		}

		if len(events) == 0 {
			fmt.Println("No events found.")
			return nil
		}

		for _, event := range events {
			line := fmt.Sprintf("%s  %-5s %-16s %s",
				event.Time.Format("2006-01-02 15:04:05"),
				event.Level, event.Type, event.Message)
			if event.Data != nil {
				if q, ok := event.Data["query"].(string); ok && q != "" {
					line += fmt.Sprintf("  query=%q", firstLine(q))
				}
			}
			fmt.Println(line)
		}
		fmt.Printf("\n%d event(s)\n", len(events))
		return nil
	},
}

// parseSince accepts a duration ("24h", "7d") or an absolute date.
func parseSince(value string) (time.Time, error) {
	if d, err := parseDaysDuration(value); err == nil {
		return time.Now().Add(-d), nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return time.Now().Add(-d), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --since value %q (want a duration like 24h or a date like 2026-01-02)", value)
}

// parseDaysDuration handles the "7d" shorthand time.ParseDuration rejects.
func parseDaysDuration(value string) (time.Duration, error) {
	var days int
	if _, err := fmt.Sscanf(value, "%dd", &days); err != nil || days <= 0 {
		return 0, fmt.Errorf("not a day count")
	}
	return time.Duration(days) * 24 * time.Hour, nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i] + "..."
		}
	}
	return s
}

func init() {
	eventsCmd.Flags().StringVar(&eventsSinceFlag, "since", "", "Only events after this time (duration like 24h/7d, or YYYY-MM-DD)")
	eventsCmd.Flags().StringVar(&eventsTypeFlag, "type", "", "Filter by event type (query.compiled, query.executed, query.failed)")
	eventsCmd.Flags().StringVar(&eventsLevelFlag, "level", "", "Filter by level (INFO, WARN, ERROR)")
	eventsCmd.Flags().IntVar(&eventsLimitFlag, "limit", 50, "Show at most this many recent events (0 for all)")
	rootCmd.AddCommand(eventsCmd)
}

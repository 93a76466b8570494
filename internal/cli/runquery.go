package cli

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/taskquery/internal/graph"
	"github.com/valter-silva-au/taskquery/internal/observability"
	"github.com/valter-silva-au/taskquery/internal/query"
	"github.com/valter-silva-au/taskquery/internal/scoring"
	"github.com/valter-silva-au/taskquery/internal/storage"
	"github.com/valter-silva-au/taskquery/pkg/models"
)

// resolveTasksFile prefers the --file flag over the configured default.
func resolveTasksFile(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if Cfg != nil {
		return Cfg.TasksFile
	}
	return "tasks.yaml"
}

// parseReference parses the --reference flag. Empty means now.
func parseReference(flagValue string) (time.Time, error) {
	if flagValue == "" {
		return time.Now(), nil
	}
	ref, err := time.ParseInLocation("2006-01-02", flagValue, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --reference %q, expected YYYY-MM-DD", flagValue)
	}
	return ref, nil
}

// runQuery loads the task collection, materializes the collaborators, and
// executes the query text. Execution outcomes are recorded in the event log
// when one is configured.
func runQuery(text, tasksFile string, explain bool, reference time.Time) (*query.Result, []models.Task, error) {
	if Engine == nil {
		return nil, nil, fmt.Errorf("query engine not initialized")
	}

	tasks, err := storage.LoadTasks(tasksFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading tasks: %w", err)
	}

	settings := scoring.DefaultSettings()
	maxMatches := 0
	if Cfg != nil {
		settings = Cfg.Scoring
		maxMatches = Cfg.MaxMatches
	}

	// Collaborators are built once per execution from the loaded
	// collection; evaluation itself performs no graph walks or scoring.
	depGraph := graph.Build(tasks)
	provider := scoring.BuildProvider(tasks, reference, settings, depGraph)
	scorer := scoring.NewUrgencyScorer(settings)

	statsBefore := Engine.Stats()
	started := time.Now()
	result, err := Engine.Execute(text, tasks, query.ExecOptions{
		Reference:  reference,
		Explain:    explain,
		MaxMatches: maxMatches,
		Graph:      depGraph,
		Scores:     provider,
		Urgency:    scorer,
	})
	recordQueryEvents(text, result, err, statsBefore, time.Since(started))
	if err != nil {
		return nil, nil, err
	}
	return result, tasks, nil
}

// recordQueryEvents appends compile and execution events to the event log.
// Event recording is best-effort: failures to write never affect the query
// outcome.
func recordQueryEvents(text string, result *query.Result, execErr error, before query.Stats, elapsed time.Duration) {
	if EventLog == nil || Engine == nil {
		return
	}

	after := Engine.Stats()
	if after.Compiles > before.Compiles || after.CacheHits > before.CacheHits {
		_ = EventLog.Write(observability.Event{
			Time:    time.Now(),
			Level:   "INFO",
			Type:    observability.EventQueryCompiled,
			Message: "query compiled",
			Data: map[string]any{
				"query":     text,
				"cache_hit": after.CacheHits > before.CacheHits,
			},
		})
	}

	if execErr != nil {
		_ = EventLog.Write(observability.Event{
			Time:    time.Now(),
			Level:   "ERROR",
			Type:    observability.EventQueryFailed,
			Message: "query failed",
			Data: map[string]any{
				"query": text,
				"error": execErr.Error(),
			},
		})
		return
	}

	_ = EventLog.Write(observability.Event{
		Time:    time.Now(),
		Level:   "INFO",
		Type:    observability.EventQueryExecuted,
		Message: "query executed",
		Data: map[string]any{
			"query":       text,
			"matched":     result.Total,
			"duration_ms": elapsed.Milliseconds(),
		},
	})
}

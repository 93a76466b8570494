// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the task query engine as MCP tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/valter-silva-au/taskquery/internal/graph"
	"github.com/valter-silva-au/taskquery/internal/observability"
	"github.com/valter-silva-au/taskquery/internal/query"
	"github.com/valter-silva-au/taskquery/internal/scoring"
	"github.com/valter-silva-au/taskquery/internal/storage"
	"github.com/valter-silva-au/taskquery/pkg/models"
)

// Server wraps the query engine and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	engine      *query.Engine
	tasksFile   string
	settings    scoring.Settings
	maxMatches  int
	metricsCalc observability.MetricsCalculator
}

// NewServer creates a new MCP server around the given engine and task file.
// metricsCalc may be nil if observability is disabled.
func NewServer(engine *query.Engine, tasksFile string, settings scoring.Settings, maxMatches int, metricsCalc observability.MetricsCalculator, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		engine:      engine,
		tasksFile:   tasksFile,
		settings:    settings,
		maxMatches:  maxMatches,
		metricsCalc: metricsCalc,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "taskquery", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type runQueryInput struct {
	Query     string `json:"query" jsonschema:"required,the query text with one clause per line, e.g. 'not done' then 'due before tomorrow' then 'sort by urgency desc'"`
	Reference string `json:"reference,omitempty" jsonschema:"reference date for relative clauses like today/tomorrow (YYYY-MM-DD, defaults to the current date)"`
}

type taskOutput struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Status    string   `json:"status"`
	Priority  string   `json:"priority"`
	Path      string   `json:"path,omitempty"`
	Heading   string   `json:"heading,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Due       string   `json:"due,omitempty"`
	Scheduled string   `json:"scheduled,omitempty"`
}

type groupOutput struct {
	Key   string       `json:"key"`
	Tasks []taskOutput `json:"tasks"`
}

type runQueryOutput struct {
	Tasks  []taskOutput  `json:"tasks"`
	Groups []groupOutput `json:"groups,omitempty"`
	Count  int           `json:"count"`
}

type explainQueryInput struct {
	Query     string `json:"query" jsonschema:"required,the query text with one clause per line"`
	TaskID    string `json:"task_id,omitempty" jsonschema:"explain only this task; omit to explain every task in the collection"`
	Reference string `json:"reference,omitempty" jsonschema:"reference date for relative clauses (YYYY-MM-DD, defaults to the current date)"`
}

type explanationOutput struct {
	TaskID      string `json:"task_id"`
	Matched     bool   `json:"matched"`
	Explanation string `json:"explanation"`
}

type explainQueryOutput struct {
	Explanations []explanationOutput `json:"explanations"`
	Count        int                 `json:"count"`
}

type listTasksInput struct {
	Status string `json:"status,omitempty" jsonschema:"filter by status type (todo, in_progress, done, cancelled)"`
	Tag    string `json:"tag,omitempty" jsonschema:"filter by tag substring match (case-insensitive)"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	QueriesRun    int     `json:"queries_run"`
	QueriesFailed int     `json:"queries_failed"`
	Compiles      int     `json:"compiles"`
	CacheHits     int     `json:"cache_hits"`
	CacheHitRate  float64 `json:"cache_hit_rate"`
	TasksMatched  int     `json:"tasks_matched"`
	EventCount    int     `json:"event_count"`
	OldestEvent   string  `json:"oldest_event,omitempty"`
	NewestEvent   string  `json:"newest_event,omitempty"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "run_query",
		Description: "Run a task query and return the matching tasks, sorted and grouped per the query's instructions. Queries use one clause per line; lines combine with AND.",
	}, s.handleRunQuery)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "explain_query",
		Description: "Run a task query in explain mode and return a plain-language narrative for each task saying why it matched or failed to match.",
	}, s.handleExplainQuery)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks from the collection with optional status and tag filters. Returns an array of task summaries.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated query metrics from the event log: runs, failures, compiles, and cache hit rate.",
	}, s.handleGetMetrics)
}

// --- Tool handlers ---

func (s *Server) handleRunQuery(_ context.Context, _ *gomcp.CallToolRequest, input runQueryInput) (*gomcp.CallToolResult, runQueryOutput, error) {
	if input.Query == "" {
		return errorResult("query is required"), runQueryOutput{}, nil
	}

	result, _, err := s.execute(input.Query, input.Reference, false)
	if err != nil {
		return errorResult(fmt.Sprintf("running query: %s", err)), runQueryOutput{}, nil
	}

	out := runQueryOutput{
		Tasks: make([]taskOutput, len(result.Tasks)),
		Count: result.Total,
	}
	for i, t := range result.Tasks {
		out.Tasks[i] = taskToOutput(t)
	}
	for _, g := range result.Groups {
		group := groupOutput{Key: g.Key, Tasks: make([]taskOutput, len(g.Tasks))}
		for i, t := range g.Tasks {
			group.Tasks[i] = taskToOutput(t)
		}
		out.Groups = append(out.Groups, group)
	}

	return nil, out, nil
}

func (s *Server) handleExplainQuery(_ context.Context, _ *gomcp.CallToolRequest, input explainQueryInput) (*gomcp.CallToolResult, explainQueryOutput, error) {
	if input.Query == "" {
		return errorResult("query is required"), explainQueryOutput{}, nil
	}

	result, tasks, err := s.execute(input.Query, input.Reference, true)
	if err != nil {
		return errorResult(fmt.Sprintf("running query: %s", err)), explainQueryOutput{}, nil
	}

	matched := make(map[string]bool, len(result.Tasks))
	for _, t := range result.Tasks {
		matched[t.ID] = true
	}

	out := explainQueryOutput{}
	for _, t := range tasks {
		if input.TaskID != "" && t.ID != input.TaskID {
			continue
		}
		out.Explanations = append(out.Explanations, explanationOutput{
			TaskID:      t.ID,
			Matched:     matched[t.ID],
			Explanation: result.Explanations[t.ID],
		})
	}
	out.Count = len(out.Explanations)

	if input.TaskID != "" && out.Count == 0 {
		return errorResult(fmt.Sprintf("task %q not found", input.TaskID)), explainQueryOutput{}, nil
	}

	return nil, out, nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	tasks, err := storage.LoadTasks(s.tasksFile)
	if err != nil {
		return errorResult(fmt.Sprintf("loading tasks: %s", err)), listTasksOutput{}, nil
	}

	var statusType models.StatusType
	if input.Status != "" {
		var ok bool
		statusType, ok = models.ParseStatusType(input.Status)
		if !ok {
			return errorResult(fmt.Sprintf("unknown status type %q", input.Status)), listTasksOutput{}, nil
		}
	}

	out := listTasksOutput{}
	for _, t := range tasks {
		if input.Status != "" && t.Status.Type != statusType {
			continue
		}
		if input.Tag != "" && !hasTagSubstring(t, input.Tag) {
			continue
		}
		out.Tasks = append(out.Tasks, taskToOutput(t))
	}
	out.Count = len(out.Tasks)

	return nil, out, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (observability may be disabled)"), metricsOutput{}, nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := parseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), metricsOutput{}, nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), metricsOutput{}, nil
	}

	out := metricsOutput{
		QueriesRun:    metrics.QueriesRun,
		QueriesFailed: metrics.QueriesFailed,
		Compiles:      metrics.Compiles,
		CacheHits:     metrics.CacheHits,
		CacheHitRate:  metrics.CacheHitRate,
		TasksMatched:  metrics.TasksMatched,
		EventCount:    metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

// --- Helpers ---

// execute loads the collection, builds collaborators, and runs the query.
func (s *Server) execute(text, reference string, explain bool) (*query.Result, []models.Task, error) {
	ref := time.Now()
	if reference != "" {
		parsed, err := time.ParseInLocation("2006-01-02", reference, time.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid reference date %q (want YYYY-MM-DD)", reference)
		}
		ref = parsed
	}

	tasks, err := storage.LoadTasks(s.tasksFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading tasks: %w", err)
	}

	depGraph := graph.Build(tasks)
	provider := scoring.BuildProvider(tasks, ref, s.settings, depGraph)
	scorer := scoring.NewUrgencyScorer(s.settings)

	result, err := s.engine.Execute(text, tasks, query.ExecOptions{
		Reference:  ref,
		Explain:    explain,
		MaxMatches: s.maxMatches,
		Graph:      depGraph,
		Scores:     provider,
		Urgency:    scorer,
	})
	if err != nil {
		return nil, nil, err
	}
	return result, tasks, nil
}

func taskToOutput(t models.Task) taskOutput {
	out := taskOutput{
		ID:       t.ID,
		Name:     t.Name,
		Status:   t.Status.Name,
		Priority: t.Priority.String(),
		Path:     t.Path,
		Heading:  t.Heading,
		Tags:     t.Tags,
	}
	if t.DueAt != nil {
		out.Due = t.DueAt.Format("2006-01-02")
	}
	if t.ScheduledAt != nil {
		out.Scheduled = t.ScheduledAt.Format("2006-01-02")
	}
	return out
}

func hasTagSubstring(t models.Task, tag string) bool {
	needle := strings.ToLower(tag)
	for _, candidate := range t.Tags {
		if strings.Contains(strings.ToLower(candidate), needle) {
			return true
		}
	}
	return false
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince parses a human-friendly duration string like "7d", "30d", or "24h"
// into the corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}

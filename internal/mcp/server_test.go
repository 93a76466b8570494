package mcp

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/valter-silva-au/taskquery/internal/observability"
	"github.com/valter-silva-au/taskquery/internal/query"
	"github.com/valter-silva-au/taskquery/internal/scoring"
	"github.com/valter-silva-au/taskquery/internal/storage"
	"github.com/valter-silva-au/taskquery/pkg/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	m := storage.NewManager(path)
	tasks := []models.Task{
		{ID: "t1", Name: "Pay taxes", Status: models.StatusTodo, Priority: models.PriorityHigh, Tags: []string{"finance"}, DueAt: &due},
		{ID: "t2", Name: "Ship release", Status: models.StatusInProgress, Priority: models.PriorityHighest, Tags: []string{"work", "release"}},
		{ID: "t3", Name: "Old chore", Status: models.StatusDone, Priority: models.PriorityLow, Tags: []string{"home"}},
	}
	for _, task := range tasks {
		if err := m.Add(task); err != nil {
			t.Fatalf("Add(%s): %v", task.ID, err)
		}
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	return NewServer(query.NewEngine(), path, scoring.DefaultSettings(), 0, nil, "test")
}

func TestHandleRunQuery(t *testing.T) {
	s := newTestServer(t)

	res, out, err := s.handleRunQuery(context.Background(), nil, runQueryInput{
		Query:     "not done\nsort by priority desc",
		Reference: "2026-03-15",
	})
	if err != nil {
		t.Fatalf("handleRunQuery: %v", err)
	}
	if res != nil && res.IsError {
		t.Fatalf("unexpected tool error: %+v", res)
	}
	if out.Count != 2 {
		t.Fatalf("Count = %d, want 2", out.Count)
	}
	if out.Tasks[0].ID != "t2" || out.Tasks[1].ID != "t1" {
		t.Errorf("sort order wrong: %s, %s", out.Tasks[0].ID, out.Tasks[1].ID)
	}
	if out.Tasks[1].Due != "2026-03-10" {
		t.Errorf("Due = %q, want 2026-03-10", out.Tasks[1].Due)
	}
	if out.Tasks[0].Status != "In Progress" || out.Tasks[0].Priority != "highest" {
		t.Errorf("status/priority rendering wrong: %+v", out.Tasks[0])
	}
}

func TestHandleRunQuery_Grouping(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleRunQuery(context.Background(), nil, runQueryInput{Query: "group by status"})
	if err != nil {
		t.Fatalf("handleRunQuery: %v", err)
	}
	if len(out.Groups) != 3 {
		t.Fatalf("expected 3 status groups, got %d", len(out.Groups))
	}
	if out.Groups[0].Key != "Todo" {
		t.Errorf("groups should come out in lifecycle order, first was %q", out.Groups[0].Key)
	}
}

func TestHandleRunQuery_EmptyQuery(t *testing.T) {
	s := newTestServer(t)

	res, _, err := s.handleRunQuery(context.Background(), nil, runQueryInput{})
	if err != nil {
		t.Fatalf("handleRunQuery: %v", err)
	}
	if res == nil || !res.IsError {
		t.Fatal("an empty query should produce a tool error")
	}
}

func TestHandleRunQuery_SyntaxErrorReported(t *testing.T) {
	s := newTestServer(t)

	res, _, err := s.handleRunQuery(context.Background(), nil, runQueryInput{Query: "priorty is high"})
	if err != nil {
		t.Fatalf("handleRunQuery: %v", err)
	}
	if res == nil || !res.IsError {
		t.Fatal("a malformed query should produce a tool error")
	}
	tc, ok := res.Content[0].(*gomcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	if !strings.Contains(tc.Text, `did you mean "priority"?`) {
		t.Errorf("error text should carry the suggestion, got %q", tc.Text)
	}
}

func TestHandleExplainQuery(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleExplainQuery(context.Background(), nil, explainQueryInput{
		Query:     "not done",
		Reference: "2026-03-15",
	})
	if err != nil {
		t.Fatalf("handleExplainQuery: %v", err)
	}
	if out.Count != 3 {
		t.Fatalf("expected an explanation per task, got %d", out.Count)
	}
	byID := make(map[string]explanationOutput, out.Count)
	for _, e := range out.Explanations {
		byID[e.TaskID] = e
	}
	if !byID["t1"].Matched || !byID["t2"].Matched || byID["t3"].Matched {
		t.Errorf("matched flags wrong: %+v", byID)
	}
	if !strings.HasPrefix(byID["t3"].Explanation, "does not match: ") {
		t.Errorf("explanation for t3 = %q", byID["t3"].Explanation)
	}
	if !strings.HasPrefix(byID["t1"].Explanation, "matches: ") {
		t.Errorf("explanation for t1 = %q", byID["t1"].Explanation)
	}
}

func TestHandleExplainQuery_SingleTask(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleExplainQuery(context.Background(), nil, explainQueryInput{
		Query:  "done",
		TaskID: "t3",
	})
	if err != nil {
		t.Fatalf("handleExplainQuery: %v", err)
	}
	if out.Count != 1 || out.Explanations[0].TaskID != "t3" {
		t.Errorf("expected only t3, got %+v", out.Explanations)
	}

	res, _, err := s.handleExplainQuery(context.Background(), nil, explainQueryInput{
		Query:  "done",
		TaskID: "ghost",
	})
	if err != nil {
		t.Fatalf("handleExplainQuery: %v", err)
	}
	if res == nil || !res.IsError {
		t.Error("an unknown task id should produce a tool error")
	}
}

func TestHandleListTasks(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleListTasks(context.Background(), nil, listTasksInput{})
	if err != nil {
		t.Fatalf("handleListTasks: %v", err)
	}
	if out.Count != 3 {
		t.Errorf("unfiltered list should return everything, got %d", out.Count)
	}

	_, byStatus, err := s.handleListTasks(context.Background(), nil, listTasksInput{Status: "done"})
	if err != nil {
		t.Fatalf("handleListTasks: %v", err)
	}
	if byStatus.Count != 1 || byStatus.Tasks[0].ID != "t3" {
		t.Errorf("status filter returned %+v", byStatus.Tasks)
	}

	_, byTag, err := s.handleListTasks(context.Background(), nil, listTasksInput{Tag: "WORK"})
	if err != nil {
		t.Fatalf("handleListTasks: %v", err)
	}
	if byTag.Count != 1 || byTag.Tasks[0].ID != "t2" {
		t.Errorf("tag filter should match case-insensitively, returned %+v", byTag.Tasks)
	}

	res, _, err := s.handleListTasks(context.Background(), nil, listTasksInput{Status: "bogus"})
	if err != nil {
		t.Fatalf("handleListTasks: %v", err)
	}
	if res == nil || !res.IsError {
		t.Error("an unknown status type should produce a tool error")
	}
}

func TestHandleGetMetrics(t *testing.T) {
	s := newTestServer(t)

	// No calculator wired.
	res, _, err := s.handleGetMetrics(context.Background(), nil, getMetricsInput{})
	if err != nil {
		t.Fatalf("handleGetMetrics: %v", err)
	}
	if res == nil || !res.IsError {
		t.Error("missing metrics calculator should produce a tool error")
	}

	log, err := observability.NewJSONLEventLog(filepath.Join(t.TempDir(), "events.jsonl"))
	if err != nil {
		t.Fatalf("NewJSONLEventLog: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	event := observability.Event{
		Time:  time.Now().UTC(),
		Level: "INFO",
		Type:  observability.EventQueryExecuted,
		Data:  map[string]any{"matched": 4},
	}
	if err := log.Write(event); err != nil {
		t.Fatalf("Write: %v", err)
	}
	s.metricsCalc = observability.NewMetricsCalculator(log)

	_, out, err := s.handleGetMetrics(context.Background(), nil, getMetricsInput{Since: "1d"})
	if err != nil {
		t.Fatalf("handleGetMetrics: %v", err)
	}
	if out.QueriesRun != 1 || out.TasksMatched != 4 {
		t.Errorf("metrics = %+v, want 1 run matching 4 tasks", out)
	}
	if out.NewestEvent == "" {
		t.Error("NewestEvent should be set")
	}
}

func TestParseSince(t *testing.T) {
	before := time.Now().UTC()
	got, err := parseSince("7d")
	if err != nil {
		t.Fatalf("parseSince(7d): %v", err)
	}
	want := before.AddDate(0, 0, -7)
	if got.Before(want.Add(-time.Minute)) || got.After(want.Add(time.Minute)) {
		t.Errorf("parseSince(7d) = %v, want about %v", got, want)
	}

	if _, err := parseSince("24h"); err != nil {
		t.Errorf("parseSince(24h): %v", err)
	}
	for _, bad := range []string{"", "d", "7w", "xd"} {
		if _, err := parseSince(bad); err == nil {
			t.Errorf("parseSince(%q) should fail", bad)
		}
	}
}

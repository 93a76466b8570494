package cli

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/taskquery/internal/config"
	"github.com/valter-silva-au/taskquery/internal/observability"
	"github.com/valter-silva-au/taskquery/internal/query"
	"github.com/valter-silva-au/taskquery/internal/storage"
	"github.com/valter-silva-au/taskquery/pkg/models"
)

func TestResolveTasksFile(t *testing.T) {
	old := Cfg
	defer func() { Cfg = old }()

	Cfg = nil
	if got := resolveTasksFile(""); got != "tasks.yaml" {
		t.Errorf("without config the default is tasks.yaml, got %q", got)
	}

	Cfg = &config.Config{TasksFile: "work/tasks.yaml"}
	if got := resolveTasksFile(""); got != "work/tasks.yaml" {
		t.Errorf("the configured file should win, got %q", got)
	}
	if got := resolveTasksFile("override.yaml"); got != "override.yaml" {
		t.Errorf("the flag should win over configuration, got %q", got)
	}
}

func TestParseReference(t *testing.T) {
	ref, err := parseReference("2026-03-15")
	if err != nil {
		t.Fatalf("parseReference: %v", err)
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	if !ref.Equal(want) {
		t.Errorf("parseReference = %v, want %v", ref, want)
	}

	if _, err := parseReference("15/03/2026"); err == nil {
		t.Error("expected an error for a non-ISO date")
	}

	now, err := parseReference("")
	if err != nil {
		t.Fatalf("parseReference(\"\"): %v", err)
	}
	if time.Since(now) > time.Minute {
		t.Errorf("empty reference should mean now, got %v", now)
	}
}

func TestParseSince(t *testing.T) {
	for _, ok := range []string{"24h", "7d", "90m", "2026-01-02"} {
		if _, err := parseSince(ok); err != nil {
			t.Errorf("parseSince(%q): %v", ok, err)
		}
	}
	for _, bad := range []string{"", "soon", "-3d"} {
		if _, err := parseSince(bad); err == nil {
			t.Errorf("parseSince(%q) should fail", bad)
		}
	}

	since, err := parseSince("7d")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Now().Add(-7 * 24 * time.Hour)
	if since.Before(want.Add(-time.Minute)) || since.After(want.Add(time.Minute)) {
		t.Errorf("parseSince(7d) = %v, want about %v", since, want)
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("single"); got != "single" {
		t.Errorf("firstLine = %q", got)
	}
	if got := firstLine("not done\ndue before today"); got != "not done..." {
		t.Errorf("firstLine = %q", got)
	}
}

func TestFormatTaskLine(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.Local)
	task := models.Task{
		ID:       "t1",
		Name:     "Write the report",
		Status:   models.StatusInProgress,
		Priority: models.PriorityHigh,
		Tags:     []string{"work"},
		DueAt:    &due,
	}

	line := formatTaskLine(task)
	for _, want := range []string{"[/]", "t1", "Write the report", "priority high", "due 2026-04-01", "#work"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q should contain %q", line, want)
		}
	}

	bare := formatTaskLine(models.Task{ID: "t2", Name: "Plain", Status: models.StatusTodo})
	if strings.Contains(bare, "priority") || strings.Contains(bare, "due") {
		t.Errorf("a bare task renders no extras: %q", bare)
	}
}

func TestPrintResult(t *testing.T) {
	tasks := []models.Task{
		{ID: "t1", Name: "First", Status: models.StatusTodo},
		{ID: "t2", Name: "Second", Status: models.StatusTodo},
	}

	var flat strings.Builder
	printResult(&flat, &query.Result{Tasks: tasks, Total: 2}, false)
	out := flat.String()
	if !strings.Contains(out, "First") || !strings.Contains(out, "2 task(s) matched") {
		t.Errorf("flat output wrong:\n%s", out)
	}

	var grouped strings.Builder
	printResult(&grouped, &query.Result{
		Tasks:  tasks,
		Groups: []query.TaskGroup{{Key: "work", Tasks: tasks[:1]}, {Key: "home", Tasks: tasks[1:]}},
		Total:  2,
	}, false)
	out = grouped.String()
	if !strings.Contains(out, "work (1)") || !strings.Contains(out, "home (1)") {
		t.Errorf("grouped output wrong:\n%s", out)
	}

	var empty strings.Builder
	printResult(&empty, &query.Result{}, false)
	if !strings.Contains(empty.String(), "No tasks matched.") {
		t.Errorf("empty output wrong:\n%s", empty.String())
	}

	var explained strings.Builder
	printResult(&explained, &query.Result{
		Tasks:        tasks[:1],
		Total:        1,
		Explanations: map[string]string{"t1": "matches: every clause passed"},
	}, true)
	if !strings.Contains(explained.String(), "every clause passed") {
		t.Errorf("explanations missing:\n%s", explained.String())
	}
}

func TestRunQuery_RecordsEvents(t *testing.T) {
	oldEngine, oldLog, oldCfg := Engine, EventLog, Cfg
	defer func() { Engine, EventLog, Cfg = oldEngine, oldLog, oldCfg }()

	dir := t.TempDir()
	tasksFile := filepath.Join(dir, "tasks.yaml")
	m := storage.NewManager(tasksFile)
	if err := m.Add(models.Task{ID: "t1", Name: "One", Status: models.StatusTodo}); err != nil {
		t.Fatal(err)
	}
	if err := m.Save(); err != nil {
		t.Fatal(err)
	}

	log, err := observability.NewJSONLEventLog(filepath.Join(dir, "events.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = log.Close() })

	Engine = query.NewEngine()
	EventLog = log
	Cfg = nil

	result, tasks, err := runQuery("not done", tasksFile, false, time.Now())
	if err != nil {
		t.Fatalf("runQuery: %v", err)
	}
	if result.Total != 1 || len(tasks) != 1 {
		t.Errorf("Total = %d, tasks = %d", result.Total, len(tasks))
	}

	events, err := log.Read(observability.EventFilter{})
	if err != nil {
		t.Fatal(err)
	}
	var types []string
	for _, e := range events {
		types = append(types, e.Type)
	}
	if got := strings.Join(types, ","); got != "query.compiled,query.executed" {
		t.Errorf("recorded events = %s", got)
	}

	// A failing query records a failure event instead.
	if _, _, err := runQuery("priorty is high", tasksFile, false, time.Now()); err == nil {
		t.Fatal("expected a syntax error")
	}
	events, err = log.Read(observability.EventFilter{Type: observability.EventQueryFailed})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 failure event, got %d", len(events))
	}
}

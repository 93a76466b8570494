package query

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

func execute(t *testing.T, engine *Engine, text string, tasks []models.Task, opts ExecOptions) *Result {
	t.Helper()
	if opts.Reference.IsZero() {
		opts.Reference = refDate
	}
	result, err := engine.Execute(text, tasks, opts)
	if err != nil {
		t.Fatalf("Execute(%q) failed: %v", text, err)
	}
	return result
}

func resultIDs(r *Result) []string {
	ids := make([]string, len(r.Tasks))
	for i, task := range r.Tasks {
		ids[i] = task.ID
	}
	return ids
}

func TestEngine_DueBeforeSelectsEarlierTask(t *testing.T) {
	tasks := []models.Task{dateTask("1", "2025-12-20"), dateTask("2", "2026-02-01")}

	result := execute(t, NewEngine(), "due before 2026-01-01", tasks, ExecOptions{})
	if got := resultIDs(result); len(got) != 1 || got[0] != "1" {
		t.Errorf("matched %v, want only task 1", got)
	}
}

func TestEngine_DueOnMatchesUTCTimestampAcrossZones(t *testing.T) {
	task := todoTask("1")
	due := time.Date(2026, 1, 25, 23, 59, 0, 0, time.UTC)
	task.DueAt = &due

	// The reference zone must not shift which calendar day the task's
	// UTC timestamp falls on.
	for _, zone := range []*time.Location{
		time.UTC,
		time.FixedZone("UTC-5", -5*60*60),
		time.FixedZone("UTC+13", 13*60*60),
	} {
		ref := time.Date(2026, 1, 25, 12, 0, 0, 0, zone)
		result := execute(t, NewEngine(), "due on 2026-01-25", []models.Task{task}, ExecOptions{Reference: ref})
		if result.Total != 1 {
			t.Errorf("zone %s: matched %d tasks, want 1", zone, result.Total)
		}
	}
}

func TestEngine_TagAndPriorityConjunction(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Status: models.StatusTodo, Tags: []string{"work"}, Priority: models.PriorityHigh},
		{ID: "2", Status: models.StatusTodo, Tags: []string{"work"}, Priority: models.PriorityLow},
	}

	result := execute(t, NewEngine(), "tag includes work\nAND priority is high", tasks, ExecOptions{})
	if got := resultIDs(result); len(got) != 1 || got[0] != "1" {
		t.Errorf("matched %v, want only task 1", got)
	}
}

func TestEngine_NotDoneEquivalence(t *testing.T) {
	tasks := []models.Task{doneTask("1"), todoTask("2"), {ID: "3", Status: models.StatusCancelled}}
	engine := NewEngine()

	viaOperator := execute(t, engine, "NOT done", tasks, ExecOptions{})
	viaShorthand := execute(t, engine, "not done", tasks, ExecOptions{})

	a, b := resultIDs(viaOperator), resultIDs(viaShorthand)
	if len(a) != len(b) {
		t.Fatalf("NOT done matched %v, not done matched %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("NOT done matched %v, not done matched %v", a, b)
		}
	}
}

func TestEngine_CycleBlocksBothTasks(t *testing.T) {
	// A and B depend on each other. The graph snapshot reports both as
	// blocked; the engine only reads the flags.
	tasks := []models.Task{todoTask("A"), todoTask("B")}
	graph := &fakeGraph{
		blocked: map[string]bool{"A": true, "B": true},
		cycles:  map[string]bool{"A": true, "B": true},
	}

	result := execute(t, NewEngine(), "is blocked", tasks, ExecOptions{Graph: graph})
	if got := resultIDs(result); len(got) != 2 {
		t.Errorf("matched %v, want both cycle members", got)
	}
}

func TestEngine_ExplainNamesOnlyFailingClause(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Status: models.StatusTodo, Tags: []string{"work"}, Priority: models.PriorityLow},
	}

	result := execute(t, NewEngine(), "tag includes work\npriority is high", tasks, ExecOptions{Explain: true})
	narrative := result.Explanations["1"]
	if !strings.HasPrefix(narrative, "does not match: fails second condition:") {
		t.Errorf("explanation = %q, want only the failing priority clause named", narrative)
	}
}

func TestEngine_ExplainCoversAllInputTasks(t *testing.T) {
	tasks := []models.Task{todoTask("1"), doneTask("2"), todoTask("3")}

	result := execute(t, NewEngine(), "not done", tasks, ExecOptions{Explain: true})
	if len(result.Explanations) != 3 {
		t.Fatalf("got %d explanations, want one per input task", len(result.Explanations))
	}
	if !strings.HasPrefix(result.Explanations["1"], "matches: ") {
		t.Errorf("task 1 explanation = %q, want a match narrative", result.Explanations["1"])
	}
	if !strings.HasPrefix(result.Explanations["2"], "does not match: ") {
		t.Errorf("task 2 explanation = %q, want a mismatch narrative", result.Explanations["2"])
	}
}

func TestEngine_ExplainOffByDefault(t *testing.T) {
	result := execute(t, NewEngine(), "not done", []models.Task{todoTask("1")}, ExecOptions{})
	if result.Explanations != nil {
		t.Error("explanations should be absent unless requested")
	}
}

func TestEngine_ExplainDoesNotChangeSelection(t *testing.T) {
	tasks := []models.Task{todoTask("1"), doneTask("2")}
	engine := NewEngine()

	plain := execute(t, engine, "not done", tasks, ExecOptions{})
	explained := execute(t, engine, "not done", tasks, ExecOptions{Explain: true})

	if len(plain.Tasks) != len(explained.Tasks) {
		t.Errorf("explain changed the result set: %d vs %d", len(plain.Tasks), len(explained.Tasks))
	}
}

func TestEngine_EmptyQueryMatchesEverything(t *testing.T) {
	tasks := []models.Task{todoTask("1"), doneTask("2")}

	result := execute(t, NewEngine(), "", tasks, ExecOptions{Explain: true})
	if result.Total != 2 {
		t.Errorf("Total = %d, want 2", result.Total)
	}
	if result.Explanations["1"] != "matches: query has no filters" {
		t.Errorf("explanation = %q", result.Explanations["1"])
	}
}

func TestEngine_CompileCachesByText(t *testing.T) {
	engine := NewEngine()
	tasks := []models.Task{todoTask("1")}

	execute(t, engine, "not done", tasks, ExecOptions{})
	execute(t, engine, "not done", tasks, ExecOptions{})
	execute(t, engine, "done", tasks, ExecOptions{})

	stats := engine.Stats()
	if stats.Compiles != 2 {
		t.Errorf("Compiles = %d, want 2", stats.Compiles)
	}
	if stats.CacheHits != 1 {
		t.Errorf("CacheHits = %d, want 1", stats.CacheHits)
	}
	if stats.Executions != 3 {
		t.Errorf("Executions = %d, want 3", stats.Executions)
	}
}

func TestEngine_CompileReturnsSharedQuery(t *testing.T) {
	engine := NewEngine()
	first, err := engine.Compile("not done")
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.Compile("not done")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("repeated compilation should share one query value")
	}
}

func TestEngine_SyntaxErrorsAreNotCached(t *testing.T) {
	engine := NewEngine()
	for i := 0; i < 2; i++ {
		if _, err := engine.Compile("priorty is high"); err == nil {
			t.Fatal("want a syntax error")
		}
	}
	if stats := engine.Stats(); stats.CacheHits != 0 {
		t.Errorf("CacheHits = %d, failed parses must not populate the cache", stats.CacheHits)
	}
}

func TestEngine_MaxMatchesCapsScan(t *testing.T) {
	tasks := []models.Task{todoTask("1"), todoTask("2"), todoTask("3"), todoTask("4")}

	result := execute(t, NewEngine(), "not done", tasks, ExecOptions{MaxMatches: 2})
	if result.Total != 2 {
		t.Errorf("Total = %d, want the capped count 2", result.Total)
	}
}

func TestEngine_CollaboratorPanicBecomesExecutionError(t *testing.T) {
	tasks := []models.Task{todoTask("1")}

	_, err := NewEngine().Execute("is blocked", tasks, ExecOptions{Reference: refDate, Graph: panicGraph{}})
	if err == nil {
		t.Fatal("want an execution error")
	}
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("got %T, want *ExecutionError", err)
	}
	if !strings.Contains(execErr.Error(), "collaborator failure") {
		t.Errorf("error = %q", execErr.Error())
	}
}

func TestEngine_SortStableWithIDTieBreak(t *testing.T) {
	tasks := []models.Task{
		{ID: "c", Status: models.StatusTodo, Priority: models.PriorityHigh},
		{ID: "a", Status: models.StatusTodo, Priority: models.PriorityHigh},
		{ID: "b", Status: models.StatusTodo, Priority: models.PriorityLow},
	}

	result := execute(t, NewEngine(), "sort by priority desc", tasks, ExecOptions{})
	if got := resultIDs(result); got[0] != "a" || got[1] != "c" || got[2] != "b" {
		t.Errorf("order = %v, want ties broken by id ascending", got)
	}
}

func TestEngine_SortByDuePutsUndatedLast(t *testing.T) {
	tasks := []models.Task{todoTask("undated"), dateTask("later", "2026-06-01"), dateTask("sooner", "2026-04-01")}

	result := execute(t, NewEngine(), "sort by due", tasks, ExecOptions{})
	if got := resultIDs(result); got[0] != "sooner" || got[1] != "later" || got[2] != "undated" {
		t.Errorf("order = %v, want dated tasks first ascending", got)
	}
}

func TestEngine_GroupByTagFansOut(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Status: models.StatusTodo, Tags: []string{"home", "work"}},
		{ID: "2", Status: models.StatusTodo, Tags: []string{"work"}},
		{ID: "3", Status: models.StatusTodo},
	}

	result := execute(t, NewEngine(), "group by tag", tasks, ExecOptions{})
	if len(result.Groups) != 2 {
		t.Fatalf("got %d groups, want home and work", len(result.Groups))
	}
	if result.Groups[0].Key != "home" || result.Groups[1].Key != "work" {
		t.Errorf("keys = %s, %s; want home, work", result.Groups[0].Key, result.Groups[1].Key)
	}
	if len(result.Groups[1].Tasks) != 2 {
		t.Errorf("work group has %d tasks, want 2", len(result.Groups[1].Tasks))
	}
	// Task 3 has no tags and lands in no group, but still counts as a
	// match.
	if result.Total != 3 {
		t.Errorf("Total = %d, want 3", result.Total)
	}
}

func TestEngine_GroupByStatusFollowsLifecycleOrder(t *testing.T) {
	tasks := []models.Task{
		doneTask("1"),
		todoTask("2"),
		{ID: "3", Status: models.StatusInProgress},
	}

	result := execute(t, NewEngine(), "group by status", tasks, ExecOptions{})
	keys := make([]string, len(result.Groups))
	for i, g := range result.Groups {
		keys[i] = g.Key
	}
	want := []string{"Todo", "In Progress", "Done"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("group keys = %v, want %v", keys, want)
		}
	}
}

func TestEngine_GroupByDuePutsNoDateLast(t *testing.T) {
	tasks := []models.Task{todoTask("bare"), dateTask("d1", "2026-05-01"), dateTask("d2", "2026-04-01")}

	result := execute(t, NewEngine(), "group by due", tasks, ExecOptions{})
	if len(result.Groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(result.Groups))
	}
	if result.Groups[0].Key != "2026-04-01" {
		t.Errorf("first key = %s, want the earliest date", result.Groups[0].Key)
	}
	if result.Groups[2].Key != "(no date)" {
		t.Errorf("last key = %s, want the no-date bucket", result.Groups[2].Key)
	}
}

func TestEngine_SortAppliesWithinGroups(t *testing.T) {
	tasks := []models.Task{
		{ID: "2", Status: models.StatusTodo, Tags: []string{"work"}, Priority: models.PriorityLow},
		{ID: "1", Status: models.StatusTodo, Tags: []string{"work"}, Priority: models.PriorityHigh},
	}

	result := execute(t, NewEngine(), "sort by priority desc\ngroup by tag", tasks, ExecOptions{})
	if len(result.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(result.Groups))
	}
	work := result.Groups[0].Tasks
	if work[0].ID != "1" || work[1].ID != "2" {
		t.Errorf("group order = %s, %s; want the sorted order", work[0].ID, work[1].ID)
	}
}

func TestEngine_CachedQueryResolvesRelativeDatesPerRun(t *testing.T) {
	engine := NewEngine()
	tasks := []models.Task{dateTask("1", "2026-03-15")}

	today := execute(t, engine, "due on today", tasks, ExecOptions{Reference: refDate})
	if today.Total != 1 {
		t.Fatalf("under the matching reference Total = %d, want 1", today.Total)
	}

	// Same cached query, next day: no match.
	nextDay := execute(t, engine, "due on today", tasks, ExecOptions{Reference: refDate.AddDate(0, 0, 1)})
	if nextDay.Total != 0 {
		t.Errorf("under the shifted reference Total = %d, want 0", nextDay.Total)
	}

	if stats := engine.Stats(); stats.Compiles != 1 || stats.CacheHits != 1 {
		t.Errorf("stats = %+v, want one compile and one cache hit", stats)
	}
}

func TestEngine_UrgencySortUsesScorer(t *testing.T) {
	tasks := []models.Task{todoTask("low"), todoTask("high")}
	scorer := &fakeUrgency{scores: map[string]float64{"low": 1, "high": 9}}

	result := execute(t, NewEngine(), "sort by urgency desc", tasks, ExecOptions{Urgency: scorer})
	if got := resultIDs(result); got[0] != "high" {
		t.Errorf("order = %v, want the urgent task first", got)
	}
}

package query

import (
	"strings"
	"testing"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

func TestAndExplainMismatch_NamesOnlyFailingSide(t *testing.T) {
	f := NewAndFilter(NewTagFilter("work", false), NewPriorityFilter(prioIs, models.PriorityHigh))
	task := models.Task{
		ID:       "t1",
		Status:   models.StatusTodo,
		Tags:     []string{"work"},
		Priority: models.PriorityLow,
	}
	ec := testContext()

	if f.Matches(ec, task) {
		t.Fatal("task matches, want mismatch")
	}
	got := f.ExplainMismatch(ec, task)
	if !strings.HasPrefix(got, "fails second condition:") {
		t.Errorf("ExplainMismatch = %q, want it to name only the second condition", got)
	}
	if strings.Contains(got, "work") {
		t.Errorf("ExplainMismatch = %q, must not mention the passing tag clause", got)
	}
}

func TestAndExplainMismatch_BothSidesFail(t *testing.T) {
	f := NewAndFilter(NewTagFilter("work", false), NewPriorityFilter(prioIs, models.PriorityHigh))
	task := models.Task{ID: "t1", Status: models.StatusTodo, Priority: models.PriorityLow}
	ec := testContext()

	got := f.ExplainMismatch(ec, task)
	if !strings.HasPrefix(got, "matches NEITHER condition:") {
		t.Errorf("ExplainMismatch = %q, want the neither-condition form", got)
	}
	if !strings.Contains(got, ";") {
		t.Errorf("ExplainMismatch = %q, want both sides separated by a semicolon", got)
	}
}

func TestAndExplainMismatch_FirstSideFails(t *testing.T) {
	f := NewAndFilter(NewTagFilter("work", false), NewPriorityFilter(prioIs, models.PriorityHigh))
	task := models.Task{ID: "t1", Status: models.StatusTodo, Priority: models.PriorityHigh}
	ec := testContext()

	got := f.ExplainMismatch(ec, task)
	if !strings.HasPrefix(got, "fails first condition:") {
		t.Errorf("ExplainMismatch = %q, want it to name only the first condition", got)
	}
}

func TestAndExplainMatch_ReportsBothSides(t *testing.T) {
	f := NewAndFilter(NewTagFilter("work", false), NewPriorityFilter(prioIs, models.PriorityHigh))
	task := models.Task{
		ID:       "t1",
		Status:   models.StatusTodo,
		Tags:     []string{"work"},
		Priority: models.PriorityHigh,
	}
	ec := testContext()

	got := f.ExplainMatch(ec, task)
	if !strings.Contains(got, "work") || !strings.Contains(got, "high") {
		t.Errorf("ExplainMatch = %q, want both sides narrated", got)
	}
}

func TestOrExplainMatch_NamesOnlyMatchingSide(t *testing.T) {
	f := NewOrFilter(NewTagFilter("work", false), NewPriorityFilter(prioIs, models.PriorityHigh))
	task := models.Task{
		ID:       "t1",
		Status:   models.StatusTodo,
		Priority: models.PriorityHigh,
	}
	ec := testContext()

	got := f.ExplainMatch(ec, task)
	if strings.Contains(got, "work") {
		t.Errorf("ExplainMatch = %q, must not mention the failing tag side", got)
	}
	if !strings.Contains(got, "high") {
		t.Errorf("ExplainMatch = %q, want the priority side narrated", got)
	}
}

func TestOrExplainMatch_BothSidesMatch(t *testing.T) {
	f := NewOrFilter(NewTagFilter("work", false), NewPriorityFilter(prioIs, models.PriorityHigh))
	task := models.Task{
		ID:       "t1",
		Status:   models.StatusTodo,
		Tags:     []string{"work"},
		Priority: models.PriorityHigh,
	}
	ec := testContext()

	got := f.ExplainMatch(ec, task)
	if !strings.Contains(got, "work") || !strings.Contains(got, "high") {
		t.Errorf("ExplainMatch = %q, want both sides narrated", got)
	}
}

func TestOrExplainMismatch_ReportsBothSides(t *testing.T) {
	f := NewOrFilter(NewTagFilter("work", false), NewPriorityFilter(prioIs, models.PriorityHigh))
	task := models.Task{ID: "t1", Status: models.StatusTodo, Priority: models.PriorityLow}
	ec := testContext()

	got := f.ExplainMismatch(ec, task)
	if !strings.Contains(got, "work") || !strings.Contains(got, "low") {
		t.Errorf("ExplainMismatch = %q, want both failing sides narrated", got)
	}
}

func TestNotExplain_SwapsChildNarratives(t *testing.T) {
	child := NewTagFilter("work", false)
	f := NewNotFilter(child)
	ec := testContext()

	tagged := models.Task{ID: "t1", Status: models.StatusTodo, Tags: []string{"work"}}
	untagged := models.Task{ID: "t2", Status: models.StatusTodo}

	if got, want := f.ExplainMatch(ec, untagged), child.ExplainMismatch(ec, untagged); got != want {
		t.Errorf("NOT ExplainMatch = %q, want the child's mismatch %q", got, want)
	}
	if got, want := f.ExplainMismatch(ec, tagged), child.ExplainMatch(ec, tagged); got != want {
		t.Errorf("NOT ExplainMismatch = %q, want the child's match %q", got, want)
	}
}

func TestExplain_DescribesClausesWithoutTasks(t *testing.T) {
	f := NewAndFilter(
		NewNotFilter(NewDoneFilter(false)),
		NewOrFilter(NewTagFilter("work", false), NewPriorityFilter(prioIs, models.PriorityHigh)),
	)
	got := f.Explain()
	for _, piece := range []string{"AND", "OR", "NOT"} {
		if !strings.Contains(got, piece) {
			t.Errorf("Explain = %q, want %s present", got, piece)
		}
	}
}

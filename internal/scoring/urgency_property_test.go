package scoring

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

var allPriorities = []models.Priority{
	models.PriorityLowest, models.PriorityLow, models.PriorityNone,
	models.PriorityMedium, models.PriorityHigh, models.PriorityHighest,
}

func drawScoredTask(t *rapid.T) models.Task {
	task := models.Task{
		ID:       rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "id"),
		Priority: rapid.SampledFrom(allPriorities).Draw(t, "priority"),
	}
	if rapid.Bool().Draw(t, "hasDue") {
		task.DueAt = daysFromRef(rapid.IntRange(-60, 60).Draw(t, "dueOffset"))
	}
	if rapid.Bool().Draw(t, "hasScheduled") {
		task.ScheduledAt = daysFromRef(rapid.IntRange(-30, 30).Draw(t, "schedOffset"))
	}
	if rapid.Bool().Draw(t, "hasStart") {
		task.StartAt = daysFromRef(rapid.IntRange(-30, 30).Draw(t, "startOffset"))
	}
	if rapid.Bool().Draw(t, "hasCreated") {
		task.CreatedAt = daysFromRef(rapid.IntRange(-120, 0).Draw(t, "createdOffset"))
	}
	return task
}

func TestUrgencyProperty_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		task := drawScoredTask(t)
		s := NewUrgencyScorer(DefaultSettings())
		if s.Urgency(task, reference) != s.Urgency(task, reference) {
			t.Fatal("repeat scoring of the same task diverged")
		}
	})
}

func TestUrgencyProperty_CloserDueNeverScoresLower(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		task := drawScoredTask(t)
		near := rapid.IntRange(-60, 60).Draw(t, "near")
		far := rapid.IntRange(near, 61).Draw(t, "far")

		s := NewUrgencyScorer(DefaultSettings())
		a := task
		a.DueAt = daysFromRef(near)
		b := task
		b.DueAt = daysFromRef(far)
		if s.Urgency(a, reference) < s.Urgency(b, reference) {
			t.Fatalf("due %+d days scored below due %+d days", near, far)
		}
	})
}

func TestUrgencyProperty_TimeOfDayIrrelevant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		task := drawScoredTask(t)
		s := NewUrgencyScorer(DefaultSettings())

		morning := s.Urgency(task, reference)
		lateRef := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
		evening := s.Urgency(task, lateRef)
		if morning != evening {
			t.Fatalf("score changed with time of day: %v vs %v", morning, evening)
		}
	})
}

func TestScoringProperty_HigherScoreNeverLowerLane(t *testing.T) {
	laneRank := map[models.AttentionLane]int{
		models.LaneLater: 0,
		models.LaneSoon:  1,
		models.LaneNext:  2,
		models.LaneNow:   3,
	}
	rapid.Check(t, func(t *rapid.T) {
		a := drawScoredTask(t)
		b := drawScoredTask(t)
		a.ID, b.ID = "a", "b"

		p := BuildProvider([]models.Task{a, b}, reference, DefaultSettings(), nil)
		sa, sb := p.AttentionScore("a"), p.AttentionScore("b")
		la, lb := laneRank[p.AttentionLane("a")], laneRank[p.AttentionLane("b")]
		if sa > sb && la < lb {
			t.Fatalf("score %v outranks %v but lane %d is below %d", sa, sb, la, lb)
		}
	})
}

func TestScoringProperty_NormalizeIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Settings{
			DueWeight:      rapid.Float64Range(0, 5).Draw(t, "due"),
			PriorityWeight: rapid.Float64Range(0, 5).Draw(t, "prio"),
			StalenessRate:  rapid.Float64Range(0, 1).Draw(t, "stale"),
		}
		once := s.normalize()
		if once != once.normalize() {
			t.Fatalf("normalize is not idempotent: %+v vs %+v", once, once.normalize())
		}
	})
}

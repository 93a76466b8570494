package query

import (
	"fmt"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// numberComparator names the supported numeric comparison modes for score
// clauses.
type numberComparator string

const (
	numIs    numberComparator = "is"
	numAbove numberComparator = "above"
	numBelow numberComparator = "below"
)

func (c numberComparator) compare(value, threshold float64) bool {
	switch c {
	case numIs:
		return value == threshold
	case numAbove:
		return value > threshold
	case numBelow:
		return value < threshold
	}
	return false
}

// UrgencyFilter computes a task's urgency via the injected scorer and
// compares it against a threshold. Without a scorer nothing matches.
type UrgencyFilter struct {
	comparator numberComparator
	threshold  float64
}

// NewUrgencyFilter builds an urgency comparison.
func NewUrgencyFilter(comparator numberComparator, threshold float64) *UrgencyFilter {
	return &UrgencyFilter{comparator: comparator, threshold: threshold}
}

func (f *UrgencyFilter) Matches(ec *EvalContext, t models.Task) bool {
	if ec.Urgency == nil {
		return false
	}
	return f.comparator.compare(ec.Urgency.Urgency(t, ec.Reference), f.threshold)
}

func (f *UrgencyFilter) Explain() string {
	return fmt.Sprintf("urgency is %s %v", f.comparator, f.threshold)
}

func (f *UrgencyFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	return f.describe(ec, t)
}

func (f *UrgencyFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return f.describe(ec, t)
}

func (f *UrgencyFilter) describe(ec *EvalContext, t models.Task) string {
	if ec.Urgency == nil {
		return "no urgency scorer available"
	}
	score := ec.Urgency.Urgency(t, ec.Reference)
	if f.comparator.compare(score, f.threshold) {
		return fmt.Sprintf("urgency %.2f is %s %v", score, f.comparator, f.threshold)
	}
	return fmt.Sprintf("urgency %.2f is not %s %v", score, f.comparator, f.threshold)
}

// AttentionFilter compares a task's precomputed attention score against a
// threshold. Without a score provider nothing matches.
type AttentionFilter struct {
	comparator numberComparator
	threshold  float64
}

// NewAttentionFilter builds an attention score comparison.
func NewAttentionFilter(comparator numberComparator, threshold float64) *AttentionFilter {
	return &AttentionFilter{comparator: comparator, threshold: threshold}
}

func (f *AttentionFilter) Matches(ec *EvalContext, t models.Task) bool {
	if ec.Scores == nil {
		return false
	}
	return f.comparator.compare(ec.Scores.AttentionScore(t.ID), f.threshold)
}

func (f *AttentionFilter) Explain() string {
	return fmt.Sprintf("attention score is %s %v", f.comparator, f.threshold)
}

func (f *AttentionFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	return f.describe(ec, t)
}

func (f *AttentionFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return f.describe(ec, t)
}

func (f *AttentionFilter) describe(ec *EvalContext, t models.Task) string {
	if ec.Scores == nil {
		return "no attention scores available"
	}
	score := ec.Scores.AttentionScore(t.ID)
	if f.comparator.compare(score, f.threshold) {
		return fmt.Sprintf("attention score %.2f is %s %v", score, f.comparator, f.threshold)
	}
	return fmt.Sprintf("attention score %.2f is not %s %v", score, f.comparator, f.threshold)
}

// LaneFilter matches tasks whose attention lane equals an enumerated lane
// value. Without a score provider nothing matches.
type LaneFilter struct {
	lane models.AttentionLane
}

// NewLaneFilter builds an attention lane equality test.
func NewLaneFilter(lane models.AttentionLane) *LaneFilter {
	return &LaneFilter{lane: lane}
}

func (f *LaneFilter) Matches(ec *EvalContext, t models.Task) bool {
	if ec.Scores == nil {
		return false
	}
	return ec.Scores.AttentionLane(t.ID) == f.lane
}

func (f *LaneFilter) Explain() string {
	return fmt.Sprintf("attention lane is %s", f.lane)
}

func (f *LaneFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	return f.describe(ec, t)
}

func (f *LaneFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return f.describe(ec, t)
}

func (f *LaneFilter) describe(ec *EvalContext, t models.Task) string {
	if ec.Scores == nil {
		return "no attention lanes available"
	}
	return fmt.Sprintf("task is in the %s lane", ec.Scores.AttentionLane(t.ID))
}

// EscalationFilter compares a task's escalation level against an integer
// threshold. Without a score provider nothing matches.
type EscalationFilter struct {
	comparator numberComparator
	threshold  int
}

// NewEscalationFilter builds an escalation level comparison.
func NewEscalationFilter(comparator numberComparator, threshold int) *EscalationFilter {
	return &EscalationFilter{comparator: comparator, threshold: threshold}
}

func (f *EscalationFilter) Matches(ec *EvalContext, t models.Task) bool {
	if ec.Scores == nil {
		return false
	}
	return f.comparator.compare(float64(ec.Scores.EscalationLevel(t.ID)), float64(f.threshold))
}

func (f *EscalationFilter) Explain() string {
	return fmt.Sprintf("escalation level is %s %d", f.comparator, f.threshold)
}

func (f *EscalationFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	return f.describe(ec, t)
}

func (f *EscalationFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return f.describe(ec, t)
}

func (f *EscalationFilter) describe(ec *EvalContext, t models.Task) string {
	if ec.Scores == nil {
		return "no escalation levels available"
	}
	level := ec.Scores.EscalationLevel(t.ID)
	if f.comparator.compare(float64(level), float64(f.threshold)) {
		return fmt.Sprintf("escalation level %d is %s %d", level, f.comparator, f.threshold)
	}
	return fmt.Sprintf("escalation level %d is not %s %d", level, f.comparator, f.threshold)
}

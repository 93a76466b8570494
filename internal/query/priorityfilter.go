package query

import (
	"fmt"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// priorityComparator names the supported priority ordering modes.
type priorityComparator string

const (
	prioIs      priorityComparator = "is"
	prioAbove   priorityComparator = "above"
	prioBelow   priorityComparator = "below"
	prioAtLeast priorityComparator = "at least"
	prioAtMost  priorityComparator = "at most"
)

// PriorityFilter matches a task's priority level against a bound.
type PriorityFilter struct {
	comparator priorityComparator
	level      models.Priority
}

// NewPriorityFilter builds a priority comparison.
func NewPriorityFilter(comparator priorityComparator, level models.Priority) *PriorityFilter {
	return &PriorityFilter{comparator: comparator, level: level}
}

func (f *PriorityFilter) Matches(ec *EvalContext, t models.Task) bool {
	switch f.comparator {
	case prioIs:
		return t.Priority == f.level
	case prioAbove:
		return t.Priority > f.level
	case prioBelow:
		return t.Priority < f.level
	case prioAtLeast:
		return t.Priority >= f.level
	case prioAtMost:
		return t.Priority <= f.level
	}
	return false
}

func (f *PriorityFilter) Explain() string {
	if f.comparator == prioIs {
		return fmt.Sprintf("priority is %s", f.level)
	}
	return fmt.Sprintf("priority is %s %s", f.comparator, f.level)
}

func (f *PriorityFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	return fmt.Sprintf("priority is %s", t.Priority)
}

func (f *PriorityFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return fmt.Sprintf("priority is %s, not %s%s", t.Priority, f.comparatorText(), f.level)
}

func (f *PriorityFilter) comparatorText() string {
	if f.comparator == prioIs {
		return ""
	}
	return string(f.comparator) + " "
}

package query

import (
	"fmt"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// RecurrenceFilter matches tasks with a non-trivial recurrence frequency,
// or without one when negated.
type RecurrenceFilter struct {
	negate bool
}

// NewRecurrenceFilter builds a recurrence check.
func NewRecurrenceFilter(negate bool) *RecurrenceFilter {
	return &RecurrenceFilter{negate: negate}
}

func (f *RecurrenceFilter) Matches(ec *EvalContext, t models.Task) bool {
	return t.IsRecurring() != f.negate
}

func (f *RecurrenceFilter) Explain() string {
	if f.negate {
		return "task is not recurring"
	}
	return "task is recurring"
}

func (f *RecurrenceFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	return f.describe(t)
}

func (f *RecurrenceFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return f.describe(t)
}

func (f *RecurrenceFilter) describe(t models.Task) string {
	if !t.IsRecurring() {
		return "task is not recurring"
	}
	if t.RecurrenceText != "" {
		return fmt.Sprintf("task recurs %s (%s)", t.Frequency, t.RecurrenceText)
	}
	return fmt.Sprintf("task recurs %s", t.Frequency)
}

package query

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// dateComparator names the supported date comparison modes.
type dateComparator string

const (
	cmpBefore     dateComparator = "before"
	cmpAfter      dateComparator = "after"
	cmpOn         dateComparator = "on"
	cmpOnOrBefore dateComparator = "on or before"
	cmpOnOrAfter  dateComparator = "on or after"
	cmpBetween    dateComparator = "between"
)

// dateFieldAccessor reads one of the task's optional date fields.
type dateFieldAccessor struct {
	name string
	get  func(models.Task) *time.Time
}

// dateFieldAccessors maps field keywords to accessors. "starts" is an
// accepted alias for "start".
var dateFieldAccessors = map[string]dateFieldAccessor{
	"due":       {"due", func(t models.Task) *time.Time { return t.DueAt }},
	"scheduled": {"scheduled", func(t models.Task) *time.Time { return t.ScheduledAt }},
	"start":     {"start", func(t models.Task) *time.Time { return t.StartAt }},
	"starts":    {"start", func(t models.Task) *time.Time { return t.StartAt }},
	"created":   {"created", func(t models.Task) *time.Time { return t.CreatedAt }},
	"done":      {"done", func(t models.Task) *time.Time { return t.DoneAt }},
	"cancelled": {"cancelled", func(t models.Task) *time.Time { return t.CancelledAt }},
}

// DateFilter matches a task's date field against one or two bounds at day
// granularity. A task missing the field never matches; negation is the
// caller's responsibility via NOT, not baked into absence handling.
type DateFilter struct {
	field      dateFieldAccessor
	comparator dateComparator
	first      dateValue
	second     dateValue // only for between
}

// NewDateFilter builds a date comparison over the named field. The second
// bound is only consulted for the between comparator, which is inclusive on
// both ends.
func NewDateFilter(field string, comparator dateComparator, first, second dateValue) (*DateFilter, error) {
	acc, ok := dateFieldAccessors[field]
	if !ok {
		return nil, fmt.Errorf("unknown date field %q", field)
	}
	return &DateFilter{field: acc, comparator: comparator, first: first, second: second}, nil
}

func (f *DateFilter) Matches(ec *EvalContext, t models.Task) bool {
	val := f.field.get(t)
	if val == nil {
		return false
	}
	day := startOfDay(*val)
	first := f.first.resolve(ec)
	switch f.comparator {
	case cmpBefore:
		return day.Before(first)
	case cmpAfter:
		return day.After(first)
	case cmpOn:
		return day.Equal(first)
	case cmpOnOrBefore:
		return !day.After(first)
	case cmpOnOrAfter:
		return !day.Before(first)
	case cmpBetween:
		second := f.second.resolve(ec)
		return !day.Before(first) && !day.After(second)
	}
	return false
}

func (f *DateFilter) Explain() string {
	if f.comparator == cmpBetween {
		return fmt.Sprintf("%s date is between %s and %s (inclusive)", f.field.name, f.first.text, f.second.text)
	}
	return fmt.Sprintf("%s date is %s %s", f.field.name, f.comparator, f.first.text)
}

func (f *DateFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	val := f.field.get(t)
	if val == nil {
		// Unreachable for a matching task, but explain methods never panic.
		return fmt.Sprintf("task has no %s date", f.field.name)
	}
	return fmt.Sprintf("%s date %s is %s", f.field.name, startOfDay(*val).Format("2006-01-02"), f.boundText(ec))
}

func (f *DateFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	val := f.field.get(t)
	if val == nil {
		return fmt.Sprintf("task has no %s date", f.field.name)
	}
	return fmt.Sprintf("%s date %s is not %s", f.field.name, startOfDay(*val).Format("2006-01-02"), f.boundText(ec))
}

// boundText renders the comparator and its resolved bounds, so relative
// keywords show the concrete date they resolved to.
func (f *DateFilter) boundText(ec *EvalContext) string {
	first := f.first.resolve(ec).Format("2006-01-02")
	if f.comparator == cmpBetween {
		second := f.second.resolve(ec).Format("2006-01-02")
		return fmt.Sprintf("between %s and %s", first, second)
	}
	if f.first.keyword != "" {
		return fmt.Sprintf("%s %s (%s)", f.comparator, f.first.keyword, first)
	}
	return fmt.Sprintf("%s %s", f.comparator, first)
}

// HasDateFilter matches tasks that have (or, negated, lack) the named date
// field, regardless of its value.
type HasDateFilter struct {
	field  dateFieldAccessor
	negate bool
}

// NewHasDateFilter builds a presence check over the named date field.
// With negate set it matches tasks lacking the field.
func NewHasDateFilter(field string, negate bool) (*HasDateFilter, error) {
	acc, ok := dateFieldAccessors[field]
	if !ok {
		return nil, fmt.Errorf("unknown date field %q", field)
	}
	return &HasDateFilter{field: acc, negate: negate}, nil
}

func (f *HasDateFilter) Matches(ec *EvalContext, t models.Task) bool {
	present := f.field.get(t) != nil
	return present != f.negate
}

func (f *HasDateFilter) Explain() string {
	if f.negate {
		return fmt.Sprintf("task has no %s date", f.field.name)
	}
	return fmt.Sprintf("task has a %s date", f.field.name)
}

func (f *HasDateFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	if val := f.field.get(t); val != nil {
		return fmt.Sprintf("task has %s date %s", f.field.name, startOfDay(*val).Format("2006-01-02"))
	}
	return fmt.Sprintf("task has no %s date", f.field.name)
}

func (f *HasDateFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return f.ExplainMatch(ec, t)
}

package query

import (
	"fmt"
	"time"
)

// startOfDay reduces an instant to its wall-clock calendar day, anchored at
// UTC midnight. All date comparisons in the engine happen at day
// granularity; anchoring every day in one zone keeps timestamps from
// different locations directly comparable.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dateValue is a date operand from a query clause. Absolute dates resolve
// at parse time; the relative keywords today/tomorrow/yesterday store the
// keyword and resolve against the execution's reference date, so a cached
// query stays correct across days.
type dateValue struct {
	text    string // original spelling, for explanations
	keyword string // "today", "tomorrow", "yesterday", or empty
	abs     time.Time
}

// resolve returns the concrete midnight instant for this operand under the
// given evaluation context.
func (d dateValue) resolve(ec *EvalContext) time.Time {
	ref := startOfDay(ec.Reference)
	switch d.keyword {
	case "today":
		return ref
	case "tomorrow":
		return ref.AddDate(0, 0, 1)
	case "yesterday":
		return ref.AddDate(0, 0, -1)
	default:
		return d.abs
	}
}

// parseDateValue parses an ISO calendar date (YYYY-MM-DD) or one of the
// relative keywords.
func parseDateValue(s string) (dateValue, error) {
	switch s {
	case "today", "tomorrow", "yesterday":
		return dateValue{text: s, keyword: s}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return dateValue{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or today/tomorrow/yesterday", s)
	}
	return dateValue{text: s, abs: t}, nil
}

package query

import (
	"fmt"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// AndFilter matches when both sub-filters match.
type AndFilter struct {
	left  Filter
	right Filter
}

// NewAndFilter combines two filters conjunctively.
func NewAndFilter(left, right Filter) *AndFilter {
	return &AndFilter{left: left, right: right}
}

func (f *AndFilter) Matches(ec *EvalContext, t models.Task) bool {
	return f.left.Matches(ec, t) && f.right.Matches(ec, t)
}

func (f *AndFilter) Explain() string {
	return fmt.Sprintf("(%s) AND (%s)", f.left.Explain(), f.right.Explain())
}

// ExplainMatch reports both sides, since both must hold for And to match.
func (f *AndFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	return f.left.ExplainMatch(ec, t) + " and " + f.right.ExplainMatch(ec, t)
}

// ExplainMismatch reports only the failing side when exactly one side fails,
// and both when neither matches.
func (f *AndFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	leftOK := f.left.Matches(ec, t)
	rightOK := f.right.Matches(ec, t)
	switch {
	case !leftOK && !rightOK:
		return fmt.Sprintf("matches NEITHER condition: %s; %s",
			f.left.ExplainMismatch(ec, t), f.right.ExplainMismatch(ec, t))
	case !leftOK:
		return "fails first condition: " + f.left.ExplainMismatch(ec, t)
	default:
		return "fails second condition: " + f.right.ExplainMismatch(ec, t)
	}
}

// OrFilter matches when either sub-filter matches.
type OrFilter struct {
	left  Filter
	right Filter
}

// NewOrFilter combines two filters disjunctively.
func NewOrFilter(left, right Filter) *OrFilter {
	return &OrFilter{left: left, right: right}
}

func (f *OrFilter) Matches(ec *EvalContext, t models.Task) bool {
	return f.left.Matches(ec, t) || f.right.Matches(ec, t)
}

func (f *OrFilter) Explain() string {
	return fmt.Sprintf("(%s) OR (%s)", f.left.Explain(), f.right.Explain())
}

// ExplainMatch reports only the matching side when exactly one side matches,
// and both when both do.
func (f *OrFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	leftOK := f.left.Matches(ec, t)
	rightOK := f.right.Matches(ec, t)
	switch {
	case leftOK && rightOK:
		return f.left.ExplainMatch(ec, t) + " and " + f.right.ExplainMatch(ec, t)
	case leftOK:
		return f.left.ExplainMatch(ec, t)
	default:
		return f.right.ExplainMatch(ec, t)
	}
}

// ExplainMismatch always reports both sides, since both must fail for Or to
// fail.
func (f *OrFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return f.left.ExplainMismatch(ec, t) + " and " + f.right.ExplainMismatch(ec, t)
}

// NotFilter inverts a sub-filter.
type NotFilter struct {
	child Filter
}

// NewNotFilter negates a filter.
func NewNotFilter(child Filter) *NotFilter {
	return &NotFilter{child: child}
}

func (f *NotFilter) Matches(ec *EvalContext, t models.Task) bool {
	return !f.child.Matches(ec, t)
}

func (f *NotFilter) Explain() string {
	return fmt.Sprintf("NOT (%s)", f.child.Explain())
}

// ExplainMatch narrates the child's mismatch: a task matches NOT(c) exactly
// when it mismatches c.
func (f *NotFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	return f.child.ExplainMismatch(ec, t)
}

// ExplainMismatch narrates the child's match, for the same reason.
func (f *NotFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return f.child.ExplainMatch(ec, t)
}

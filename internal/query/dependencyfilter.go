package query

import (
	"fmt"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// dependencyMode selects which side of the blocking relationship a
// DependencyFilter tests.
type dependencyMode int

const (
	depBlocked dependencyMode = iota
	depBlocking
)

// DependencyFilter matches tasks that are blocked by, or blocking, other
// tasks. It delegates entirely to the injected DependencyGraph keyed by task
// id; no graph traversal happens here. Without a graph in the evaluation
// context nothing matches.
type DependencyFilter struct {
	mode   dependencyMode
	negate bool
}

// NewBlockedFilter matches tasks the dependency graph reports as blocked.
func NewBlockedFilter(negate bool) *DependencyFilter {
	return &DependencyFilter{mode: depBlocked, negate: negate}
}

// NewBlockingFilter matches tasks the dependency graph reports as blocking
// others.
func NewBlockingFilter(negate bool) *DependencyFilter {
	return &DependencyFilter{mode: depBlocking, negate: negate}
}

func (f *DependencyFilter) Matches(ec *EvalContext, t models.Task) bool {
	if ec.Graph == nil {
		return false
	}
	var state bool
	if f.mode == depBlocked {
		state = ec.Graph.IsBlocked(t.ID)
	} else {
		state = ec.Graph.IsBlocking(t.ID)
	}
	return state != f.negate
}

func (f *DependencyFilter) Explain() string {
	verb := "blocked"
	if f.mode == depBlocking {
		verb = "blocking"
	}
	if f.negate {
		return fmt.Sprintf("task is not %s", verb)
	}
	return fmt.Sprintf("task is %s", verb)
}

func (f *DependencyFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	return f.describe(ec, t)
}

func (f *DependencyFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return f.describe(ec, t)
}

func (f *DependencyFilter) describe(ec *EvalContext, t models.Task) string {
	if ec.Graph == nil {
		return "no dependency information available"
	}
	if f.mode == depBlocked {
		if !ec.Graph.IsBlocked(t.ID) {
			return "task is not blocked"
		}
		if ec.Graph.HasCycle(t.ID) {
			return "task is blocked (part of a dependency cycle)"
		}
		return "task is blocked by an unfinished dependency"
	}
	n := ec.Graph.BlockedCount(t.ID)
	if n == 0 {
		return "task is not blocking any other task"
	}
	if n == 1 {
		return "task is blocking 1 other task"
	}
	return fmt.Sprintf("task is blocking %d other tasks", n)
}

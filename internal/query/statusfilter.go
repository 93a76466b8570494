package query

import (
	"fmt"
	"strings"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// statusMatchMode selects which aspect of the status a StatusFilter tests.
type statusMatchMode int

const (
	statusByType statusMatchMode = iota
	statusByName
	statusBySymbol
	statusDoneShorthand // the "done" / "not done" convenience clauses
)

// StatusFilter matches a task's status by type, name, symbol, or the
// done/not-done shorthand.
type StatusFilter struct {
	mode   statusMatchMode
	typ    models.StatusType
	name   string
	symbol string
	negate bool // only used by the done shorthand
}

// NewStatusTypeFilter matches tasks whose status has the given type.
func NewStatusTypeFilter(typ models.StatusType) *StatusFilter {
	return &StatusFilter{mode: statusByType, typ: typ}
}

// NewStatusNameFilter matches tasks whose status name equals the given name,
// case-insensitively.
func NewStatusNameFilter(name string) *StatusFilter {
	return &StatusFilter{mode: statusByName, name: name}
}

// NewStatusSymbolFilter matches tasks whose status symbol equals the given
// symbol exactly.
func NewStatusSymbolFilter(symbol string) *StatusFilter {
	return &StatusFilter{mode: statusBySymbol, symbol: symbol}
}

// NewDoneFilter matches done tasks, or not-done tasks when negated.
func NewDoneFilter(negate bool) *StatusFilter {
	return &StatusFilter{mode: statusDoneShorthand, negate: negate}
}

func (f *StatusFilter) Matches(ec *EvalContext, t models.Task) bool {
	switch f.mode {
	case statusByType:
		return t.Status.Type == f.typ
	case statusByName:
		return strings.EqualFold(t.Status.Name, f.name)
	case statusBySymbol:
		return t.Status.Symbol == f.symbol
	case statusDoneShorthand:
		return t.IsDone() != f.negate
	}
	return false
}

func (f *StatusFilter) Explain() string {
	switch f.mode {
	case statusByType:
		return fmt.Sprintf("status type is %s", f.typ)
	case statusByName:
		return fmt.Sprintf("status name is %q", f.name)
	case statusBySymbol:
		return fmt.Sprintf("status symbol is %q", f.symbol)
	case statusDoneShorthand:
		if f.negate {
			return "task is not done"
		}
		return "task is done"
	}
	return "status filter"
}

func (f *StatusFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	return f.describe(t)
}

func (f *StatusFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return f.describe(t)
}

// describe states the task's actual status, which reads correctly for both
// the match and mismatch narratives.
func (f *StatusFilter) describe(t models.Task) string {
	switch f.mode {
	case statusDoneShorthand:
		if t.IsDone() {
			return "task is done"
		}
		return "task is not done"
	default:
		return fmt.Sprintf("task status is %q (symbol %q, type %s)", t.Status.Name, t.Status.Symbol, t.Status.Type)
	}
}

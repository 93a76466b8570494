package query

import (
	"fmt"
	"sync"
	"time"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// explainFallback stands in for a task whose explanation could not be
// produced. Explanation generation is best-effort: one bad task never aborts
// the others.
const explainFallback = "no explanation available"

// ExecOptions carries the per-execution inputs: the reference date for
// relative clauses, the injected collaborators, the explain flag, and an
// optional cap on matches.
type ExecOptions struct {
	// Reference is the instant date-relative and urgency clauses resolve
	// against. The zero value means time.Now().
	Reference time.Time

	// Explain requests the per-task explanation pass over the original
	// input set. It never affects filtering or sorting.
	Explain bool

	// MaxMatches caps how many tasks the filter scan collects, as a
	// defensive bound for very large collections. Zero means unlimited.
	// When the cap trips, Result.Total reflects only the collected tasks.
	MaxMatches int

	Graph   DependencyGraph
	Scores  ScoreProvider
	Urgency UrgencyScorer
}

// Result is the outcome of one query execution.
type Result struct {
	// Tasks is the filtered, sorted task sequence.
	Tasks []models.Task

	// Groups is the grouped partition of Tasks, present only when the
	// query carries a group instruction. A multi-key grouper may place
	// one task in several groups.
	Groups []TaskGroup

	// Explanations maps task id to its match or mismatch narrative, for
	// every task in the original input. Present only when requested.
	Explanations map[string]string

	// Total is the number of tasks that matched, before any pagination a
	// caller applies.
	Total int
}

// Stats counts engine activity since construction.
type Stats struct {
	Compiles   uint64
	CacheHits  uint64
	Executions uint64
}

// Engine orchestrates parse, filter, sort, group, and the optional explain
// pass. It caches compiled queries by raw text, so re-running a saved query
// never re-parses it. An Engine is safe for concurrent use.
type Engine struct {
	mu    sync.Mutex
	cache map[string]*Query
	stats Stats
}

// NewEngine creates an Engine with an empty query cache.
func NewEngine() *Engine {
	return &Engine{cache: make(map[string]*Query)}
}

// Compile parses the query text, serving repeated texts from the cache.
// The returned Query is immutable and shared; callers must not modify it.
func (e *Engine) Compile(text string) (*Query, error) {
	e.mu.Lock()
	if q, ok := e.cache[text]; ok {
		e.stats.CacheHits++
		e.mu.Unlock()
		return q, nil
	}
	e.mu.Unlock()

	q, err := Parse(text)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[text] = q
	e.stats.Compiles++
	e.mu.Unlock()
	return q, nil
}

// Stats returns a snapshot of the engine's activity counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Execute compiles (or recalls) the query text and runs it over the task
// collection. Syntax problems surface as *SyntaxError; collaborator
// failures during evaluation surface as *ExecutionError.
func (e *Engine) Execute(text string, tasks []models.Task, opts ExecOptions) (*Result, error) {
	q, err := e.Compile(text)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.stats.Executions++
	e.mu.Unlock()

	return Run(q, tasks, opts)
}

// Run evaluates an already compiled query over the task collection. The
// query is reusable: Run never mutates it, so many executions may share one
// compilation.
func Run(q *Query, tasks []models.Task, opts ExecOptions) (result *Result, err error) {
	ref := opts.Reference
	if ref.IsZero() {
		ref = time.Now()
	}
	ec := &EvalContext{
		Reference: ref,
		Graph:     opts.Graph,
		Scores:    opts.Scores,
		Urgency:   opts.Urgency,
	}

	// Collaborators are plain lookups and must not fail; one that panics
	// (a corrupted graph snapshot, say) aborts this evaluation as an
	// ExecutionError rather than crashing the caller.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ExecutionError{
				Message: "collaborator failure during evaluation",
				Cause:   fmt.Errorf("%v", r),
			}
		}
	}()

	matched := filterTasks(ec, q.Root, tasks, opts.MaxMatches)
	sortTasks(ec, matched, q.Sort)

	result = &Result{
		Tasks: matched,
		Total: len(matched),
	}
	if q.Group != nil {
		result.Groups = groupTasks(matched, q.Group)
	}
	if opts.Explain {
		result.Explanations = explainTasks(ec, q.Root, tasks)
	}
	return result, nil
}

// filterTasks scans the collection once, collecting tasks the root filter
// accepts. A nil root accepts everything. The cap, when positive, stops the
// scan early.
func filterTasks(ec *EvalContext, root Filter, tasks []models.Task, limit int) []models.Task {
	matched := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if root == nil || root.Matches(ec, t) {
			matched = append(matched, t)
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}
	return matched
}

// explainTasks narrates every task in the original input set: the root's
// match explanation for tasks that satisfy it, the mismatch explanation
// otherwise. A failure to explain one task degrades to a fallback string
// for that task only.
func explainTasks(ec *EvalContext, root Filter, tasks []models.Task) map[string]string {
	explanations := make(map[string]string, len(tasks))
	for _, t := range tasks {
		explanations[t.ID] = explainOne(ec, root, t)
	}
	return explanations
}

func explainOne(ec *EvalContext, root Filter, t models.Task) (narrative string) {
	defer func() {
		if recover() != nil {
			narrative = explainFallback
		}
	}()
	if root == nil {
		return "matches: query has no filters"
	}
	if root.Matches(ec, t) {
		return "matches: " + root.ExplainMatch(ec, t)
	}
	return "does not match: " + root.ExplainMismatch(ec, t)
}

package query

import (
	"time"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// DependencyGraph exposes blocking relationships between tasks. The query
// engine never traverses dependencies itself; it reads this pre-materialized
// snapshot, keyed by task id.
type DependencyGraph interface {
	IsBlocked(id string) bool
	IsBlocking(id string) bool
	BlockedCount(id string) int
	HasCycle(id string) bool
}

// ScoreProvider exposes precomputed attention and escalation signals,
// keyed by task id.
type ScoreProvider interface {
	AttentionScore(id string) float64
	AttentionLane(id string) models.AttentionLane
	EscalationLevel(id string) int
}

// UrgencyScorer computes a numeric urgency for a task relative to a
// reference instant. Scoring settings belong to the implementation.
type UrgencyScorer interface {
	Urgency(t models.Task, reference time.Time) float64
}

// EvalContext carries the per-execution inputs a filter may need: the
// reference date for relative clauses and the injected collaborators.
// Any collaborator may be nil, in which case the clauses that need it
// match nothing and explain the absence.
type EvalContext struct {
	Reference time.Time
	Graph     DependencyGraph
	Scores    ScoreProvider
	Urgency   UrgencyScorer
}

// Filter is a compiled boolean predicate over a single task. Every leaf
// predicate kind and every combinator implements it, which is what lets
// combinators compose uniformly over arbitrary sub-trees.
//
// Matches answers the fast filtering question. Explain describes the clause
// without reference to any task. ExplainMatch and ExplainMismatch narrate
// why a specific task passed or failed; both are pure and must not panic
// even when the task lacks the relevant field, since absent data is itself
// an explainable state.
type Filter interface {
	Matches(ec *EvalContext, t models.Task) bool
	Explain() string
	ExplainMatch(ec *EvalContext, t models.Task) string
	ExplainMismatch(ec *EvalContext, t models.Task) string
}

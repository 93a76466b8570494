// Package graph builds read-only dependency snapshots from a task
// collection's depends_on edges. The query engine consumes a snapshot
// through its DependencyGraph interface and never walks edges itself.
package graph

import (
	"github.com/valter-silva-au/taskquery/pkg/models"
)

// Snapshot is an immutable view of the blocking relationships in one task
// collection, keyed by task id. Build it once per query execution.
type Snapshot struct {
	blocked      map[string]bool
	blockedCount map[string]int
	inCycle      map[string]bool
}

// finished reports whether a task no longer blocks anything: done and
// cancelled tasks are out of the way.
func finished(t models.Task) bool {
	return t.Status.Type == models.StatusTypeDone || t.Status.Type == models.StatusTypeCancelled
}

// Build scans the collection and materializes every blocking relationship.
// Edges pointing at ids absent from the collection are ignored. A task is
// blocked when any of its in-collection dependencies is unfinished; a task
// is blocking when an unfinished task depends on it while it is itself
// unfinished.
func Build(tasks []models.Task) *Snapshot {
	byID := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	s := &Snapshot{
		blocked:      make(map[string]bool),
		blockedCount: make(map[string]int),
		inCycle:      make(map[string]bool),
	}

	for _, t := range tasks {
		if finished(t) {
			continue
		}
		for _, depID := range t.DependsOn {
			dep, ok := byID[depID]
			if !ok || finished(dep) {
				continue
			}
			s.blocked[t.ID] = true
			s.blockedCount[depID]++
		}
	}

	s.markCycles(tasks, byID)

	return s
}

// markCycles flags every task that participates in a dependency cycle,
// using a DFS with the usual white/grey/black coloring.
func (s *Snapshot) markCycles(tasks []models.Task, byID map[string]models.Task) {
	const (
		white = 0 // unvisited
		grey  = 1 // on the current DFS path
		black = 2 // fully explored
	)
	color := make(map[string]int, len(tasks))
	onPath := make([]string, 0, len(tasks))

	var visit func(id string)
	visit = func(id string) {
		color[id] = grey
		onPath = append(onPath, id)

		for _, depID := range byID[id].DependsOn {
			if _, ok := byID[depID]; !ok {
				continue
			}
			switch color[depID] {
			case white:
				visit(depID)
			case grey:
				// Back edge: everything from depID to the top of the
				// current path is on a cycle.
				for i := len(onPath) - 1; i >= 0; i-- {
					s.inCycle[onPath[i]] = true
					if onPath[i] == depID {
						break
					}
				}
			}
		}

		onPath = onPath[:len(onPath)-1]
		color[id] = black
	}

	for _, t := range tasks {
		if color[t.ID] == white {
			visit(t.ID)
		}
	}
}

// IsBlocked reports whether the task has an unfinished dependency.
func (s *Snapshot) IsBlocked(id string) bool {
	return s.blocked[id]
}

// IsBlocking reports whether any unfinished task depends on this one.
func (s *Snapshot) IsBlocking(id string) bool {
	return s.blockedCount[id] > 0
}

// BlockedCount returns how many unfinished tasks this one is blocking.
func (s *Snapshot) BlockedCount(id string) int {
	return s.blockedCount[id]
}

// HasCycle reports whether the task sits on a dependency cycle.
func (s *Snapshot) HasCycle(id string) bool {
	return s.inCycle[id]
}

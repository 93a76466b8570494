package query

import (
	"time"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// datePtr parses an ISO date in the local zone, for building test tasks.
func datePtr(s string) *time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		panic(err)
	}
	return &t
}

// refDate is a fixed reference instant so relative keywords resolve
// deterministically in tests.
var refDate = time.Date(2026, 3, 15, 10, 30, 0, 0, time.Local)

func testContext() *EvalContext {
	return &EvalContext{Reference: refDate}
}

// --- Fake collaborators ---

type fakeGraph struct {
	blocked  map[string]bool
	blocking map[string]bool
	counts   map[string]int
	cycles   map[string]bool
}

func (g *fakeGraph) IsBlocked(id string) bool  { return g.blocked[id] }
func (g *fakeGraph) IsBlocking(id string) bool { return g.blocking[id] }
func (g *fakeGraph) BlockedCount(id string) int {
	if g.counts == nil {
		return 0
	}
	return g.counts[id]
}
func (g *fakeGraph) HasCycle(id string) bool { return g.cycles[id] }

type fakeScores struct {
	scores     map[string]float64
	lanes      map[string]models.AttentionLane
	escalation map[string]int
}

func (s *fakeScores) AttentionScore(id string) float64 { return s.scores[id] }
func (s *fakeScores) AttentionLane(id string) models.AttentionLane {
	if lane, ok := s.lanes[id]; ok {
		return lane
	}
	return models.LaneLater
}
func (s *fakeScores) EscalationLevel(id string) int { return s.escalation[id] }

type fakeUrgency struct {
	scores map[string]float64
}

func (u *fakeUrgency) Urgency(t models.Task, _ time.Time) float64 { return u.scores[t.ID] }

// panicGraph simulates a corrupted collaborator.
type panicGraph struct{}

func (panicGraph) IsBlocked(string) bool   { panic("corrupted graph snapshot") }
func (panicGraph) IsBlocking(string) bool  { panic("corrupted graph snapshot") }
func (panicGraph) BlockedCount(string) int { panic("corrupted graph snapshot") }
func (panicGraph) HasCycle(string) bool    { panic("corrupted graph snapshot") }

func todoTask(id string) models.Task {
	return models.Task{ID: id, Name: "task " + id, Status: models.StatusTodo}
}

func doneTask(id string) models.Task {
	return models.Task{ID: id, Name: "task " + id, Status: models.StatusDone}
}

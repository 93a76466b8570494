package scoring

import (
	"time"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// Escalation buckets by days overdue.
const (
	escalationMildDays    = 3
	escalationSeriousDays = 7
	escalationSevereDays  = 14

	stalenessCapDays = 30
)

// Blocked is the subset of the dependency snapshot the provider needs to
// park blocked tasks in the waiting lane. Defining it here keeps scoring
// independent of the graph package.
type Blocked interface {
	IsBlocked(id string) bool
}

// Provider holds precomputed attention scores, lanes, and escalation levels
// for one task collection at one reference instant. It satisfies the query
// engine's ScoreProvider interface. Build it once per execution; lookups
// afterwards are pure map reads.
type Provider struct {
	scores     map[string]float64
	lanes      map[string]models.AttentionLane
	escalation map[string]int
}

// BuildProvider scores every task in the collection. blocked may be nil,
// in which case no task lands in the waiting lane.
func BuildProvider(tasks []models.Task, reference time.Time, settings Settings, blocked Blocked) *Provider {
	settings = settings.normalize()
	scorer := NewUrgencyScorer(settings)

	p := &Provider{
		scores:     make(map[string]float64, len(tasks)),
		lanes:      make(map[string]models.AttentionLane, len(tasks)),
		escalation: make(map[string]int, len(tasks)),
	}

	for _, t := range tasks {
		score := scorer.Urgency(t, reference) + staleness(t, reference, settings.StalenessRate)
		p.scores[t.ID] = score
		p.lanes[t.ID] = lane(t, score, settings, blocked)
		p.escalation[t.ID] = escalationLevel(t, reference)
	}
	return p
}

// staleness adds a small bonus for old tasks so long-ignored work creeps up
// the attention ranking. The bonus caps out after stalenessCapDays.
func staleness(t models.Task, reference time.Time, rate float64) float64 {
	if t.CreatedAt == nil {
		return 0
	}
	days := daysBetween(startOfDay(*t.CreatedAt), startOfDay(reference))
	if days < 0 {
		return 0
	}
	if days > stalenessCapDays {
		days = stalenessCapDays
	}
	return float64(days) * rate
}

// lane places a task into its attention lane: blocked tasks wait regardless
// of score, everything else buckets by the configured thresholds.
func lane(t models.Task, score float64, settings Settings, blocked Blocked) models.AttentionLane {
	if blocked != nil && blocked.IsBlocked(t.ID) {
		return models.LaneWaiting
	}
	switch {
	case score >= settings.LaneNowMin:
		return models.LaneNow
	case score >= settings.LaneNextMin:
		return models.LaneNext
	case score >= settings.LaneSoonMin:
		return models.LaneSoon
	default:
		return models.LaneLater
	}
}

// escalationLevel buckets how overdue a task is: 0 when not overdue (or
// already finished), then 1 through 4 as the overshoot grows.
func escalationLevel(t models.Task, reference time.Time) int {
	if t.DueAt == nil || t.IsDone() {
		return 0
	}
	overdue := daysBetween(startOfDay(*t.DueAt), startOfDay(reference))
	switch {
	case overdue <= 0:
		return 0
	case overdue <= escalationMildDays:
		return 1
	case overdue <= escalationSeriousDays:
		return 2
	case overdue <= escalationSevereDays:
		return 3
	default:
		return 4
	}
}

// AttentionScore returns the precomputed attention score for a task id.
func (p *Provider) AttentionScore(id string) float64 {
	return p.scores[id]
}

// AttentionLane returns the precomputed lane for a task id. Unknown ids
// report the later lane.
func (p *Provider) AttentionLane(id string) models.AttentionLane {
	if lane, ok := p.lanes[id]; ok {
		return lane
	}
	return models.LaneLater
}

// EscalationLevel returns the precomputed escalation level for a task id.
func (p *Provider) EscalationLevel(id string) int {
	return p.escalation[id]
}

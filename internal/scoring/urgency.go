// Package scoring provides the default urgency scorer and attention score
// provider. The query engine only consumes their outputs; everything here
// is precomputed or pure so no scoring work happens lazily mid-evaluation.
package scoring

import (
	"time"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// Settings tunes the urgency scorer and the attention lane thresholds.
// Zero-value fields are replaced by the defaults from DefaultSettings.
type Settings struct {
	DueWeight       float64 `yaml:"due_weight" mapstructure:"due_weight"`
	PriorityWeight  float64 `yaml:"priority_weight" mapstructure:"priority_weight"`
	ScheduledBoost  float64 `yaml:"scheduled_boost" mapstructure:"scheduled_boost"`
	FutureStartDrag float64 `yaml:"future_start_drag" mapstructure:"future_start_drag"`
	StalenessRate   float64 `yaml:"staleness_rate" mapstructure:"staleness_rate"`

	// Lane thresholds partition attention scores, highest first.
	LaneNowMin  float64 `yaml:"lane_now_min" mapstructure:"lane_now_min"`
	LaneNextMin float64 `yaml:"lane_next_min" mapstructure:"lane_next_min"`
	LaneSoonMin float64 `yaml:"lane_soon_min" mapstructure:"lane_soon_min"`
}

// DefaultSettings returns the scorer defaults.
func DefaultSettings() Settings {
	return Settings{
		DueWeight:       1.0,
		PriorityWeight:  1.0,
		ScheduledBoost:  2.0,
		FutureStartDrag: 3.0,
		StalenessRate:   0.1,
		LaneNowMin:      12.0,
		LaneNextMin:     8.0,
		LaneSoonMin:     4.0,
	}
}

// normalize fills zero-valued weights with their defaults, so a partially
// specified config file behaves sensibly.
func (s Settings) normalize() Settings {
	d := DefaultSettings()
	if s.DueWeight == 0 {
		s.DueWeight = d.DueWeight
	}
	if s.PriorityWeight == 0 {
		s.PriorityWeight = d.PriorityWeight
	}
	if s.ScheduledBoost == 0 {
		s.ScheduledBoost = d.ScheduledBoost
	}
	if s.FutureStartDrag == 0 {
		s.FutureStartDrag = d.FutureStartDrag
	}
	if s.StalenessRate == 0 {
		s.StalenessRate = d.StalenessRate
	}
	if s.LaneNowMin == 0 {
		s.LaneNowMin = d.LaneNowMin
	}
	if s.LaneNextMin == 0 {
		s.LaneNextMin = d.LaneNextMin
	}
	if s.LaneSoonMin == 0 {
		s.LaneSoonMin = d.LaneSoonMin
	}
	return s
}

// Due date contribution bounds: maximally urgent when a week or more
// overdue, tapering to nearly nothing two weeks out.
const (
	dueMaxScore     = 12.0
	dueMinScore     = 0.2
	dueOverdueDays  = -7
	dueHorizonDays  = 14
)

// priorityScores maps each priority level to its urgency contribution.
var priorityScores = map[models.Priority]float64{
	models.PriorityHighest: 9.0,
	models.PriorityHigh:    6.0,
	models.PriorityMedium:  3.9,
	models.PriorityNone:    1.95,
	models.PriorityLow:     0.0,
	models.PriorityLowest:  -1.8,
}

// UrgencyScorer computes a task's urgency from its due date proximity,
// priority, scheduled date, and start date, weighted by Settings.
type UrgencyScorer struct {
	settings Settings
}

// NewUrgencyScorer creates a scorer with the given settings. Zero-valued
// settings fields fall back to defaults.
func NewUrgencyScorer(settings Settings) *UrgencyScorer {
	return &UrgencyScorer{settings: settings.normalize()}
}

// Urgency scores the task relative to the reference instant. The score is a
// pure function of the task, the reference date, and the settings: no state
// is read or written.
func (s *UrgencyScorer) Urgency(t models.Task, reference time.Time) float64 {
	score := dueScore(t.DueAt, reference) * s.settings.DueWeight
	score += priorityScores[t.Priority] * s.settings.PriorityWeight

	if t.ScheduledAt != nil && !startOfDay(*t.ScheduledAt).After(startOfDay(reference)) {
		score += s.settings.ScheduledBoost
	}
	if t.StartAt != nil && startOfDay(*t.StartAt).After(startOfDay(reference)) {
		score -= s.settings.FutureStartDrag
	}
	return score
}

// dueScore grades due date proximity: a task a week or more overdue scores
// dueMaxScore, one two weeks out or later scores dueMinScore, with a linear
// ramp in between. No due date contributes nothing.
func dueScore(due *time.Time, reference time.Time) float64 {
	if due == nil {
		return 0
	}
	days := daysBetween(startOfDay(reference), startOfDay(*due))
	switch {
	case days <= dueOverdueDays:
		return dueMaxScore
	case days >= dueHorizonDays:
		return dueMinScore
	default:
		span := float64(dueHorizonDays - dueOverdueDays)
		return dueMaxScore - (dueMaxScore-dueMinScore)*float64(days-dueOverdueDays)/span
	}
}

// daysBetween counts whole calendar days from a to b; negative when b is
// earlier.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

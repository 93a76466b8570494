package models

import "time"

// Frequency represents how often a recurring task repeats.
type Frequency string

const (
	FrequencyNone    Frequency = ""
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyCustom  Frequency = "custom"
)

// Task represents a single task record as seen by the query engine.
// Tasks are immutable from the engine's point of view: filters, combinators,
// and groupers only ever read them.
type Task struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Heading     string   `yaml:"heading,omitempty"`
	Path        string   `yaml:"path,omitempty"`
	Status      Status   `yaml:"status"`
	Priority    Priority `yaml:"priority"`
	Tags        []string `yaml:"tags,omitempty"`

	CreatedAt   *time.Time `yaml:"created,omitempty"`
	StartAt     *time.Time `yaml:"start,omitempty"`
	ScheduledAt *time.Time `yaml:"scheduled,omitempty"`
	DueAt       *time.Time `yaml:"due,omitempty"`
	DoneAt      *time.Time `yaml:"done,omitempty"`
	CancelledAt *time.Time `yaml:"cancelled,omitempty"`

	Frequency      Frequency `yaml:"frequency,omitempty"`
	RecurrenceText string    `yaml:"recurrence,omitempty"`

	DependsOn []string `yaml:"depends_on,omitempty"`
}

// IsDone reports whether the task's status marks it as completed.
func (t Task) IsDone() bool {
	return t.Status.Type == StatusTypeDone
}

// IsRecurring reports whether the task has a non-trivial recurrence frequency.
func (t Task) IsRecurring() bool {
	return t.Frequency != FrequencyNone
}

// SearchText returns the text that description-based filters match against:
// the task name and description joined with a space.
func (t Task) SearchText() string {
	if t.Description == "" {
		return t.Name
	}
	return t.Name + " " + t.Description
}

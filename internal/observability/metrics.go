package observability

import (
	"fmt"
	"time"
)

// Metrics holds aggregates derived from the query event log.
type Metrics struct {
	QueriesRun    int `json:"queries_run"`
	QueriesFailed int `json:"queries_failed"`
	Compiles      int `json:"compiles"`
	CacheHits     int `json:"cache_hits"`
	TasksMatched  int `json:"tasks_matched"`
	EventCount    int `json:"event_count"`

	// CacheHitRate is CacheHits over all compile lookups, 0 when no
	// queries have compiled yet.
	CacheHitRate float64 `json:"cache_hit_rate"`

	OldestEvent *time.Time `json:"oldest_event,omitempty"`
	NewestEvent *time.Time `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator that reads from the given
// EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{EventCount: len(events)}

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case EventQueryCompiled:
			m.Compiles++
			if hit, ok := event.Data["cache_hit"].(bool); ok && hit {
				m.CacheHits++
			}
		case EventQueryExecuted:
			m.QueriesRun++
			if matched, ok := event.Data["matched"].(float64); ok {
				// JSON numbers decode as float64.
				m.TasksMatched += int(matched)
			}
		case EventQueryFailed:
			m.QueriesFailed++
		}
	}

	if m.Compiles > 0 {
		m.CacheHitRate = float64(m.CacheHits) / float64(m.Compiles)
	}

	return m, nil
}

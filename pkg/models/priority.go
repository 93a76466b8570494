package models

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Priority represents the urgency level of a task. Higher values are more
// urgent, so priorities are directly comparable with < and >.
type Priority int

const (
	PriorityLowest Priority = iota
	PriorityLow
	PriorityNone
	PriorityMedium
	PriorityHigh
	PriorityHighest
)

var priorityNames = map[Priority]string{
	PriorityLowest:  "lowest",
	PriorityLow:     "low",
	PriorityNone:    "none",
	PriorityMedium:  "medium",
	PriorityHigh:    "high",
	PriorityHighest: "highest",
}

// String returns the lowercase name of the priority.
func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// ParsePriority converts a priority name to its level, case-insensitively.
// Returns false if the name is unknown.
func ParsePriority(s string) (Priority, bool) {
	for p, name := range priorityNames {
		if strings.EqualFold(s, name) {
			return p, true
		}
	}
	return PriorityNone, false
}

// MarshalYAML encodes the priority as its name.
func (p Priority) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// UnmarshalYAML decodes a priority from its name. An empty or absent value
// decodes as "none".
func (p *Priority) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("decoding priority: %w", err)
	}
	if s == "" {
		*p = PriorityNone
		return nil
	}
	parsed, ok := ParsePriority(s)
	if !ok {
		return fmt.Errorf("decoding priority: unknown priority %q", s)
	}
	*p = parsed
	return nil
}

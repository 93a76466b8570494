package models

import "strings"

// StatusType classifies a status into one of five broad lifecycle buckets.
type StatusType string

const (
	StatusTypeTodo       StatusType = "TODO"
	StatusTypeInProgress StatusType = "IN_PROGRESS"
	StatusTypeDone       StatusType = "DONE"
	StatusTypeCancelled  StatusType = "CANCELLED"
	StatusTypeNonTask    StatusType = "NON_TASK"
)

// ParseStatusType converts a string to a StatusType, case-insensitively.
// Returns false if the string names no known type.
func ParseStatusType(s string) (StatusType, bool) {
	switch strings.ToUpper(strings.ReplaceAll(s, " ", "_")) {
	case "TODO":
		return StatusTypeTodo, true
	case "IN_PROGRESS":
		return StatusTypeInProgress, true
	case "DONE":
		return StatusTypeDone, true
	case "CANCELLED":
		return StatusTypeCancelled, true
	case "NON_TASK":
		return StatusTypeNonTask, true
	}
	return "", false
}

// Status represents a task's lifecycle state: a single-character symbol,
// a human-readable name, and a broad type bucket.
type Status struct {
	Symbol string     `yaml:"symbol"`
	Name   string     `yaml:"name"`
	Type   StatusType `yaml:"type"`
}

// The built-in statuses.
var (
	StatusTodo       = Status{Symbol: " ", Name: "Todo", Type: StatusTypeTodo}
	StatusInProgress = Status{Symbol: "/", Name: "In Progress", Type: StatusTypeInProgress}
	StatusDone       = Status{Symbol: "x", Name: "Done", Type: StatusTypeDone}
	StatusCancelled  = Status{Symbol: "-", Name: "Cancelled", Type: StatusTypeCancelled}
)

// DefaultStatuses lists the built-in statuses in lifecycle order.
var DefaultStatuses = []Status{StatusTodo, StatusInProgress, StatusDone, StatusCancelled}

// StatusForSymbol returns the built-in status registered for the given
// symbol, falling back to a Todo-typed status carrying the symbol itself
// when the symbol is unknown.
func StatusForSymbol(symbol string) Status {
	for _, s := range DefaultStatuses {
		if s.Symbol == symbol {
			return s
		}
	}
	return Status{Symbol: symbol, Name: "Unknown", Type: StatusTypeTodo}
}

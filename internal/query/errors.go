package query

import "fmt"

// SyntaxError reports a malformed query. Parsing is fail-fast: no partial
// query is ever returned alongside a SyntaxError.
type SyntaxError struct {
	Message string
	// Line and Column locate the offending token, 1-based.
	Line   int
	Column int
	// Suggestion is a close-but-wrong keyword correction, when one can be
	// derived. Empty otherwise.
	Suggestion string
}

// Error formats the error with its position and, when present, the
// suggested correction.
func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// ExecutionError reports a failure during query evaluation, typically a
// misbehaving collaborator such as a corrupted dependency graph. The
// evaluation that produced it was aborted.
type ExecutionError struct {
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("query execution: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("query execution: %s", e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

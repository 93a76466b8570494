// Package observability provides event logging and metrics for query
// executions. Events persist as structured JSON Lines (JSONL); metrics are
// derived on demand from the event log.
package observability

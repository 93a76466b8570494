// Package query compiles short textual task queries into executable
// predicate/sort/group pipelines and evaluates them against in-memory task
// collections.
//
// A query is one clause per line. Lines with no explicit connective are
// implicitly ANDed; within a line, clauses combine with the uppercase
// operators AND, OR and NOT, and group with parentheses. The terminal lines
// "sort by <field> [asc|desc]" and "group by <field>" attach to the compiled
// query rather than the boolean tree.
//
// Compiled queries are immutable and safe to reuse across evaluations; the
// Engine caches them by raw query text. Evaluation is a single linear scan
// over a read-only snapshot of the collection, with an opt-in explain pass
// that narrates, per task, why it matched or failed each clause.
package query

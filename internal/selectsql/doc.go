// Package selectsql compiles a query descriptor into the SELECT+FROM
// clause of the target query language.
//
// The compiler resolves the schema context once, then picks exactly one
// of two mutually exclusive modes per call:
//
//   - aggregate mode, when any aggregation directive is present
//     (groupBy, sum, average, min, max)
//   - projection mode otherwise
//
// Aggregate mode renders grouped/aggregated expressions against the
// target table alone; it never expands joins. Projection mode resolves
// the full column list (explicit selection, fetch-plan union, wildcard
// passthrough for schemaless entities) and inlines foreign-key joins via
// composite column aliases.
//
// The compiled clause is element 0 of Result.Statements; collaborating
// builders (WHERE, JOIN conditions, ORDER) append siblings downstream.
// The resolved selection is reported on the Result rather than consumed
// from the descriptor, so the input is never mutated and independent
// compilations are safe to run in parallel against a shared schema.
//
// Compilation is pure and synchronous: no I/O, no retries, no fallback
// between modes. Malformed input fails immediately with a *CompileError.
package selectsql

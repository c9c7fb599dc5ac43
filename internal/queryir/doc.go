// Package queryir defines the declarative query descriptor consumed by
// the statement compilers.
//
// A Descriptor names a target entity by physical table name and carries
// three independent concerns that the SELECT compiler reconciles:
//
//   - explicit column selection (Select, plus a FetchPlan union)
//   - join expansion instructions (Joins, per joined attribute)
//   - aggregation directives (Aggregate)
//
// Descriptors are typically authored as YAML files and loaded with
// LoadDescriptor, though they can equally be constructed in code.
//
// POLYMORPHIC COLUMN FIELDS:
//
// The aggregation fields (groupBy, sum, average, min, max) accept either
// a single column name or an ordered list in YAML:
//
//	aggregate:
//	  groupBy: status
//	  sum: [amount, tax]
//
// Both forms normalize to ColumnList at the unmarshalling boundary, so
// the compilers only ever see an ordered sequence and carry no runtime
// type branching.
//
// JOIN STRATEGIES:
//
// Each Join carries a strategy code. Only StrategyForeignKey joins are
// expanded by the SELECT compiler (the child's columns are inlined into
// the parent row via composite aliases); StrategyEdge joins are resolved
// by the downstream join/merge builder and pass through untouched here.
package queryir

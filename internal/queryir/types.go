package queryir

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Descriptor is the abstract description of one query against a target
// entity. The SELECT compiler treats it as read-only input; the resolved
// selection is reported back on the compile result instead of being
// stripped from the descriptor in place.
type Descriptor struct {
	// Table is the target entity's physical table name.
	Table string `yaml:"table"`

	// Select lists the attributes to project. Empty means every declared
	// attribute of the target entity.
	Select []string `yaml:"select,omitempty"`

	// FetchPlan is a supplementary attribute list unioned into Select,
	// e.g. for eager-loaded fields. Attributes present in both are not
	// duplicated.
	FetchPlan []string `yaml:"fetchPlan,omitempty"`

	// Schemaless requests a wildcard projection entry in addition to the
	// declared attributes, for entities with dynamic fields. Only honored
	// when no explicit Select was provided.
	Schemaless bool `yaml:"schemaless,omitempty"`

	// Joins maps a joined attribute name to its join instruction. The
	// join strategy per relation is decided by the outer query builder
	// before compilation.
	Joins map[string]Join `yaml:"joins,omitempty"`

	// Aggregate holds the aggregation directives. A non-empty Aggregate
	// switches compilation into aggregate mode.
	Aggregate Aggregate `yaml:"aggregate,omitempty"`
}

// Join is one join instruction attached to a joined attribute.
type Join struct {
	// Strategy selects how the join is realized.
	Strategy Strategy `yaml:"strategy"`

	// Populates lists the single-hop joins to expand.
	Populates []Populate `yaml:"populates"`
}

// Populate describes one single-hop join to a child entity.
type Populate struct {
	// Table is the child entity's physical table name.
	Table string `yaml:"table"`

	// Alias optionally renames the joined source to avoid colliding with
	// the primary table.
	Alias string `yaml:"alias,omitempty"`

	// ParentKey is the parent-side key name used to disambiguate the
	// projected child columns.
	ParentKey string `yaml:"parentKey"`
}

// Strategy is a join strategy code.
type Strategy int

const (
	// StrategyUnspecified is the zero value; such joins are ignored.
	StrategyUnspecified Strategy = iota

	// StrategyForeignKey inlines the child entity's columns into the
	// parent row via column aliasing. Expanded by the SELECT compiler.
	StrategyForeignKey

	// StrategyEdge traverses a graph edge. Resolved by the downstream
	// join/merge builder, not by the SELECT compiler.
	StrategyEdge
)

var strategyNames = map[string]Strategy{
	"foreignKey": StrategyForeignKey,
	"edge":       StrategyEdge,
}

// String returns the YAML spelling of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyForeignKey:
		return "foreignKey"
	case StrategyEdge:
		return "edge"
	default:
		return "unspecified"
	}
}

// UnmarshalYAML decodes a strategy from its string spelling.
func (s *Strategy) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	strategy, ok := strategyNames[name]
	if !ok {
		return fmt.Errorf("unknown join strategy %q", name)
	}
	*s = strategy
	return nil
}

// Aggregate holds the aggregation directives of a descriptor. All fields
// are ordered sequences; scalar YAML values are normalized to one-element
// sequences when unmarshalled.
type Aggregate struct {
	GroupBy ColumnList `yaml:"groupBy,omitempty"`
	Sum     ColumnList `yaml:"sum,omitempty"`
	Average ColumnList `yaml:"average,omitempty"`
	Min     ColumnList `yaml:"min,omitempty"`
	Max     ColumnList `yaml:"max,omitempty"`
}

// Active reports whether any aggregation directive is present. An active
// Aggregate short-circuits the plain projection path.
func (a Aggregate) Active() bool {
	return len(a.GroupBy) > 0 || a.HasCalculation()
}

// HasCalculation reports whether at least one calculating directive
// (sum, average, min, max) is present. GroupBy alone is not a valid
// aggregate query.
func (a Aggregate) HasCalculation() bool {
	return len(a.Sum) > 0 || len(a.Average) > 0 || len(a.Min) > 0 || len(a.Max) > 0
}

// ColumnList is an ordered sequence of column names. In YAML it accepts
// either a single scalar or a sequence; the scalar form normalizes to a
// one-element list at the boundary.
type ColumnList []string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (l *ColumnList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		*l = ColumnList{single}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*l = ColumnList(many)
		return nil
	default:
		return fmt.Errorf("column list must be a string or a sequence of strings")
	}
}

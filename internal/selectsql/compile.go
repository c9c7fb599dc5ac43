package selectsql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bearing-db/bearing/internal/dialect"
	"github.com/bearing-db/bearing/internal/queryir"
	"github.com/bearing-db/bearing/internal/schema"
)

// Options configure statement rendering.
type Options struct {
	// Delimiter is the identifier escape delimiter.
	// Defaults to dialect.DefaultDelimiter.
	Delimiter string

	// CastMode forces sum/average expressions to coerce to
	// floating-point output regardless of column storage type.
	CastMode bool

	// IdentityColumn is the reserved pseudo-column projected for
	// attributes named "id". Defaults to dialect.DefaultIdentityColumn;
	// other dialects may use a different reserved name.
	IdentityColumn string
}

func (o Options) withDefaults() Options {
	if o.Delimiter == "" {
		o.Delimiter = dialect.DefaultDelimiter
	}
	if o.IdentityColumn == "" {
		o.IdentityColumn = dialect.DefaultIdentityColumn
	}
	return o
}

// Compiler compiles query descriptors into SELECT clauses.
// A Compiler is stateless apart from its options and safe for
// concurrent use.
type Compiler struct {
	opts Options
}

// NewCompiler creates a Compiler with the given options. Zero-value
// fields fall back to the dialect defaults.
func NewCompiler(opts Options) *Compiler {
	return &Compiler{opts: opts.withDefaults()}
}

// Result holds the compiled output of one Compile call. It is
// constructed once per call and not mutated afterwards.
type Result struct {
	// Statements is the ordered clause sequence. This compiler
	// contributes exactly one element, the SELECT+FROM text; sibling
	// clause builders append after it.
	Statements []string `json:"statements"`

	// Selection is the resolved attribute list the projection was built
	// from. Downstream clause builders must treat it, not the
	// descriptor's Select field, as the applied selection.
	Selection []string `json:"selection,omitempty"`

	// SelectionResolved is true when projection mode ran and Selection
	// is authoritative. Aggregate mode leaves the selection untouched.
	SelectionResolved bool `json:"selection_resolved"`
}

// projection is one resolved SELECT entry prior to rendering.
type projection struct {
	// Source is the table the column is read from: the target table, a
	// joined child table, or "$alias" when the populate carries an alias.
	Source string

	// Column is the physical column name, or dialect.Wildcard.
	Column string

	// Alias is the parent-side join key for joined columns; empty for
	// primary-table entries.
	Alias string
}

// Compile compiles one query descriptor against the schema.
//
// The schema context is resolved once, then aggregation is attempted
// first; only a descriptor with no aggregation directives falls through
// to projection. The two modes are mutually exclusive, with no retry or
// fallback between them. The descriptor is never mutated.
func (c *Compiler) Compile(s schema.Schema, q queryir.Descriptor) (*Result, error) {
	identity, err := s.IdentityOf(q.Table)
	if err != nil {
		return nil, &CompileError{
			Code:    ErrCodeSchemaMismatch,
			Message: "target table does not resolve to a schema entity",
			Table:   q.Table,
			Err:     err,
		}
	}

	if q.Aggregate.Active() {
		stmt, err := c.compileAggregate(q)
		if err != nil {
			return nil, err
		}
		return &Result{Statements: []string{stmt}}, nil
	}

	return c.compileProjection(s, s[identity], q)
}

// compileAggregate renders the grouped/aggregated SELECT clause.
// Aggregation targets the original table alone and never expands joins.
func (c *Compiler) compileAggregate(q queryir.Descriptor) (string, error) {
	agg := q.Aggregate
	if !agg.HasCalculation() {
		return "", &CompileError{
			Code:    ErrCodeInvalidAggregation,
			Message: "aggregation requested without a calculation",
			Table:   q.Table,
		}
	}

	// Fragment order is fixed: groupBy, SUM, avg, MAX, MIN.
	fragments := make([]string, 0, len(agg.GroupBy)+len(agg.Sum)+len(agg.Average)+len(agg.Max)+len(agg.Min))

	for _, col := range agg.GroupBy {
		fragments = append(fragments, c.escape(col))
	}
	for _, col := range agg.Sum {
		expr := fmt.Sprintf("SUM(%s)", c.escape(col))
		if c.opts.CastMode {
			expr += ".asFloat()"
		}
		fragments = append(fragments, expr+" AS "+col)
	}
	for _, col := range agg.Average {
		// The column is cast to float inside the aggregate so division
		// does not truncate to integer.
		expr := fmt.Sprintf("avg(%s.asFloat())", c.escape(col))
		if c.opts.CastMode {
			expr += ".asFloat()"
		}
		fragments = append(fragments, expr+" AS "+col)
	}
	for _, col := range agg.Max {
		fragments = append(fragments, fmt.Sprintf("MAX(%s) AS %s", c.escape(col), col))
	}
	for _, col := range agg.Min {
		fragments = append(fragments, fmt.Sprintf("MIN(%s) AS %s", c.escape(col), col))
	}

	return c.assemble(fragments, q.Table), nil
}

// compileProjection resolves the projection list and renders the plain
// SELECT clause.
func (c *Compiler) compileProjection(s schema.Schema, target schema.Entity, q queryir.Descriptor) (*Result, error) {
	// Wildcard mode depends on the original explicit selection, so it is
	// decided before the selection is resolved.
	wildcard := q.Schemaless && len(q.Select) == 0

	attrs := q.Select
	if len(attrs) == 0 {
		attrs = target.AttributeNames()
	}
	attrs = union(attrs, q.FetchPlan)

	var entries []projection
	for _, name := range attrs {
		// A missing definition is treated as an empty one: raw physical
		// columns pass through under their own name.
		attr, ok := target.Attribute(name)
		if ok && attr.Collection {
			continue
		}
		entries = append(entries, projection{
			Source: q.Table,
			Column: c.columnFor(name, attr),
		})
	}

	if wildcard {
		entries = append(entries, projection{Source: q.Table, Column: dialect.Wildcard})
	}

	joined, err := c.expandJoins(s, q)
	if err != nil {
		return nil, err
	}
	entries = append(entries, joined...)

	fragments := make([]string, 0, len(entries))
	for _, entry := range entries {
		fragments = append(fragments, c.render(entry))
	}

	return &Result{
		Statements:        []string{c.assemble(fragments, q.Table)},
		Selection:         attrs,
		SelectionResolved: true,
	}, nil
}

// expandJoins produces projection entries for every inline foreign-key
// join instruction. Other strategies are handled by the downstream
// join/merge builder and skipped here. Join keys are visited in sorted
// order for deterministic output.
func (c *Compiler) expandJoins(s schema.Schema, q queryir.Descriptor) ([]projection, error) {
	if len(q.Joins) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(q.Joins))
	for key := range q.Joins {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var entries []projection
	for _, key := range keys {
		join := q.Joins[key]
		if join.Strategy != queryir.StrategyForeignKey {
			continue
		}

		for _, pop := range join.Populates {
			identity, err := s.IdentityOf(pop.Table)
			if err != nil {
				return nil, &CompileError{
					Code:    ErrCodeSchemaMismatch,
					Message: fmt.Sprintf("joined table for %q does not resolve to a schema entity", key),
					Table:   pop.Table,
					Err:     err,
				}
			}

			// An aliased populate reads from "$alias" so the joined
			// source cannot collide with the primary table name.
			source := pop.Table
			if pop.Alias != "" {
				source = "$" + pop.Alias
			}

			child := s[identity]
			for _, attr := range child.Attributes {
				if attr.Collection {
					continue
				}
				entries = append(entries, projection{
					Source: source,
					Column: c.columnFor(attr.Name, attr),
					Alias:  pop.ParentKey,
				})
			}
		}
	}

	return entries, nil
}

// columnFor computes the physical column projected for an attribute.
// An attribute literally named "id" maps to the reserved identity
// pseudo-column regardless of any declared physical column.
func (c *Compiler) columnFor(name string, attr schema.Attribute) string {
	if name == "id" {
		return c.opts.IdentityColumn
	}
	if attr.Column != "" {
		return attr.Column
	}
	return name
}

// render produces the textual fragment for one projection entry.
// Joined entries carry a composite alias (parentKey___column) that row
// unmarshalling code splits back into parent key and nested field.
func (c *Compiler) render(entry projection) string {
	if entry.Column == dialect.Wildcard {
		return dialect.Wildcard
	}
	if entry.Alias != "" {
		composite := entry.Alias + dialect.AliasSeparator + entry.Column
		return c.escape(entry.Column) + " AS " + c.escape(composite)
	}
	return c.escape(entry.Column)
}

// assemble joins the rendered fragments and appends the FROM clause.
// The trailing space is load-bearing: sibling clause builders
// concatenate directly after this statement.
func (c *Compiler) assemble(fragments []string, table string) string {
	return "SELECT " + strings.Join(fragments, ", ") + " FROM " + c.escape(table) + " "
}

func (c *Compiler) escape(name string) string {
	return dialect.Escape(name, c.opts.Delimiter)
}

// union appends the items of extra not already present in base,
// preserving order of both lists.
func union(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}

	seen := make(map[string]struct{}, len(base))
	for _, name := range base {
		seen[name] = struct{}{}
	}

	merged := make([]string, len(base), len(base)+len(extra))
	copy(merged, base)
	for _, name := range extra {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		merged = append(merged, name)
	}
	return merged
}

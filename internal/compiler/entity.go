// Package compiler turns CUE entity definitions into the schema catalog
// consumed by the statement compilers.
//
// Entities are declared under the top-level "entity" struct:
//
//	entity: order: {
//		table: "orders"
//		attributes: [
//			{name: "id"},
//			{name: "status"},
//			{name: "amount", column: "total_amount"},
//			{name: "items", collection: true},
//		]
//	}
//
// Attributes are a CUE list, not a struct, because declaration order is
// significant for projection output.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/bearing-db/bearing/internal/schema"
)

// CompileEntity parses a CUE value into a schema entity. The entity's
// identity is taken from the struct label (the path selector). Uses the
// CUE SDK's Go API directly (not CLI subprocess).
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`entity: order: { table: "orders" }`)
//	identity, entity, err := CompileEntity(v.LookupPath(cue.ParsePath("entity.order")))
func CompileEntity(v cue.Value) (string, schema.Entity, error) {
	var entity schema.Entity

	if err := v.Err(); err != nil {
		return "", entity, formatCUEError(err)
	}

	// Identity comes from the struct label.
	var identity string
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		identity = labels[len(labels)-1].String()
	}

	// Parse table (required)
	tableVal := v.LookupPath(cue.ParsePath("table"))
	if !tableVal.Exists() {
		return identity, entity, &CompileError{
			Field:   "table",
			Message: "table is required",
			Pos:     v.Pos(),
		}
	}
	table, err := tableVal.String()
	if err != nil {
		return identity, entity, formatCUEError(err)
	}
	entity.Table = table

	// Parse attributes (optional; schemaless entities may declare none)
	entity.Attributes, err = parseAttributes(v, identity)
	if err != nil {
		return identity, entity, err
	}

	return identity, entity, nil
}

// parseAttributes extracts the ordered attribute list from an entity.
func parseAttributes(v cue.Value, identity string) ([]schema.Attribute, error) {
	attrsVal := v.LookupPath(cue.ParsePath("attributes"))
	if !attrsVal.Exists() {
		return nil, nil
	}

	iter, err := attrsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var attrs []schema.Attribute
	for idx := 0; iter.Next(); idx++ {
		attrVal := iter.Value()

		nameVal := attrVal.LookupPath(cue.ParsePath("name"))
		if !nameVal.Exists() {
			return nil, &CompileError{
				Field:   fmt.Sprintf("entity.%s.attributes[%d].name", identity, idx),
				Message: "attribute name is required",
				Pos:     attrVal.Pos(),
			}
		}
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}

		attr := schema.Attribute{Name: name}

		columnVal := attrVal.LookupPath(cue.ParsePath("column"))
		if columnVal.Exists() {
			column, err := columnVal.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			attr.Column = column
		}

		collectionVal := attrVal.LookupPath(cue.ParsePath("collection"))
		if collectionVal.Exists() {
			collection, err := collectionVal.Bool()
			if err != nil {
				return nil, formatCUEError(err)
			}
			attr.Collection = collection
		}

		attrs = append(attrs, attr)
	}

	return attrs, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

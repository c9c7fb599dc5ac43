package selectsql

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes compilation errors.
type ErrorCode string

const (
	// ErrCodeSchemaMismatch indicates a physical table name (target or
	// joined child) that no schema entity answers to.
	ErrCodeSchemaMismatch ErrorCode = "SCHEMA_MISMATCH"

	// ErrCodeInvalidAggregation indicates groupBy without any
	// accompanying calculation directive.
	ErrCodeInvalidAggregation ErrorCode = "INVALID_AGGREGATION"
)

// CompileError represents a fatal compilation error. Both error kinds
// are programming/configuration errors, not transient conditions; there
// is no local recovery or retry.
type CompileError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Table is the physical table name involved, when known.
	Table string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("%s: %s (table=%s)", e.Code, e.Message, e.Table)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// IsSchemaMismatch reports whether err is a SCHEMA_MISMATCH compile
// error. Uses errors.As to handle wrapped errors.
func IsSchemaMismatch(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce) && ce.Code == ErrCodeSchemaMismatch
}

// IsInvalidAggregation reports whether err is an INVALID_AGGREGATION
// compile error. Uses errors.As to handle wrapped errors.
func IsInvalidAggregation(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce) && ce.Code == ErrCodeInvalidAggregation
}

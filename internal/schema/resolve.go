package schema

import "fmt"

// ResolveError indicates a physical table name that no registered entity
// answers to. It signals a caller/schema mismatch and is not recoverable
// by the compiler.
type ResolveError struct {
	// Table is the physical table name that failed to resolve.
	Table string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("no entity registered for table %q", e.Table)
}

// IdentityOf resolves a physical table name to the identity its entity
// is registered under. Returns a *ResolveError when no entity matches.
//
// The Schema invariant (enforced by Validate) guarantees at most one
// entity per physical table name.
func (s Schema) IdentityOf(table string) (string, error) {
	for identity, entity := range s {
		if entity.Table == table {
			return identity, nil
		}
	}
	return "", &ResolveError{Table: table}
}

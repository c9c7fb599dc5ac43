package schema

import (
	"fmt"
	"sort"
)

// ValidationError describes one schema consistency violation.
type ValidationError struct {
	// Identity names the entity the violation was found on.
	Identity string `json:"identity"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Identity, e.Message)
}

// Validate checks the Schema invariants:
//
//  1. Every entity declares a physical table name.
//  2. Physical table names are unique across entities, so lookups by
//     table name resolve to exactly one identity.
//  3. Attribute names are unique within an entity.
//
// Violations are collected, not fail-fast; identities are visited in
// sorted order so output is deterministic.
func (s Schema) Validate() []ValidationError {
	var errs []ValidationError

	identities := make([]string, 0, len(s))
	for identity := range s {
		identities = append(identities, identity)
	}
	sort.Strings(identities)

	tables := make(map[string]string) // table name → first identity seen
	for _, identity := range identities {
		entity := s[identity]

		if entity.Table == "" {
			errs = append(errs, ValidationError{
				Identity: identity,
				Message:  "entity has no physical table name",
			})
		} else if first, ok := tables[entity.Table]; ok {
			errs = append(errs, ValidationError{
				Identity: identity,
				Message:  fmt.Sprintf("table %q already registered by entity %q", entity.Table, first),
			})
		} else {
			tables[entity.Table] = identity
		}

		seen := make(map[string]struct{}, len(entity.Attributes))
		for _, attr := range entity.Attributes {
			if attr.Name == "" {
				errs = append(errs, ValidationError{
					Identity: identity,
					Message:  "attribute with empty name",
				})
				continue
			}
			if _, ok := seen[attr.Name]; ok {
				errs = append(errs, ValidationError{
					Identity: identity,
					Message:  fmt.Sprintf("duplicate attribute %q", attr.Name),
				})
				continue
			}
			seen[attr.Name] = struct{}{}
		}
	}

	return errs
}

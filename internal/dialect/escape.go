// Package dialect holds the lexical conventions of the target query
// language: identifier delimiting, the reserved identity pseudo-column,
// the wildcard projection marker, and the alias separator used to round
// trip joined columns through a flat result row.
package dialect

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultDelimiter wraps identifiers in double quotes.
	DefaultDelimiter = `"`

	// DefaultIdentityColumn is the reserved pseudo-column holding a
	// record's identity. Attributes named "id" project this column
	// instead of a physical one.
	DefaultIdentityColumn = "@rid"

	// Wildcard requests every physical column of a row. It is rendered
	// bare, never delimited.
	Wildcard = "*"

	// AliasSeparator joins a parent-side join key with a child column
	// in a composite alias ("customer___name"). Row unmarshalling code
	// downstream splits on it to rebuild nested records.
	AliasSeparator = "___"
)

// Escape returns name wrapped in the given delimiter, with embedded
// delimiters doubled. Strings are NFC normalized first so the same
// identifier always escapes to the same bytes regardless of how the
// caller composed it.
//
// Escape is idempotent: a name that is already delimited is returned
// unchanged. Case and character order are never altered.
func Escape(name, delimiter string) string {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	normalized := norm.NFC.String(name)
	if isDelimited(normalized, delimiter) {
		return normalized
	}

	escaped := strings.ReplaceAll(normalized, delimiter, delimiter+delimiter)
	return delimiter + escaped + delimiter
}

// isDelimited reports whether s is already wrapped in the delimiter.
func isDelimited(s, delimiter string) bool {
	return len(s) >= 2*len(delimiter) &&
		strings.HasPrefix(s, delimiter) &&
		strings.HasSuffix(s, delimiter)
}

package schema

import (
	"strings"
)

// NormalizeIdentifierName returns the canonical form used for every table and column
// name comparison. Catalogs report names uppercase while design documents are mixed-case,
// so both sides go through this function and nothing else.
func NormalizeIdentifierName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// SameIdentifier reports whether two names refer to the same object.
func SameIdentifier(a, b string) bool {
	return NormalizeIdentifierName(a) == NormalizeIdentifierName(b)
}

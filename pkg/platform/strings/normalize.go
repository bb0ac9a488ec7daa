package strings

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeNameOrTitle trims the value and collapses internal whitespace runs to a
// single space. Blank input yields "".
//
// Example:
//
//	NormalizeNameOrTitle("  Master   Commander ")
//	// Returns: "Master Commander"
func NormalizeNameOrTitle(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// FoldKey returns the case-insensitive comparison key for a name, rank or title.
// Two values are considered equal when their keys are equal.
func FoldKey(value string) string {
	// cases.Caser is stateful; build one per call.
	return cases.Fold().String(NormalizeNameOrTitle(value))
}

// EqualFold reports whether a and b normalize to the same key.
func EqualFold(a, b string) bool {
	return FoldKey(a) == FoldKey(b)
}

package search

import "strings"

// Predicate decides whether a document's metadata admits it into the
// candidate set.
type Predicate func(metadata string) bool

// CompileFilter compiles a filter expression into a Predicate.
//
// An empty expression compiles to the always-true predicate. A non-empty
// expression matches by case-sensitive substring containment within the
// document's metadata string.
func CompileFilter(expression string) Predicate {
	if expression == "" {
		return func(string) bool { return true }
	}
	return func(metadata string) bool {
		return strings.Contains(metadata, expression)
	}
}

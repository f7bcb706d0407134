// Package search defines the JMESPath search callback contract that
// grant evaluation invokes to run a grant's query, plus the default
// production implementation and a deterministic mock for tests: one
// interface, one real implementation wrapping a third-party library,
// one hand-rolled stand-in for tests.
package search

// Searcher runs a JMESPath expression against data and returns the
// decoded JSON result, or an error if the expression is malformed or
// the search itself fails. Implementations must be safe to call
// concurrently: the workflow engine may invoke Search for many grants
// at once.
type Searcher interface {
	Search(expression string, data any) (any, error)
}

// Func adapts a plain function to the Searcher interface.
type Func func(expression string, data any) (any, error)

// Search implements Searcher.
func (f Func) Search(expression string, data any) (any, error) {
	return f(expression, data)
}

package search

import (
	"fmt"
	"sync"
)

// Mock is a Searcher for tests: it returns a canned result (or error)
// per expression, falling back to Default/DefaultErr when the
// expression has no entry. It never actually parses JMESPath, so tests
// using it are making assertions about call wiring, not query
// semantics (exercise JMESPath itself, against JMESPath, in
// internal/workflow's tests).
type Mock struct {
	Results    map[string]any
	Errs       map[string]error
	Default    any
	DefaultErr error
	Calls      []MockCall

	mu sync.Mutex
}

// MockCall records one invocation of Mock.Search, for assertions.
type MockCall struct {
	Expression string
	Data       any
}

// Search implements Searcher.
func (m *Mock) Search(expression string, data any) (any, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Expression: expression, Data: data})
	m.mu.Unlock()
	if err, ok := m.Errs[expression]; ok {
		return nil, err
	}
	if v, ok := m.Results[expression]; ok {
		return v, nil
	}
	if m.DefaultErr != nil {
		return nil, m.DefaultErr
	}
	return m.Default, nil
}

// MockSearchError is a stand-in for jmespath's own error type, used by
// tests that don't want a real parse failure to manufacture one.
type MockSearchError struct {
	Expression string
}

func (e MockSearchError) Error() string {
	return fmt.Sprintf("mock jmespath error evaluating %q", e.Expression)
}

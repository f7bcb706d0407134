package search

import jmespath "github.com/jmespath/go-jmespath"

// JMESPath is the default, production Searcher: it delegates directly
// to github.com/jmespath/go-jmespath, the reference JMESPath
// implementation for Go (also used by the AWS SDK). Hosts that need
// custom JMESPath functions should implement their own Searcher rather
// than extend this one; the Searcher interface exists precisely so
// grant queries are never hard-wired to one search engine or function
// set.
type JMESPath struct{}

// NewJMESPath returns the default Searcher.
func NewJMESPath() JMESPath {
	return JMESPath{}
}

// Search implements Searcher.
func (JMESPath) Search(expression string, data any) (any, error) {
	return jmespath.Search(expression, data)
}

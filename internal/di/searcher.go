// Package di wires the one pluggable collaborator the workflow engine
// needs, a search.Searcher: an environment variable picks the
// implementation, defaulting to the real one.
package di

import (
	"os"

	"github.com/authzee/authzee-go/internal/search"
)

// ProvideSearcher returns the Searcher this process should use,
// selected by AUTHZEE_SEARCH. "mock" is for smoke-testing a deployment
// without depending on JMESPath semantics; anything else (including
// unset) returns the real JMESPath implementation.
func ProvideSearcher() search.Searcher {
	switch os.Getenv("AUTHZEE_SEARCH") {
	case "mock":
		return &search.Mock{Default: true}
	default:
		return search.NewJMESPath()
	}
}

// Package policy implements the grant evaluator: a small state
// machine that combines an action-gate check, an optional context
// validation, and a JMESPath query compared against a configured
// equality value, to decide whether one grant is applicable to one
// request.
//
// Evaluate is a single entry point returning a typed decision, kept
// narrow and side-effect free: evaluating one grant never mutates state
// visible to the evaluation of another.
package policy

import (
	"github.com/authzee/authzee-go/internal/authzee"
	"github.com/authzee/authzee-go/internal/search"
	"github.com/authzee/authzee-go/internal/validate"
)

// Decision is the outcome of evaluating one grant against one request.
type Decision int

const (
	NotApplicable Decision = iota
	Applicable
)

func (d Decision) String() string {
	if d == Applicable {
		return "applicable"
	}
	return "not_applicable"
}

// Result is the full return value of one evaluation: the decision, any
// errors raised along the way (Context and/or JMESPath, the only two
// kinds a single grant evaluation can produce), and whether a critical
// error occurred, which the caller must treat as a halt signal.
type Result struct {
	Decision Decision
	Context  []authzee.ContextError
	JMESPath []authzee.JMESPathError
	Halt     bool
}

// Evaluate runs the grant-applicability algorithm for one (request,
// grant) pair.
func Evaluate(req authzee.Request, grant authzee.Grant, searcher search.Searcher) Result {
	// 1. Action gate.
	if len(grant.Actions) > 0 && !containsString(grant.Actions, req.Action) {
		return Result{Decision: NotApplicable}
	}

	// 2. Context-validation mode.
	cv := req.ContextValidation
	if cv == authzee.ModeGrant {
		cv = grant.ContextValidation
	}

	// 3. Context check.
	if cv != authzee.ModeNone {
		if err := validate.Validate(grant.ContextSchema, req.Context); err != nil {
			result := Result{Decision: NotApplicable}
			switch cv {
			case authzee.ModeError:
				result.Context = []authzee.ContextError{{
					Message:  err.Error(),
					Critical: false,
					Grant:    grant,
				}}
			case authzee.ModeCritical:
				result.Context = []authzee.ContextError{{
					Message:  err.Error(),
					Critical: true,
					Grant:    grant,
				}}
				result.Halt = true
			}
			// ModeValidate: silent, nothing to append.
			return result
		}
	}

	// 5. Query-validation mode.
	qv := req.QueryValidation
	if qv == authzee.ModeGrant {
		qv = grant.QueryValidation
	}

	// 6. Query.
	queryInput := map[string]any{
		"grant":   authzee.MustJSON(grant),
		"request": authzee.MustJSON(req),
	}
	value, err := searcher.Search(grant.Query, queryInput)
	if err != nil {
		result := Result{Decision: NotApplicable}
		switch qv {
		case authzee.ModeError:
			result.JMESPath = []authzee.JMESPathError{{
				Message:  err.Error(),
				Critical: false,
				Grant:    grant,
			}}
		case authzee.ModeCritical:
			result.JMESPath = []authzee.JMESPathError{{
				Message:  err.Error(),
				Critical: true,
				Grant:    grant,
			}}
			result.Halt = true
		}
		// ModeValidate: silent.
		return result
	}

	// 7. Equality.
	if authzee.JSONEqual(value, grant.Equality) {
		return Result{Decision: Applicable}
	}
	return Result{Decision: NotApplicable}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

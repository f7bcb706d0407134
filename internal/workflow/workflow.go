// Package workflow sequences definition validation, schema generation,
// grant/request validation, and per-grant policy evaluation into the
// Audit and Authorize workflows, handling critical-error short-circuits
// and assembling the final response.
package workflow

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/authzee/authzee-go/internal/authzee"
	"github.com/authzee/authzee-go/internal/definition"
	"github.com/authzee/authzee-go/internal/policy"
	"github.com/authzee/authzee-go/internal/schema"
	"github.com/authzee/authzee-go/internal/search"
	"github.com/authzee/authzee-go/internal/validate"
)

// Options configures one Engine. The zero value (serial evaluation) is
// always correct; Concurrency only changes how many grants are
// evaluated at once, never the result.
type Options struct {
	// Concurrency is the maximum number of grants evaluated at once.
	// Values <= 1 evaluate serially.
	Concurrency int
}

// Engine runs the Audit and Authorize workflows against one Searcher.
// An Engine holds no per-call state and is safe for concurrent use
// across independent workflow invocations.
type Engine struct {
	Searcher search.Searcher
	Options  Options
}

// New returns an Engine using the given Searcher for query evaluation
// and serial grant evaluation.
func New(searcher search.Searcher) *Engine {
	return &Engine{Searcher: searcher}
}

// WithOptions returns a copy of the Engine with opts applied.
func (e *Engine) WithOptions(opts Options) *Engine {
	clone := *e
	clone.Options = opts
	return &clone
}

// prelude runs definition validation, schema generation, and
// grant/request validation in sequence. It returns the generated
// schemas (nil if definition validation halted before they could be
// generated), the errors accumulated so far, and whether the workflow
// must halt before any grant is evaluated.
func (e *Engine) prelude(
	identityDefs []authzee.IdentityDef,
	resourceDefs []authzee.ResourceDef,
	grants []authzee.Grant,
	req authzee.Request,
) (*schema.Schemas, authzee.ErrorBundle, bool) {
	errs := authzee.NewErrorBundle()

	defErrs := definition.Validate(identityDefs, resourceDefs)
	if len(defErrs) > 0 {
		errs.Definition = defErrs
		return nil, errs, true
	}

	schemas := schema.Generate(identityDefs, resourceDefs)

	grantErrs := make([]authzee.GrantError, 0)
	for _, g := range grants {
		if err := validate.Validate(schemas.Grant, g); err != nil {
			grantErrs = append(grantErrs, authzee.GrantError{
				Message:  "the grant is not valid: " + err.Error(),
				Critical: true,
				Grant:    authzee.MustJSON(g),
			})
		}
	}
	errs.Grant = grantErrs
	if len(grantErrs) > 0 {
		return schemas, errs, true
	}

	if err := validate.Validate(schemas.Request, req); err != nil {
		errs.Request = []authzee.RequestError{{
			Message:  "the request is not valid for the request schema: " + err.Error(),
			Critical: true,
		}}
		return schemas, errs, true
	}

	return schemas, errs, false
}

// evaluateAll evaluates every grant against req, preserving grants'
// input order in the returned slice regardless of whether evaluation
// ran serially or concurrently.
func (e *Engine) evaluateAll(ctx context.Context, grants []authzee.Grant, req authzee.Request) []policy.Result {
	results := make([]policy.Result, len(grants))

	if e.Options.Concurrency <= 1 || len(grants) <= 1 {
		for i, g := range grants {
			results[i] = policy.Evaluate(req, g, e.Searcher)
		}
		return results
	}

	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(e.Options.Concurrency)
	for i := range grants {
		i := i
		group.Go(func() error {
			results[i] = policy.Evaluate(req, grants[i], e.Searcher)
			return nil
		})
	}
	_ = group.Wait() // policy.Evaluate never returns an error; nothing to propagate.

	return results
}

// Audit collects every grant applicable to req, in grant-input order.
func (e *Engine) Audit(
	ctx context.Context,
	identityDefs []authzee.IdentityDef,
	resourceDefs []authzee.ResourceDef,
	grants []authzee.Grant,
	req authzee.Request,
) authzee.AuditResponse {
	_, errs, halted := e.prelude(identityDefs, resourceDefs, grants, req)
	if halted {
		return authzee.AuditResponse{Completed: false, Grants: []authzee.Grant{}, Errors: errs}
	}

	results := e.evaluateAll(ctx, grants, req)
	applicable := make([]authzee.Grant, 0)
	for i, r := range results {
		errs.Context = append(errs.Context, r.Context...)
		errs.JMESPath = append(errs.JMESPath, r.JMESPath...)
		if r.Halt {
			return authzee.AuditResponse{Completed: false, Grants: applicable, Errors: errs}
		}
		if r.Decision == policy.Applicable {
			applicable = append(applicable, grants[i])
		}
	}

	return authzee.AuditResponse{Completed: true, Grants: applicable, Errors: errs}
}

const (
	msgDenyApplicable = "A deny grant is applicable; the request is not authorized."
	msgAllowApplicable = "An allow grant is applicable to the request, and no deny grants are applicable; " +
		"the request is authorized."
	msgImplicitDeny = "No applicable grants; implicit deny."
	msgHalted       = "Workflow halted on critical error."
)

// Authorize scans deny grants, then allow grants, both in input order,
// stopping at the first applicable grant in each pass.
func (e *Engine) Authorize(
	ctx context.Context,
	identityDefs []authzee.IdentityDef,
	resourceDefs []authzee.ResourceDef,
	grants []authzee.Grant,
	req authzee.Request,
) authzee.AuthorizeResponse {
	_, errs, halted := e.prelude(identityDefs, resourceDefs, grants, req)
	if halted {
		return authzee.AuthorizeResponse{
			Authorized: false,
			Completed:  false,
			Grant:      nil,
			Message:    msgHalted,
			Errors:     errs,
		}
	}

	results := e.evaluateAll(ctx, grants, req)

	for i, g := range grants {
		if g.Effect != authzee.EffectDeny {
			continue
		}
		r := results[i]
		errs.Context = append(errs.Context, r.Context...)
		errs.JMESPath = append(errs.JMESPath, r.JMESPath...)
		if r.Halt {
			return authzee.AuthorizeResponse{Authorized: false, Completed: false, Message: msgHalted, Errors: errs}
		}
		if r.Decision == policy.Applicable {
			deny := g
			return authzee.AuthorizeResponse{
				Authorized: false,
				Completed:  true,
				Grant:      &deny,
				Message:    msgDenyApplicable,
				Errors:     errs,
			}
		}
	}

	for i, g := range grants {
		if g.Effect != authzee.EffectAllow {
			continue
		}
		r := results[i]
		errs.Context = append(errs.Context, r.Context...)
		errs.JMESPath = append(errs.JMESPath, r.JMESPath...)
		if r.Halt {
			return authzee.AuthorizeResponse{Authorized: false, Completed: false, Message: msgHalted, Errors: errs}
		}
		if r.Decision == policy.Applicable {
			allow := g
			return authzee.AuthorizeResponse{
				Authorized: true,
				Completed:  true,
				Grant:      &allow,
				Message:    msgAllowApplicable,
				Errors:     errs,
			}
		}
	}

	return authzee.AuthorizeResponse{
		Authorized: false,
		Completed:  true,
		Grant:      nil,
		Message:    msgImplicitDeny,
		Errors:     errs,
	}
}

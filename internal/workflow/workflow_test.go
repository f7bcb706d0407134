package workflow

import (
	"context"
	"testing"

	"github.com/authzee/authzee-go/internal/authzee"
	"github.com/authzee/authzee-go/internal/search"
)

func balloonDefs() ([]authzee.IdentityDef, []authzee.ResourceDef) {
	identityDefs := []authzee.IdentityDef{
		{
			IdentityType: "User",
			Schema: map[string]any{
				"type":       "object",
				"required":   []string{"role"},
				"properties": map[string]any{"role": map[string]any{"type": "string"}},
			},
		},
	}
	resourceDefs := []authzee.ResourceDef{
		{
			ResourceType: "Balloon",
			Actions:      []string{"pop", "inflate"},
			Schema:       map[string]any{"type": "object"},
			ParentTypes:  []string{},
			ChildTypes:   []string{},
		},
	}
	return identityDefs, resourceDefs
}

func adminPopRequest() authzee.Request {
	return authzee.Request{
		Identities:        map[string][]map[string]any{"User": {{"role": "admin"}}},
		ResourceType:      "Balloon",
		Action:            "pop",
		Resource:          map[string]any{},
		Parents:           map[string][]map[string]any{},
		Children:          map[string][]map[string]any{},
		Context:           map[string]any{},
		QueryValidation:   authzee.ModeGrant,
		ContextValidation: authzee.ModeGrant,
	}
}

// TestAuthorizeAdminPopAllow grounds S1: one allow grant matching an
// admin identity is authorized, and the response names that grant.
func TestAuthorizeAdminPopAllow(t *testing.T) {
	identityDefs, resourceDefs := balloonDefs()
	allowGrant := authzee.Grant{
		Effect:            authzee.EffectAllow,
		Actions:           []string{"pop"},
		Query:             "request.identities.User[0].role == 'admin'",
		QueryValidation:   authzee.ModeError,
		Equality:          true,
		Data:              map[string]any{},
		ContextSchema:     map[string]any{"type": "object"},
		ContextValidation: authzee.ModeNone,
	}

	engine := New(search.NewJMESPath())
	resp := engine.Authorize(context.Background(), identityDefs, resourceDefs, []authzee.Grant{allowGrant}, adminPopRequest())

	if !resp.Authorized || !resp.Completed {
		t.Fatalf("resp = %+v, want authorized and completed", resp)
	}
	if resp.Grant == nil || resp.Grant.Effect != authzee.EffectAllow {
		t.Fatalf("resp.Grant = %v, want the allow grant", resp.Grant)
	}
}

// TestAuthorizeDenyBeatsAllow grounds S2.
func TestAuthorizeDenyBeatsAllow(t *testing.T) {
	identityDefs, resourceDefs := balloonDefs()
	allowGrant := authzee.Grant{
		Effect:            authzee.EffectAllow,
		Actions:           []string{"pop"},
		Query:             "request.identities.User[0].role == 'admin'",
		QueryValidation:   authzee.ModeError,
		Equality:          true,
		Data:              map[string]any{},
		ContextSchema:     map[string]any{"type": "object"},
		ContextValidation: authzee.ModeNone,
	}
	denyGrant := authzee.Grant{
		Effect:            authzee.EffectDeny,
		Actions:           []string{},
		Query:             "request.resource.size == 'large'",
		QueryValidation:   authzee.ModeError,
		Equality:          true,
		Data:              map[string]any{},
		ContextSchema:     map[string]any{"type": "object"},
		ContextValidation: authzee.ModeNone,
	}

	req := adminPopRequest()
	req.Resource = map[string]any{"size": "large"}

	engine := New(search.NewJMESPath())
	resp := engine.Authorize(context.Background(), identityDefs, resourceDefs, []authzee.Grant{allowGrant, denyGrant}, req)

	if resp.Authorized {
		t.Fatalf("resp.Authorized = true, want false")
	}
	if resp.Grant == nil || resp.Grant.Effect != authzee.EffectDeny {
		t.Fatalf("resp.Grant = %v, want the deny grant", resp.Grant)
	}
}

// TestAuthorizeImplicitDeny grounds S3.
func TestAuthorizeImplicitDeny(t *testing.T) {
	identityDefs, resourceDefs := balloonDefs()
	allowGrant := authzee.Grant{
		Effect:            authzee.EffectAllow,
		Actions:           []string{"pop"},
		Query:             "request.identities.User[0].role == 'admin'",
		QueryValidation:   authzee.ModeError,
		Equality:          true,
		Data:              map[string]any{},
		ContextSchema:     map[string]any{"type": "object"},
		ContextValidation: authzee.ModeNone,
	}

	req := adminPopRequest()
	req.Identities = map[string][]map[string]any{"User": {{"role": "guest"}}}

	engine := New(search.NewJMESPath())
	resp := engine.Authorize(context.Background(), identityDefs, resourceDefs, []authzee.Grant{allowGrant}, req)

	if resp.Authorized {
		t.Fatalf("resp.Authorized = true, want false")
	}
	if resp.Grant != nil {
		t.Fatalf("resp.Grant = %v, want nil", resp.Grant)
	}
	if resp.Message != msgImplicitDeny {
		t.Fatalf("resp.Message = %q, want implicit-deny message", resp.Message)
	}
}

// TestAuthorizeCriticalJMESPathErrorHaltsWorkflow grounds S4.
func TestAuthorizeCriticalJMESPathErrorHaltsWorkflow(t *testing.T) {
	identityDefs, resourceDefs := balloonDefs()
	badGrant := authzee.Grant{
		Effect:            authzee.EffectAllow,
		Actions:           []string{"pop"},
		Query:             "nonexistent_fn(request)",
		QueryValidation:   authzee.ModeCritical,
		Equality:          true,
		Data:              map[string]any{},
		ContextSchema:     map[string]any{"type": "object"},
		ContextValidation: authzee.ModeNone,
	}

	engine := New(search.NewJMESPath())
	resp := engine.Authorize(context.Background(), identityDefs, resourceDefs, []authzee.Grant{badGrant}, adminPopRequest())

	if resp.Completed {
		t.Fatalf("resp.Completed = true, want false")
	}
	if len(resp.Errors.JMESPath) != 1 || !resp.Errors.JMESPath[0].Critical {
		t.Fatalf("resp.Errors.JMESPath = %+v, want one critical entry", resp.Errors.JMESPath)
	}
}

// TestAuditContextValidationErrorNonCritical grounds S5.
func TestAuditContextValidationErrorNonCritical(t *testing.T) {
	identityDefs, resourceDefs := balloonDefs()
	grant := authzee.Grant{
		Effect:          authzee.EffectAllow,
		Actions:         []string{"pop"},
		Query:           "request.identities.User[0].role == 'admin'",
		QueryValidation: authzee.ModeError,
		Equality:        true,
		Data:            map[string]any{},
		ContextSchema: map[string]any{
			"type":     "object",
			"required": []string{"request_source"},
		},
		ContextValidation: authzee.ModeError,
	}

	engine := New(search.NewJMESPath())
	resp := engine.Audit(context.Background(), identityDefs, resourceDefs, []authzee.Grant{grant}, adminPopRequest())

	if !resp.Completed {
		t.Fatalf("resp.Completed = false, want true")
	}
	if len(resp.Grants) != 0 {
		t.Fatalf("resp.Grants = %v, want none applicable", resp.Grants)
	}
	if len(resp.Errors.Context) != 1 || resp.Errors.Context[0].Critical {
		t.Fatalf("resp.Errors.Context = %+v, want one non-critical entry", resp.Errors.Context)
	}
}

// TestAuditHaltsOnInvalidDefinitions exercises the common prelude's
// definition-validation short-circuit: an unresolvable parent type
// halts before any grant runs.
func TestAuditHaltsOnInvalidDefinitions(t *testing.T) {
	resourceDefs := []authzee.ResourceDef{
		{ResourceType: "Balloon", Actions: []string{"pop"}, Schema: map[string]any{"type": "object"}, ParentTypes: []string{"Nonexistent"}, ChildTypes: []string{}},
	}

	engine := New(search.NewJMESPath())
	resp := engine.Audit(context.Background(), nil, resourceDefs, nil, authzee.Request{})

	if resp.Completed {
		t.Fatalf("resp.Completed = true, want false")
	}
	if len(resp.Errors.Definition) != 1 {
		t.Fatalf("resp.Errors.Definition = %v, want one entry", resp.Errors.Definition)
	}
}

// TestAuditConcurrentMatchesSerial checks that bounded-concurrency
// evaluation produces the same result as serial evaluation, using six
// grants with the same query and alternating deny/allow effects to
// exercise the errgroup path.
func TestAuditConcurrentMatchesSerial(t *testing.T) {
	identityDefs, resourceDefs := balloonDefs()

	grants := make([]authzee.Grant, 0, 6)
	for i := 0; i < 6; i++ {
		effect := authzee.EffectAllow
		if i%2 == 0 {
			effect = authzee.EffectDeny
		}
		grants = append(grants, authzee.Grant{
			Effect:            effect,
			Actions:           []string{"pop"},
			Query:             "request.identities.User[0].role == 'admin'",
			QueryValidation:   authzee.ModeError,
			Equality:          true,
			Data:              map[string]any{},
			ContextSchema:     map[string]any{"type": "object"},
			ContextValidation: authzee.ModeNone,
		})
	}

	serial := New(search.NewJMESPath())
	concurrent := New(search.NewJMESPath()).WithOptions(Options{Concurrency: 4})

	serialResp := serial.Audit(context.Background(), identityDefs, resourceDefs, grants, adminPopRequest())
	concurrentResp := concurrent.Audit(context.Background(), identityDefs, resourceDefs, grants, adminPopRequest())

	if len(serialResp.Grants) != len(concurrentResp.Grants) {
		t.Fatalf("serial found %d applicable grants, concurrent found %d", len(serialResp.Grants), len(concurrentResp.Grants))
	}
	for i := range serialResp.Grants {
		if serialResp.Grants[i].Effect != concurrentResp.Grants[i].Effect {
			t.Fatalf("grant order diverged at index %d: serial=%v concurrent=%v", i, serialResp.Grants[i], concurrentResp.Grants[i])
		}
	}
}

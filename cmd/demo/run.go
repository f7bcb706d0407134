package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/authzee/authzee-go/internal/authzee"
	"github.com/authzee/authzee-go/internal/search"
	"github.com/authzee/authzee-go/internal/workflow"
)

// scenario bundles one self-contained Authorize call: a balloon-pop
// walkthrough exercising one identity, one resource type, and its grants.
type scenario struct {
	name         string
	identityDefs []authzee.IdentityDef
	resourceDefs []authzee.ResourceDef
	grants       []authzee.Grant
	request      authzee.Request
}

func balloonUser() authzee.IdentityDef {
	return authzee.IdentityDef{
		IdentityType: "User",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":         map[string]any{"type": "string"},
				"role":       map[string]any{"type": "string"},
				"department": map[string]any{"type": "string"},
			},
			"required": []string{"id", "role", "department"},
		},
	}
}

func balloonResource() authzee.ResourceDef {
	return authzee.ResourceDef{
		ResourceType: "Balloon",
		Actions:      []string{"Balloon:Read", "inflate", "deflate", "pop", "tie"},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":    map[string]any{"type": "string"},
				"color": map[string]any{"type": "string"},
				"size":  map[string]any{"type": "string", "enum": []string{"small", "medium", "large"}},
			},
			"required": []string{"id", "color", "size"},
		},
		ParentTypes: []string{},
		ChildTypes:  []string{},
	}
}

func adminRequest(size string) authzee.Request {
	return authzee.Request{
		Identities: map[string][]map[string]any{
			"User": {{"id": "balloon_luvr", "role": "admin", "department": "eng"}},
		},
		ResourceType:      "Balloon",
		Action:            "pop",
		Resource:          map[string]any{"id": "b123", "color": "green", "size": size},
		Parents:           map[string][]map[string]any{},
		Children:          map[string][]map[string]any{},
		Context:           map[string]any{},
		QueryValidation:   authzee.ModeGrant,
		ContextValidation: authzee.ModeGrant,
	}
}

func allowAdminPopGrant() authzee.Grant {
	return authzee.Grant{
		Effect:            authzee.EffectAllow,
		Actions:           []string{"Balloon:Read", "pop"},
		Query:             "contains(request.identities.User[*].role, 'admin')",
		QueryValidation:   authzee.ModeValidate,
		Equality:          true,
		Data:              map[string]any{},
		ContextSchema:     map[string]any{"type": "object"},
		ContextValidation: authzee.ModeNone,
	}
}

func scenarios() []scenario {
	identityDefs := []authzee.IdentityDef{balloonUser()}
	resourceDefs := []authzee.ResourceDef{balloonResource()}

	denyLargeGrant := authzee.Grant{
		Effect:            authzee.EffectDeny,
		Actions:           []string{},
		Query:             "request.resource.size",
		QueryValidation:   authzee.ModeError,
		Equality:          "large",
		Data:              map[string]any{},
		ContextSchema:     map[string]any{"type": "object"},
		ContextValidation: authzee.ModeNone,
	}

	criticalQueryGrant := allowAdminPopGrant()
	criticalQueryGrant.Query = "nonexistent_fn(request)"
	criticalQueryGrant.QueryValidation = authzee.ModeCritical

	contextErrorGrant := allowAdminPopGrant()
	contextErrorGrant.ContextSchema = map[string]any{
		"type":     "object",
		"required": []string{"request_source"},
	}
	contextErrorGrant.ContextValidation = authzee.ModeError

	return []scenario{
		{
			name:         "S1 admin-pop allow",
			identityDefs: identityDefs,
			resourceDefs: resourceDefs,
			grants:       []authzee.Grant{allowAdminPopGrant()},
			request:      adminRequest("medium"),
		},
		{
			name:         "S2 deny beats allow",
			identityDefs: identityDefs,
			resourceDefs: resourceDefs,
			grants:       []authzee.Grant{allowAdminPopGrant(), denyLargeGrant},
			request:      adminRequest("large"),
		},
		{
			name:         "S3 implicit deny",
			identityDefs: identityDefs,
			resourceDefs: resourceDefs,
			grants:       []authzee.Grant{allowAdminPopGrant()},
			request: func() authzee.Request {
				r := adminRequest("medium")
				r.Identities = map[string][]map[string]any{
					"User": {{"id": "guest1", "role": "guest", "department": "eng"}},
				}
				return r
			}(),
		},
		{
			name:         "S4 critical JMESPath error halts",
			identityDefs: identityDefs,
			resourceDefs: resourceDefs,
			grants:       []authzee.Grant{criticalQueryGrant},
			request:      adminRequest("medium"),
		},
		{
			name:         "S5 non-critical context validation error",
			identityDefs: identityDefs,
			resourceDefs: resourceDefs,
			grants:       []authzee.Grant{contextErrorGrant},
			request:      adminRequest("medium"),
		},
	}
}

// Run executes every scenario and prints the Authorize outcome.
func Run() {
	engine := workflow.New(search.NewJMESPath())

	for _, s := range scenarios() {
		resp := engine.Authorize(context.Background(), s.identityDefs, s.resourceDefs, s.grants, s.request)
		raw, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			fmt.Printf("%s: marshal error: %v\n", s.name, err)
			continue
		}
		fmt.Printf("=== %s ===\n%s\n", s.name, raw)
	}
}

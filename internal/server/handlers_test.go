package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/authzee/authzee-go/internal/authzee"
	"github.com/authzee/authzee-go/internal/search"
	"github.com/authzee/authzee-go/internal/workflow"
)

func TestAuthorizeEndpointAdminPopAllow(t *testing.T) {
	engine := workflow.New(search.NewJMESPath())
	router := BuildRouter(Deps{Engine: engine}, Options{})

	body := workflowRequest{
		IdentityDefs: []authzee.IdentityDef{
			{IdentityType: "User", Schema: map[string]any{"type": "object"}},
		},
		ResourceDefs: []authzee.ResourceDef{
			{ResourceType: "Balloon", Actions: []string{"pop"}, Schema: map[string]any{"type": "object"}, ParentTypes: []string{}, ChildTypes: []string{}},
		},
		Grants: []authzee.Grant{
			{
				Effect:            authzee.EffectAllow,
				Actions:           []string{"pop"},
				Query:             "request.identities.User[0].role == 'admin'",
				QueryValidation:   authzee.ModeError,
				Equality:          true,
				Data:              map[string]any{},
				ContextSchema:     map[string]any{"type": "object"},
				ContextValidation: authzee.ModeNone,
			},
		},
		Request: authzee.Request{
			Identities:        map[string][]map[string]any{"User": {{"role": "admin"}}},
			ResourceType:      "Balloon",
			Action:            "pop",
			Resource:          map[string]any{},
			Parents:           map[string][]map[string]any{},
			Children:          map[string][]map[string]any{},
			Context:           map[string]any{},
			QueryValidation:   authzee.ModeGrant,
			ContextValidation: authzee.ModeGrant,
		},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/authorize", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}

	var resp authzee.AuthorizeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Authorized {
		t.Fatalf("resp.Authorized = false, want true; resp=%+v", resp)
	}
}

func TestSchemaEndpointRejectsInvalidDefinitions(t *testing.T) {
	engine := workflow.New(search.NewJMESPath())
	router := BuildRouter(Deps{Engine: engine}, Options{})

	body := definitionsRequest{
		ResourceDefs: []authzee.ResourceDef{
			{ResourceType: "Balloon", Actions: []string{"pop"}, Schema: map[string]any{"type": "object"}, ParentTypes: []string{"Nonexistent"}},
		},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/schema", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body=%s", rec.Code, rec.Body.String())
	}
}

func TestHealthzEndpoint(t *testing.T) {
	engine := workflow.New(search.NewJMESPath())
	router := BuildRouter(Deps{Engine: engine}, Options{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

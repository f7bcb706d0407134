package server

import (
	"encoding/json"
	"net/http"

	"github.com/authzee/authzee-go/internal/authzee"
	"github.com/authzee/authzee-go/internal/definition"
	"github.com/authzee/authzee-go/internal/httpx"
	"github.com/authzee/authzee-go/internal/schema"
	"github.com/authzee/authzee-go/internal/workflow"
)

// workflowRequest is the wire envelope both /v1/audit and /v1/authorize
// accept: the definitions and grants are supplied per call, since
// authzeed keeps no definition or grant state of its own.
type workflowRequest struct {
	IdentityDefs []authzee.IdentityDef `json:"identity_defs"`
	ResourceDefs []authzee.ResourceDef `json:"resource_defs"`
	Grants       []authzee.Grant       `json:"grants"`
	Request      authzee.Request       `json:"request"`
}

type definitionsRequest struct {
	IdentityDefs []authzee.IdentityDef `json:"identity_defs"`
	ResourceDefs []authzee.ResourceDef `json:"resource_defs"`
}

// WorkflowHandler serves the workflow and schema endpoints against one
// shared Engine.
type WorkflowHandler struct {
	engine *workflow.Engine
}

// NewWorkflowHandler returns a handler bound to engine.
func NewWorkflowHandler(engine *workflow.Engine) *WorkflowHandler {
	return &WorkflowHandler{engine: engine}
}

func decodeJSON[T any](r *http.Request) (T, error) {
	var v T
	err := json.NewDecoder(r.Body).Decode(&v)
	return v, err
}

// Audit handles POST /v1/audit.
func (h *WorkflowHandler) Audit(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[workflowRequest](r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrMalformedRequest, "malformed request body: "+httpx.SafeErrMsg(err))
		return
	}

	resp := h.engine.Audit(r.Context(), req.IdentityDefs, req.ResourceDefs, req.Grants, req.Request)
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// Authorize handles POST /v1/authorize.
func (h *WorkflowHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[workflowRequest](r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrMalformedRequest, "malformed request body: "+httpx.SafeErrMsg(err))
		return
	}

	resp := h.engine.Authorize(r.Context(), req.IdentityDefs, req.ResourceDefs, req.Grants, req.Request)
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// Schema handles POST /v1/schema: it validates the definitions and
// returns the generated schemas, without validating or evaluating any
// grant. Useful for hosts that want to validate grants/requests
// client-side before calling Audit/Authorize.
func (h *WorkflowHandler) Schema(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[definitionsRequest](r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrMalformedRequest, "malformed request body: "+httpx.SafeErrMsg(err))
		return
	}

	if errs := definition.Validate(req.IdentityDefs, req.ResourceDefs); len(errs) > 0 {
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{"definition_errors": errs})
		return
	}

	schemas := schema.Generate(req.IdentityDefs, req.ResourceDefs)
	httpx.WriteJSON(w, http.StatusOK, schemas)
}

// ValidateDefinitions handles POST /v1/validate-definitions: it runs
// definition validation alone and reports whatever errors it finds.
func (h *WorkflowHandler) ValidateDefinitions(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[definitionsRequest](r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrMalformedRequest, "malformed request body: "+httpx.SafeErrMsg(err))
		return
	}

	errs := definition.Validate(req.IdentityDefs, req.ResourceDefs)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"definition_errors": errs})
}

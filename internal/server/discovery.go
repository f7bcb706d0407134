package server

import (
	"net/http"

	"github.com/authzee/authzee-go/internal/authzee"
	"github.com/authzee/authzee-go/internal/httpx"
)

// serviceInfoResp is authzeed's self-description document: the
// endpoints a client should call and the enum values this build
// accepts, one field per capability plus a "*_supported" enum for each
// open-ended dimension.
type serviceInfoResp struct {
	Self                        string   `json:"self"`
	AuditEndpoint               string   `json:"audit_endpoint"`
	AuthorizeEndpoint           string   `json:"authorize_endpoint"`
	SchemaEndpoint              string   `json:"schema_endpoint"`
	ValidateDefinitionsEndpoint string   `json:"validate_definitions_endpoint"`
	EffectsSupported            []string `json:"effects_supported"`
	ValidationModesSupported    []string `json:"validation_modes_supported"`
}

// ServiceInfoHandler describes the deployed API, resolving endpoint URLs
// against the incoming request so clients behind a proxy or load
// balancer still get absolute, dialable URLs back.
func ServiceInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base := httpx.BaseURL(r)

		resp := serviceInfoResp{
			Self:                        httpx.ConfigDiscoveryURL(r),
			AuditEndpoint:               base + "/v1/audit",
			AuthorizeEndpoint:           base + "/v1/authorize",
			SchemaEndpoint:              base + "/v1/schema",
			ValidateDefinitionsEndpoint: base + "/v1/validate-definitions",
			EffectsSupported:            []string{string(authzee.EffectAllow), string(authzee.EffectDeny)},
			ValidationModesSupported: []string{
				string(authzee.ModeGrant),
				string(authzee.ModeNone),
				string(authzee.ModeValidate),
				string(authzee.ModeError),
				string(authzee.ModeCritical),
			},
		}

		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}

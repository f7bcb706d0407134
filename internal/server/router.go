// Package server builds the chi router authzeed exposes: the Audit and
// Authorize workflow endpoints, schema generation, and the usual
// health/version/discovery furniture (baseline middleware, CORS,
// tracing, logging, then route groups).
package server

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/authzee/authzee-go/internal/httpx"
	"github.com/authzee/authzee-go/internal/mw"
	"github.com/authzee/authzee-go/internal/version"
	"github.com/authzee/authzee-go/internal/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options configures the router's cross-cutting behavior.
type Options struct {
	EnableCORS     bool
	DevNoStore     bool
	AuditSkipEvery int
}

// Deps are the collaborators request handlers need. Definitions are
// supplied per-request rather than held as server-side state; Engine is
// the one long-lived, concurrency-safe collaborator.
type Deps struct {
	Engine *workflow.Engine
}

// BuildRouter assembles the authzeed HTTP API.
func BuildRouter(d Deps, opts Options, extra ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	if opts.DevNoStore || os.Getenv("AUTHZEE_ENV") == "local" || os.Getenv("AUTHZEE_ENV") == "dev" {
		r.Use(mw.NoStore)
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if opts.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	for _, m := range extra {
		r.Use(m)
	}

	r.Use(mw.Trace())
	r.Use(mw.Logger(mw.LogOpts{
		AuditSkipEvery: opts.AuditSkipEvery,
		SkipPaths:      []string{"/healthz", "/version"},
		RedactHeaders:  []string{"Authorization"},
	}))

	h := NewWorkflowHandler(d.Engine)

	r.Get("/healthz", healthCheckHandler)
	r.Get("/version", versionHandler)
	r.Get(httpx.WellKnownConfigPath, ServiceInfoHandler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/audit", h.Audit)
		v1.Post("/authorize", h.Authorize)
		v1.Post("/schema", h.Schema)
		v1.Post("/validate-definitions", h.ValidateDefinitions)
	})

	return r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"version": version.Version,
	})
}

func versionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(version.Get())
}

package mw

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/authzee/authzee-go/internal/httpx"
	"github.com/authzee/authzee-go/internal/trace"
)

type LogOpts struct {
	SampleBodies   bool
	MaxBodyBytes   int
	AuditSkipEvery int // e.g., 4 logs only every 4th call against /v1/audit under load
	SkipPaths      []string
	RedactHeaders  []string
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions
}

func isNoisyPath(p string) bool {
	if p == "/healthz" || p == "/version" {
		return true
	}
	// add static prefixes as needed
	return false
}

func isAuditPath(p string) bool {
	return strings.HasPrefix(p, "/v1/audit")
}

func headerIsRedacted(name string, redact []string) bool {
	for _, r := range redact {
		if strings.EqualFold(name, r) {
			return true
		}
	}
	return strings.HasPrefix(strings.ToLower(name), "x-api-key")
}

var auditCallCounter uint64

func Logger(opts LogOpts) func(http.Handler) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 2048
	}
	if opts.AuditSkipEvery <= 0 {
		opts.AuditSkipEvery = 1
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			if isPreflight(r) || isNoisyPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// audit is typically called at much higher volume than authorize;
			// sample it instead of logging every call.
			if isAuditPath(r.URL.Path) && opts.AuditSkipEvery > 1 {
				n := atomic.AddUint64(&auditCallCounter, 1)
				if n%uint64(opts.AuditSkipEvery) != 0 {
					next.ServeHTTP(w, r)
					return
				}
			}

			start := time.Now()
			rec := httpx.NewRecorder(w)
			next.ServeHTTP(rec, r)
			dur := time.Since(start)

			// one-liner summary
			slog.Info("req",
				"trace", trace.From(r.Context()),
				"m", r.Method,
				"path", r.URL.Path,
				"status", rec.Status,
				"ms", dur.Milliseconds(),
				"bytes", rec.Bytes,
			)

			// on error, add a detail entry with the (redacted) request headers
			if rec.Status >= 400 {
				h := map[string]string{}
				for k, vv := range r.Header {
					if len(vv) == 0 {
						continue
					}
					vl := vv[0]
					if headerIsRedacted(k, opts.RedactHeaders) {
						vl = "***redacted***"
					}
					h[k] = vl
				}
				slog.Error("req_detail",
					"trace", trace.From(r.Context()),
					"m", r.Method, "path", r.URL.Path,
					"status", rec.Status, "ms", dur.Milliseconds(),
					"headers", h,
				)
			}
		})
	}
}

package httpx

import (
	"net"
	"net/http"
)

// WellKnownConfigPath is where authzeed serves its own self-description
// document (ServiceInfoHandler): audit/authorize/schema endpoint URLs
// plus the effect and validation-mode enums this build accepts.
const WellKnownConfigPath = "/.well-known/authzee-configuration"

// BaseURL resolves the scheme+host prefix a client should use to reach
// this server, honoring X-Forwarded-Proto for deployments behind a
// reverse proxy or load balancer.
func BaseURL(r *http.Request) string {
	scheme := "http"
	if r.Header.Get("X-Forwarded-Proto") == "https" || r.TLS != nil {
		scheme = "https"
	}
	host := r.Host
	// If Host is empty, fall back to server addr
	if host == "" {
		h, p, _ := net.SplitHostPort(r.URL.Host)
		if h == "" {
			h = "localhost"
		}
		if p == "" {
			p = "80"
		}
		host = net.JoinHostPort(h, p)
	}
	return scheme + "://" + host
}

// ConfigDiscoveryURL returns the absolute URL of this server's own
// self-description document, for embedding a "self" link in it.
func ConfigDiscoveryURL(r *http.Request) string {
	return BaseURL(r) + WellKnownConfigPath
}

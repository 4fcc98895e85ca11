// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"strings"
)

// KnownHost reports whether a host resolves to a tenant.  Satisfied by a
// closure over landlord.Collection so this package stays decoupled from
// the resolver.
type KnownHost func(host string) bool

// ForceHTTPS wraps h.  If the request is plain HTTP, the host is not
// "localhost", and known confirms the tenant exists, the wrapper issues a
// 308 Permanent Redirect to the HTTPS version of the same URL.  Otherwise
// it calls the next handler unchanged — an unknown host keeps the normal
// flow so the binder can reject it properly.
func ForceHTTPS(known KnownHost, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := stripPort(r.Host)
		if r.TLS != nil || host == "localhost" {
			h.ServeHTTP(w, r)
			return
		}

		if known(strings.ToLower(host)) {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}

		h.ServeHTTP(w, r)
	})
}

// stripPort removes the :port suffix from Host when present.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}

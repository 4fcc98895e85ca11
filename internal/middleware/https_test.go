package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestForceHTTPS_RedirectsKnownHost(t *testing.T) {
	known := func(host string) bool { return host == "acme.example.com" }

	req := httptest.NewRequest(http.MethodGet, "http://acme.example.com/page?x=1", nil)
	rr := httptest.NewRecorder()
	ForceHTTPS(known, http.NotFoundHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusPermanentRedirect {
		t.Fatalf("status = %d, want 308", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "https://acme.example.com/page?x=1" {
		t.Fatalf("location = %q", loc)
	}
}

func TestForceHTTPS_PassThrough(t *testing.T) {
	known := func(string) bool { return false }
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Unknown host: keep the normal flow so the binder can 403 it.
	req := httptest.NewRequest(http.MethodGet, "http://mystery/", nil)
	rr := httptest.NewRecorder()
	ForceHTTPS(known, next).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("unknown host: status = %d, want 200", rr.Code)
	}

	// localhost is never redirected.
	req = httptest.NewRequest(http.MethodGet, "http://localhost:8080/", nil)
	rr = httptest.NewRecorder()
	ForceHTTPS(func(string) bool { return true }, next).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("localhost: status = %d, want 200", rr.Code)
	}
}

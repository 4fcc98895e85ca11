package module

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestRegisterAndMountAll(t *testing.T) {
	Register("pings", func() chi.Router {
		r := chi.NewRouter()
		r.Get("/", ok)
		r.Post("/echo", ok)
		return r
	})
	t.Cleanup(func() {
		mu.Lock()
		delete(registry, "pings")
		mu.Unlock()
	})

	found := false
	for _, n := range Names() {
		if n == "pings" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Names() = %v, missing pings", Names())
	}

	root := chi.NewRouter()
	MountAll(root)

	routes := Routes(root)
	want := map[Route]bool{
		{Method: "GET", Pattern: "/pings/"}:      false,
		{Method: "POST", Pattern: "/pings/echo"}: false,
	}
	for _, rt := range routes {
		if _, ok := want[rt]; ok {
			want[rt] = true
		}
	}
	for rt, seen := range want {
		if !seen {
			t.Errorf("route %v not reported by introspection (got %v)", rt, routes)
		}
	}
}

// internal/module/registry.go
//
// Route-module registry and route introspection.
//
// A module is a named bundle of routes: it calls Register in an init()
// function and the composition root mounts everything with MountAll.
// Handlers read the bound tenant back out of the request context with
// tenant.FromContext, so every module is tenant-aware for free once the
// binder middleware sits above it.
//
// Routes() walks a mounted router and reports every method/pattern pair —
// handy for a startup log line and for the /_routes debug endpoint.

package module

import (
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Builder produces a module's sub-router.  Called once, at mount time.
type Builder func() chi.Router

var (
	mu       sync.RWMutex
	registry = map[string]Builder{}
)

// Register is called from module init() functions.  The mount path is
// "/<name>"; a duplicate name overwrites the earlier registration.
func Register(name string, b Builder) {
	mu.Lock()
	registry[name] = b
	mu.Unlock()
}

// Names returns the registered module names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MountAll mounts every registered module under /<name> on r.
func MountAll(r chi.Router) {
	mu.RLock()
	defer mu.RUnlock()
	for name, build := range registry {
		r.Mount("/"+name, build())
	}
}

// Route is one introspected endpoint.
type Route struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
}

// Routes walks r and returns every endpoint, sorted by pattern then
// method.  Middlewares are not reported.
func Routes(r chi.Routes) []Route {
	var out []Route
	_ = chi.Walk(r, func(method, pattern string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		out = append(out, Route{Method: method, Pattern: pattern})
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pattern != out[j].Pattern {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Method < out[j].Method
	})
	return out
}

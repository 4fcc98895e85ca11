// modules/tenantinfo/tenantinfo.go
//
// Demo route module: exposes the tenant bound to the current request.
//
// GET /tenantinfo        → name, config keys, database attachment state
// GET /tenantinfo/config → full merged config tree (debug only — gate it
//                          behind auth before exposing in production)
//
// Import for side effects from cmd/web; Register runs in init().

package tenantinfo

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/landlord/internal/module"
	"github.com/yanizio/landlord/internal/tenant"
)

func init() {
	module.Register("tenantinfo", routes)
}

func routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", summary)
	r.Get("/config", fullConfig)
	return r
}

func summary(w http.ResponseWriter, r *http.Request) {
	rec := tenant.FromContext(r.Context())
	if rec == nil {
		http.Error(w, "no tenant bound", http.StatusInternalServerError)
		return
	}

	keys := make([]string, 0, len(rec.Config))
	for k := range rec.Config {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	writeJSON(w, map[string]any{
		"tenant":      rec.Name,
		"config_keys": keys,
		"database":    rec.Attached(),
	})
}

func fullConfig(w http.ResponseWriter, r *http.Request) {
	rec := tenant.FromContext(r.Context())
	if rec == nil {
		http.Error(w, "no tenant bound", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rec.Config)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
	}
}

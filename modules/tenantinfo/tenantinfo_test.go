package tenantinfo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yanizio/landlord/internal/tenant"
)

func TestSummary(t *testing.T) {
	rec, _ := tenant.New("acme", map[string]any{"title": "Acme", "theme": "dark"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(tenant.WithRecord(req.Context(), rec))
	rr := httptest.NewRecorder()
	routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body struct {
		Tenant     string   `json:"tenant"`
		ConfigKeys []string `json:"config_keys"`
		Database   bool     `json:"database"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Tenant != "acme" || body.Database {
		t.Fatalf("body = %+v", body)
	}
	if len(body.ConfigKeys) != 2 || body.ConfigKeys[0] != "theme" {
		t.Fatalf("config keys = %v", body.ConfigKeys)
	}
}

func TestSummary_NoTenantBound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
}

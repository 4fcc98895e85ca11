// internal/secret/secret_test.go
//
// Unit-tests for reference parsing and factory wrapping.  Nothing here
// talks to a real Vault; resolution against a live server is exercised in
// deployment smoke tests.

package secret

import (
	"errors"
	"testing"

	"github.com/yanizio/landlord/internal/tenant"
)

func TestIsRef(t *testing.T) {
	if !IsRef("vault:secret/tenants/acme#pw") {
		t.Fatal("reference not recognized")
	}
	if IsRef("user:pw@tcp(host)/db") {
		t.Fatal("plain DSN misread as reference")
	}
}

func TestSplitRef(t *testing.T) {
	mount, path, key, err := splitRef("vault:secret/tenants/acme#db_password")
	if err != nil {
		t.Fatalf("splitRef: %v", err)
	}
	if mount != "secret" || path != "tenants/acme" || key != "db_password" {
		t.Fatalf("got %q %q %q", mount, path, key)
	}

	for _, bad := range []string{
		"vault:nokey",
		"vault:#key",
		"vault:mountonly#key",
	} {
		if _, _, _, err := splitRef(bad); !errors.Is(err, tenant.ErrInvalidArgument) {
			t.Errorf("splitRef(%q): err = %v, want ErrInvalidArgument", bad, err)
		}
	}
}

func TestWrapFactory_PassesThroughPlainValues(t *testing.T) {
	r := &Resolver{cache: map[string]cached{}}

	var got any
	factory := r.WrapFactory(func(cfg any) (any, error) { got = cfg; return "h", nil })

	in := map[string]any{
		"dsn":  "user:pw@tcp(host)/db",
		"pool": map[string]any{"max_open_conns": 4},
	}
	if _, err := factory(in); err != nil {
		t.Fatalf("factory: %v", err)
	}

	out := got.(map[string]any)
	if out["dsn"] != "user:pw@tcp(host)/db" {
		t.Fatalf("dsn altered: %v", out["dsn"])
	}
	if out["pool"].(map[string]any)["max_open_conns"] != 4 {
		t.Fatalf("nested value altered: %#v", out["pool"])
	}

	// Non-map resource configs skip resolution entirely.
	if _, err := factory("raw"); err != nil {
		t.Fatalf("non-map config: %v", err)
	}
	if got != "raw" {
		t.Fatalf("non-map config rewritten: %v", got)
	}
}

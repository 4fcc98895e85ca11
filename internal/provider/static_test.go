package provider

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/yanizio/landlord/internal/tenant"
)

func TestNewStatic_Validation(t *testing.T) {
	if _, err := NewStatic(); !errors.Is(err, tenant.ErrInvalidArgument) {
		t.Fatalf("no entries: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewStatic(Entry{Name: "", Config: map[string]any{}}); !errors.Is(err, tenant.ErrInvalidArgument) {
		t.Fatalf("empty name: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewStatic(Entry{Name: "a", Config: nil}); !errors.Is(err, tenant.ErrInvalidArgument) {
		t.Fatalf("nil config: err = %v, want ErrInvalidArgument", err)
	}
}

func TestStaticSource_LoadGivesFreshCopies(t *testing.T) {
	entry := Entry{Name: "acme", Config: map[string]any{"x": 1}}
	src, err := NewStatic(entry)
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}

	first, err := src.LoadTenants(zap.NewNop().Sugar())
	if err != nil || len(first) != 1 {
		t.Fatalf("first load: %v, %v", first, err)
	}

	// Mutations on a loaded record must not leak back into the source.
	first[0].MergeOver(map[string]any{"x": 2})

	second, _ := src.LoadTenants(zap.NewNop().Sugar())
	if second[0].Config["x"] != 1 {
		t.Fatalf("source entry mutated by a previous load: x = %v", second[0].Config["x"])
	}
	if entry.Config["x"] != 1 {
		t.Fatalf("caller's map mutated: x = %v", entry.Config["x"])
	}
}

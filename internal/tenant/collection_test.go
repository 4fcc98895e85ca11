package tenant

import (
	"errors"
	"sort"
	"testing"
)

func TestCollection_GetAndDefault(t *testing.T) {
	a, _ := New("a.example.com", map[string]any{})
	def, _ := New(DefaultName, map[string]any{"x": 1})
	col := Collection{a.Name: a, def.Name: def}

	got, err := col.Get("a.example.com")
	if err != nil || got != a {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if _, err := col.Get("unknown-host"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing key: err = %v, want ErrNotFound", err)
	}
	if col.Default() != def {
		t.Fatal("Default() did not return the sentinel record")
	}

	names := col.Names()
	sort.Strings(names)
	if len(names) != 2 || names[0] != DefaultName {
		t.Fatalf("Names = %v", names)
	}
}

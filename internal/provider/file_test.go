// internal/provider/file_test.go
//
// Unit-tests for FileSource discovery, naming, and parsing.
//
// Each test builds a throwaway tenant directory with t.TempDir, points the
// source at it via FileOptions.Dir, and loads with a no-op logger.

package provider

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/yanizio/landlord/internal/tenant"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestNewFile_Validation(t *testing.T) {
	if _, err := NewFile(nil, FileOptions{}); !errors.Is(err, tenant.ErrInvalidArgument) {
		t.Fatalf("no patterns: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewFile([]string{"[bad"}, FileOptions{}); !errors.Is(err, tenant.ErrInvalidArgument) {
		t.Fatalf("bad glob: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewFile([]string{"*.tenant.yaml"}, FileOptions{Ignore: []string{"[oops"}}); !errors.Is(err, tenant.ErrInvalidArgument) {
		t.Fatalf("bad ignore glob: err = %v, want ErrInvalidArgument", err)
	}
}

func TestFileSource_LoadsAndNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Acme.tenant.yaml", "title: Acme Corp\ndatabase:\n  dsn: acme-dsn\n")
	writeFile(t, dir, "beta.tenant.json", `{"title": "Beta"}`)
	writeFile(t, dir, "_default_.tenant.yaml", "title: Fallback\n")

	src, err := NewFile([]string{"*.tenant.yaml", "*.tenant.json"}, FileOptions{Dir: dir})
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	recs, err := src.LoadTenants(zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("LoadTenants: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}

	byName := map[string]*tenant.Record{}
	for _, r := range recs {
		byName[r.Name] = r
	}

	// Upper-case base names normalize to lower case.
	acme, ok := byName["acme"]
	if !ok {
		t.Fatalf("missing record acme; have %v", keys(byName))
	}
	if got := acme.Lookup("database.dsn"); got != "acme-dsn" {
		t.Fatalf("acme database.dsn = %v", got)
	}
	if byName["beta"].Config["title"] != "Beta" {
		t.Fatalf("beta title = %v", byName["beta"].Config["title"])
	}
	if _, ok := byName[tenant.DefaultName]; !ok {
		t.Fatal("sentinel default file was not loaded")
	}
}

func TestFileSource_IgnoreFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.tenant.yaml", "a: 1\n")
	writeFile(t, dir, "skip.tenant.yaml", "a: 1\n")

	src, err := NewFile([]string{"*.tenant.yaml"}, FileOptions{
		Dir:    dir,
		Ignore: []string{"skip.*"},
	})
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	recs, err := src.LoadTenants(zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("LoadTenants: %v", err)
	}
	if len(recs) != 1 || recs[0].Name != "keep" {
		t.Fatalf("got %v, want just keep", recs)
	}
}

func TestFileSource_ZeroMatchesIsNotAnError(t *testing.T) {
	src, err := NewFile([]string{"*.tenant.yaml"}, FileOptions{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	recs, err := src.LoadTenants(zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("zero matches must not error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("got %d records, want 0", len(recs))
	}
}

func TestFileSource_MalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.tenant.json", "{not json")

	src, _ := NewFile([]string{"*.tenant.json"}, FileOptions{Dir: dir})
	if _, err := src.LoadTenants(zap.NewNop().Sugar()); err == nil {
		t.Fatal("expected parse error for malformed file")
	}
}

func TestTenantName(t *testing.T) {
	cases := map[string]string{
		"tenants/Acme.tenant.yaml":     "acme",
		"a/b/x.example.com.tenant.yml": "x.example.com",
		"plain.yaml":                   "plain",
	}
	for in, want := range cases {
		if got := tenantName(in); got != want {
			t.Errorf("tenantName(%q) = %q, want %q", in, got, want)
		}
	}
}

func keys(m map[string]*tenant.Record) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}

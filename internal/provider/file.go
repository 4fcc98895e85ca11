// internal/provider/file.go
//
// File-backed tenant source.
//
// Context
// -------
// FileSource discovers config fragments with doublestar globs and parses
// each file into one tenant's config through the koanf parser matching its
// extension.  The tenant's name comes from the file's base name with the
// `.tenant.<ext>` suffix stripped and the remainder lowercased, so
//
//	conf/tenants/Acme.tenant.yaml  →  "acme"
//	conf/tenants/_default_.tenant.yaml supplies the sentinel default layer.
//
// Glob syntax (including `**`) and the ignore filter both follow
// bmatcuk/doublestar semantics.  Patterns are validated at construction so
// a typo surfaces at startup, not on first load.
//
// Notes
// -----
//   • Supported extensions: .yaml, .yml, .json, .toml.
//   • Matches are sorted for a deterministic load order.

package provider

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/landlord/internal/tenant"
)

// tenantSuffix is the fixed file-naming infix: <name>.tenant.<ext>.
const tenantSuffix = ".tenant"

// FileOptions tune discovery.  The zero value is usable.
type FileOptions struct {
	// Dir is the root the globs are evaluated under.  Defaults to the
	// current working directory.
	Dir string

	// Ignore drops any match that also matches one of these patterns.
	Ignore []string
}

// FileSource loads tenants from files matched by glob patterns.
type FileSource struct {
	patterns []string
	opts     FileOptions
}

// NewFile builds a FileSource.  At least one pattern is required, and every
// pattern (including ignores) must be valid doublestar syntax.
func NewFile(patterns []string, opts FileOptions) (*FileSource, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("file source: no glob patterns: %w", tenant.ErrInvalidArgument)
	}
	for _, p := range append(append([]string{}, patterns...), opts.Ignore...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("file source: bad glob %q: %w", p, tenant.ErrInvalidArgument)
		}
	}
	return &FileSource{patterns: patterns, opts: opts}, nil
}

// LoadTenants resolves the globs and parses every match.  Zero matches is
// logged and returned as an empty slice; a malformed file is an error.
func (s *FileSource) LoadTenants(log *zap.SugaredLogger) ([]*tenant.Record, error) {
	dir := s.opts.Dir
	if dir == "" {
		dir = "."
	}
	fsys := os.DirFS(dir)

	matches, err := s.discover(fsys)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		log.Infow("tenant files: no matches", "patterns", s.patterns, "dir", dir)
		return nil, nil
	}

	records := make([]*tenant.Record, 0, len(matches))
	for _, m := range matches {
		full := filepath.Join(dir, filepath.FromSlash(m))
		name := tenantName(m)

		cfg, err := loadConfig(full)
		if err != nil {
			return nil, fmt.Errorf("tenant file %s: %w", full, err)
		}
		rec, err := tenant.New(name, cfg)
		if err != nil {
			return nil, fmt.Errorf("tenant file %s: %w", full, err)
		}
		log.Infow("tenant file loaded", "tenant", name, "file", full)
		records = append(records, rec)
	}
	return records, nil
}

// discover globs all patterns, applies the ignore filter, dedupes, and
// sorts the surviving matches.
func (s *FileSource) discover(fsys fs.FS) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.patterns {
		matches, err := doublestar.Glob(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}
	next:
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			for _, ig := range s.opts.Ignore {
				if doublestar.MatchUnvalidated(ig, m) {
					continue next
				}
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// tenantName derives the record name from a matched path:
// "tenants/Acme.tenant.yaml" → "acme".
func tenantName(path string) string {
	base := filepath.Base(filepath.FromSlash(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, tenantSuffix)
	return strings.ToLower(base)
}

// loadConfig reads and parses one file by extension.
func loadConfig(path string) (map[string]any, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return nil, fmt.Errorf("unsupported extension %q: %w",
			filepath.Ext(path), tenant.ErrInvalidArgument)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	return k.Raw(), nil
}

// internal/provider/static.go
//
// In-memory tenant source.  Entries are supplied directly by the caller —
// handy for tests, for embedding a fixed tenant set in a binary, and for
// layering a code-defined default under file-provided tenants.

package provider

import (
	"fmt"

	"github.com/knadh/koanf/maps"
	"go.uber.org/zap"

	"github.com/yanizio/landlord/internal/tenant"
)

// Entry is one literal tenant definition.
type Entry struct {
	Name   string
	Config map[string]any
}

// StaticSource serves a fixed list of entries with no I/O.
type StaticSource struct {
	entries []Entry
}

// NewStatic validates every entry eagerly.  An entry with an empty name or
// a nil config fails construction with ErrInvalidArgument, naming the
// offending position.
func NewStatic(entries ...Entry) (*StaticSource, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("static source: no entries: %w", tenant.ErrInvalidArgument)
	}
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("static source: entry %d: empty name: %w",
				i, tenant.ErrInvalidArgument)
		}
		if e.Config == nil {
			return nil, fmt.Errorf("static source: entry %d (%q): nil config: %w",
				i, e.Name, tenant.ErrInvalidArgument)
		}
	}
	return &StaticSource{entries: entries}, nil
}

// LoadTenants returns fresh records on every call.  Configs are deep-copied
// so resolver merges never write back into the caller's maps, and so a hot
// reload starts from the pristine entries.
func (s *StaticSource) LoadTenants(log *zap.SugaredLogger) ([]*tenant.Record, error) {
	records := make([]*tenant.Record, 0, len(s.entries))
	for _, e := range s.entries {
		rec, err := tenant.New(e.Name, maps.Copy(e.Config))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	log.Infow("static tenants loaded", "count", len(records))
	return records, nil
}

// internal/tenant/collection.go
//
// Resolved tenant collection: name → *Record, built once at startup and
// treated as read-only while requests are being served.  Hot reload swaps
// in a whole new Collection; nothing mutates one in place.

package tenant

import "errors"

// DefaultName is the sentinel tenant whose config is layered beneath every
// other tenant's config during resolution.  The sentinel stays in the
// collection but normal request lookups do not target it.
const DefaultName = "_default_"

// ErrNotFound is returned when a lookup key matches no tenant.
var ErrNotFound = errors.New("tenant not found")

// Collection maps tenant name to its resolved record.  Keys are unique;
// order carries no meaning.
type Collection map[string]*Record

// Get returns the record for key, or ErrNotFound.
func (c Collection) Get(key string) (*Record, error) {
	if r, ok := c[key]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

// Default returns the sentinel default record, or nil when none was loaded.
func (c Collection) Default() *Record { return c[DefaultName] }

// Names returns all tenant names, sentinel included.  Ordering is random;
// callers that care must sort.
func (c Collection) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	return names
}

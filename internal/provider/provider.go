// internal/provider/provider.go
//
// Configuration-source contract.
//
// Context
// -------
// A Source produces raw tenant records for the resolver.  Sources are
// consulted strictly in the order the caller registers them, because order
// is what decides override precedence — a later source's record merges on
// top of an earlier one's.
//
// A source that finds nothing is not broken: it logs and returns an empty
// slice.  Whether "zero tenants overall" is fatal belongs to the resolver,
// which sees all sources together.
//
// Notes
// -----
//   • Construction-time validation is eager.  A misconfigured source fails
//     at New*, not on first load.
//   • The logger is threaded explicitly; there is no package-level default.

package provider

import (
	"go.uber.org/zap"

	"github.com/yanizio/landlord/internal/tenant"
)

// Source is anything that can produce tenant records.
type Source interface {
	// LoadTenants returns the source's records in a stable order.  An
	// empty result is valid and must not be reported as an error.
	LoadTenants(log *zap.SugaredLogger) ([]*tenant.Record, error)
}

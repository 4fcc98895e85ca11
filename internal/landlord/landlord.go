// internal/landlord/landlord.go
//
// Composition façade: providers in, request middleware out.
//
// Context
// -------
// Landlord owns the full tenant lifecycle for a process:
//
//	ll, err := landlord.New(landlord.Options{…})   // validate wiring
//	err  = ll.Resolve()                            // load, merge, attach
//	r.Use(ll.Middleware())                         // bind per request
//	defer ll.Cleanup()                             // detach at shutdown
//
// The resolved collection lives in an atomic.Pointer so request lookups
// are lock-free and Reload can swap in a fresh collection without a
// serving gap.  Records are never mutated while a collection is current;
// reload builds a complete new one, swaps, and only then detaches the
// old collection's resources.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package landlord

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/yanizio/landlord/internal/metrics"
	"github.com/yanizio/landlord/internal/provider"
	"github.com/yanizio/landlord/internal/resolver"
	"github.com/yanizio/landlord/internal/tenant"
)

// RequestOptions tune how the middleware derives the lookup key.
type RequestOptions struct {
	// TenantHeader, when set, names a request header whose value is used
	// as the lookup key instead of the Host.  Useful behind proxies that
	// rewrite Host, and in tests.
	TenantHeader string
}

// Options wire a Landlord together.  Providers are required; everything
// else has a usable zero value.
type Options struct {
	Providers []provider.Source
	DB        resolver.DBOptions
	Req       RequestOptions

	// Log defaults to the process-wide sugared zap logger.
	Log *zap.SugaredLogger
}

// Landlord resolves tenants once (or again on Reload) and binds them to
// requests.
type Landlord struct {
	opts    Options
	log     *zap.SugaredLogger
	current atomic.Pointer[tenant.Collection]
}

// New validates the wiring eagerly.  A missing or nil provider is
// ErrInvalidArgument here, not a surprise at first request.
func New(opts Options) (*Landlord, error) {
	if len(opts.Providers) == 0 {
		return nil, fmt.Errorf("landlord: no providers: %w", tenant.ErrInvalidArgument)
	}
	for i, p := range opts.Providers {
		if p == nil {
			return nil, fmt.Errorf("landlord: provider %d is nil: %w", i, tenant.ErrInvalidArgument)
		}
	}
	log := opts.Log
	if log == nil {
		log = zap.S()
	}
	return &Landlord{opts: opts, log: log}, nil
}

// Resolve runs the load/merge/attach pipeline and installs the result as
// the current collection.  Call once at startup, before serving.
func (l *Landlord) Resolve() error {
	col, err := l.build()
	if err != nil {
		return err
	}
	l.current.Store(&col)
	return nil
}

// Reload builds a fresh collection from the same providers, swaps it in
// atomically, and detaches the previous collection's resources.  In-flight
// requests keep the records they were bound to; only new requests see the
// new collection.
func (l *Landlord) Reload() error {
	col, err := l.build()
	if err != nil {
		return err
	}
	old := l.current.Swap(&col)
	l.log.Infow("tenant collection reloaded", "tenants", len(col))
	if old != nil {
		if err := resolver.DetachDatabases(*old, l.log); err != nil {
			l.log.Errorw("stale collection teardown", "err", err)
		}
	}
	return nil
}

// Collection returns the active collection, or nil before Resolve.
func (l *Landlord) Collection() tenant.Collection {
	if p := l.current.Load(); p != nil {
		return *p
	}
	return nil
}

// Cleanup detaches every resource in the current collection.  Safe to call
// when Resolve never ran or nothing was attached.
func (l *Landlord) Cleanup() error {
	col := l.Collection()
	if col == nil {
		return nil
	}
	return resolver.DetachDatabases(col, l.log)
}

func (l *Landlord) build() (tenant.Collection, error) {
	col, err := resolver.Load(l.opts.Providers, l.log)
	if err != nil {
		return nil, err
	}
	if err := resolver.AttachDatabases(col, l.opts.DB, l.log); err != nil {
		// Unwind the handles attached before the failure.
		if derr := resolver.DetachDatabases(col, l.log); derr != nil {
			l.log.Errorw("partial attach teardown", "err", derr)
		}
		return nil, err
	}
	return col, nil
}

// Middleware returns the per-request binder.  It derives the lookup key,
// finds the tenant, and stores the record in the request context; an
// unknown key stops the chain with 403.  The lookup is read-only and safe
// under arbitrary request concurrency.
func (l *Landlord) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			col := l.Collection()
			if col == nil {
				http.Error(w, "tenants not resolved", http.StatusServiceUnavailable)
				return
			}

			key := l.lookupKey(r)
			rec, err := col.Get(key)
			if err != nil {
				metrics.InvalidTenantTotal.Inc()
				l.log.Infow("invalid tenant", "key", key, "path", r.URL.Path)
				http.Error(w, "Invalid tenant", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(tenant.WithRecord(r.Context(), rec)))
		})
	}
}

// lookupKey prefers the configured header and falls back to the Host with
// any :port stripped.  Keys are lower-cased to match file-derived names.
func (l *Landlord) lookupKey(r *http.Request) string {
	if h := l.opts.Req.TenantHeader; h != "" {
		if v := r.Header.Get(h); v != "" {
			return strings.ToLower(v)
		}
	}
	return strings.ToLower(stripPort(r.Host))
}

// stripPort removes any ":port" suffix from the Host header.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}

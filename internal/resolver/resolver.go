// internal/resolver/resolver.go
//
// Tenant resolution engine.
//
// Context
// -------
// Load is the one-shot startup pipeline that turns an ordered list of
// sources into the final keyed collection:
//
//  1. Sources are consulted strictly in registration order.
//  2. A record whose name is already present merges on top of the stored
//     one — latest wins, so later sources intentionally override earlier
//     ones.
//  3. An empty overall result is fatal (ErrNoTenants); a web server with
//     zero tenants can serve nothing.
//  4. If a `_default_` record exists, its config is layered beneath every
//     other record.  There the direction flips: the record's own values
//     win and the default only fills gaps.  The asymmetry is intentional.
//
// AttachDatabases and DetachDatabases bracket the serving window.  Attach
// runs after Load, detach at orderly shutdown; neither is expected to race
// with request serving.
//
// Notes
// -----
//   • Everything is synchronous.  Ordering determines precedence, so there
//     is nothing to parallelize.
//   • Detach keeps going after a failed finalizer and reports the pile-up
//     through a go-multierror value.

package resolver

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/yanizio/landlord/internal/metrics"
	"github.com/yanizio/landlord/internal/provider"
	"github.com/yanizio/landlord/internal/tenant"
)

// ErrNoTenants is returned when every source came back empty.  Callers
// must treat it as fatal and not proceed to serve requests.
var ErrNoTenants = errors.New("no tenants found")

// DBOptions describe how to bind a database handle to each tenant.  All
// three fields are required together; a partial set disables attachment.
type DBOptions struct {
	// Factory opens a handle from whatever value sits at ConfigPath in
	// the tenant's config.
	Factory tenant.Factory

	// Finalizer closes a handle during teardown.
	Finalizer tenant.Finalizer

	// ConfigPath is a dotted path ("database") into the tenant config
	// where the connection parameters live.
	ConfigPath string
}

func (o DBOptions) complete() bool {
	return o.Factory != nil && o.Finalizer != nil && o.ConfigPath != ""
}

// Load runs all sources in order and returns the merged, defaulted
// collection.  The source list itself is validated eagerly: an empty list
// or a nil entry is ErrInvalidArgument.
func Load(sources []provider.Source, log *zap.SugaredLogger) (tenant.Collection, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("resolver: no sources: %w", tenant.ErrInvalidArgument)
	}
	for i, src := range sources {
		if src == nil {
			return nil, fmt.Errorf("resolver: source %d is nil: %w", i, tenant.ErrInvalidArgument)
		}
	}

	col := tenant.Collection{}
	for i, src := range sources {
		records, err := src.LoadTenants(log)
		if err != nil {
			return nil, fmt.Errorf("resolver: source %d: %w", i, err)
		}
		for _, rec := range records {
			metrics.TenantLoadTotal.Inc()
			existing, ok := col[rec.Name]
			if !ok {
				col[rec.Name] = rec
				continue
			}
			// Same name seen before: the newer record's values win,
			// the stored record acts as the default layer.
			existing.MergeOver(rec.Config)
			metrics.TenantMergeTotal.Inc()
			log.Infow("tenant merged", "tenant", rec.Name, "source", i)
		}
	}

	if len(col) == 0 {
		return nil, ErrNoTenants
	}

	if def := col.Default(); def != nil {
		for name, rec := range col {
			if name == tenant.DefaultName {
				continue
			}
			rec.ApplyDefaults(def.Config)
		}
		log.Infow("defaults applied", "tenants", len(col)-1)
	}

	metrics.ResolvedTenants.Set(float64(len(col)))
	log.Infow("tenants resolved", "count", len(col))
	return col, nil
}

// AttachDatabases binds a handle to every tenant whose config carries
// connection parameters at opts.ConfigPath.  With an incomplete opts the
// call logs and returns without touching the collection.  A tenant without
// parameters at the path is skipped, not failed — plenty of tenants have
// no database of their own.
func AttachDatabases(col tenant.Collection, opts DBOptions, log *zap.SugaredLogger) error {
	if !opts.complete() {
		log.Infow("database attach skipped: factory, finalizer, and config path not all set")
		return nil
	}

	for name, rec := range col {
		cfg := rec.Lookup(opts.ConfigPath)
		if cfg == nil {
			log.Infow("tenant has no database config", "tenant", name, "path", opts.ConfigPath)
			continue
		}
		if err := rec.AttachResource(opts.Factory, opts.Finalizer, cfg); err != nil {
			return fmt.Errorf("attach databases: %w", err)
		}
		metrics.ResourceAttachTotal.Inc()
		log.Infow("tenant database attached", "tenant", name)
	}
	return nil
}

// DetachDatabases tears down every attached handle.  Records that never
// attached are no-ops.  A failing finalizer is recorded and the loop keeps
// going — one tenant's broken teardown must not leak every other tenant's
// handle.
func DetachDatabases(col tenant.Collection, log *zap.SugaredLogger) error {
	var result *multierror.Error
	for name, rec := range col {
		if err := rec.DetachResource(); err != nil {
			metrics.ResourceDetachErrors.Inc()
			log.Errorw("tenant database detach failed", "tenant", name, "err", err)
			result = multierror.Append(result, err)
			continue
		}
		log.Debugw("tenant database detached", "tenant", name)
	}
	return result.ErrorOrNil()
}

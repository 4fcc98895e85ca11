// internal/tenant/record.go
//
// Tenant record: name, merged config tree, and optional resource handle.
//
// Context
// -------
// A Record is the unit everything else in Landlord operates on.  Providers
// produce them, the resolver merges them, and the request binder hands them
// to handlers via the request context.  The config tree is an arbitrary
// nested map; the record is opaque to its contents except for the nested
// path the resolver uses to find resource-connection parameters.
//
// Two merge operations exist and they deliberately point in opposite
// directions:
//
//   • ApplyDefaults — the *existing* config wins over the supplied default.
//     Defaults fill gaps; they never clobber a value a tenant has set.
//
//   • MergeOver     — the *incoming* config wins over the existing one.
//     Later providers intentionally override earlier ones.
//
// Do not "fix" this asymmetry into one uniform rule.
//
// Notes
// -----
//   • Merging goes through knadh/koanf/maps so nested maps are merged
//     key-wise, not replaced wholesale.
//   • Oxford commas, two spaces after periods.

package tenant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/maps"
)

// ErrInvalidArgument is returned for empty names, nil configs, and other
// malformed construction input.  Raised eagerly, never deferred.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrAlreadyAttached is returned by AttachResource when the record already
// holds a live handle.  It signals a caller-side lifecycle bug, such as
// running setup twice without teardown in between.
var ErrAlreadyAttached = errors.New("resource already attached")

// Factory opens an external resource (typically a database pool) from the
// connection parameters found in the tenant's config.  It must return a
// usable handle immediately; the engine does not wait for asynchronous
// clients to finish connecting.
type Factory func(config any) (any, error)

// Finalizer releases a handle previously produced by a Factory.
type Finalizer func(handle any) error

// Record is one resolved tenant: a unique name, the merged config tree,
// and an optional attached resource handle.
type Record struct {
	Name   string
	Config map[string]any

	handle    any
	finalizer Finalizer
}

// New validates and builds a Record.  Both the name and the config are
// required; a tenant without either is a provider bug.
func New(name string, config map[string]any) (*Record, error) {
	if name == "" {
		return nil, fmt.Errorf("tenant record: empty name: %w", ErrInvalidArgument)
	}
	if config == nil {
		return nil, fmt.Errorf("tenant record %q: nil config: %w", name, ErrInvalidArgument)
	}
	return &Record{Name: name, Config: config}, nil
}

// ApplyDefaults layers def *beneath* the record's config: keys missing from
// the record are filled in from def, keys present in both keep the record's
// value.  def is never mutated, and applying the same default twice is a
// no-op the second time.
func (r *Record) ApplyDefaults(def map[string]any) {
	if len(def) == 0 {
		return
	}
	base := maps.Copy(def)
	maps.Merge(r.Config, base)
	r.Config = base
}

// MergeOver layers incoming *on top of* the record's config: the incoming
// values win on conflict, the existing config acts as the default layer.
// This is the multi-provider direction — the opposite of ApplyDefaults.
func (r *Record) MergeOver(incoming map[string]any) {
	if len(incoming) == 0 {
		return
	}
	maps.Merge(maps.Copy(incoming), r.Config)
}

// Lookup walks a dotted path ("database.dsn") into the config tree.  It
// returns nil when any segment is missing; it never panics on absent keys
// or non-map intermediates.
func (r *Record) Lookup(path string) any {
	if path == "" {
		return nil
	}
	return maps.Search(r.Config, strings.Split(path, "."))
}

// Attached reports whether the record currently holds a resource handle.
func (r *Record) Attached() bool { return r.handle != nil }

// Handle returns the attached resource handle, or nil.
func (r *Record) Handle() any { return r.handle }

// AttachResource opens a resource for this tenant and binds its lifecycle
// to the record.  Attaching while a handle is live fails with
// ErrAlreadyAttached; the caller must detach first.
func (r *Record) AttachResource(factory Factory, finalizer Finalizer, config any) error {
	if r.handle != nil {
		return fmt.Errorf("tenant %q: %w", r.Name, ErrAlreadyAttached)
	}
	h, err := factory(config)
	if err != nil {
		return fmt.Errorf("tenant %q: open resource: %w", r.Name, err)
	}
	r.handle = h
	r.finalizer = finalizer
	return nil
}

// DetachResource runs the finalizer, if any, and clears the handle.  The
// record always ends up detached — even when the finalizer fails — so a
// later attach cycle can proceed.  The finalizer's error is returned, not
// swallowed.
func (r *Record) DetachResource() error {
	var err error
	if r.handle != nil && r.finalizer != nil {
		if ferr := r.finalizer(r.handle); ferr != nil {
			err = fmt.Errorf("tenant %q: close resource: %w", r.Name, ferr)
		}
	}
	r.handle = nil
	r.finalizer = nil
	return err
}

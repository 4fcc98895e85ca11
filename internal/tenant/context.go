// internal/tenant/context.go
//
// Request-context plumbing for the bound tenant.  The binder middleware
// stores the resolved *Record under an unexported key; handlers and
// route modules read it back with FromContext.

package tenant

import "context"

type ctxKey struct{}

// WithRecord returns a child context carrying rec.
func WithRecord(ctx context.Context, rec *Record) context.Context {
	return context.WithValue(ctx, ctxKey{}, rec)
}

// FromContext returns the tenant bound to ctx, or nil when the request
// never passed through the binder.
func FromContext(ctx context.Context) *Record {
	rec, _ := ctx.Value(ctxKey{}).(*Record)
	return rec
}

// internal/secret/secret.go
//
// Vault-backed secret references for tenant config.
//
// Context
// -------
// Tenant files are plain YAML/JSON/TOML sitting in a conf directory, so
// they must not carry live credentials.  Instead a string value anywhere
// in a tenant's database block may be a reference of the form
//
//	vault:secret/tenants/acme#db_password
//
// i.e. `vault:<mount>/<path>#<key>`, pointing at a KV-v2 secret.  The
// Resolver swaps references for real values just before the database
// factory runs, so neither the tenant records nor the logs ever hold the
// plaintext.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR  – scheme and host of the Vault server.
// • VAULT_TOKEN – initial token (falls back to ~/.vault-token).
//
// Notes
// -----
//   • Resolved values are cached per reference with a short TTL so a
//     reload burst does not hammer Vault.
//   • Token renewal runs in the background until ctx is cancelled.

package secret

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/yanizio/landlord/internal/tenant"
)

// refPrefix marks a config string as a secret reference.
const refPrefix = "vault:"

// cacheTTL bounds how long a resolved value is reused.
const cacheTTL = 5 * time.Minute

type cached struct {
	val string
	exp time.Time
}

// Resolver is safe for concurrent use.  Create once at startup.
type Resolver struct {
	api *vault.Client
	log *zap.SugaredLogger

	mu    sync.RWMutex
	cache map[string]cached
}

// New constructs a Resolver from the standard Vault environment and starts
// a background token-renewal loop bound to ctx.
func New(ctx context.Context, log *zap.SugaredLogger) (*Resolver, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		api.SetToken(tok)
	}

	r := &Resolver{
		api:   api,
		log:   log,
		cache: make(map[string]cached),
	}
	go r.renewLoop(ctx)
	return r, nil
}

// IsRef reports whether s looks like a secret reference.
func IsRef(s string) bool { return strings.HasPrefix(s, refPrefix) }

// Resolve turns one reference into its secret value.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	if !IsRef(ref) {
		return "", fmt.Errorf("secret: %q is not a vault reference: %w",
			ref, tenant.ErrInvalidArgument)
	}

	r.mu.RLock()
	if c, ok := r.cache[ref]; ok && time.Now().Before(c.exp) {
		r.mu.RUnlock()
		return c.val, nil
	}
	r.mu.RUnlock()

	mount, path, key, err := splitRef(ref)
	if err != nil {
		return "", err
	}

	sec, err := r.api.KVv2(mount).Get(ctx, path)
	if err != nil {
		return "", fmt.Errorf("vault get %s/%s: %w", mount, path, err)
	}
	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %s/%s", key, mount, path)
	}
	val, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s is not a string", ref)
	}

	r.mu.Lock()
	r.cache[ref] = cached{val: val, exp: time.Now().Add(cacheTTL)}
	r.mu.Unlock()
	return val, nil
}

// WrapFactory returns a tenant.Factory that resolves every reference in
// the config block (top level and one map level down), then delegates to
// next.  Non-reference values pass through untouched; the original block
// is never mutated.
func (r *Resolver) WrapFactory(next tenant.Factory) tenant.Factory {
	return func(config any) (any, error) {
		block, ok := config.(map[string]any)
		if !ok {
			return next(config)
		}

		resolved := make(map[string]any, len(block))
		for k, v := range block {
			rv, err := r.resolveValue(v)
			if err != nil {
				return nil, err
			}
			resolved[k] = rv
		}
		return next(resolved)
	}
}

func (r *Resolver) resolveValue(v any) (any, error) {
	switch val := v.(type) {
	case string:
		if !IsRef(val) {
			return val, nil
		}
		return r.Resolve(context.Background(), val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			rv, err := r.resolveValue(inner)
			if err != nil {
				return nil, err
			}
			out[k] = rv
		}
		return out, nil
	default:
		return v, nil
	}
}

// renewLoop keeps the token alive.  Failures back off and retry; a
// non-renewable token just sleeps.
func (r *Resolver) renewLoop(ctx context.Context) {
	for {
		sec, err := r.api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.log.Debugw("vault token renew failed", "err", err)
			if !sleep(ctx, 30*time.Second) {
				return
			}
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			if !sleep(ctx, time.Hour) {
				return
			}
			continue
		}
		// Renew at half the lease.
		wait := time.Duration(sec.Auth.LeaseDuration) * time.Second / 2
		if wait < 15*time.Second {
			wait = 15 * time.Second
		}
		if !sleep(ctx, wait) {
			return
		}
	}
}

// splitRef parses "vault:mount/rest/of/path#key".
func splitRef(ref string) (mount, path, key string, err error) {
	body := strings.TrimPrefix(ref, refPrefix)
	body, key, ok := strings.Cut(body, "#")
	if !ok || key == "" {
		return "", "", "", fmt.Errorf("secret ref %q: missing #key: %w",
			ref, tenant.ErrInvalidArgument)
	}
	mount, path, ok = strings.Cut(body, "/")
	if !ok || mount == "" || path == "" {
		return "", "", "", fmt.Errorf("secret ref %q: want mount/path#key: %w",
			ref, tenant.ErrInvalidArgument)
	}
	return mount, path, key, nil
}

// sleep waits d or until ctx is done; it reports whether ctx is still live.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

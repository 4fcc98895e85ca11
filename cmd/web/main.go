// cmd/web/main.go
//
// Landlord demo server – HTTP entry point.
//
// Startup sequence
// ----------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Load conf/global.yaml with `LANDLORD_` env overrides.
//
//  3. Start the rotating JSON logger (tees to console in a TTY).
//
//  4. Build the tenant providers: file-backed tenants from the configured
//     globs, plus a built-in localhost fallback so a fresh checkout serves
//     something.
//
//  5. Construct the Landlord, resolve the tenant collection, and attach
//     per-tenant databases (sqlx/MySQL; `vault:` references resolved when
//     VAULT_ADDR is set).
//
//  6. Serve: binder middleware → mounted route modules, with /metrics and
//     /_routes outside the binder.  SIGHUP swaps in a freshly resolved
//     collection; SIGINT/SIGTERM drain and detach.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/landlord/internal/config"
	"github.com/yanizio/landlord/internal/database"
	"github.com/yanizio/landlord/internal/landlord"
	"github.com/yanizio/landlord/internal/logger"
	"github.com/yanizio/landlord/internal/middleware"
	"github.com/yanizio/landlord/internal/module"
	"github.com/yanizio/landlord/internal/provider"
	"github.com/yanizio/landlord/internal/resolver"
	"github.com/yanizio/landlord/internal/secret"
	"github.com/yanizio/landlord/internal/server"

	_ "github.com/yanizio/landlord/modules/tenantinfo" // demo module
)

const serverEnvPath = "/usr/local/etc/landlord/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer logOut.Sync()

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Tenant providers ────────────────────────────────────────────
	//
	fileSrc, err := provider.NewFile(cfg.Tenants.Globs, provider.FileOptions{
		Dir:    cfg.Tenants.Dir,
		Ignore: cfg.Tenants.Ignore,
	})
	if err != nil {
		logOut.Fatalw("tenant file source", "err", err)
	}

	// Built-in fallback so a fresh checkout answers on localhost.  File
	// tenants with the same name override it (later source wins).
	fallback, err := provider.NewStatic(provider.Entry{
		Name:   "localhost",
		Config: map[string]any{"title": "Landlord (dev)"},
	})
	if err != nil {
		logOut.Fatalw("fallback source", "err", err)
	}

	//
	// ── 2.  Database factory (optionally Vault-resolved) ────────────────
	//
	factory := database.Factory(database.Pool{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if os.Getenv("VAULT_ADDR") != "" {
		res, err := secret.New(ctx, logOut)
		if err != nil {
			logOut.Fatalw("vault resolver", "err", err)
		}
		factory = res.WrapFactory(factory)
		logOut.Infow("vault secret resolution enabled")
	}

	//
	// ── 3.  Resolve tenants and attach databases ────────────────────────
	//
	ll, err := landlord.New(landlord.Options{
		Providers: []provider.Source{fallback, fileSrc},
		DB: resolver.DBOptions{
			Factory:    factory,
			Finalizer:  database.Finalizer,
			ConfigPath: cfg.Database.ConfigPath,
		},
		Req: landlord.RequestOptions{TenantHeader: cfg.Tenants.Header},
		Log: logOut,
	})
	if err != nil {
		logOut.Fatalw("landlord wiring", "err", err)
	}
	if err := ll.Resolve(); err != nil {
		logOut.Fatalw("tenant resolution", "err", err)
	}
	defer func() {
		if err := ll.Cleanup(); err != nil {
			logOut.Errorw("cleanup", "err", err)
		}
	}()

	//
	// ── 4.  Router: unbound endpoints, then tenant-bound modules ────────
	//
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/_routes", listRoutes(r))

	r.Group(func(g chi.Router) {
		g.Use(ll.Middleware())
		module.MountAll(g)
	})

	logOut.Infow("modules mounted", "modules", module.Names())

	var handler http.Handler = r
	if cfg.HTTP.ForceHTTPS {
		known := func(host string) bool {
			_, err := ll.Collection().Get(host)
			return err == nil
		}
		handler = middleware.ForceHTTPS(known, handler)
	}

	//
	// ── 5.  Serve, reload on SIGHUP, drain on SIGINT/SIGTERM ────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		return server.Run(gctx, srv)
	})
	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				if err := ll.Reload(); err != nil {
					logOut.Errorw("tenant reload failed, keeping old collection", "err", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalw("server", "err", err)
	}
	logOut.Infow("shutdown complete")
}

// listRoutes serves the introspected route table as JSON.
func listRoutes(r chi.Routes) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(module.Routes(r))
	}
}

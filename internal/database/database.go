// Package database centralises sqlx connection helpers and adapts them to
// the tenant resource-attach contract.  The default driver is
// go-sql-driver/mysql, which also covers MariaDB and anything speaking the
// MySQL wire protocol.
//
// Public entry points:
//
//	Open(dsn)                          – quick helper with conservative pool sizes.
//	OpenWithOptions(dsn, maxOpen, maxIdle) – fine-grained control.
//	Factory(defaults)                  – tenant.Factory reading per-tenant config.
//	Finalizer                          – tenant.Finalizer closing the pool.
//
// Open helpers Ping before returning so callers fail fast during
// bootstrap.  Factory deliberately does not Ping: the attach pipeline
// wants a handle immediately, and a tenant whose database is briefly down
// should not block every other tenant's startup.
package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/landlord/internal/tenant"
)

// Pool bounds for a per-tenant connection pool.
type Pool struct {
	MaxOpenConns int
	MaxIdleConns int
}

// Open returns a *sqlx.DB with sane defaults: 15 max open, 5 idle, and a
// 30-minute connection lifetime.
func Open(dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(dsn, 15, 5)
}

// OpenWithOptions lets callers tune maxOpen and maxIdle per pool.
func OpenWithOptions(dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Factory returns a tenant.Factory that opens a pool from the tenant's
// database config block.  Expected shape:
//
//	database:
//	  dsn: user:pw@tcp(host:3306)/schema?parseTime=true
//	  max_open_conns: 5    # optional, falls back to defaults
//	  max_idle_conns: 2
func Factory(defaults Pool) tenant.Factory {
	if defaults.MaxOpenConns <= 0 {
		defaults.MaxOpenConns = 5
	}
	if defaults.MaxIdleConns <= 0 {
		defaults.MaxIdleConns = 2
	}

	return func(config any) (any, error) {
		block, ok := config.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("database config: want a mapping, got %T: %w",
				config, tenant.ErrInvalidArgument)
		}
		dsn, _ := block["dsn"].(string)
		if dsn == "" {
			return nil, fmt.Errorf("database config: missing dsn: %w",
				tenant.ErrInvalidArgument)
		}

		maxOpen := intOr(block["max_open_conns"], defaults.MaxOpenConns)
		maxIdle := intOr(block["max_idle_conns"], defaults.MaxIdleConns)

		db, err := sqlx.Open("mysql", dsn)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(maxIdle)
		db.SetConnMaxLifetime(30 * time.Minute)
		return db, nil
	}
}

// Finalizer closes a pool opened by Factory.
func Finalizer(handle any) error {
	db, ok := handle.(*sqlx.DB)
	if !ok {
		return fmt.Errorf("database finalizer: want *sqlx.DB, got %T", handle)
	}
	return db.Close()
}

// FromRecord fetches the attached pool from a bound tenant record, or nil.
func FromRecord(rec *tenant.Record) *sqlx.DB {
	if rec == nil {
		return nil
	}
	db, _ := rec.Handle().(*sqlx.DB)
	return db
}

// intOr coerces YAML/JSON/TOML numeric shapes to int.
func intOr(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return fallback
	}
}

// internal/config/loader.go
//
// Configuration loader for the demo server.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `<root>/conf/.env` dotenv file.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `LANDLORD_`, where `__` maps to “.”
     (e.g., `LANDLORD_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, the tree is unmarshalled into the typed structs from
model.go, validated, enriched with the runtime root path, and cached in
an `atomic.Pointer` for lock-free reads.  `Reload()` calls `Load()` again
and swaps the pointer.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`, so
    `go run ./cmd/web` works from any sub-directory.  `LANDLORD_ROOT`
    short-circuits the search.
  • Early boot logs go through `zap.S()` so problems surface on the
    bootstrap console before the file logger is installed.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

var current atomic.Pointer[Config]

// rootDir resolves LANDLORD_ROOT or climbs directories until
// conf/global.yaml is found, falling back to the working directory.
func rootDir() string {
	if r := os.Getenv("LANDLORD_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}
	return wd
}

// Load reads .env, YAML, env overrides, validates, and caches Config.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}

	// Env overrides: LANDLORD_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider("LANDLORD_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(
			strings.TrimPrefix(s, "LANDLORD_"), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if cfg.Tenants.Dir == "" {
		cfg.Tenants.Dir = filepath.Join(root, "conf", "tenants")
	} else if !filepath.IsAbs(cfg.Tenants.Dir) {
		cfg.Tenants.Dir = filepath.Join(root, cfg.Tenants.Dir)
	}

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"tenant_globs", cfg.Tenants.Globs,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }

// internal/config/model.go
//
// Typed configuration model for the Landlord demo server.
//
// Context
// -------
// These structs define the shape of the tree that loader.go assembles from
// three overlay layers (highest precedence last):
//
//   • optional `conf/.env`                       – dotenv values,
//   • `conf/global.yaml`                         – primary static file,
//   • `LANDLORD_`-prefixed environment overrides – `__` maps to “.”.
//
// Validation happens immediately after unmarshal; the process fails fast
// when required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"` — Koanf ignores yaml
//     tags unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not set it.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Tenants section
//

// Tenants configures the file-backed tenant source and the request binder.
type Tenants struct {
	// Globs select tenant files, evaluated under Dir.
	Globs []string `koanf:"globs" validate:"required,min=1"`

	// Ignore drops matches, same glob syntax.
	Ignore []string `koanf:"ignore"`

	// Dir is the root for glob evaluation.  Relative values are resolved
	// against Paths.Root.
	Dir string `koanf:"dir"`

	// Header optionally names a request header used as the lookup key
	// instead of the Host.
	Header string `koanf:"header"`
}

//
// Database section
//

// Database controls the per-tenant pool the default sqlx factory opens.
// ConfigPath points into each *tenant's* config tree, not this one.
type Database struct {
	ConfigPath   string `koanf:"config_path"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime — never set in YAML or env.
type Paths struct {
	Root string // LANDLORD_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the process lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Tenants  Tenants  `koanf:"tenants"`
	Database Database `koanf:"database"`
	Paths    Paths    `koanf:"-"`
}

// internal/config/model.go
//
// Typed configuration model for the site.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from four overlay layers:
//
//   • built-in defaults                          – Defaults() below,
//   • optional `conf/.env`                        – dotenv values,
//   • `conf/site.yaml`                            – primary static file,
//   • `VETRINA_`-prefixed environment overrides   – highest precedence.
//
// The defaults reproduce the fixed values the site has always used
// (0.0.0.0:3000, ./templates, ./static, data/lacasa.db), so a checkout with
// no conf/ directory still serves.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • Relative paths are resolved against Paths.Root after unmarshal.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.  Mode "dev" enables template reloading.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
	Mode       string `koanf:"mode"        validate:"oneof=dev prod"`
}

//
// Database section
//

// Database selects the driver and DSN.  Pooled swaps the single locked
// connection for the database/sql pool; Seed creates the schema and demo
// rows at start.
type Database struct {
	Driver string `koanf:"driver" validate:"oneof=sqlite mysql"`
	DSN    string `koanf:"dsn"    validate:"required"`
	Pooled bool   `koanf:"pooled"`
	Seed   bool   `koanf:"seed"`
}

//
// Paths section
//

// Paths locates on-disk assets.  Root is resolved at runtime and never read
// from YAML or env.
type Paths struct {
	Root      string `koanf:"-"`
	Templates string `koanf:"templates" validate:"required"`
	Static    string `koanf:"static"    validate:"required"`
	Logs      string `koanf:"logs"      validate:"required"`
}

//
// Render, Geo, and Pages sections
//

// Render tweaks the view engine.
type Render struct {
	Minify bool `koanf:"minify"`
}

// Geo points at an optional MaxMind GeoLite2-City database.  Empty disables
// lookups.
type Geo struct {
	DB string `koanf:"db"`
}

// Pages holds the one filter value the slider page uses.
type Pages struct {
	SliderCode string `koanf:"slider_code" validate:"required"`
}

//
// Root aggregate
//

// Config is the aggregate returned by Load().  Bootstrap passes it down
// explicitly; nothing reads configuration from a global.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Paths    Paths    `koanf:"paths"`
	Render   Render   `koanf:"render"`
	Geo      Geo      `koanf:"geo"`
	Pages    Pages    `koanf:"pages"`
}

// Defaults returns the flat key map loaded beneath every other layer.
func Defaults() map[string]any {
	return map[string]any{
		"http.listen_addr":  "0.0.0.0:3000",
		"http.force_https":  false,
		"http.mode":         "prod",
		"database.driver":   "sqlite",
		"database.dsn":      "data/lacasa.db",
		"database.pooled":   false,
		"database.seed":     false,
		"paths.templates":   "templates",
		"paths.static":      "static",
		"paths.logs":        "logs",
		"render.minify":     false,
		"geo.db":            "",
		"pages.slider_code": "lasala",
	}
}

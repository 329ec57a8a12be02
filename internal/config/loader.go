// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from four layers (highest
precedence last):

  1. Built-in defaults (`Defaults()`).
  2. Optional `.env` file at `<root>/conf/.env`.
  3. Optional `conf/site.yaml`.
  4. Environment variables prefixed `VETRINA_`, where `__` maps to “.”
     (e.g., `VETRINA_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, the tree is unmarshalled into strongly-typed structs,
relative paths are anchored at the root, and the result is validated.
Callers own the returned *Config; nothing is cached at package level.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read.
  • ERROR spans — YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span  — final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`), which is a no-op
    until cmd/web installs the real one.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/site.yaml` or a
    `templates/` directory; this lets `go run ./cmd/web` work from any
    sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/lacasailpaese/vetrina/internal/database"
)

const envPrefix = "VETRINA_"

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves VETRINA_ROOT or climbs directories until a site layout
// is found.  Falls back to the working directory.
func rootDir() string {
	if r := os.Getenv(envPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if exists(filepath.Join(dir, "conf", "site.yaml")) || exists(filepath.Join(dir, "templates")) {
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

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load discovers the root and loads from it.
func Load() (*Config, error) {
	return LoadFrom(rootDir())
}

// LoadFrom reads defaults, .env, YAML, and env overrides for the given root
// and validates the result.
func LoadFrom(root string) (*Config, error) {
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, err
	}

	yamlPath := filepath.Join(root, "conf", "site.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, err
		}
		zap.S().Debugw("config yaml absent, using defaults", "file", yamlPath)
	} else {
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// Env overrides: VETRINA_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	cfg.resolve()

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"mode", cfg.HTTP.Mode,
		"driver", cfg.Database.Driver,
		"pooled", cfg.Database.Pooled,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// envKey maps VETRINA_DATABASE__DSN to database.dsn.  VETRINA_ROOT only
// steers discovery and is dropped.
func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	if s == "ROOT" {
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

// resolve anchors relative paths and SQLite file DSNs at Root.
func (c *Config) resolve() {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.Paths.Root, p)
	}
	c.Paths.Templates = abs(c.Paths.Templates)
	c.Paths.Static = abs(c.Paths.Static)
	c.Paths.Logs = abs(c.Paths.Logs)
	c.Geo.DB = abs(c.Geo.DB)

	dsn := c.Database.DSN
	if c.Database.Driver == "sqlite" && !database.IsMemory(dsn) && !strings.HasPrefix(dsn, "file:") {
		c.Database.DSN = abs(dsn)
	}
}

// Package database centralises sqlx connection helpers.  The default driver
// is modernc.org/sqlite (pure Go, no cgo); go-sql-driver/mysql is accepted
// for deployments that keep the site tables on MariaDB.
//
// Public entry points:
//
//	Open(ctx, driver, dsn)        – quick helper with per-driver pool sizes.
//	OpenWithOptions(ctx, opts)    – fine-grained control.
//	Migrate(ctx, db) / Seed(ctx, db) – schema and demo rows (schema.go).
//
// Both open helpers Ping the database before returning so callers can fail
// fast during bootstrap.  Callers should Close() the returned *sqlx.DB when
// no longer needed.
package database

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Options tunes one pool.  Zero values pick the per-driver defaults.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Retries         int
	RetryBackoff    time.Duration
}

// sqlitePragmas ride in the DSN as `_pragma=` parameters, so the driver
// applies them to every connection the pool opens, including ones that
// replace a connection past its lifetime.
var sqlitePragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// Open returns a *sqlx.DB with sane defaults for driver.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	return OpenWithOptions(ctx, Options{Driver: driver, DSN: dsn})
}

// OpenWithOptions opens, tunes, and pings one pool.  In-memory SQLite is
// always pinned to a single connection because each new connection would
// see an empty database.
func OpenWithOptions(ctx context.Context, opts Options) (*sqlx.DB, error) {
	if opts.Driver == "" {
		opts.Driver = DriverSQLite
	}
	applyDefaults(&opts)

	dsn := opts.DSN
	if opts.Driver == DriverSQLite && !IsMemory(dsn) {
		if dir := filepath.Dir(sqlitePath(dsn)); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
			}
		}
		dsn = withPragmas(dsn)
	}

	db, err := sqlx.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := pingWithRetry(ctx, db, opts); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Driver, err)
	}
	return db, nil
}

// IsMemory reports whether dsn names an in-memory SQLite database, in any
// of the spellings the driver accepts (`:memory:`, `file::memory:`,
// `file:x?mode=memory`).
func IsMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// sqlitePath strips the `file:` scheme and any query from dsn.
func sqlitePath(dsn string) string {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i != -1 {
		p = p[:i]
	}
	return p
}

// withPragmas appends sqlitePragmas to dsn unless it already sets its own.
func withPragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	q := make(url.Values)
	for _, p := range sqlitePragmas {
		q.Add("_pragma", p)
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + q.Encode()
}

func applyDefaults(o *Options) {
	if o.Driver == DriverSQLite && IsMemory(o.DSN) {
		o.MaxOpenConns, o.MaxIdleConns = 1, 1
		o.ConnMaxLifetime = 0 // closing the only connection drops the data
	}
	if o.MaxOpenConns == 0 {
		o.MaxOpenConns = 4
	}
	if o.MaxIdleConns == 0 {
		o.MaxIdleConns = 2
	}
	if o.ConnMaxLifetime == 0 && !IsMemory(o.DSN) {
		o.ConnMaxLifetime = 30 * time.Minute
	}
	if o.RetryBackoff == 0 {
		o.RetryBackoff = 500 * time.Millisecond
	}
}

func pingWithRetry(ctx context.Context, db *sqlx.DB, o Options) error {
	var err error
	for attempt := 0; attempt <= o.Retries; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == o.Retries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(o.RetryBackoff):
		}
	}
	return err
}

package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMemory_MigrateSeed(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// Seeding twice must not duplicate rows.
	for i := 0; i < 2; i++ {
		if err := Seed(ctx, db); err != nil {
			t.Fatalf("Seed #%d: %v", i+1, err)
		}
	}

	counts := map[string]int{
		"links":    len(DemoLinks),
		"slider":   len(DemoSlides),
		"entities": len(DemoEntities),
	}
	for table, want := range counts {
		var got int
		if err := db.Get(&got, "SELECT COUNT(*) FROM "+table); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s: %d rows, want %d", table, got, want)
		}
	}
}

func TestOpenFile_AppliesPragmas(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "site.db")

	db, err := Open(ctx, DriverSQLite, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	var mode string
	if err := db.Get(&mode, "PRAGMA journal_mode"); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("journal_mode = %q, want wal", mode)
	}
}

func TestIsMemory(t *testing.T) {
	cases := map[string]bool{
		":memory:":                      true,
		"file::memory:":                 true,
		"file::memory:?cache=shared":    true,
		"file:demo?mode=memory&cache=x": true,
		"data/lacasa.db":                false,
		"file:data/lacasa.db":           false,
	}
	for dsn, want := range cases {
		if got := IsMemory(dsn); got != want {
			t.Errorf("IsMemory(%q) = %v, want %v", dsn, got, want)
		}
	}
}

func TestOpenFile_CreatesParentDir(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	path := filepath.Join(dir, "lacasa.db")

	db, err := Open(ctx, DriverSQLite, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestOpenFile_PragmasOnEveryConnection(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "site.db")

	db, err := OpenWithOptions(ctx, Options{Driver: DriverSQLite, DSN: path, MaxOpenConns: 2, MaxIdleConns: 2})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	// Hold two connections at once so the second is a fresh one.
	for i := 0; i < 2; i++ {
		conn, err := db.Connx(ctx)
		if err != nil {
			t.Fatalf("conn #%d: %v", i+1, err)
		}
		defer conn.Close()

		var timeout, syncMode int
		if err := conn.GetContext(ctx, &timeout, "PRAGMA busy_timeout"); err != nil {
			t.Fatalf("busy_timeout: %v", err)
		}
		if err := conn.GetContext(ctx, &syncMode, "PRAGMA synchronous"); err != nil {
			t.Fatalf("synchronous: %v", err)
		}
		if timeout != 5000 || syncMode != 1 {
			t.Errorf("conn #%d: busy_timeout=%d synchronous=%d, want 5000 and 1", i+1, timeout, syncMode)
		}
	}
}

func TestWithPragmas(t *testing.T) {
	got := withPragmas("data/x.db")
	want := "data/x.db?_pragma=busy_timeout%285000%29&_pragma=journal_mode%28WAL%29&_pragma=synchronous%28NORMAL%29"
	if got != want {
		t.Errorf("withPragmas = %q", got)
	}
	if got := withPragmas("x.db?_pragma=busy_timeout(1)"); got != "x.db?_pragma=busy_timeout(1)" {
		t.Errorf("caller pragmas overridden: %q", got)
	}
	if got := sqlitePath("file:data/x.db?mode=ro"); got != "data/x.db" {
		t.Errorf("sqlitePath = %q", got)
	}
}

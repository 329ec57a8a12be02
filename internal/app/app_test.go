package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/lacasailpaese/vetrina/internal/config"
	"github.com/lacasailpaese/vetrina/internal/store"
)

func memConfig() *config.Config {
	return &config.Config{
		HTTP:     config.HTTP{ListenAddr: "127.0.0.1:0", Mode: "prod"},
		Database: config.Database{Driver: "sqlite", DSN: ":memory:", Seed: true},
		Paths: config.Paths{
			Templates: "../../templates",
			Static:    "../../static",
			Logs:      "",
		},
		Pages: config.Pages{SliderCode: "lasala"},
	}
}

func TestBuild_ServesSeededSite(t *testing.T) {
	a, err := Build(context.Background(), memConfig(), zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()

	if _, ok := a.Source.(*store.Shared); !ok {
		t.Fatalf("source = %T, want *store.Shared", a.Source)
	}

	rr := httptest.NewRecorder()
	a.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Mario") {
		t.Fatalf("GET / = %d", rr.Code)
	}
}

func TestBuild_PooledSource(t *testing.T) {
	cfg := memConfig()
	cfg.Database.DSN = filepath.Join(t.TempDir(), "lacasa.db")
	cfg.Database.Pooled = true

	a, err := Build(context.Background(), cfg, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()

	if _, ok := a.Source.(*store.Pooled); !ok {
		t.Fatalf("source = %T, want *store.Pooled", a.Source)
	}

	rr := httptest.NewRecorder()
	a.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Le Camere") {
		t.Fatalf("GET / = %d", rr.Code)
	}
}

func TestBuild_StartupErrors(t *testing.T) {
	cases := map[string]func(*config.Config){
		"templates": func(c *config.Config) { c.Paths.Templates = t.TempDir() },
		"database":  func(c *config.Config) {
			// A regular file where the database directory should be.
			blocker := filepath.Join(t.TempDir(), "data")
			if err := os.WriteFile(blocker, nil, 0o644); err != nil {
				t.Fatal(err)
			}
			c.Database.DSN = filepath.Join(blocker, "x.db")
		},
		"geo": func(c *config.Config) { c.Geo.DB = "/nonexistent/GeoLite2-City.mmdb" },
	}
	for stage, mutate := range cases {
		t.Run(stage, func(t *testing.T) {
			cfg := memConfig()
			mutate(cfg)

			_, err := Build(context.Background(), cfg, zap.NewNop().Sugar())
			var se *StartupError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want *StartupError", err)
			}
			if se.Stage != stage {
				t.Fatalf("stage = %q, want %q", se.Stage, stage)
			}
		})
	}
}

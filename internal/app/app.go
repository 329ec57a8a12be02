// internal/app/app.go
//
// Process bootstrap.
//
// Context
// -------
// Build wires every long-lived dependency in a fixed order and returns an
// *App that owns them:
//
//  1. Open the database (ping with retry).
//  2. Migrate and seed, when database.seed is set.
//  3. Wrap the handle in a Shared or Pooled store.Source.
//  4. Parse the template directory.
//  5. Open the optional GeoLite2 database.
//  6. Build the router from the page catalogue.
//
// A failure at any step closes what was already opened and returns a
// *StartupError naming the step.  Nothing is served until Build succeeds.
//
// Notes
// -----
//   - Close is safe to call once after a successful Build.
//   - Oxford commas, two spaces after periods.
package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/lacasailpaese/vetrina/internal/config"
	"github.com/lacasailpaese/vetrina/internal/database"
	"github.com/lacasailpaese/vetrina/internal/page"
	"github.com/lacasailpaese/vetrina/internal/requestinfo"
	"github.com/lacasailpaese/vetrina/internal/server"
	"github.com/lacasailpaese/vetrina/internal/store"
	"github.com/lacasailpaese/vetrina/internal/view"
)

// StartupError reports a bootstrap step that failed.  The process must not
// serve after one.
type StartupError struct {
	Stage string
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup %s: %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// App is a fully wired site.
type App struct {
	Config  *config.Config
	Source  store.Source
	Engine  *view.Engine
	Pages   []page.Page
	Handler http.Handler

	geo *requestinfo.GeoDB
}

// Build wires cfg into a ready App.
func Build(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*App, error) {
	db, err := database.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, &StartupError{Stage: "database", Err: err}
	}

	if cfg.Database.Seed {
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, &StartupError{Stage: "migrate", Err: err}
		}
		if err := database.Seed(ctx, db); err != nil {
			db.Close()
			return nil, &StartupError{Stage: "seed", Err: err}
		}
	}

	var src store.Source
	if cfg.Database.Pooled {
		src = store.NewPooled(db)
	} else {
		src = store.NewShared(db)
	}

	eng, err := view.New(view.Options{
		Dir:    cfg.Paths.Templates,
		Minify: cfg.Render.Minify,
	})
	if err != nil {
		src.Close()
		return nil, &StartupError{Stage: "templates", Err: err}
	}

	pages := page.Catalogue(cfg.Pages.SliderCode)
	for _, p := range pages {
		if !eng.Has(p.Template) {
			src.Close()
			return nil, &StartupError{
				Stage: "templates",
				Err:   fmt.Errorf("page %s: %w: %s", p.Name, view.ErrTemplateNotFound, p.Template),
			}
		}
	}

	geo, err := requestinfo.OpenGeo(cfg.Geo.DB)
	if err != nil {
		src.Close()
		return nil, &StartupError{Stage: "geo", Err: err}
	}

	h := server.Router(server.Deps{
		Source:     src,
		Renderer:   eng,
		Pages:      pages,
		StaticDir:  cfg.Paths.Static,
		ForceHTTPS: cfg.HTTP.ForceHTTPS,
		Geo:        geo,
		Log:        log,
	})

	log.Infow("site ready",
		"driver", cfg.Database.Driver,
		"pooled", cfg.Database.Pooled,
		"pages", len(pages),
		"templates", cfg.Paths.Templates,
	)

	return &App{
		Config:  cfg,
		Source:  src,
		Engine:  eng,
		Pages:   pages,
		Handler: h,
		geo:     geo,
	}, nil
}

// Close releases the database and geo handles.
func (a *App) Close() error {
	gerr := a.geo.Close()
	if err := a.Source.Close(); err != nil {
		return err
	}
	return gerr
}

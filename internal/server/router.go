// internal/server/router.go
//
// Root router.
//
// Middleware order
// ----------------
//  1. requestinfo.Enrich   – request id, UA, and geo on the context.
//  2. AccessLog            – status, duration, and request counters.
//  3. Recoverer            – a panicking handler yields 500, not a crash.
//  4. GetHead              – HEAD is answered by the GET route.
//  5. Security             – defensive response headers.
//  6. ForceHTTPS           – optional, after logging so redirects are seen.
//
// Routes
// ------
//   - one GET route per page.Page in the catalogue,
//   - /healthz and /metrics,
//   - /static/* straight from disk, outside the page pipeline.
//
// Anything else is 404; a known path with another method is 405.

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lacasailpaese/vetrina/internal/middleware"
	"github.com/lacasailpaese/vetrina/internal/page"
	"github.com/lacasailpaese/vetrina/internal/requestinfo"
	"github.com/lacasailpaese/vetrina/internal/store"
)

// Deps is everything the router needs.  Geo may be nil.
type Deps struct {
	Source     store.Source
	Renderer   page.Renderer
	Pages      []page.Page
	StaticDir  string
	ForceHTTPS bool
	Geo        *requestinfo.GeoDB
	Log        *zap.SugaredLogger
}

// Router builds the root handler.
func Router(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop().Sugar()
	}

	r := chi.NewRouter()
	r.Use(
		requestinfo.Enrich(d.Geo),
		middleware.AccessLog(d.Log),
		chimw.Recoverer,
		chimw.GetHead,
		middleware.Security,
	)
	if d.ForceHTTPS {
		r.Use(middleware.ForceHTTPS)
	}

	for _, p := range d.Pages {
		r.Get(p.Path, pageHandler(p, d.Source, d.Renderer, d.Log))
	}

	r.Get("/healthz", healthHandler(d.Source))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if d.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(d.StaticDir)))
		r.Method(http.MethodGet, "/static/*", fs)
	}

	return r
}

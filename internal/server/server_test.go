// internal/server/server_test.go
//
// End-to-end tests: the real templates under ../../templates, the page
// catalogue, and a seeded in-memory SQLite database.
//
// Run: go test ./internal/server -v

package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/lacasailpaese/vetrina/internal/database"
	"github.com/lacasailpaese/vetrina/internal/page"
	"github.com/lacasailpaese/vetrina/internal/record"
	"github.com/lacasailpaese/vetrina/internal/store"
	"github.com/lacasailpaese/vetrina/internal/view"
)

func seededDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(ctx, db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func newRouter(t *testing.T, src store.Source) http.Handler {
	t.Helper()
	eng, err := view.New(view.Options{Dir: "../../templates"})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	return Router(Deps{
		Source:    src,
		Renderer:  eng,
		Pages:     page.Catalogue("lasala"),
		StaticDir: "../../static",
	})
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	body, _ := io.ReadAll(rr.Body)
	return rr.Code, string(body)
}

// flakySource fails its first n queries, then delegates.
type flakySource struct {
	store.Source
	fail atomic.Int32
}

func (f *flakySource) Query(ctx context.Context, st store.Statement, p map[string]any, each func(*sqlx.Rows) error) error {
	if f.fail.Add(-1) >= 0 {
		return &store.QueryError{Statement: st.Name, Err: errors.New("no such table: links")}
	}
	return f.Source.Query(ctx, st, p, each)
}

func TestIndex_RendersGreetingAndLinks(t *testing.T) {
	h := newRouter(t, store.NewShared(seededDB(t)))

	code, body := get(t, h, "/")
	if code != http.StatusOK {
		t.Fatalf("status = %d, body %s", code, body)
	}
	for _, want := range []string{"Mario", "21 Dicembre 2025", "Le Camere", "La Cucina"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Index(body, "Le Camere") > strings.Index(body, "La Cucina") {
		t.Errorf("links out of id order")
	}
}

func TestPages_AllServe(t *testing.T) {
	h := newRouter(t, store.NewShared(seededDB(t)))

	cases := map[string]string{
		"/about":         "Chi siamo",
		"/lacasailpaese": "La Sala",
		"/demo":          "Lucia Bianchi",
	}
	for path, want := range cases {
		code, body := get(t, h, path)
		if code != http.StatusOK {
			t.Errorf("%s: status %d", path, code)
			continue
		}
		if !strings.Contains(body, want) {
			t.Errorf("%s: body missing %q", path, want)
		}
	}
}

func TestSlider_FiltersByCode(t *testing.T) {
	h := newRouter(t, store.NewShared(seededDB(t)))

	_, body := get(t, h, "/lacasailpaese")
	if !strings.Contains(body, "Il cuore della casa") {
		t.Fatalf("lasala slide missing")
	}
	if strings.Contains(body, "Il Giardino") {
		t.Fatalf("slide with another code2 rendered")
	}
}

func TestRender_EscapesDatabaseText(t *testing.T) {
	db := seededDB(t)
	_, err := db.Exec(`UPDATE links SET title = ? WHERE id = 1`, `<script>alert("x")</script>`)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	h := newRouter(t, store.NewShared(db))

	_, body := get(t, h, "/")
	if strings.Contains(body, "<script>alert") {
		t.Fatalf("unescaped title in output")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Fatalf("escaped title missing")
	}
}

func TestRender_Deterministic(t *testing.T) {
	h := newRouter(t, store.NewShared(seededDB(t)))

	_, a := get(t, h, "/")
	_, b := get(t, h, "/")
	if a != b {
		t.Fatalf("two renders differ")
	}
}

func TestQueryFailure_500ThenRecovers(t *testing.T) {
	src := &flakySource{Source: store.NewShared(seededDB(t))}
	src.fail.Store(1)
	h := newRouter(t, src)

	code, body := get(t, h, "/")
	if code != http.StatusInternalServerError || body != ErrorBody {
		t.Fatalf("first request: %d %q", code, body)
	}
	if strings.Contains(body, "no such table") {
		t.Fatalf("error details leaked to client")
	}

	code, _ = get(t, h, "/")
	if code != http.StatusOK {
		t.Fatalf("second request: status %d", code)
	}
}

func TestMissingTable_500(t *testing.T) {
	db := seededDB(t)
	if _, err := db.Exec(`DROP TABLE entities`); err != nil {
		t.Fatal(err)
	}
	h := newRouter(t, store.NewShared(db))

	code, body := get(t, h, "/demo")
	if code != http.StatusInternalServerError || body != ErrorBody {
		t.Fatalf("got %d %q", code, body)
	}
	if code, _ := get(t, h, "/about"); code != http.StatusOK {
		t.Fatalf("other page broken after failure: %d", code)
	}
}

func TestUnknownPathAndMethod(t *testing.T) {
	h := newRouter(t, store.NewShared(seededDB(t)))

	if code, _ := get(t, h, "/nope"); code != http.StatusNotFound {
		t.Errorf("unknown path: %d", code)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/about", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST: %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodHead, "/about", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("HEAD: %d", rr.Code)
	}
}

func TestStaticAndHealth(t *testing.T) {
	h := newRouter(t, store.NewShared(seededDB(t)))

	code, body := get(t, h, "/static/css/site.css")
	if code != http.StatusOK || !strings.Contains(body, "--accent") {
		t.Errorf("static: %d", code)
	}
	if code, body := get(t, h, "/healthz"); code != http.StatusOK || body != "ok" {
		t.Errorf("healthz: %d %q", code, body)
	}
	if code, _ := get(t, h, "/metrics"); code != http.StatusOK {
		t.Errorf("metrics: %d", code)
	}
}

func TestErrorKind(t *testing.T) {
	cases := map[string]error{
		"query":    &store.QueryError{Statement: "s", Err: errors.New("x")},
		"decode":   &record.RowDecodeError{Shape: "link", Err: errors.New("x")},
		"render":   &view.RenderError{Template: "t", Err: errors.New("x")},
		"canceled": context.Canceled,
		"internal": errors.New("x"),
	}
	// A cancelled request surfaces from the executor as a wrapped QueryError.
	for name, err := range map[string]error{
		"canceled": &store.QueryError{Statement: "links_all", Err: context.Canceled},
		"timeout":  &store.QueryError{Statement: "links_all", Err: context.DeadlineExceeded},
	} {
		if got := errorKind(err); got != "canceled" {
			t.Errorf("%s: errorKind(%v) = %q, want canceled", name, err, got)
		}
	}
	for want, err := range cases {
		if got := errorKind(err); got != want {
			t.Errorf("errorKind(%v) = %q, want %q", err, got, want)
		}
	}
}

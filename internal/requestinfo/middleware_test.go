package requestinfo

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(t *testing.T, req *http.Request) (*Info, *httptest.ResponseRecorder) {
	t.Helper()
	var got *Info
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	})
	rr := httptest.NewRecorder()
	Enrich(nil)(next).ServeHTTP(rr, req)
	if got == nil {
		t.Fatal("Info not attached to context")
	}
	return got, rr
}

func TestEnrich_MintsRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	info, rr := serve(t, req)

	if info.ID == "" {
		t.Fatal("empty request id")
	}
	if rr.Header().Get(HeaderRequestID) != info.ID {
		t.Fatalf("response id %q != context id %q", rr.Header().Get(HeaderRequestID), info.ID)
	}
}

func TestEnrich_KeepsInboundID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	info, _ := serve(t, req)

	if info.ID != "abc-123" {
		t.Fatalf("id = %q, want abc-123", info.ID)
	}
}

func TestEnrich_ClientIPAndLang(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("Accept-Language", "it-IT,it;q=0.9,en;q=0.8")
	info, _ := serve(t, req)

	if info.Geo.IP.String() != "203.0.113.7" {
		t.Errorf("ip = %v, want 203.0.113.7", info.Geo.IP)
	}
	if info.Geo.CountryISO != "" {
		t.Errorf("country resolved without a geo db: %q", info.Geo.CountryISO)
	}
	if info.UA.PrimaryLang != "it" {
		t.Errorf("lang = %q, want it", info.UA.PrimaryLang)
	}
}

func TestEnrich_DetectsBot(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	info, _ := serve(t, req)

	if !info.UA.IsBot {
		t.Fatalf("Googlebot not flagged: %+v", info.UA)
	}
}

func TestOpenGeo_EmptyPath(t *testing.T) {
	g, err := OpenGeo("")
	if err != nil || g != nil {
		t.Fatalf("OpenGeo(\"\") = %v, %v; want nil, nil", g, err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}

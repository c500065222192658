package routing_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/km-arc/configinject/framework/logging"
	"github.com/km-arc/configinject/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := routing.New(nil)
	r.Get("/bindings", okHandler)
	r.Post("/reload", okHandler)
	r.Put("/keys/{key}", okHandler)
	r.Delete("/keys/{key}", okHandler)

	cases := []struct{ method, path string }{
		{http.MethodGet, "/bindings"},
		{http.MethodPost, "/reload"},
		{http.MethodPut, "/keys/db.port"},
		{http.MethodDelete, "/keys/db.port"},
	}
	for _, tc := range cases {
		if rr := do(t, r, tc.method, tc.path); rr.Code != http.StatusOK {
			t.Errorf("%s %s: got %d want 200", tc.method, tc.path, rr.Code)
		}
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r := routing.New(nil)
	r.Get("/bindings", okHandler)

	if rr := do(t, r, http.MethodPost, "/bindings"); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /bindings: got %d want 405", rr.Code)
	}
}

func TestRouter_NotFound(t *testing.T) {
	r := routing.New(nil)
	if rr := do(t, r, http.MethodGet, "/missing"); rr.Code != http.StatusNotFound {
		t.Errorf("GET /missing: got %d want 404", rr.Code)
	}
}

// ── Groups & Prefixes ─────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := routing.New(nil)
	r.Prefix("/_config", func(r *routing.Router) {
		r.Get("/report", okHandler)
	})

	if rr := do(t, r, http.MethodGet, "/_config/report"); rr.Code != http.StatusOK {
		t.Errorf("GET /_config/report: got %d want 200", rr.Code)
	}
	if rr := do(t, r, http.MethodGet, "/report"); rr.Code != http.StatusNotFound {
		t.Errorf("GET /report: got %d want 404", rr.Code)
	}
}

func TestRouter_GroupMiddleware(t *testing.T) {
	r := routing.New(nil)
	r.Group(func(r *routing.Router) {
		r.Middleware(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("X-Group", "yes")
				next.ServeHTTP(w, req)
			})
		})
		r.Get("/inside", okHandler)
	})
	r.Get("/outside", okHandler)

	if got := do(t, r, http.MethodGet, "/inside").Header().Get("X-Group"); got != "yes" {
		t.Errorf("inside group: X-Group=%q want yes", got)
	}
	if got := do(t, r, http.MethodGet, "/outside").Header().Get("X-Group"); got != "" {
		t.Errorf("outside group: X-Group=%q want empty", got)
	}
}

// ── Params ────────────────────────────────────────────────────────────────────

func TestRouter_Param(t *testing.T) {
	r := routing.New(nil)
	var got string
	r.Get("/keys/{key}", func(w http.ResponseWriter, req *http.Request) {
		got = routing.Param(req, "key")
	})

	do(t, r, http.MethodGet, "/keys/server.port")
	if got != "server.port" {
		t.Errorf("Param(key): got %q want server.port", got)
	}
}

// ── Middleware ────────────────────────────────────────────────────────────────

func TestRouter_RecoversPanics(t *testing.T) {
	r := routing.New(nil)
	r.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })

	if rr := do(t, r, http.MethodGet, "/panic"); rr.Code != http.StatusInternalServerError {
		t.Errorf("GET /panic: got %d want 500", rr.Code)
	}
}

func TestRouter_RequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := routing.New(logging.New("info", "text", &buf))
	r.Get("/bindings", okHandler)

	do(t, r, http.MethodGet, "/bindings")

	out := buf.String()
	for _, want := range []string{"http request", "path=/bindings", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestRouter_Handler(t *testing.T) {
	r := routing.New(nil)
	r.Get("/ok", okHandler)
	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ok")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("got %d want 200", resp.StatusCode)
	}
}

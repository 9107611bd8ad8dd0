package http_server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/grand-thief-cash/todolist/infra/application/components/prometheus"
	"github.com/grand-thief-cash/todolist/infra/application/core"
)

func newTestServer(t *testing.T, cfg *HTTPServerConfig) http.Handler {
	t.Helper()
	comp, err := NewFactory(core.NewContainer()).Create(cfg)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	hc := comp.(*HTTPServerComponent)
	if err := hc.AddRouteRegistrar(func(r chi.Router, _ *core.Container) error {
		r.Get("/api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("item " + chi.URLParam(r, "id")))
		})
		return nil
	}); err != nil {
		t.Fatalf("add registrar: %v", err)
	}
	h, err := hc.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return h
}

func TestCaseInsensitiveRoutes(t *testing.T) {
	h := newTestServer(t, &HTTPServerConfig{Enabled: true, CaseInsensitiveRoutes: true})
	for _, path := range []string{"/api/items/7", "/API/Items/7", "/Api/ITEMS/7"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, rec.Code)
		}
		body, _ := io.ReadAll(rec.Body)
		if string(body) != "item 7" {
			t.Fatalf("%s: body %q", path, body)
		}
	}
}

func TestCaseSensitiveByDefault(t *testing.T) {
	h := newTestServer(t, &HTTPServerConfig{Enabled: true})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/API/Items/7", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t, &HTTPServerConfig{Enabled: true, EnableHealth: true})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, &HTTPServerConfig{Enabled: true, CORS: &CORSConfig{Enabled: true}})
	req := httptest.NewRequest(http.MethodOptions, "/api/items/1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin = %q", got)
	}
}

func TestStartStop(t *testing.T) {
	comp, err := NewFactory(core.NewContainer()).Create(&HTTPServerConfig{Enabled: true, Address: "127.0.0.1:0", EnableHealth: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	hc := comp.(*HTTPServerComponent)
	ctx := context.Background()
	if err := hc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	resp, err := http.Get("http://" + hc.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if err := hc.HealthCheck(); err != nil {
		t.Fatalf("health: %v", err)
	}
	if err := hc.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := hc.AddRouteRegistrar(func(chi.Router, *core.Container) error { return nil }); err != nil {
		t.Fatalf("registrar after stop should be accepted: %v", err)
	}
}

func TestRequestMetricsUseRoutePattern(t *testing.T) {
	pc := prometheus.NewComponent(&prometheus.Config{Namespace: "t"})
	r := chi.NewRouter()
	r.Use(requestMetrics(pc))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}
	rec := httptest.NewRecorder()
	pc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	want := `t_http_requests_total{method="GET",route="/items/{id}",status="418"} 2`
	if !strings.Contains(rec.Body.String(), want) {
		t.Fatalf("missing %q in\n%s", want, rec.Body.String())
	}
}

func TestRouteOwnerCanRequireCaseInsensitive(t *testing.T) {
	RequireCaseInsensitiveRoutes()
	t.Cleanup(func() {
		routeMu.Lock()
		caseFoldNeeded = false
		routeMu.Unlock()
	})
	h := newTestServer(t, &HTTPServerConfig{Enabled: true, CaseInsensitiveRoutes: false})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/API/Items/7", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
}

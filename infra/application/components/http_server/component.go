package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/grand-thief-cash/todolist/infra/application/components/logging"
	"github.com/grand-thief-cash/todolist/infra/application/components/prometheus"
	"github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
)

type HTTPServerComponent struct {
	*core.BaseComponent
	cfg       *HTTPServerConfig
	container *core.Container
	router    chi.Router
	server    *http.Server
	extras    []RouteRegisterFunc

	mu       sync.RWMutex
	started  bool
	boundTo  string
	serveErr chan error
}

func NewHTTPServerComponent(cfg *HTTPServerConfig, c *core.Container) *HTTPServerComponent {
	return &HTTPServerComponent{
		BaseComponent: core.NewBaseComponent(consts.COMPONENT_HTTP_SERVER, consts.COMPONENT_LOGGING),
		cfg:           cfg,
		container:     c,
	}
}

// SoftDependencies: telemetry must install the tracer provider before otelchi captures it.
func (hc *HTTPServerComponent) SoftDependencies() []string {
	return []string{consts.COMPONENT_TELEMETRY, consts.COMPONENT_PROMETHEUS}
}

func (hc *HTTPServerComponent) AddRouteRegistrar(fn RouteRegisterFunc) error {
	if fn == nil {
		return nil
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()
	if hc.started {
		return fmt.Errorf("cannot register route: http_server already started (use BeforeStart hook)")
	}
	hc.extras = append(hc.extras, fn)
	return nil
}

func (hc *HTTPServerComponent) Router() chi.Router { return hc.router }

// Addr is the bound listen address, useful when configured with port 0.
func (hc *HTTPServerComponent) Addr() string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.boundTo
}

// Handler builds the router with middlewares and every registered route.
// Start serves it; tests can call it directly.
func (hc *HTTPServerComponent) Handler() (http.Handler, error) {
	r := chi.NewRouter()
	hc.setupMiddlewares(r)
	if hc.cfg.EnableHealth {
		r.Get("/healthz", hc.healthHandler)
	}
	hc.mu.RLock()
	registrars := append(snapshot(), hc.extras...)
	hc.mu.RUnlock()
	for _, fn := range registrars {
		if err := fn(r, hc.container); err != nil {
			return nil, fmt.Errorf("route register failed: %w", err)
		}
	}
	hc.router = r
	return r, nil
}

func (hc *HTTPServerComponent) Start(ctx context.Context) error {
	if err := hc.BaseComponent.Start(ctx); err != nil {
		return err
	}
	if hc.cfg == nil || !hc.cfg.Enabled {
		return errors.New("http_server component enabled flag mismatch")
	}
	handler, err := hc.Handler()
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", hc.cfg.Address)
	if err != nil {
		return fmt.Errorf("http_server listen %s: %w", hc.cfg.Address, err)
	}
	hc.server = &http.Server{
		Handler:      handler,
		ReadTimeout:  hc.cfg.ReadTimeout,
		WriteTimeout: hc.cfg.WriteTimeout,
		IdleTimeout:  hc.cfg.IdleTimeout,
	}
	hc.serveErr = make(chan error, 1)
	go func() {
		logging.Infof(ctx, "http_server listening on %s", ln.Addr())
		if err := hc.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Errorf(context.Background(), "http_server server error: %v", err)
			hc.serveErr <- err
		}
	}()

	hc.mu.Lock()
	hc.started = true
	hc.boundTo = ln.Addr().String()
	hc.mu.Unlock()
	return nil
}

func (hc *HTTPServerComponent) Stop(ctx context.Context) error {
	defer hc.BaseComponent.Stop(ctx)
	hc.mu.Lock()
	started := hc.started
	hc.started = false
	hc.mu.Unlock()
	if !started || hc.server == nil {
		return nil
	}
	stopCtx, cancel := context.WithTimeout(ctx, hc.cfg.GracefulTimeout)
	defer cancel()
	if err := hc.server.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("http_server graceful shutdown failed: %w", err)
	}
	logging.Infof(ctx, "http_server server stopped")
	return nil
}

func (hc *HTTPServerComponent) HealthCheck() error {
	if err := hc.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	if !hc.started {
		return fmt.Errorf("http_server server not started")
	}
	select {
	case err := <-hc.serveErr:
		hc.serveErr <- err
		return fmt.Errorf("http_server serve failed: %w", err)
	default:
	}
	return nil
}

func (hc *HTTPServerComponent) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (hc *HTTPServerComponent) setupMiddlewares(r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(hc.cfg.HandlerTimeout))
	if cc := hc.cfg.CORS; cc != nil && cc.Enabled {
		r.Use(corsHandler(cc))
	}
	// 解析 W3C traceparent 并创建 server span
	r.Use(otelchi.Middleware(hc.cfg.ServiceName, otelchi.WithChiRoutes(r)))
	r.Use(accessLog)
	if pc := prometheus.C(); pc != nil {
		r.Use(requestMetrics(pc))
	}
	if hc.cfg.CaseInsensitiveRoutes || caseInsensitiveRequired() {
		r.Use(CaseInsensitive)
	}
}

package http_client

import (
	"context"
	"fmt"
	"sync"

	"github.com/grand-thief-cash/todolist/infra/application/components/logging"
	"github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
)

type HTTPClientsComponent struct {
	*core.BaseComponent
	cfg     *HTTPClientsConfig
	mu      sync.RWMutex
	clients map[string]*InstrumentedClient
	defName string
}

func NewHTTPClientsComponent(cfg *HTTPClientsConfig) *HTTPClientsComponent {
	return &HTTPClientsComponent{
		BaseComponent: core.NewBaseComponent(consts.COMPONENT_HTTP_CLIENTS, consts.COMPONENT_LOGGING),
		cfg:           cfg,
		clients:       map[string]*InstrumentedClient{},
	}
}

// SoftDependencies: without telemetry otelhttp falls back to the no-op provider.
func (hc *HTTPClientsComponent) SoftDependencies() []string {
	return []string{consts.COMPONENT_TELEMETRY}
}

func (hc *HTTPClientsComponent) Start(ctx context.Context) error {
	if err := hc.BaseComponent.Start(ctx); err != nil {
		return err
	}
	if hc.cfg == nil || !hc.cfg.Enabled {
		return fmt.Errorf("http_clients disabled or missing config")
	}
	hc.cfg.applyDefaults()
	hc.mu.Lock()
	hc.defName = hc.cfg.Default
	for name, cCfg := range hc.cfg.Clients {
		hc.clients[name] = NewInstrumentedClient(name, cCfg)
	}
	hc.mu.Unlock()

	logging.Infof(ctx, "http_clients component started with %d clients", len(hc.cfg.Clients))
	return nil
}

func (hc *HTTPClientsComponent) Stop(ctx context.Context) error {
	defer hc.BaseComponent.Stop(ctx)
	hc.mu.RLock()
	for _, cli := range hc.clients {
		cli.CloseIdleConnections()
	}
	hc.mu.RUnlock()
	logging.Info(ctx, "http_clients component stopped")
	return nil
}

func (hc *HTTPClientsComponent) HealthCheck() error {
	if err := hc.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	if len(hc.clients) == 0 {
		return fmt.Errorf("no http clients initialized")
	}
	return nil
}

func (hc *HTTPClientsComponent) Client(name string) (*InstrumentedClient, error) {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	if name == "" {
		name = hc.defName
	}
	cli, ok := hc.clients[name]
	if !ok {
		return nil, fmt.Errorf("http client %s not found", name)
	}
	return cli, nil
}

func (hc *HTTPClientsComponent) Default() (*InstrumentedClient, error) { return hc.Client("") }

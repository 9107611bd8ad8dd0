package http_server

import (
	"fmt"
	"time"

	"github.com/grand-thief-cash/todolist/infra/application/core"
)

type Factory struct {
	container *core.Container
}

func NewFactory(c *core.Container) *Factory { return &Factory{container: c} }

func (f *Factory) Create(cfg interface{}) (core.Component, error) {
	httpCfg, ok := cfg.(*HTTPServerConfig)
	if !ok {
		return nil, fmt.Errorf("invalid config type for http_server component (need *HTTPServerConfig)")
	}
	if !httpCfg.Enabled {
		return nil, fmt.Errorf("http_server component disabled")
	}
	applyDefaults(httpCfg)
	return NewHTTPServerComponent(httpCfg, f.container), nil
}

func applyDefaults(c *HTTPServerConfig) {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.HandlerTimeout == 0 {
		c.HandlerTimeout = 60 * time.Second
	}
	if c.GracefulTimeout == 0 {
		c.GracefulTimeout = 10 * time.Second
	}
	if c.ServiceName == "" {
		c.ServiceName = "http_server"
	}
	if cc := c.CORS; cc != nil && cc.Enabled {
		if len(cc.AllowedOrigins) == 0 {
			cc.AllowedOrigins = []string{"*"}
		}
		if len(cc.AllowedMethods) == 0 {
			cc.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
		}
		if len(cc.AllowedHeaders) == 0 {
			cc.AllowedHeaders = []string{"Accept", "Authorization", "Content-Type"}
		}
		if cc.MaxAge == 0 {
			cc.MaxAge = 300
		}
	}
}

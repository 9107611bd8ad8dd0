package registry

import (
	"github.com/grand-thief-cash/todolist/infra/application/components/http_client"
	"github.com/grand-thief-cash/todolist/infra/application/config"
	"github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
)

func init() {
	Register(consts.COMPONENT_HTTP_CLIENTS, func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		if cfg.HTTPClients == nil || !cfg.HTTPClients.Enabled {
			return false, nil, nil
		}
		comp, err := http_client.NewFactory().Create(cfg.HTTPClients)
		return true, comp, err
	})
}

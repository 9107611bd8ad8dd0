package registry

import (
	"github.com/grand-thief-cash/todolist/infra/application/components/postgresgorm"
	"github.com/grand-thief-cash/todolist/infra/application/config"
	"github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
)

func init() {
	Register(consts.COMPONENT_POSTGRES_GORM, func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		if cfg.PostgresGORM == nil || !cfg.PostgresGORM.Enabled {
			return false, nil, nil
		}
		comp, err := postgresgorm.NewFactory().Create(cfg.PostgresGORM)
		return true, comp, err
	})
}

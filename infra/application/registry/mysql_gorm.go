package registry

import (
	"github.com/grand-thief-cash/todolist/infra/application/components/mysqlgorm"
	"github.com/grand-thief-cash/todolist/infra/application/config"
	"github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
)

func init() {
	Register(consts.COMPONENT_MYSQL_GORM, func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		if cfg.MySQLGORM == nil || !cfg.MySQLGORM.Enabled {
			return false, nil, nil
		}
		comp, err := mysqlgorm.NewFactory().Create(cfg.MySQLGORM)
		return true, comp, err
	})
}

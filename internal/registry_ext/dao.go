package registry_ext

import (
	"github.com/grand-thief-cash/todolist/infra/application/config"
	"github.com/grand-thief-cash/todolist/infra/application/core"
	"github.com/grand-thief-cash/todolist/infra/application/registry"
	bizConfig "github.com/grand-thief-cash/todolist/internal/config"
	"github.com/grand-thief-cash/todolist/internal/consts"
	"github.com/grand-thief-cash/todolist/internal/dao"
)

func init() {
	// storage.driver picks the implementation; sql daos resolve their gorm component by tag.
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		st := bizConfig.GetBizConfig().Storage
		if st.Driver == consts.STORAGE_MEMORY {
			return true, dao.NewMemoryTaskDao(), nil
		}
		return true, dao.NewTaskDao(st.Driver, st.DataSource), nil
	})
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		st := bizConfig.GetBizConfig().Storage
		if st.Driver == consts.STORAGE_MEMORY {
			return true, dao.NewMemoryUserDao(), nil
		}
		return true, dao.NewUserDao(st.Driver, st.DataSource), nil
	})
}

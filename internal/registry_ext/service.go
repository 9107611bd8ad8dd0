package registry_ext

import (
	"github.com/grand-thief-cash/todolist/infra/application/config"
	"github.com/grand-thief-cash/todolist/infra/application/core"
	"github.com/grand-thief-cash/todolist/infra/application/registry"
	"github.com/grand-thief-cash/todolist/internal/auth"
	bizConfig "github.com/grand-thief-cash/todolist/internal/config"
	"github.com/grand-thief-cash/todolist/internal/consts"
	"github.com/grand-thief-cash/todolist/internal/service"
)

func init() {
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, auth.NewTokenManager(bizConfig.GetBizConfig().Auth), nil
	})
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		if bizConfig.GetBizConfig().Auth.Revocation == consts.REVOCATION_REDIS {
			return true, auth.NewRedisRevoker(), nil
		}
		return true, auth.NewMemoryRevoker(), nil
	})
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, service.NewTaskService(bizConfig.GetBizConfig().Scoped()), nil
	})
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, service.NewAuthService(bizConfig.GetBizConfig().Auth.BcryptCost), nil
	})
}

package registry_ext

import (
	"github.com/grand-thief-cash/todolist/infra/application/config"
	appconsts "github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
	"github.com/grand-thief-cash/todolist/infra/application/registry"
	"github.com/grand-thief-cash/todolist/internal/api"
	"github.com/grand-thief-cash/todolist/internal/consts"
)

func init() {
	// http_server must start after the controllers it mounts.
	registry.ExtendRuntimeDependencies(appconsts.COMPONENT_HTTP_SERVER, consts.COMP_CTRL_TASK, consts.COMP_CTRL_AUTH)

	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, api.NewTaskController(), nil
	})
	registry.RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, api.NewAuthController(), nil
	})
}

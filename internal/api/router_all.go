package api

import (
	"fmt"

	"github.com/go-chi/chi/v5"

	"github.com/grand-thief-cash/todolist/infra/application/components/http_server"
	"github.com/grand-thief-cash/todolist/infra/application/core"
	bizConsts "github.com/grand-thief-cash/todolist/internal/consts"
)

func init() {
	// routes are mounted in lower case; /api/Tasks must keep working
	http_server.RequireCaseInsensitiveRoutes()
	http_server.RegisterRoutes(func(r chi.Router, c *core.Container) error {
		compTask, err := c.Resolve(bizConsts.COMP_CTRL_TASK)
		if err != nil {
			return err
		}
		taskCtrl, ok := compTask.(*TaskController)
		if !ok {
			return fmt.Errorf("task_ctrl type assertion failed")
		}
		compAuth, err := c.Resolve(bizConsts.COMP_CTRL_AUTH)
		if err != nil {
			return err
		}
		authCtrl, ok := compAuth.(*AuthController)
		if !ok {
			return fmt.Errorf("auth_ctrl type assertion failed")
		}

		taskCtrl.Mount(r)
		authCtrl.Mount(r)
		return nil
	})
}

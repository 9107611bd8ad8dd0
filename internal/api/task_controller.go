package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appconsts "github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
	"github.com/grand-thief-cash/todolist/internal/auth"
	"github.com/grand-thief-cash/todolist/internal/consts"
	"github.com/grand-thief-cash/todolist/internal/service"
)

type TaskController struct {
	*core.BaseComponent
	TaskSvc *service.TaskService `infra:"dep:task_service"`
	Tokens  *auth.TokenManager   `infra:"dep:token_manager"`
	Revoker auth.Revoker         `infra:"dep:token_revoker"`
}

func NewTaskController() *TaskController {
	return &TaskController{BaseComponent: core.NewBaseComponent(consts.COMP_CTRL_TASK, appconsts.COMPONENT_LOGGING)}
}

// Mount registers the task routes in lower case; router_all forces case-insensitive matching.
func (tc *TaskController) Mount(r chi.Router) {
	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(auth.Middleware(tc.Tokens, tc.Revoker))
		r.Get("/", tc.listTasks)
		r.Post("/", tc.createTask)
		r.Get("/{id}", tc.getTask)
		r.Put("/{id}", tc.updateTask)
		r.Delete("/{id}", tc.deleteTask)
		r.Put("/complete/{id}", tc.completeTask)
	})
}

func identity(r *http.Request) *auth.Identity {
	id, _ := auth.IdentityFrom(r.Context())
	return id
}

func (tc *TaskController) listTasks(w http.ResponseWriter, r *http.Request) {
	list, err := tc.TaskSvc.List(r.Context(), identity(r))
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (tc *TaskController) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	t, err := tc.TaskSvc.Get(r.Context(), identity(r), id)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (tc *TaskController) createTask(w http.ResponseWriter, r *http.Request) {
	var in service.TaskInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	t, err := tc.TaskSvc.Create(r.Context(), identity(r), in)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/Tasks/"+strconv.FormatInt(t.ID, 10))
	writeJSON(w, http.StatusCreated, t)
}

func (tc *TaskController) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	var in service.TaskInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	if err := tc.TaskSvc.Update(r.Context(), identity(r), id, in); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (tc *TaskController) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	if err := tc.TaskSvc.Delete(r.Context(), identity(r), id); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (tc *TaskController) completeTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	if err := tc.TaskSvc.Complete(r.Context(), identity(r), id); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

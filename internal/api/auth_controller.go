package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	appconsts "github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
	"github.com/grand-thief-cash/todolist/internal/auth"
	"github.com/grand-thief-cash/todolist/internal/consts"
	"github.com/grand-thief-cash/todolist/internal/service"
)

type AuthController struct {
	*core.BaseComponent
	AuthSvc *service.AuthService `infra:"dep:auth_service"`
	Tokens  *auth.TokenManager   `infra:"dep:token_manager"`
	Revoker auth.Revoker         `infra:"dep:token_revoker"`
}

func NewAuthController() *AuthController {
	return &AuthController{BaseComponent: core.NewBaseComponent(consts.COMP_CTRL_AUTH, appconsts.COMPONENT_LOGGING)}
}

func (ac *AuthController) Mount(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", ac.register)
		r.Post("/login", ac.login)
		r.With(auth.Middleware(ac.Tokens, ac.Revoker)).Post("/logout", ac.logout)
	})
}

func (ac *AuthController) register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	res, err := ac.AuthSvc.Register(r.Context(), in)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (ac *AuthController) login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	res, err := ac.AuthSvc.Login(r.Context(), in)
	if err != nil {
		writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (ac *AuthController) logout(w http.ResponseWriter, r *http.Request) {
	if err := ac.AuthSvc.Logout(r.Context(), identity(r)); err != nil {
		writeServiceErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

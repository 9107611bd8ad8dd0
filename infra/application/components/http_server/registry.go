package http_server

import (
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/grand-thief-cash/todolist/infra/application/core"
)

// RouteRegisterFunc mounts routes; it may resolve controllers from the container.
type RouteRegisterFunc func(r chi.Router, c *core.Container) error

var (
	routeMu         sync.Mutex
	routeRegistrars []RouteRegisterFunc
	caseFoldNeeded  bool
)

// RegisterRoutes is called from init() of packages that own HTTP routes.
func RegisterRoutes(fn RouteRegisterFunc) {
	if fn == nil {
		return
	}
	routeMu.Lock()
	routeRegistrars = append(routeRegistrars, fn)
	routeMu.Unlock()
}

// RequireCaseInsensitiveRoutes is for route owners that register lower-case paths but
// serve mixed-case clients; it turns the CaseInsensitive middleware on regardless of config.
func RequireCaseInsensitiveRoutes() {
	routeMu.Lock()
	caseFoldNeeded = true
	routeMu.Unlock()
}

func caseInsensitiveRequired() bool {
	routeMu.Lock()
	defer routeMu.Unlock()
	return caseFoldNeeded
}

func snapshot() []RouteRegisterFunc {
	routeMu.Lock()
	defer routeMu.Unlock()
	out := make([]RouteRegisterFunc, len(routeRegistrars))
	copy(out, routeRegistrars)
	return out
}

package autowire

import (
	"testing"

	"github.com/grand-thief-cash/todolist/infra/application/core"
)

type store interface {
	core.Component
	Get() string
}

type memStore struct {
	*core.BaseComponent
}

func (m *memStore) Get() string { return "v" }

type service struct {
	*core.BaseComponent
	Store    store          `infra:"dep:store"`
	Optional core.Component `infra:"dep:nothing?"`
}

type needsMissing struct {
	*core.BaseComponent
	Store store `infra:"dep:absent"`
}

func TestInjectAll(t *testing.T) {
	c := core.NewContainer()
	svc := &service{BaseComponent: core.NewBaseComponent("svc")}
	_ = c.Register("store", &memStore{core.NewBaseComponent("store")})
	_ = c.Register("svc", svc)

	if err := InjectAll(c); err != nil {
		t.Fatalf("inject: %v", err)
	}
	if svc.Store == nil || svc.Store.Get() != "v" {
		t.Fatalf("store not injected")
	}
	if svc.Optional != nil {
		t.Fatalf("optional dep should stay nil")
	}
	if deps := svc.Dependencies(); len(deps) != 1 || deps[0] != "store" {
		t.Fatalf("runtime deps = %v", deps)
	}
}

func TestInjectRequiredMissing(t *testing.T) {
	c := core.NewContainer()
	_ = c.Register("x", &needsMissing{BaseComponent: core.NewBaseComponent("x")})
	if err := InjectAll(c); err == nil {
		t.Fatalf("expected error for missing required dep")
	}
}

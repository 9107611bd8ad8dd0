package registry

import (
	"testing"

	"github.com/grand-thief-cash/todolist/infra/application/config"
	"github.com/grand-thief-cash/todolist/infra/application/core"
)

type daoComp struct {
	*core.BaseComponent
}

type svcComp struct {
	*core.BaseComponent
	Dao   *daoComp       `infra:"dep:dao"`
	Cache core.Component `infra:"dep:cache?"`
}

func (s *svcComp) SoftDependencies() []string { return []string{"metrics", "absent"} }

func withBuilders(t *testing.T) {
	t.Helper()
	saved := builders
	builders = nil
	t.Cleanup(func() { builders = saved })
}

func TestBuildAndRegisterAll(t *testing.T) {
	withBuilders(t)
	RegisterAuto(func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, &svcComp{BaseComponent: core.NewBaseComponent("svc")}, nil
	})
	Register("dao", func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, &daoComp{core.NewBaseComponent("dao")}, nil
	})
	Register("metrics", func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return true, &daoComp{core.NewBaseComponent("metrics")}, nil
	})
	Register("disabled", func(cfg *config.AppConfig, c *core.Container) (bool, core.Component, error) {
		return false, nil, nil
	})

	c := core.NewContainer()
	if err := BuildAndRegisterAll(&config.AppConfig{}, c); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := c.Resolve("disabled"); err == nil {
		t.Fatalf("disabled builder must not register")
	}
	svc, err := c.Resolve("svc")
	if err != nil {
		t.Fatalf("resolve svc: %v", err)
	}
	deps := svc.Dependencies()
	if len(deps) != 1 || deps[0] != "metrics" {
		t.Fatalf("soft deps = %v, want [metrics]", deps)
	}
}

func TestTopoSortBuildersCycle(t *testing.T) {
	_, err := topoSortBuilders([]*Builder{
		{Name: "a", Deps: []string{"b"}},
		{Name: "b", Deps: []string{"a"}},
	})
	if err == nil {
		t.Fatalf("expected cycle error")
	}
}

func TestInferTagDependencies(t *testing.T) {
	got := inferTagDependencies(&svcComp{BaseComponent: core.NewBaseComponent("svc")})
	if len(got) != 2 || got[0] != "dao" || got[1] != "cache" {
		t.Fatalf("deps = %v", got)
	}
}

package core

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

type stubComponent struct {
	*BaseComponent
	rec     *recorder
	failing bool
}

func newStub(rec *recorder, name string, deps ...string) *stubComponent {
	return &stubComponent{BaseComponent: NewBaseComponent(name, deps...), rec: rec}
}

func (s *stubComponent) Start(ctx context.Context) error {
	if s.failing {
		return errors.New("boom")
	}
	s.rec.add("start:" + s.Name())
	return s.BaseComponent.Start(ctx)
}

func (s *stubComponent) Stop(ctx context.Context) error {
	s.rec.add("stop:" + s.Name())
	return s.BaseComponent.Stop(ctx)
}

func TestStartStopOrder(t *testing.T) {
	rec := &recorder{}
	c := NewContainer()
	_ = c.Register("api", newStub(rec, "api", "service"))
	_ = c.Register("service", newStub(rec, "service", "dao"))
	_ = c.Register("dao", newStub(rec, "dao"))

	lm := NewLifecycleManager(c)
	if err := lm.StartAll(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	lm.StopAll(context.Background())
	lm.StopAll(context.Background())

	want := []string{"start:dao", "start:service", "start:api", "stop:api", "stop:service", "stop:dao"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
}

func TestStartFailureRollsBack(t *testing.T) {
	rec := &recorder{}
	c := NewContainer()
	_ = c.Register("dao", newStub(rec, "dao"))
	bad := newStub(rec, "service", "dao")
	bad.failing = true
	_ = c.Register("service", bad)

	if err := NewLifecycleManager(c).StartAll(context.Background()); err == nil {
		t.Fatalf("expected start failure")
	}
	want := []string{"start:dao", "stop:dao"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
}

func TestSortDetectsMissingAndCycles(t *testing.T) {
	rec := &recorder{}
	c := NewContainer()
	_ = c.Register("a", newStub(rec, "a", "missing"))
	if _, err := c.SortComponentsByDependencies(); err == nil {
		t.Fatalf("expected missing dependency error")
	}

	c = NewContainer()
	_ = c.Register("a", newStub(rec, "a", "b"))
	_ = c.Register("b", newStub(rec, "b", "a"))
	if _, err := c.SortComponentsByDependencies(); err == nil {
		t.Fatalf("expected cycle error")
	}
}

func TestAddDependenciesDedupes(t *testing.T) {
	b := NewBaseComponent("x", "a")
	b.AddDependencies("a", "x", "", "b", "b")
	if got := b.Dependencies(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("deps = %v", got)
	}
}

package postgresgorm

import (
	"fmt"

	"github.com/grand-thief-cash/todolist/infra/application/core"
)

type Factory struct{}

func NewFactory() *Factory { return &Factory{} }

func (f *Factory) Create(cfg interface{}) (core.Component, error) {
	c, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("invalid config type for postgres gorm component (need *postgresgorm.Config)")
	}
	if c == nil || !c.Enabled {
		return nil, fmt.Errorf("postgres gorm component disabled")
	}
	if len(c.DataSources) == 0 {
		return nil, fmt.Errorf("postgres gorm component has no data_sources")
	}
	return NewPostgresGormComponent(c), nil
}

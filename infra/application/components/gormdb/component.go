package gormdb

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/grand-thief-cash/todolist/infra/application/components/logging"
	"github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
)

// DialectorFunc turns one datasource config into a gorm dialector.
type DialectorFunc func(ds *DataSourceConfig) (gorm.Dialector, error)

// Component manages one *gorm.DB per named datasource. Driver packages embed it.
type Component struct {
	*core.BaseComponent
	cfg       *Config
	dialector DialectorFunc
	log       logger.Interface

	mu  sync.RWMutex
	dbs map[string]*gorm.DB
}

func NewComponent(name string, cfg *Config, dialector DialectorFunc) *Component {
	return &Component{
		BaseComponent: core.NewBaseComponent(name, consts.COMPONENT_LOGGING),
		cfg:           cfg,
		dialector:     dialector,
		log:           NewLogger(name, cfg),
		dbs:           make(map[string]*gorm.DB),
	}
}

func (c *Component) Start(ctx context.Context) error {
	if err := c.BaseComponent.Start(ctx); err != nil {
		return err
	}
	if c.cfg == nil || !c.cfg.Enabled {
		return fmt.Errorf("%s component disabled or nil config", c.Name())
	}
	if len(c.cfg.DataSources) == 0 {
		return fmt.Errorf("%s no data_sources configured", c.Name())
	}
	names := make([]string, 0, len(c.cfg.DataSources))
	for name := range c.cfg.DataSources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		gdb, err := c.open(ctx, name, c.cfg.DataSources[name])
		if err != nil {
			c.closeAll(ctx)
			return err
		}
		c.mu.Lock()
		c.dbs[name] = gdb
		c.mu.Unlock()
		logging.Infof(ctx, "[%s] datasource %s initialized", c.Name(), name)
	}
	return nil
}

func (c *Component) open(ctx context.Context, name string, ds *DataSourceConfig) (*gorm.DB, error) {
	if ds == nil {
		return nil, fmt.Errorf("datasource %s config is nil", name)
	}
	d, err := c.dialector(ds)
	if err != nil {
		return nil, fmt.Errorf("build dialector for %s failed: %w", name, err)
	}
	gdb, err := gorm.Open(d, &gorm.Config{
		Logger:                                   c.log,
		SkipDefaultTransaction:                   ds.SkipDefaultTransaction,
		PrepareStmt:                              ds.PrepareStmt,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s datasource %s failed: %w", c.Name(), name, err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB for %s failed: %w", name, err)
	}
	ApplyPool(sqlDB, ds)

	if ds.PingOnStart {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := sqlDB.PingContext(pingCtx)
		cancel()
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("ping %s datasource %s failed: %w", c.Name(), name, err)
		}
	}
	if ds.MigrateEnabled {
		if strings.TrimSpace(ds.MigrateDir) == "" {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("%s datasource %s migrate_enabled=true but migrate_dir empty", c.Name(), name)
		}
		start := time.Now()
		if err := RunMigrations(ctx, sqlDB, ds.MigrateDir); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("%s datasource %s migrations failed: %w", c.Name(), name, err)
		}
		logging.Infof(ctx, "[%s] datasource %s migrations completed dur=%s", c.Name(), name, time.Since(start))
	}
	return gdb, nil
}

// ApplyPool sets pool limits with the defaults 50 open / 10 idle / 60m lifetime.
func ApplyPool(db *sql.DB, ds *DataSourceConfig) {
	maxOpen, maxIdle, life := 50, 10, 60*time.Minute
	if ds.MaxOpenConns > 0 {
		maxOpen = ds.MaxOpenConns
	}
	if ds.MaxIdleConns > 0 {
		maxIdle = ds.MaxIdleConns
	}
	if ds.ConnMaxLife > 0 {
		life = ds.ConnMaxLife
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(life)
	if ds.ConnMaxIdle > 0 {
		db.SetConnMaxIdleTime(ds.ConnMaxIdle)
	}
}

func (c *Component) Stop(ctx context.Context) error {
	defer func() { _ = c.BaseComponent.Stop(ctx) }()
	c.closeAll(ctx)
	return nil
}

func (c *Component) closeAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, gdb := range c.dbs {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
		delete(c.dbs, name)
		logging.Infof(ctx, "[%s] datasource %s closed", c.Name(), name)
	}
}

func (c *Component) HealthCheck() error {
	if err := c.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, gdb := range c.dbs {
		sqlDB, err := gdb.DB()
		if err != nil {
			return fmt.Errorf("datasource %s get sql.DB failed: %w", name, err)
		}
		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("datasource %s ping failed: %w", name, err)
		}
	}
	return nil
}

func (c *Component) GetDB(name string) (*gorm.DB, error) {
	c.mu.RLock()
	db, ok := c.dbs[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s datasource %s not found", c.Name(), name)
	}
	return db, nil
}

func (c *Component) GetSQLDB(name string) (*sql.DB, error) {
	g, err := c.GetDB(name)
	if err != nil {
		return nil, err
	}
	return g.DB()
}

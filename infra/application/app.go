package application

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/grand-thief-cash/todolist/infra/application/autowire"
	"github.com/grand-thief-cash/todolist/infra/application/config"
	"github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
	"github.com/grand-thief-cash/todolist/infra/application/hooks"
	"github.com/grand-thief-cash/todolist/infra/application/registry"
)

type App struct {
	container        *core.Container
	lifecycleManager *core.LifecycleManager
	configManager    *config.ConfigManager

	bootOnce sync.Once
	bootErr  error

	shutdownTimeout time.Duration
}

var (
	appOnce sync.Once
	appInst *App
)

// GetApp returns the process-wide App, reading -env and -config from the command line
// on first use.
func GetApp() *App {
	appOnce.Do(func() {
		fs := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
		env := fs.String("env", consts.ENV_DEVELOPMENT, "runtime environment (development|test|production)")
		cfgPath := fs.String("config", consts.DEFAULT_CONFIG_PATH, "path to the yaml/json config file")
		_ = fs.Parse(os.Args[1:])
		appInst = NewApp(*env, *cfgPath)
	})
	return appInst
}

func NewApp(env string, configPath string) *App {
	abs := configPath
	if p, err := filepath.Abs(configPath); err == nil {
		abs = p
	}
	container := core.NewContainer()
	// 使用全局 hook manager, 默认钩子才会生效
	lm := core.NewLifecycleManagerWithManager(container, hooks.GetGlobalHookManager())
	return &App{
		configManager:    config.NewConfigManager(env, abs),
		container:        container,
		lifecycleManager: lm,
		shutdownTimeout:  30 * time.Second,
	}
}

// SetBizConfig registers the pointer biz_config is decoded into. Call before Run.
func (app *App) SetBizConfig(ptr any) { app.configManager.SetBizConfig(ptr) }

func (app *App) SetShutdownTimeout(d time.Duration) { app.shutdownTimeout = d }

func (app *App) boot() error {
	app.bootOnce.Do(func() {
		if err := app.configManager.LoadConfig(); err != nil {
			app.bootErr = fmt.Errorf("load config failed: %w", err)
			return
		}
		cfg := app.configManager.GetConfig()
		if err := registry.BuildAndRegisterAll(cfg, app.container); err != nil {
			app.bootErr = fmt.Errorf("register components failed: %w", err)
			return
		}
		if err := autowire.InjectAll(app.container); err != nil {
			app.bootErr = err
			return
		}
	})
	return app.bootErr
}

// Boot loads config and wires the container without starting anything.
func (app *App) Boot() error { return app.boot() }

func (app *App) GetComponent(name string) (core.Component, error) {
	return app.container.Resolve(name)
}

func (app *App) Container() *core.Container { return app.container }

func (app *App) GetConfig() *config.AppConfig { return app.configManager.GetConfig() }

func (app *App) AddHook(name string, phase hooks.Phase, fn hooks.HookFunc, priority int) error {
	return app.lifecycleManager.AddHook(name, phase, fn, priority)
}

// Run blocks until SIGINT/SIGTERM, then stops every component.
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.RunWithContext(ctx)
}

// RunWithContext starts components and blocks until ctx is done.
func (app *App) RunWithContext(ctx context.Context) error {
	if err := app.boot(); err != nil {
		return err
	}
	if err := app.lifecycleManager.StartAll(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), app.shutdownTimeout)
	defer cancel()
	app.lifecycleManager.StopAll(stopCtx)
	return nil
}

func (app *App) Shutdown(ctx context.Context) {
	app.lifecycleManager.StopAll(ctx)
}

package logging

import (
	"fmt"
	"strings"

	"github.com/grand-thief-cash/todolist/infra/application/core"
)

type Factory struct{}

func NewFactory() *Factory { return &Factory{} }

func (f *Factory) Create(cfg interface{}) (core.Component, error) {
	lc, ok := cfg.(*LoggingConfig)
	if !ok {
		return nil, fmt.Errorf("invalid config type for logging component, expected *LoggingConfig")
	}
	if !lc.Enabled {
		return nil, fmt.Errorf("logging component is disabled")
	}
	SetDefaults(lc)
	if err := Validate(lc); err != nil {
		return nil, err
	}
	return NewLoggerComponent(lc), nil
}

func SetDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
	if strings.EqualFold(cfg.Output, "file") && cfg.FileConfig == nil {
		cfg.FileConfig = &FileConfig{Dir: "./logs", Filename: "todolist"}
	}
	if rc := cfg.RotateConfig; rc != nil && rc.Enabled && rc.RotateInterval == 0 && rc.MaxSizeMB == 0 {
		rc.MaxSizeMB = 100
	}
}

func Validate(cfg *LoggingConfig) error {
	switch strings.ToLower(cfg.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", cfg.Format)
	}
	if rc := cfg.RotateConfig; rc != nil && rc.Enabled {
		if rc.RotateInterval < 0 {
			return fmt.Errorf("logging.rotate_config.rotate_interval must be >= 0")
		}
		if rc.MaxAge < 0 {
			return fmt.Errorf("logging.rotate_config.max_age must be >= 0")
		}
	}
	return nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/grand-thief-cash/todolist/infra/application/consts"
)

type Loader struct {
	env        string
	configPath string
	// bizConfig points at the business struct that receives the biz_config section.
	bizConfig any
}

func NewLoader(env string, configPath string) *Loader {
	if env == "" {
		env = consts.ENV_DEVELOPMENT
	}
	if configPath == "" {
		configPath = consts.DEFAULT_CONFIG_PATH
	}
	return &Loader{env: env, configPath: configPath}
}

// SetBizConfig 注入业务配置指针, 必须在 LoadConfig 之前调用
func (l *Loader) SetBizConfig(b any) {
	if b == nil {
		return
	}
	if reflect.TypeOf(b).Kind() != reflect.Ptr {
		panic("SetBizConfig expects a pointer, e.g. &MyBizConfig{}")
	}
	l.bizConfig = b
}

// LoadConfig parses the whole file, then decodes the biz_config subtree a second
// time into the business pointer so its defaults survive.
func (l *Loader) LoadConfig() (*AppConfig, error) {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	ext := strings.ToLower(filepath.Ext(l.configPath))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if l.bizConfig != nil {
		if cfg.BizConfig != nil {
			if err := decodeBizSection(ext, cfg.BizConfig, l.bizConfig); err != nil {
				return nil, fmt.Errorf("decode biz_config failed: %w", err)
			}
		}
		cfg.BizConfig = l.bizConfig
	}

	l.mergeEnvVars(&cfg)
	return &cfg, nil
}

func decodeBizSection(ext string, raw any, target any) error {
	switch ext {
	case ".yaml", ".yml":
		b, err := yaml.Marshal(raw)
		if err != nil {
			return fmt.Errorf("re-marshal biz_config failed: %w", err)
		}
		return yaml.Unmarshal(b, target)
	case ".json":
		b, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("re-marshal biz_config failed: %w", err)
		}
		return json.Unmarshal(b, target)
	}
	return fmt.Errorf("unsupported format: %s", ext)
}

func (l *Loader) mergeEnvVars(cfg *AppConfig) {
	if cfg.APPInfo == nil {
		cfg.APPInfo = &APPInfo{}
	}
	if v := os.Getenv(consts.ENV_APP_ENV); v != "" {
		cfg.APPInfo.ENV = v
	} else if cfg.APPInfo.ENV == "" {
		cfg.APPInfo.ENV = l.env
	}
	if o, ok := cfg.BizConfig.(EnvOverrider); ok {
		o.ApplyEnv()
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/grand-thief-cash/todolist/internal/consts"
)

type StorageConfig struct {
	// Driver: mysql | postgres | memory
	Driver     string `yaml:"driver"`
	DataSource string `yaml:"data_source"`
}

type TasksConfig struct {
	// Ownership: scoped (each user sees own tasks) | shared (every user sees every task)
	Ownership string `yaml:"ownership"`
}

type AuthConfig struct {
	Issuer   string        `yaml:"issuer"`
	Audience string        `yaml:"audience"`
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
	// Revocation: memory | redis
	Revocation string `yaml:"revocation"`
	BcryptCost int    `yaml:"bcrypt_cost"`
}

type BizConfig struct {
	Storage StorageConfig `yaml:"storage"`
	Tasks   TasksConfig   `yaml:"tasks"`
	Auth    AuthConfig    `yaml:"auth"`
}

var (
	bizOnce sync.Once
	bizCfg  *BizConfig
)

// GetBizConfig returns the process-wide biz config; the app decodes biz_config into it on boot.
func GetBizConfig() *BizConfig {
	bizOnce.Do(func() { bizCfg = Default() })
	return bizCfg
}

func Default() *BizConfig {
	return &BizConfig{
		Storage: StorageConfig{Driver: consts.STORAGE_MEMORY, DataSource: consts.DEFAULT_DATASOURCE},
		Tasks:   TasksConfig{Ownership: consts.OWNERSHIP_SCOPED},
		Auth: AuthConfig{
			Issuer:     "todolist",
			Audience:   "todolist-client",
			TokenTTL:   24 * time.Hour,
			Revocation: consts.REVOCATION_MEMORY,
			BcryptCost: 10,
		},
	}
}

// ApplyEnv lets TODOLIST_JWT_SECRET override the signing secret from the file.
func (c *BizConfig) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(consts.ENV_JWT_SECRET)); v != "" {
		c.Auth.Secret = v
	}
}

func (c *BizConfig) Validate() error {
	switch c.Storage.Driver {
	case consts.STORAGE_MYSQL, consts.STORAGE_POSTGRES, consts.STORAGE_MEMORY:
	default:
		return fmt.Errorf("storage.driver %q not supported", c.Storage.Driver)
	}
	if c.Storage.Driver != consts.STORAGE_MEMORY && c.Storage.DataSource == "" {
		return errors.New("storage.data_source is required for sql drivers")
	}
	switch c.Tasks.Ownership {
	case consts.OWNERSHIP_SCOPED, consts.OWNERSHIP_SHARED:
	default:
		return fmt.Errorf("tasks.ownership %q not supported", c.Tasks.Ownership)
	}
	if len(c.Auth.Secret) < 16 {
		return fmt.Errorf("auth.secret must be at least 16 bytes (set %s)", consts.ENV_JWT_SECRET)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	switch c.Auth.Revocation {
	case consts.REVOCATION_MEMORY, consts.REVOCATION_REDIS:
	default:
		return fmt.Errorf("auth.revocation %q not supported", c.Auth.Revocation)
	}
	return nil
}

func (c *BizConfig) Scoped() bool { return c.Tasks.Ownership != consts.OWNERSHIP_SHARED }

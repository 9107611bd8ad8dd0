package config

import (
	"fmt"

	"github.com/grand-thief-cash/todolist/infra/application/consts"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateAppConfig(config *AppConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if config.APPInfo == nil || config.APPInfo.APPName == "" {
		return fmt.Errorf("app_info.app_name is required")
	}
	if err := validateEnv(config.APPInfo.ENV); err != nil {
		return err
	}
	if config.MySQLGORM != nil && config.MySQLGORM.Enabled && len(config.MySQLGORM.DataSources) == 0 {
		return fmt.Errorf("mysql_gorm enabled but no data_sources configured")
	}
	if config.PostgresGORM != nil && config.PostgresGORM.Enabled && len(config.PostgresGORM.DataSources) == 0 {
		return fmt.Errorf("postgres_gorm enabled but no data_sources configured")
	}
	if bv, ok := config.BizConfig.(BizValidator); ok {
		if err := bv.Validate(); err != nil {
			return fmt.Errorf("biz_config invalid: %w", err)
		}
	}
	return nil
}

func (v *Validator) validateConfigFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("config file path cannot be empty")
	}
	if len(path) > 255 {
		return fmt.Errorf("config file path is too long")
	}
	if !fileExists(path) {
		return fmt.Errorf("config file does not exist: %s", path)
	}
	return nil
}

func validateEnv(env string) error {
	switch env {
	case consts.ENV_DEVELOPMENT, consts.ENV_TEST, consts.ENV_PRODUCTION:
		return nil
	}
	return fmt.Errorf("running environment is not valid: %q", env)
}

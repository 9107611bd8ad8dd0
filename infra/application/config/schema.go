package config

import (
	"github.com/grand-thief-cash/todolist/infra/application/components/http_client"
	"github.com/grand-thief-cash/todolist/infra/application/components/http_server"
	"github.com/grand-thief-cash/todolist/infra/application/components/logging"
	"github.com/grand-thief-cash/todolist/infra/application/components/mysqlgorm"
	"github.com/grand-thief-cash/todolist/infra/application/components/postgresgorm"
	"github.com/grand-thief-cash/todolist/infra/application/components/prometheus"
	"github.com/grand-thief-cash/todolist/infra/application/components/redis"
	"github.com/grand-thief-cash/todolist/infra/application/components/telemetry"
)

// AppConfig 应用配置根结构; biz_config 由业务方结构体接管
type AppConfig struct {
	APPInfo      *APPInfo                       `yaml:"app_info" json:"app_info"`
	Logging      *logging.LoggingConfig         `yaml:"logging" json:"logging"`
	HTTPServer   *http_server.HTTPServerConfig  `yaml:"http_server" json:"http_server"`
	HTTPClients  *http_client.HTTPClientsConfig `yaml:"http_clients" json:"http_clients"`
	MySQLGORM    *mysqlgorm.Config              `yaml:"mysql_gorm" json:"mysql_gorm"`
	PostgresGORM *postgresgorm.Config           `yaml:"postgres_gorm" json:"postgres_gorm"`
	Redis        *redis.Config                  `yaml:"redis" json:"redis"`
	Prometheus   *prometheus.Config             `yaml:"prometheus" json:"prometheus"`
	Telemetry    *telemetry.Config              `yaml:"telemetry" json:"telemetry"`
	BizConfig    any                            `yaml:"biz_config" json:"biz_config"`
}

type APPInfo struct {
	APPName string `yaml:"app_name" json:"app_name"`
	ENV     string `yaml:"env" json:"env"`
}

// EnvOverrider is implemented by business configs that read overrides from the environment.
type EnvOverrider interface {
	ApplyEnv()
}

// BizValidator is implemented by business configs that validate themselves after load.
type BizValidator interface {
	Validate() error
}

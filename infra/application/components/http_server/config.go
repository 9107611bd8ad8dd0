package http_server

import "time"

type HTTPServerConfig struct {
	Enabled         bool          `yaml:"enabled" json:"enabled"`
	Address         string        `yaml:"address" json:"address"`             // e.g. ":8080"
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`   // whole request incl. body
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"` // whole response
	IdleTimeout     time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	HandlerTimeout  time.Duration `yaml:"handler_timeout" json:"handler_timeout"`
	GracefulTimeout time.Duration `yaml:"graceful_timeout" json:"graceful_timeout"`

	EnableHealth bool `yaml:"enable_health" json:"enable_health"`
	// CaseInsensitiveRoutes lowercases the routing path; routes must be registered in lower case.
	CaseInsensitiveRoutes bool        `yaml:"case_insensitive_routes" json:"case_insensitive_routes"`
	CORS                  *CORSConfig `yaml:"cors" json:"cors"`

	// ServiceName 由 APPInfo.APPName 注入
	ServiceName string `yaml:"-" json:"-"`
}

type CORSConfig struct {
	Enabled          bool     `yaml:"enabled" json:"enabled"`
	AllowedOrigins   []string `yaml:"allowed_origins" json:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods" json:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers" json:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers" json:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials" json:"allow_credentials"`
	MaxAge           int      `yaml:"max_age" json:"max_age"` // seconds
}

package consts

const (
	ENV_PRODUCTION  = "production"
	ENV_DEVELOPMENT = "development"
	ENV_TEST        = "test"

	DEFAULT_CONFIG_PATH = "config/config.yaml"

	// ENV_APP_ENV overrides app_info.env when set.
	ENV_APP_ENV = "APP_ENV"

	KEY_TraceID = "trace_id"
	KEY_SpanID  = "span_id"
)

package telemetry

import "time"

type ExporterType string

const (
	ExporterStdout ExporterType = "stdout"
	ExporterOTLP   ExporterType = "otlp"
	// ExporterNone keeps providers and propagation but exports nothing.
	ExporterNone ExporterType = "none"
)

type OTLPConfig struct {
	Endpoint string        `yaml:"endpoint" json:"endpoint"`
	Insecure bool          `yaml:"insecure" json:"insecure"`
	Timeout  time.Duration `yaml:"timeout"  json:"timeout"`
}

type Config struct {
	Enabled        bool          `yaml:"enabled"         json:"enabled"`
	ServiceName    string        `yaml:"service_name"    json:"service_name"`
	Exporter       ExporterType  `yaml:"exporter"        json:"exporter"` // stdout|otlp|none
	SampleRatio    float64       `yaml:"sample_ratio"    json:"sample_ratio"`
	MetricInterval time.Duration `yaml:"metric_interval" json:"metric_interval"`
	OTLP           *OTLPConfig   `yaml:"otlp"            json:"otlp"`
	StdoutPretty   bool          `yaml:"stdout_pretty"   json:"stdout_pretty"`
	StdoutFile     string        `yaml:"stdout_file"     json:"stdout_file"`
}

func (c *Config) applyDefaults() {
	if c.SampleRatio <= 0 || c.SampleRatio > 1 {
		c.SampleRatio = 1.0
	}
	if c.Exporter == "" {
		c.Exporter = ExporterStdout
	}
	if c.MetricInterval <= 0 {
		c.MetricInterval = 15 * time.Second
	}
	if c.OTLP != nil && c.OTLP.Timeout <= 0 {
		c.OTLP.Timeout = 5 * time.Second
	}
}

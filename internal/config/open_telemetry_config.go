package config

// OpenTelemetryConfig OpenTelemetry 配置
type OpenTelemetryConfig struct {
	Enable   bool    `yaml:"enable"`
	Service  string  `yaml:"service"`
	Endpoint string  `yaml:"endpoint"` // OTLP 上报地址
	Protocol string  `yaml:"protocol"` // grpc | http
	Sampling float64 `yaml:"sampling"` // 0.0-1.0
	Timeout  int     `yaml:"timeout"`  // 秒
}

// NewOpenTelemetryConfig 默认配置，默认关闭
func NewOpenTelemetryConfig() OpenTelemetryConfig {
	return OpenTelemetryConfig{
		Service:  "newcomer-admin",
		Endpoint: "localhost:4317",
		Protocol: "grpc",
		Sampling: 0.1,
		Timeout:  3,
	}
}

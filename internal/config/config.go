package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/ayxworxfr/newcomer_admin/pkg/cron"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config 服务全部配置
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	JWT           JWTConfig           `yaml:"jwt"`
	Logger        LoggerConfig        `yaml:"logger"`
	OpenTelemetry OpenTelemetryConfig `yaml:"opentelemetry"`
	Cache         CacheConfig         `yaml:"cache"`
	Navigation    NavigationConfig    `yaml:"navigation"`
	Sentinel      SentinelFileConfig  `yaml:"sentinel"`
	Tasks         []cron.TaskConfig   `yaml:"tasks"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int `yaml:"port"`
	// LoginRPS 登录接口每个IP每秒请求数
	LoginRPS   int `yaml:"login_rps"`
	LoginBurst int `yaml:"login_burst"`
}

// DatabaseConfig 数据库配置
//
// driver 为 mysql(默认)、sqlite 或 memory。sqlite 的 dbname 为文件路径，
// memory 的 dbname 为进程内库名，用于本地演示和测试。
type DatabaseConfig struct {
	Driver          string `yaml:"driver"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // 秒
	ShowSQL         bool   `yaml:"show_sql"`
	Sync            bool   `yaml:"sync"` // 启动时同步表结构
}

// DriverName xorm 使用的驱动名
func (c DatabaseConfig) DriverName() string {
	switch c.Driver {
	case "sqlite", "memory":
		return "sqlite"
	default:
		return "mysql"
	}
}

// NewDatabaseConfig 带默认值的数据库配置
func NewDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:          "mysql",
		Port:            3306,
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: 3600,
	}
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret          string `yaml:"secret"`
	AccessTokenExp  string `yaml:"access_token_exp"`
	RefreshTokenExp string `yaml:"refresh_token_exp"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	LogFile    string `yaml:"log_file"`
	Level      string `yaml:"level"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
	Console    bool   `yaml:"console"`
}

// ToLoggerConfig 转换为 logger 包配置
func (c LoggerConfig) ToLoggerConfig() logger.Config {
	return logger.Config{
		LogFile:    c.LogFile,
		Level:      c.Level,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
		Console:    c.Console,
	}
}

// CacheConfig 导航缓存配置
type CacheConfig struct {
	Driver   string `yaml:"driver"` // memory | redis
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"`
	Prefix   string `yaml:"prefix"`
}

// TTLDuration 解析缓存过期时间，非法值返回默认10分钟
func (c CacheConfig) TTLDuration() time.Duration {
	if d, err := time.ParseDuration(c.TTL); err == nil && d > 0 {
		return d
	}
	return 10 * time.Minute
}

// NavigationConfig 导航客户端配置 (navctl)
type NavigationConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"` // 秒
	Retries int    `yaml:"retries"`
}

// SentinelFileConfig 限流规则文件位置
type SentinelFileConfig struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
}

func newConfig() *Config {
	return &Config{
		Server:        ServerConfig{Port: 8888, LoginRPS: 5, LoginBurst: 10},
		Database:      NewDatabaseConfig(),
		JWT:           JWTConfig{AccessTokenExp: "2h", RefreshTokenExp: "7d"},
		Logger:        LoggerConfig{Level: "info", Console: true},
		OpenTelemetry: NewOpenTelemetryConfig(),
		Cache:         CacheConfig{Driver: "memory", TTL: "10m", Prefix: "nav:"},
		Navigation:    NavigationConfig{BaseURL: "http://localhost:8888", Timeout: 10, Retries: 1},
	}
}

var (
	config *Config
	once   sync.Once
)

// Load 加载 .env 与 YAML 配置文件，只执行一次
func Load(filename string) (*Config, error) {
	var err error
	once.Do(func() {
		// .env 不存在时忽略
		_ = godotenv.Load()
		config, err = LoadFile(filename)
	})
	return config, err
}

// LoadFile 读取配置文件并应用环境变量覆盖
func LoadFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", filename)
	}
	return Parse(data)
}

// Parse 解析 YAML 配置
func Parse(data []byte) (*Config, error) {
	cfg := newConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	applyEnv(cfg)
	return cfg, nil
}

// applyEnv 环境变量优先
func applyEnv(cfg *Config) {
	if v, ok := envInt("APP_PORT"); ok {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v, ok := envInt("DB_PORT"); ok {
		cfg.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("NAV_BASE_URL"); v != "" {
		cfg.Navigation.BaseURL = v
	}
	if v := os.Getenv("INSTANCE_ID"); v != "" {
		cfg.OpenTelemetry.Service = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OpenTelemetry.Endpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"); v != "" {
		cfg.OpenTelemetry.Protocol = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Get 返回已加载的配置
func Get() *Config {
	return config
}

func GetCronTasks() []cron.TaskConfig {
	if config != nil {
		return config.Tasks
	}
	return nil
}

func GetAppPort() int {
	if config != nil {
		return config.Server.Port
	}
	return 0
}

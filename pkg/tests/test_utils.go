package tests

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/ayxworxfr/newcomer_admin/internal/config"
	"github.com/ayxworxfr/newcomer_admin/pkg/jwtauth"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/ayxworxfr/newcomer_admin/pkg/utils"
	"github.com/google/uuid"
)

// DBEnv 设置后仓储测试改连 MySQL
const DBEnv = "NEWCOMER_TEST_DB"

var (
	once sync.Once
	cfg  *config.Config
)

// Setup 加载测试配置并初始化日志与 JWT，可重复调用
func Setup() *config.Config {
	once.Do(func() {
		cfg = InitConfig()
		logger.InitLogger(cfg.Logger.ToLoggerConfig())
	})
	return cfg
}

// InitConfig 加载 conf/config_test.yaml
func InitConfig() *config.Config {
	c, err := config.LoadFile(utils.GetAbsPath("conf/config_test.yaml"))
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	jwt, err := jwtauth.NewJWT(c.JWT.Secret, c.JWT.AccessTokenExp, c.JWT.RefreshTokenExp)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize JWT: %v", err))
	}
	jwtauth.Init(jwt)
	return c
}

// MemoryDatabase 每次调用返回一个独立的进程内 SQLite 库
func MemoryDatabase() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:       "memory",
		DBName:       "test_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		MaxIdleConns: 2,
		Sync:         true,
	}
}

// Database 设置 NEWCOMER_TEST_DB 时使用 config_test.yaml 中的 MySQL，否则使用内存库
func Database(t *testing.T) config.DatabaseConfig {
	t.Helper()
	c := Setup()
	if os.Getenv(DBEnv) == "" || testing.Short() {
		return MemoryDatabase()
	}
	return c.Database
}

package dao

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ayxworxfr/newcomer_admin/internal/config"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/models"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/ayxworxfr/newcomer_admin/pkg/repository"
	_ "github.com/go-sql-driver/mysql"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
	"xorm.io/xorm"
	"xorm.io/xorm/log"
)

// Repos 导航目录相关的全部仓储
type Repos struct {
	Screen repository.Repository[models.Screen]
	Menu   repository.Repository[models.Menu]
	Link   repository.Repository[models.MenuScreenLink]
	Grant  repository.Repository[models.UserMenuGrant]
	Code   repository.Repository[models.Code]
	User   repository.Repository[models.User]

	// tx 跨仓储事务，同一个 processor 上的仓储共享
	tx repository.TransactionExecutor
}

// NewRepos 在同一个 processor 上创建仓储
func NewRepos(processor repository.ORMProcessor) *Repos {
	return &Repos{
		Screen: repository.NewRepository[models.Screen](processor),
		Menu:   repository.NewRepository[models.Menu](processor),
		Link:   repository.NewRepository[models.MenuScreenLink](processor),
		Grant:  repository.NewRepository[models.UserMenuGrant](processor),
		Code:   repository.NewRepository[models.Code](processor),
		User:   repository.NewRepository[models.User](processor),
		tx:     processor,
	}
}

// Transaction 在一个事务内执行 fn
func (r *Repos) Transaction(ctx context.Context, fn repository.TransactionFunc) (any, error) {
	return r.tx.Transaction(ctx, fn)
}

var (
	engine    *xorm.Engine
	initOnce  sync.Once
	initError error
	// Default InitRepo 之后可用
	Default *Repos
)

// modelList 需要同步表结构的模型
var modelList = []any{
	new(models.User),
	new(models.Screen),
	new(models.Menu),
	new(models.MenuScreenLink),
	new(models.UserMenuGrant),
	new(models.Code),
}

func InitRepo() error {
	initOnce.Do(func() {
		engine, initError = InitDB(config.Get().Database, config.Get().Logger.Level)
		if initError != nil {
			return
		}
		Default = NewRepos(repository.NewXormProcessor(engine))
	})
	return initError
}

// Engine 返回已初始化的 xorm 引擎
func Engine() *xorm.Engine {
	return engine
}

// DSN 按驱动生成连接串
func DSN(cfg config.DatabaseConfig) string {
	switch cfg.Driver {
	case "memory":
		// 共享缓存让同一进程内的多个连接看到同一个库
		return fmt.Sprintf("file:%s?mode=memory&cache=shared", cfg.DBName)
	case "sqlite":
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", cfg.DBName)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)
}

// InitDB 创建 xorm 引擎并按需同步表结构
func InitDB(dbConfig config.DatabaseConfig, logLevel string) (*xorm.Engine, error) {
	e, err := xorm.NewEngine(dbConfig.DriverName(), DSN(dbConfig))
	if err != nil {
		return nil, errors.Wrap(err, "create xorm engine")
	}

	// 内存库在最后一个连接关闭时销毁
	if dbConfig.Driver == "memory" && dbConfig.MaxIdleConns < 1 {
		dbConfig.MaxIdleConns = 1
	}
	e.SetMaxIdleConns(dbConfig.MaxIdleConns)
	e.SetMaxOpenConns(dbConfig.MaxOpenConns)
	e.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Second)
	e.AddHook(NewXormLogger(dbConfig.ShowSQL))

	switch logLevel {
	case "debug":
		e.Logger().SetLevel(log.LOG_DEBUG)
	case "warn":
		e.Logger().SetLevel(log.LOG_WARNING)
	case "error":
		e.Logger().SetLevel(log.LOG_ERR)
	default:
		e.Logger().SetLevel(log.LOG_INFO)
	}

	if err := e.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping database")
	}

	if dbConfig.Sync {
		if err := SyncDB(e, false); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SyncDB 同步表结构，dropTables 为 true 时先删表（仅用于测试库）
func SyncDB(e *xorm.Engine, dropTables bool) error {
	ctx := context.Background()
	var result *multierror.Error

	if dropTables {
		for i := len(modelList) - 1; i >= 0; i-- {
			tableName := e.TableName(modelList[i])
			logger.Info(ctx, "Drop table", zap.String("table", tableName))
			if _, err := e.Exec(fmt.Sprintf("DROP TABLE IF EXISTS `%s`", tableName)); err != nil {
				result = multierror.Append(result, errors.Wrapf(err, "drop table %s", tableName))
			}
		}
	}

	for _, model := range modelList {
		tableName := e.TableName(model)
		logger.Info(ctx, "Sync table", zap.String("table", tableName))
		if err := e.Sync2(model); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "sync table %s", tableName))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		logger.Error(ctx, "Database sync finished with errors", zap.Error(err))
		return err
	}
	logger.Info(ctx, "Database sync finished", zap.String("tables", tableNames(e)))
	return nil
}

func tableNames(e *xorm.Engine) string {
	names := make([]string, 0, len(modelList))
	for _, m := range modelList {
		names = append(names, e.TableName(m))
	}
	return strings.Join(names, ",")
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	myapp "github.com/ayxworxfr/newcomer_admin/internal/app"
	"github.com/ayxworxfr/newcomer_admin/internal/config"
	"github.com/ayxworxfr/newcomer_admin/internal/cron"
	"github.com/ayxworxfr/newcomer_admin/internal/dao"
	"github.com/ayxworxfr/newcomer_admin/internal/middleware/sentinel"
	"github.com/ayxworxfr/newcomer_admin/internal/service"
	"github.com/ayxworxfr/newcomer_admin/pkg/jwtauth"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/ayxworxfr/newcomer_admin/pkg/utils"
	_ "github.com/go-sql-driver/mysql"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

func main() {
	cfg := InitConfig()
	logger.InitLogger(cfg.Logger.ToLoggerConfig())
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	initOpenTelemetry(ctx, cfg.OpenTelemetry)

	app := myapp.NewApp(cfg)
	app.RegisterInit(func() error {
		if err := initService(ctx, cfg, app); err != nil {
			return errors.Wrap(err, "Failed to initialize service")
		}
		if cfg.Sentinel.Enable {
			// 规则加载失败不阻止启动，中间件直接放行
			if err := sentinel.InitSentinel(utils.GetAbsPath(cfg.Sentinel.Path)); err != nil {
				logger.Errorf(ctx, "Failed to initialize sentinel: %v", err)
			}
		}
		return nil
	})
	app.RegisterExit(func() error {
		if provider != nil {
			return provider.Shutdown(context.Background())
		}
		return nil
	})

	app.UseDefaultMiddlewares()
	app.SetupRoutes()

	go startServer(app)

	gracefulShutdown(app)
}

var provider myapp.Shutdownable

func initOpenTelemetry(ctx context.Context, cfg config.OpenTelemetryConfig) {
	p, err := myapp.InitOpenTelemetry(cfg)
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize OpenTelemetry: %v", err)
		return
	}
	provider = p
}

func InitConfig() *config.Config {
	cfg, err := config.Load(utils.GetAbsPath("conf/config.yaml"))
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	jwt, err := jwtauth.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTokenExp, cfg.JWT.RefreshTokenExp)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize JWT: %v", err))
	}
	jwtauth.Init(jwt)
	return cfg
}

func initService(ctx context.Context, cfg *config.Config, app *myapp.App) error {
	var result *multierror.Error

	if err := dao.InitRepo(); err != nil {
		// 没有数据库后续服务无法装配
		return multierror.Append(result, err)
	}
	if err := service.Init(ctx, cfg); err != nil {
		result = multierror.Append(result, err)
	}

	if taskManager, err := cron.InitCronTask(); err != nil {
		result = multierror.Append(result, err)
	} else {
		app.RegisterExit(func() error {
			taskManager.Stop()
			return nil
		})
	}

	return result.ErrorOrNil()
}

func startServer(app *myapp.App) {
	if err := app.Run(); err != nil {
		panic(fmt.Sprintf("Failed to start server: %v", err))
	}
}

func gracefulShutdown(app *myapp.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info(context.Background(), "Shutting down server...")

	const shutdownTimeout = 3 * time.Second
	app.GracefulShutdown(shutdownTimeout)

	logger.Info(context.Background(), "Server exiting")
}

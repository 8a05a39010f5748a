package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ayxworxfr/newcomer_admin/internal/app/router"
	"github.com/ayxworxfr/newcomer_admin/internal/config"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/cloudwego/hertz/pkg/app/server"
	hconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/route"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"go.uber.org/zap"
)

type App struct {
	server    *server.Hertz
	config    *config.Config
	root      *router.RouterGroup
	initFuncs []func() error
	exitFuncs []func() error
}

func NewApp(cfg *config.Config, opts ...hconfig.Option) *App {
	tracer, tcfg := hertztracing.NewServerTracer()
	options := append([]hconfig.Option{
		tracer,
		server.WithHostPorts(fmt.Sprintf(":%d", cfg.Server.Port)),
	}, opts...)
	h := server.Default(options...)
	h.Use(hertztracing.ServerMiddleware(tcfg))
	return &App{
		server: h,
		config: cfg,
		root:   router.NewRouterGroup(&h.RouterGroup),
	}
}

func (a *App) Run() error {
	ctx := context.Background()
	logger.Info(ctx, "Starting application...")
	if err := a.executeFuns(a.initFuncs...); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	logger.Info(ctx, "Starting server", zap.Int("port", a.config.Server.Port))
	return a.server.Run()
}

func (a *App) GracefulShutdown(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := a.executeFuns(a.exitFuncs...); err != nil {
		logger.Error(ctx, "Exit hook failed", zap.Error(err))
	}

	if err := a.server.Shutdown(ctx); err != nil {
		logger.Error(ctx, "Server forced to shutdown", zap.Error(err))
	}
}

// Engine 底层路由引擎，测试中用于直接发起请求
func (a *App) Engine() *route.Engine {
	return a.server.Engine
}

func (a *App) Group(path string) *router.RouterGroup {
	return a.root.Group(path)
}

// Routes 已注册的全部路由
func (a *App) Routes() []*router.Router {
	return a.root.Routes()
}

func (a *App) RegisterInit(initFuncs ...func() error) {
	a.initFuncs = append(a.initFuncs, initFuncs...)
}

func (a *App) RegisterExit(exitFuncs ...func() error) {
	a.exitFuncs = append(a.exitFuncs, exitFuncs...)
}

func (a *App) executeFuns(funs ...func() error) error {
	for _, fun := range funs {
		if err := fun(); err != nil {
			return err
		}
	}
	return nil
}

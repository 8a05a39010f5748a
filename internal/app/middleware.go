package app

import (
	"time"

	"github.com/ayxworxfr/newcomer_admin/internal/middleware"
	"github.com/ayxworxfr/newcomer_admin/internal/middleware/sentinel"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/go-redis/redis/v8"
)

// MiddlewareFunc 定义了中间件函数的签名，与 Hertz 的 HandlerFunc 格式一致
type MiddlewareFunc = app.HandlerFunc

// Use 方法用于添加中间件
func (a *App) Use(middlewares ...MiddlewareFunc) {
	for _, m := range middlewares {
		a.server.Use(m)
	}
}

// UseDefaultMiddlewares 全局中间件，顺序即执行顺序
func (a *App) UseDefaultMiddlewares() {
	a.Use(
		middleware.GlobalErrorHandlerMiddleware(),
		middleware.CorsMiddleware(),
		middleware.TraceContextMiddleware(),
		middleware.LogMiddleware(),
		sentinel.SentinelMiddleware(),
		middleware.JSONBodyMiddleware(),
	)
}

// loginLimiter 缓存使用 Redis 时多实例共享登录限流，否则按实例限流
func (a *App) loginLimiter() MiddlewareFunc {
	cfg := a.config.Server
	if a.config.Cache.Driver == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     a.config.Cache.Addr,
			Password: a.config.Cache.Password,
			DB:       a.config.Cache.DB,
		})
		a.RegisterExit(client.Close)
		return sentinel.RedisRateLimiter(client, cfg.LoginRPS, cfg.LoginBurst, a.config.Cache.Prefix, true)
	}
	return sentinel.IPRateLimiterMiddleware(cfg.LoginRPS, cfg.LoginBurst, &sentinel.RateLimiterConfig{
		RefreshInterval: 10 * time.Minute,
		ExpiryTime:      30 * time.Minute,
		EnableMetrics:   true,
	})
}

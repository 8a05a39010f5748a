package sentinel

import (
	"context"
	"fmt"
	"sync"
	"time"

	mycontext "github.com/ayxworxfr/newcomer_admin/pkg/context"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiterConfig 限流配置
type RateLimiterConfig struct {
	RefreshInterval time.Duration // 清理间隔
	ExpiryTime      time.Duration // 过期时间
	EnableMetrics   bool
}

// limiterMetrics 限流计数器，未启用时为空操作
type limiterMetrics struct {
	requests metric.Int64Counter
	blocked  metric.Int64Counter
	errors   metric.Int64Counter
}

func newLimiterMetrics(enabled bool) *limiterMetrics {
	m := &limiterMetrics{}
	if !enabled {
		return m
	}
	meter := otel.GetMeterProvider().Meter("newcomer-admin/limiter")
	var err error
	if m.requests, err = meter.Int64Counter("rate_limiter.requests", metric.WithDescription("Total number of requests")); err != nil {
		logger.Error(context.Background(), "Failed to create request counter", zap.Error(err))
	}
	if m.blocked, err = meter.Int64Counter("rate_limiter.blocked", metric.WithDescription("Total number of blocked requests")); err != nil {
		logger.Error(context.Background(), "Failed to create blocked counter", zap.Error(err))
	}
	if m.errors, err = meter.Int64Counter("rate_limiter.errors", metric.WithDescription("Total number of limiter errors")); err != nil {
		logger.Error(context.Background(), "Failed to create error counter", zap.Error(err))
	}
	return m
}

func (m *limiterMetrics) record(ctx context.Context, path string, blocked bool) {
	attrs := metric.WithAttributes(attribute.String("path", path), attribute.Bool("blocked", blocked))
	if m.requests != nil {
		m.requests.Add(ctx, 1, attrs)
	}
	if blocked && m.blocked != nil {
		m.blocked.Add(ctx, 1, metric.WithAttributes(attribute.String("path", path)))
	}
}

func (m *limiterMetrics) fail(ctx context.Context, path string) {
	if m.errors != nil {
		m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("path", path)))
	}
}

func reject(c *app.RequestContext) {
	mycontext.RateLimit("Too many requests, please try again later").Write(mycontext.NewContext(context.Background(), c))
	c.Abort()
}

// IPRateLimiterMiddleware 单实例内按IP的令牌桶限流
func IPRateLimiterMiddleware(rps, burst int, cfg *RateLimiterConfig) app.HandlerFunc {
	if cfg == nil {
		cfg = &RateLimiterConfig{
			RefreshInterval: 10 * time.Minute,
			ExpiryTime:      30 * time.Minute,
		}
	}

	limiters := make(map[string]*rate.Limiter)
	lastSeen := make(map[string]time.Time)
	mu := &sync.Mutex{}
	metrics := newLimiterMetrics(cfg.EnableMetrics)

	go func() {
		ticker := time.NewTicker(cfg.RefreshInterval)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			now := time.Now()
			for ip, last := range lastSeen {
				if now.Sub(last) > cfg.ExpiryTime {
					delete(limiters, ip)
					delete(lastSeen, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(ctx context.Context, c *app.RequestContext) {
		ip := c.ClientIP()
		path := string(c.Path())

		mu.Lock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[ip] = limiter
		}
		lastSeen[ip] = time.Now()
		mu.Unlock()

		if !limiter.Allow() {
			logger.Warn(ctx, "Request blocked by rate limiter", zap.String("ip", ip), zap.String("path", path))
			metrics.record(ctx, path, true)
			reject(c)
			return
		}
		metrics.record(ctx, path, false)
		c.Next(ctx)
	}
}

// tokenBucketScript 令牌桶，允许返回1，拒绝返回0
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local ttl = math.max(1, math.floor(capacity / rate * 2))

local tokens = tonumber(redis.call('get', key))
if tokens == nil then
	tokens = capacity
end
local refreshed = tonumber(redis.call('get', key .. ':ts'))
if refreshed == nil then
	refreshed = 0
end

local filled = math.min(capacity, tokens + math.max(0, now - refreshed) * rate)
local allowed = 0
if filled >= requested then
	filled = filled - requested
	allowed = 1
end

redis.call('set', key, filled, 'EX', ttl)
redis.call('set', key .. ':ts', now, 'EX', ttl)
return allowed
`)

// RedisRateLimiter 多实例共享的按IP限流；Redis 不可用时放行
func RedisRateLimiter(client redis.UniversalClient, rps, burst int, keyPrefix string, enableMetrics bool) app.HandlerFunc {
	metrics := newLimiterMetrics(enableMetrics)

	return func(ctx context.Context, c *app.RequestContext) {
		ip := c.ClientIP()
		path := string(c.Path())
		key := fmt.Sprintf("%slimit:%s:%s", keyPrefix, ip, path)

		allowed, err := tokenBucketScript.Run(ctx, client, []string{key}, rps, burst, time.Now().Unix(), 1).Int64()
		if err != nil {
			logger.Error(ctx, "Distributed rate limiting evaluation failed",
				zap.Error(err), zap.String("ip", ip), zap.String("path", path))
			metrics.fail(ctx, path)
			c.Next(ctx)
			return
		}
		if allowed == 0 {
			logger.Warn(ctx, "Request blocked by distributed rate limiter", zap.String("ip", ip), zap.String("path", path))
			metrics.record(ctx, path, true)
			reject(c)
			return
		}
		metrics.record(ctx, path, false)
		c.Next(ctx)
	}
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ayxworxfr/newcomer_admin/internal/config"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/vo"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// NavCache 按用户缓存聚合后的导航，目录或授权变更后失效
type NavCache interface {
	Get(ctx context.Context, userID uint64) ([]*vo.UserMenu, bool)
	Set(ctx context.Context, userID uint64, menus []*vo.UserMenu)
	Invalidate(ctx context.Context, userID uint64)
	InvalidateAll(ctx context.Context)
}

// NewNavCache 按 cache.driver 创建缓存
func NewNavCache(ctx context.Context, cfg config.CacheConfig) (NavCache, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryNavCache(cfg.TTLDuration()), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, errors.Wrapf(err, "ping redis %s", cfg.Addr)
		}
		return NewRedisNavCache(client, cfg.Prefix, cfg.TTLDuration()), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

type cacheEntry struct {
	menus   []*vo.UserMenu
	expires time.Time
}

// MemoryNavCache 进程内缓存
type MemoryNavCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[uint64]cacheEntry
	now     func() time.Time
}

func NewMemoryNavCache(ttl time.Duration) *MemoryNavCache {
	return &MemoryNavCache{
		ttl:     ttl,
		entries: make(map[uint64]cacheEntry),
		now:     time.Now,
	}
}

func (c *MemoryNavCache) Get(_ context.Context, userID uint64) ([]*vo.UserMenu, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[userID]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.menus, true
}

func (c *MemoryNavCache) Set(_ context.Context, userID uint64, menus []*vo.UserMenu) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = cacheEntry{menus: menus, expires: c.now().Add(c.ttl)}
}

func (c *MemoryNavCache) Invalidate(_ context.Context, userID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

func (c *MemoryNavCache) InvalidateAll(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]cacheEntry)
}

// RedisNavCache 多实例共享的缓存
//
// 键中带有代数 {prefix}gen，InvalidateAll 只需自增代数，旧键随 TTL 过期。
type RedisNavCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisNavCache(client *redis.Client, prefix string, ttl time.Duration) *RedisNavCache {
	return &RedisNavCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisNavCache) genKey() string {
	return c.prefix + "gen"
}

func (c *RedisNavCache) userKey(ctx context.Context, userID uint64) (string, error) {
	gen, err := c.client.Get(ctx, c.genKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%su:%d:%d", c.prefix, gen, userID), nil
}

func (c *RedisNavCache) Get(ctx context.Context, userID uint64) ([]*vo.UserMenu, bool) {
	key, err := c.userKey(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "Nav cache generation lookup failed", zap.Error(err))
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn(ctx, "Nav cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var menus []*vo.UserMenu
	if err := json.Unmarshal(raw, &menus); err != nil {
		logger.Warn(ctx, "Nav cache decode failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return menus, true
}

func (c *RedisNavCache) Set(ctx context.Context, userID uint64, menus []*vo.UserMenu) {
	key, err := c.userKey(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "Nav cache generation lookup failed", zap.Error(err))
		return
	}
	raw, err := json.Marshal(menus)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "Nav cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisNavCache) Invalidate(ctx context.Context, userID uint64) {
	key, err := c.userKey(ctx, userID)
	if err != nil {
		c.InvalidateAll(ctx)
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		logger.Warn(ctx, "Nav cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateAll 代数损坏无法自增时改写为一个未用过的代数
func (c *RedisNavCache) InvalidateAll(ctx context.Context) {
	err := c.client.Incr(ctx, c.genKey()).Err()
	if err == nil {
		return
	}
	logger.Warn(ctx, "Nav cache generation incr failed", zap.Error(err))
	if err := c.client.Set(ctx, c.genKey(), time.Now().UnixNano(), 0).Err(); err != nil {
		logger.Error(ctx, "Nav cache invalidate failed", zap.Error(err))
	}
}

package sentinel

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/base"
	"github.com/alibaba/sentinel-golang/core/circuitbreaker"
	sconfig "github.com/alibaba/sentinel-golang/core/config"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/alibaba/sentinel-golang/logging"
	"github.com/ayxworxfr/newcomer_admin/internal/config"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var SentinelInstance *Sentinel

// SentinelMiddleware 未初始化时直接放行
func SentinelMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if SentinelInstance == nil {
			c.Next(ctx)
			return
		}
		SentinelInstance.handle(ctx, c)
	}
}

// InitSentinel 加载规则文件并启动文件变更检查
func InitSentinel(configPath string) error {
	instance, err := NewSentinel(configPath)
	if err != nil {
		return err
	}
	SentinelInstance = instance
	go instance.watch(30 * time.Second)
	return nil
}

// Sentinel 按路由模板匹配资源的流控中间件
type Sentinel struct {
	path    string
	modTime time.Time

	mutex           sync.RWMutex
	resources       map[string]string // "METHOD path" 或 " path" 到资源名
	defaultResource string
}

func NewSentinel(configPath string) (*Sentinel, error) {
	rules, err := config.LoadSentinelRules(configPath)
	if err != nil {
		return nil, err
	}

	sc := sconfig.NewDefaultConfig()
	sc.Sentinel.App.Name = rules.AppName
	logging.ResetGlobalLogger(NewSentinelLogger(logger.Instance))
	if err := api.InitWithConfig(sc); err != nil {
		return nil, errors.Wrap(err, "init sentinel")
	}

	s := &Sentinel{path: configPath}
	if info, err := os.Stat(configPath); err == nil {
		s.modTime = info.ModTime()
	}
	if err := s.apply(rules); err != nil {
		return nil, err
	}
	return s, nil
}

// apply 替换资源映射并加载规则
func (s *Sentinel) apply(rules *config.SentinelRules) error {
	resources := make(map[string]string, len(rules.Resources))
	for _, r := range rules.Resources {
		if r.Enabled {
			resources[resourceKey(r.Method, r.Path)] = r.Name
		}
	}

	flowRules := rules.FlowRules()
	if _, err := flow.LoadRules(flowRules); err != nil {
		return errors.Wrap(err, "load flow rules")
	}
	breakerRules := rules.CircuitBreakerRules()
	if _, err := circuitbreaker.LoadRules(breakerRules); err != nil {
		return errors.Wrap(err, "load circuit breaker rules")
	}

	s.mutex.Lock()
	s.resources = resources
	s.defaultResource = rules.DefaultResource
	s.mutex.Unlock()

	logger.Infof(context.Background(), "Sentinel loaded %d flow rules and %d circuit breaker rules",
		len(flowRules), len(breakerRules))
	return nil
}

// watch 规则文件修改后重新加载
func (s *Sentinel) watch(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		info, err := os.Stat(s.path)
		if err != nil || !info.ModTime().After(s.modTime) {
			continue
		}
		s.modTime = info.ModTime()
		rules, err := config.LoadSentinelRules(s.path)
		if err == nil {
			err = s.apply(rules)
		}
		if err != nil {
			logger.Error(context.Background(), "Failed to reload sentinel rules", zap.Error(err))
		}
	}
}

func resourceKey(method, path string) string {
	return method + " " + path
}

// match 先按方法加路由模板匹配，再按任意方法匹配，最后使用默认资源
func (s *Sentinel) match(method, fullPath string) (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if name, ok := s.resources[resourceKey(method, fullPath)]; ok {
		return name, true
	}
	if name, ok := s.resources[resourceKey("", fullPath)]; ok {
		return name, true
	}
	return s.defaultResource, s.defaultResource != ""
}

func (s *Sentinel) handle(ctx context.Context, c *app.RequestContext) {
	resource, ok := s.match(string(c.Method()), c.FullPath())
	if !ok {
		c.Next(ctx)
		return
	}

	entry, blockErr := api.Entry(resource, api.WithTrafficType(base.Inbound))
	if blockErr != nil {
		logger.Warn(ctx, "Request blocked by Sentinel",
			zap.String("resource", resource),
			zap.String("reason", blockErr.BlockType().String()))
		reject(c)
		return
	}
	defer entry.Exit()

	c.Next(ctx)
	if status := c.Response.StatusCode(); status >= 500 {
		api.TraceError(entry, errors.Errorf("status %d", status))
	}
}

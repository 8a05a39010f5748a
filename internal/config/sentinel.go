package config

import (
	"os"

	"github.com/alibaba/sentinel-golang/core/circuitbreaker"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// SentinelRules conf/sentinel.yaml 内容
type SentinelRules struct {
	AppName string `yaml:"app_name"`
	// DefaultResource 未匹配路由时使用的资源名，为空则放行
	DefaultResource string          `yaml:"default_resource"`
	Breaker         BreakerDefaults `yaml:"breaker"`
	Resources       []RouteResource `yaml:"resources"`
}

// BreakerDefaults 熔断默认值
type BreakerDefaults struct {
	RetryTimeoutMs   uint32 `yaml:"retry_timeout_ms"`
	MinRequestAmount uint64 `yaml:"min_request_amount"`
	StatIntervalMs   uint32 `yaml:"stat_interval_ms"`
}

// RouteResource 一个受保护的路由
type RouteResource struct {
	Name    string       `yaml:"name"`
	Method  string       `yaml:"method"` // 空表示任意方法
	Path    string       `yaml:"path"`   // hertz 路由模板，如 /api/menus/:id/screens
	Enabled bool         `yaml:"enabled"`
	Flow    *FlowRule    `yaml:"flow"`
	Breaker *BreakerRule `yaml:"breaker"`
}

// FlowRule 限流规则
type FlowRule struct {
	Threshold         float64 `yaml:"threshold"`
	ControlBehavior   string  `yaml:"control_behavior"` // reject | throttle
	MaxQueueingTimeMs uint32  `yaml:"max_queueing_time_ms"`
}

// BreakerRule 熔断规则
type BreakerRule struct {
	Strategy         string  `yaml:"strategy"` // slow_request_ratio | error_ratio | error_count
	Threshold        float64 `yaml:"threshold"`
	MaxAllowedRtMs   uint64  `yaml:"max_allowed_rt_ms"`
	MinRequestAmount uint64  `yaml:"min_request_amount"`
	StatIntervalMs   uint32  `yaml:"stat_interval_ms"`
}

// LoadSentinelRules 读取限流规则文件
func LoadSentinelRules(path string) (*SentinelRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read sentinel rules %s", path)
	}
	return ParseSentinelRules(data)
}

// ParseSentinelRules 解析限流规则
func ParseSentinelRules(data []byte) (*SentinelRules, error) {
	rules := &SentinelRules{}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, errors.Wrap(err, "parse sentinel rules")
	}
	if rules.AppName == "" {
		rules.AppName = "newcomer-admin"
	}
	return rules, nil
}

// FlowRules 所有启用资源的限流规则
func (s *SentinelRules) FlowRules() []*flow.Rule {
	var rules []*flow.Rule
	for _, r := range s.Resources {
		if !r.Enabled || r.Flow == nil {
			continue
		}
		behavior := flow.Reject
		if r.Flow.ControlBehavior == "throttle" {
			behavior = flow.Throttling
		}
		rules = append(rules, &flow.Rule{
			Resource:               r.Name,
			TokenCalculateStrategy: flow.Direct,
			ControlBehavior:        behavior,
			Threshold:              r.Flow.Threshold,
			MaxQueueingTimeMs:      r.Flow.MaxQueueingTimeMs,
			StatIntervalInMs:       1000,
		})
	}
	return rules
}

// CircuitBreakerRules 所有启用资源的熔断规则，缺省值取 Breaker
func (s *SentinelRules) CircuitBreakerRules() []*circuitbreaker.Rule {
	retry := s.Breaker.RetryTimeoutMs
	if retry == 0 {
		retry = 5000
	}
	var rules []*circuitbreaker.Rule
	for _, r := range s.Resources {
		if !r.Enabled || r.Breaker == nil {
			continue
		}
		minReq := firstNonZero(r.Breaker.MinRequestAmount, s.Breaker.MinRequestAmount, 10)
		interval := uint32(firstNonZero(uint64(r.Breaker.StatIntervalMs), uint64(s.Breaker.StatIntervalMs), 5000))

		strategy := circuitbreaker.SlowRequestRatio
		switch r.Breaker.Strategy {
		case "error_ratio":
			strategy = circuitbreaker.ErrorRatio
		case "error_count":
			strategy = circuitbreaker.ErrorCount
		}
		rules = append(rules, &circuitbreaker.Rule{
			Resource:         r.Name,
			Strategy:         strategy,
			RetryTimeoutMs:   retry,
			MinRequestAmount: minReq,
			StatIntervalMs:   interval,
			MaxAllowedRtMs:   r.Breaker.MaxAllowedRtMs,
			Threshold:        r.Breaker.Threshold,
		})
	}
	return rules
}

func firstNonZero(values ...uint64) uint64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

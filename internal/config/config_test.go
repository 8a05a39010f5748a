package config

import (
	"testing"
	"time"

	"github.com/alibaba/sentinel-golang/core/circuitbreaker"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  port: 9000
database:
  host: db.local
  dbname: newcomer
cache:
  driver: redis
  ttl: 30s
tasks:
  - name: link_sweep
    cron_expr: "*/10 * * * *"
    params:
      dry_run: true
`

func TestParse_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("APP_PORT", "9100")

	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTLDuration())
	assert.Equal(t, "newcomer-admin", cfg.OpenTelemetry.Service)
	require.Len(t, cfg.Tasks, 1)
	assert.Equal(t, true, cfg.Tasks[0].Params["dry_run"])
}

func TestParse_InvalidPortEnvIgnored(t *testing.T) {
	t.Setenv("APP_PORT", "not-a-port")
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestCacheConfig_TTLFallback(t *testing.T) {
	assert.Equal(t, 10*time.Minute, CacheConfig{TTL: "bogus"}.TTLDuration())
}

func TestSentinelRules(t *testing.T) {
	rules, err := ParseSentinelRules([]byte(`
breaker:
  min_request_amount: 20
resources:
  - name: login
    method: POST
    path: /api/auth/login
    enabled: true
    flow:
      threshold: 5
      control_behavior: throttle
  - name: user_menus
    path: /api/user-menus/user/:user_id
    enabled: true
    breaker:
      strategy: error_ratio
      threshold: 0.5
  - name: disabled
    path: /x
    flow:
      threshold: 1
`))
	require.NoError(t, err)
	assert.Equal(t, "newcomer-admin", rules.AppName)

	flows := rules.FlowRules()
	require.Len(t, flows, 1)
	assert.Equal(t, "login", flows[0].Resource)
	assert.Equal(t, flow.Throttling, flows[0].ControlBehavior)

	breakers := rules.CircuitBreakerRules()
	require.Len(t, breakers, 1)
	assert.Equal(t, circuitbreaker.ErrorRatio, breakers[0].Strategy)
	assert.Equal(t, uint64(20), breakers[0].MinRequestAmount)
	assert.Equal(t, uint32(5000), breakers[0].RetryTimeoutMs)
}

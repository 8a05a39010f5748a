package dao

import (
	"context"
	"testing"
	"time"

	"github.com/ayxworxfr/newcomer_admin/internal/config"
	"github.com/ayxworxfr/newcomer_admin/pkg/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xorm.io/xorm/contexts"
)

func TestXormLogger_AfterProcess(t *testing.T) {
	recorder := tests.NewSpanRecorder(t)
	ctx, end := recorder.Start(context.Background(), "hook")

	hook := contexts.NewContextHook(ctx, "SELECT * FROM `screen` WHERE id=?", []any{1})
	hook.ExecuteTime = 200 * time.Millisecond
	require.NoError(t, NewXormLogger(true).AfterProcess(hook))
	end()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events(), 1)
	event := spans[0].Events()[0]
	assert.Equal(t, "db_execute_info", event.Name)

	attrs := map[string]string{}
	for _, kv := range event.Attributes {
		attrs[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, "SELECT * FROM `screen` WHERE id=?", attrs["sql"])
	assert.Equal(t, "200ms", attrs["duration"])
	assert.Equal(t, "[1]", attrs["args"])
}

func TestDSN(t *testing.T) {
	cfg := config.NewDatabaseConfig()
	cfg.User, cfg.Password, cfg.Host, cfg.DBName = "root", "pw", "127.0.0.1", "newcomer"
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/newcomer?charset=utf8mb4&parseTime=True&loc=Local", DSN(cfg))
	assert.Equal(t, "mysql", cfg.DriverName())

	cfg.Driver = "memory"
	assert.Equal(t, "file:newcomer?mode=memory&cache=shared", DSN(cfg))
	assert.Equal(t, "sqlite", cfg.DriverName())

	cfg.Driver = "sqlite"
	cfg.DBName = "data/nav.db"
	assert.Equal(t, "file:data/nav.db?_pragma=busy_timeout(5000)", DSN(cfg))
}

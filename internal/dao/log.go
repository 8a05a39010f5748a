package dao

import (
	"context"
	"time"

	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/ayxworxfr/newcomer_admin/pkg/repository"
	"go.uber.org/zap"
	"xorm.io/xorm/contexts"
)

// XormLogger xorm 钩子：记录 SQL 日志，并把执行信息写入当前 span
type XormLogger struct {
	showSQL       bool
	slowThreshold time.Duration
}

func NewXormLogger(showSQL bool) *XormLogger {
	return &XormLogger{
		showSQL:       showSQL,
		slowThreshold: 100 * time.Millisecond,
	}
}

func (s *XormLogger) BeforeProcess(c *contexts.ContextHook) (context.Context, error) {
	return c.Ctx, nil
}

func (s *XormLogger) AfterProcess(c *contexts.ContextHook) error {
	if c.ExecuteTime > s.slowThreshold {
		logger.Warn(c.Ctx, "Slow SQL", zap.String("sql", c.SQL), zap.Any("args", c.Args), zap.Duration("cost", c.ExecuteTime))
	} else if s.showSQL {
		logger.Debug(c.Ctx, "SQL", zap.String("sql", c.SQL), zap.Any("args", c.Args), zap.Duration("cost", c.ExecuteTime))
	}

	info := map[string]any{
		"sql":      c.SQL,
		"duration": c.ExecuteTime.String(),
	}
	if len(c.Args) > 0 {
		info["args"] = c.Args
	}
	if c.Err != nil {
		info["error"] = c.Err.Error()
	}
	repository.RecordDbEvent(c.Ctx, info)
	return nil
}

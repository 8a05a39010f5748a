package sentinel

import (
	"github.com/alibaba/sentinel-golang/logging"
	"go.uber.org/zap"
)

// SentinelLogger 把 sentinel 内部日志转到 zap
type SentinelLogger struct {
	logger *zap.Logger
}

func NewSentinelLogger(base *zap.Logger) logging.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &SentinelLogger{logger: base.With(zap.String("component", "sentinel"))}
}

func (l *SentinelLogger) Debug(msg string, keysAndValues ...any) {
	if l.DebugEnabled() {
		l.logger.Debug(msg, toFields(keysAndValues)...)
	}
}

func (l *SentinelLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, toFields(keysAndValues)...)
}

func (l *SentinelLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, toFields(keysAndValues)...)
}

func (l *SentinelLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(toFields(keysAndValues), zap.Error(err))...)
}

func (l *SentinelLogger) DebugEnabled() bool { return l.logger.Core().Enabled(zap.DebugLevel) }
func (l *SentinelLogger) InfoEnabled() bool  { return l.logger.Core().Enabled(zap.InfoLevel) }
func (l *SentinelLogger) WarnEnabled() bool  { return l.logger.Core().Enabled(zap.WarnLevel) }
func (l *SentinelLogger) ErrorEnabled() bool { return l.logger.Core().Enabled(zap.ErrorLevel) }

// toFields 键值对转 zap 字段，非字符串键跳过，奇数个时最后一个值为空
func toFields(keysAndValues []any) []zap.Field {
	fields := make([]zap.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		var value any
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}
		fields = append(fields, zap.Any(key, value))
	}
	return fields
}

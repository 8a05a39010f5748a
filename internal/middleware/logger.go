package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ayxworxfr/newcomer_admin/pkg/jwtauth"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

func LogMiddleware() app.HandlerFunc {
	return NewLogger().Logger()
}

// LoggerConfig 日志中间件参数
type LoggerConfig struct {
	MaxBodySize     int // 记录请求体的最大字节数
	SensitiveFields []string
}

// LoggerMiddleware 请求日志
type LoggerMiddleware struct {
	config LoggerConfig
}

func NewLogger(config ...LoggerConfig) *LoggerMiddleware {
	cfg := LoggerConfig{
		MaxBodySize:     4096,
		SensitiveFields: []string{"password", "token", "refresh_token", "secret"},
	}
	if len(config) > 0 {
		if config[0].MaxBodySize > 0 {
			cfg.MaxBodySize = config[0].MaxBodySize
		}
		if len(config[0].SensitiveFields) > 0 {
			cfg.SensitiveFields = config[0].SensitiveFields
		}
	}
	return &LoggerMiddleware{config: cfg}
}

// Logger 记录请求的方法、路径、状态码、耗时和用户，并把请求ID写回响应头
func (l *LoggerMiddleware) Logger() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		requestID := string(c.Request.Header.Peek(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Response.Header.Set(RequestIDHeader, requestID)

		method := string(c.Request.Method())
		path := string(c.Request.URI().Path())
		ctx = logger.WithContext(ctx, zap.String("request_id", requestID))

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.String("client_ip", c.ClientIP()),
		}
		if body := l.maskBody(c.Request.Body()); body != "" {
			fields = append(fields, zap.String("request_body", body))
		}
		logger.Debug(ctx, "Request started", fields...)

		c.Next(ctx)

		status := c.Response.StatusCode()
		latency := time.Since(start)
		fields = append(fields,
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.Int("response_size", len(c.Response.Body())),
		)
		if claims, ok := c.Get(jwtauth.ClaimsKey); ok {
			if cl, ok := claims.(*jwtauth.Claims); ok {
				fields = append(fields, zap.Uint64("user_id", cl.UserID))
			}
		}

		span := trace.SpanFromContext(ctx)
		span.SetAttributes(attribute.String("http.request_id", requestID))
		switch {
		case status >= 500:
			span.SetStatus(codes.Error, "server error")
			logger.Error(ctx, "Request completed", fields...)
		case status >= 400:
			logger.Warn(ctx, "Request completed", fields...)
		default:
			logger.Info(ctx, "Request completed", fields...)
		}
	}
}

// maskBody 屏蔽 JSON 请求体中的敏感字段，非 JSON 或过大的请求体只记录长度
func (l *LoggerMiddleware) maskBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > l.config.MaxBodySize {
		return "[TRUNCATED]"
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "[NON-JSON]"
	}
	for key := range payload {
		for _, sensitive := range l.config.SensitiveFields {
			if strings.EqualFold(key, sensitive) {
				payload[key] = "******"
			}
		}
	}
	masked, _ := json.Marshal(payload)
	return string(masked)
}

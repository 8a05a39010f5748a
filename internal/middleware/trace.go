package middleware

import (
	"context"

	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/cloudwego/hertz/pkg/app"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const TraceIDHeader = "X-Trace-ID"

// TraceContextMiddleware 把 trace_id 放进日志上下文，采样时回写到响应头
func TraceContextMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		spanContext := trace.SpanFromContext(ctx).SpanContext()
		if !spanContext.IsValid() {
			c.Next(ctx)
			return
		}

		traceID := spanContext.TraceID().String()
		c.Response.Header.Set(TraceIDHeader, traceID)
		c.Next(logger.WithContext(ctx,
			zap.String("trace_id", traceID),
			zap.String("span_id", spanContext.SpanID().String()),
		))
	}
}

package middleware

import (
	"context"
	"runtime/debug"

	mycontext "github.com/ayxworxfr/newcomer_admin/pkg/context"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"
)

// GlobalErrorHandlerMiddleware 捕获 panic 并返回 500 统一响应
func GlobalErrorHandlerMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(ctx, "Panic occurred",
					zap.Any("error", err),
					zap.String("url", string(c.Request.URI().FullURI())),
					zap.String("method", string(c.Request.Method())),
					zap.String("stack", string(debug.Stack())),
				)
				c.Response.ResetBody()
				abortWith(ctx, c, mycontext.InternalError())
			}
		}()

		c.Next(ctx)
	}
}

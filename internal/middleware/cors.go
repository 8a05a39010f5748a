package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const DefaultAllowOrigin = "*"

// CorsMiddleware 跨域中间件
func CorsMiddleware(allowOrigin ...string) app.HandlerFunc {
	origin := DefaultAllowOrigin
	if len(allowOrigin) > 0 && allowOrigin[0] != "" {
		origin = allowOrigin[0]
	}
	return func(ctx context.Context, c *app.RequestContext) {
		c.Response.Header.Set("Access-Control-Allow-Origin", origin)
		c.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, "+RequestIDHeader)
		c.Response.Header.Set("Access-Control-Expose-Headers", RequestIDHeader+", "+TraceIDHeader)
		// 预检请求缓存时间（秒）
		c.Response.Header.Set("Access-Control-Max-Age", "86400")

		if string(c.Request.Method()) == consts.MethodOptions {
			c.AbortWithStatus(consts.StatusNoContent)
			return
		}
		c.Next(ctx)
	}
}

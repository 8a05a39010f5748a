package middleware

import (
	"bytes"
	"context"

	mycontext "github.com/ayxworxfr/newcomer_admin/pkg/context"
	"github.com/cloudwego/hertz/pkg/app"
)

// JSONBodyMiddleware 带请求体的写请求必须是 JSON
func JSONBodyMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		switch string(c.Request.Method()) {
		case "POST", "PUT", "PATCH":
		default:
			c.Next(ctx)
			return
		}
		if len(c.Request.Body()) == 0 {
			c.Next(ctx)
			return
		}
		if !bytes.Contains(bytes.ToLower(c.Request.Header.ContentType()), []byte("json")) {
			abortWith(ctx, c, mycontext.ParamError("content type must be application/json"))
			return
		}
		c.Next(ctx)
	}
}

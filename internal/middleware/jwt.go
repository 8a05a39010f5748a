package middleware

import (
	"context"

	mycontext "github.com/ayxworxfr/newcomer_admin/pkg/context"
	"github.com/ayxworxfr/newcomer_admin/pkg/jwtauth"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"
)

func abortWith(ctx context.Context, c *app.RequestContext, rsp *mycontext.Response) {
	rsp.Write(mycontext.NewContext(ctx, c))
	c.Abort()
}

// JWTMiddleware 校验 Bearer 访问令牌，通过后把 Claims 写入请求上下文
func JWTMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		token, ok := jwtauth.BearerToken(string(c.Request.Header.Peek("Authorization")))
		if !ok {
			abortWith(ctx, c, mycontext.Unauthorized("No token provided"))
			return
		}
		if jwtauth.Instance == nil {
			abortWith(ctx, c, mycontext.InternalError("jwt not initialized"))
			return
		}

		claims, err := jwtauth.Instance.ParseToken(token, jwtauth.AccessTokenType)
		if err != nil {
			logger.Debug(ctx, "Invalid access token", zap.Error(err))
			abortWith(ctx, c, mycontext.Unauthorized("Invalid token"))
			return
		}
		c.Set(jwtauth.ClaimsKey, claims)
		c.Next(ctx)
	}
}

// AdminMiddleware 仅允许管理员角色，需在 JWTMiddleware 之后使用
func AdminMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if jwtauth.Instance == nil {
			abortWith(ctx, c, mycontext.Unauthorized("No token provided"))
			return
		}
		claims, err := jwtauth.Instance.ContextClaims(c)
		if err != nil {
			abortWith(ctx, c, mycontext.Unauthorized(err))
			return
		}
		if !claims.IsAdmin() {
			logger.Warn(ctx, "Admin route denied",
				zap.Uint64("user_id", claims.UserID), zap.String("path", string(c.Path())))
			abortWith(ctx, c, mycontext.Forbidden("admin role required"))
			return
		}
		c.Next(ctx)
	}
}

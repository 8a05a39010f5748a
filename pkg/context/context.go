package context

import (
	"context"
	"strconv"

	"github.com/ayxworxfr/newcomer_admin/pkg/jwtauth"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/pkg/errors"
)

// Context 是对 Hertz 的 app.RequestContext 的封装
type Context struct {
	ctx context.Context
	*app.RequestContext
}

// NewContext 创建一个新的 Context
func NewContext(ctx context.Context, c *app.RequestContext) *Context {
	return &Context{ctx: ctx, RequestContext: c}
}

// Context 返回原始的 context.Context
func (ctx *Context) Context() context.Context {
	return ctx.ctx
}

// GetUserID 当前登录用户ID，未登录时返回0
func (ctx *Context) GetUserID() uint64 {
	if jwtauth.Instance == nil {
		return 0
	}
	if userID, err := jwtauth.Instance.GetUserIDUint64(ctx.RequestContext); err == nil {
		return userID
	}
	return 0
}

// GetRoleKey 当前登录用户角色
func (ctx *Context) GetRoleKey() string {
	if jwtauth.Instance == nil {
		return ""
	}
	claims, err := jwtauth.Instance.ContextClaims(ctx.RequestContext)
	if err != nil {
		return ""
	}
	return claims.Role
}

// ParamUint64 读取路径参数并转换为uint64
func (ctx *Context) ParamUint64(key string) (uint64, error) {
	raw := ctx.RequestContext.Param(key)
	if raw == "" {
		return 0, errors.Errorf("missing path parameter %q", key)
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, errors.Errorf("invalid path parameter %q: %s", key, raw)
	}
	return v, nil
}

// JSON 将给定的结构体序列化为 JSON 并写入响应体
func (ctx *Context) JSON(code int, obj any) {
	ctx.RequestContext.JSON(code, obj)
}

// String 将给定的字符串写入响应体
func (ctx *Context) String(code int, format string, values ...any) {
	ctx.RequestContext.String(code, format, values...)
}

// GetHeader 获取请求头
func (ctx *Context) GetHeader(key string) string {
	return string(ctx.RequestContext.Request.Header.Peek(key))
}

// Method 返回请求的 HTTP 方法
func (ctx *Context) Method() string {
	return string(ctx.RequestContext.Method())
}

// Path 返回请求的路径
func (ctx *Context) Path() string {
	return string(ctx.RequestContext.Path())
}

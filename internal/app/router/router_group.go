package router

import (
	"context"
	"reflect"
	"sort"

	mycontext "github.com/ayxworxfr/newcomer_admin/pkg/context"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	errInvalidRouter  = errors.New("invalid router")
	errInvalidHandler = errors.New("handler must be app.HandlerFunc or func(*context.Context[, *Params]) *context.Response|error")
	errNilGroup       = errors.New("router group is nil")

	contextType  = reflect.TypeOf(&mycontext.Context{})
	responseType = reflect.TypeOf(&mycontext.Response{})
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// RouterGroup 包装 hertz 路由组，处理函数在注册时解析签名
type RouterGroup struct {
	group       *route.RouterGroup
	middlewares []any
	table       *routeTable
}

type routeTable struct {
	routers []*Router
}

func NewRouterGroup(group *route.RouterGroup) *RouterGroup {
	return &RouterGroup{group: group, table: &routeTable{}}
}

// Group 子路由组继承父组的中间件，共享同一张路由表
func (rg *RouterGroup) Group(path string) *RouterGroup {
	var group *route.RouterGroup
	if rg.group != nil {
		group = rg.group.Group(path)
	}
	return &RouterGroup{
		group:       group,
		middlewares: append([]any{}, rg.middlewares...),
		table:       rg.table,
	}
}

// Use 添加中间件，只影响之后注册的路由
func (rg *RouterGroup) Use(middleware ...any) {
	rg.middlewares = append(rg.middlewares, middleware...)
}

func (rg *RouterGroup) Handle(method, path string, handler any) {
	r := NewRouter(method, path, handler)
	if rg.group == nil {
		rg.reject(r, errNilGroup)
		return
	}

	chain := append(append([]any{}, rg.middlewares...), handler)
	steps := make([]step, 0, len(chain))
	for _, h := range chain {
		s, err := compile(h)
		if err != nil {
			rg.reject(r, err)
			return
		}
		steps = append(steps, s)
	}

	full := NewRouter(method, cleanJoin(rg.group.BasePath(), path), handler)
	rg.table.routers = append(rg.table.routers, full)
	logger.Debugf(context.Background(), "register route: %s", full)
	rg.group.Handle(r.method.Value(), path, run(steps))
}

func (rg *RouterGroup) reject(r *Router, err error) {
	fields := []zap.Field{zap.Error(err)}
	if r != nil {
		fields = append(fields, zap.String("route", r.String()))
	}
	logger.Warn(context.Background(), "Route skipped", fields...)
}

// Routes 已注册的完整路由，按路径、方法排序
func (rg *RouterGroup) Routes() []*Router {
	out := append([]*Router{}, rg.table.routers...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].path != out[j].path {
			return out[i].path < out[j].path
		}
		return out[i].method < out[j].method
	})
	return out
}

func (rg *RouterGroup) GET(path string, handler any) {
	rg.Handle(GET.Value(), path, handler)
}

func (rg *RouterGroup) POST(path string, handler any) {
	rg.Handle(POST.Value(), path, handler)
}

func (rg *RouterGroup) PUT(path string, handler any) {
	rg.Handle(PUT.Value(), path, handler)
}

func (rg *RouterGroup) DELETE(path string, handler any) {
	rg.Handle(DELETE.Value(), path, handler)
}

func cleanJoin(base, path string) string {
	switch {
	case base == "" || base == "/":
		return path
	case path == "" || path == "/":
		return base
	case base[len(base)-1] == '/':
		return base + path[1:]
	default:
		return base + path
	}
}

// step 返回 false 时停止后续处理
type step func(ctx context.Context, c *app.RequestContext, myCtx *mycontext.Context) bool

func run(steps []step) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		myCtx := mycontext.NewContext(ctx, c)
		for _, s := range steps {
			if !s(ctx, c, myCtx) {
				return
			}
		}
	}
}

// compile 中间件原样执行；业务处理函数按签名绑定参数并写出返回值
func compile(handler any) (step, error) {
	switch h := handler.(type) {
	case app.HandlerFunc:
		return middlewareStep(h), nil
	case func(context.Context, *app.RequestContext):
		return middlewareStep(h), nil
	}

	fn := reflect.ValueOf(handler)
	ft := fn.Type()
	if ft.Kind() != reflect.Func || ft.NumOut() != 1 || ft.NumIn() < 1 || ft.NumIn() > 2 || ft.In(0) != contextType {
		return nil, errInvalidHandler
	}
	if out := ft.Out(0); out != responseType && out != errorType {
		return nil, errInvalidHandler
	}

	var paramType reflect.Type
	if ft.NumIn() == 2 {
		if ft.In(1).Kind() != reflect.Ptr || ft.In(1).Elem().Kind() != reflect.Struct {
			return nil, errInvalidHandler
		}
		paramType = ft.In(1).Elem()
	}

	return func(ctx context.Context, c *app.RequestContext, myCtx *mycontext.Context) bool {
		args := []reflect.Value{reflect.ValueOf(myCtx)}
		if paramType != nil {
			param := reflect.New(paramType)
			if err := c.BindAndValidate(param.Interface()); err != nil {
				mycontext.ParamError(err).Write(myCtx)
				return false
			}
			args = append(args, param)
		}
		return writeResult(myCtx, fn.Call(args)[0])
	}, nil
}

func middlewareStep(h app.HandlerFunc) step {
	return func(ctx context.Context, c *app.RequestContext, myCtx *mycontext.Context) bool {
		h(ctx, c)
		return !myCtx.IsAborted()
	}
}

// writeResult 非空返回值写出响应并结束请求
func writeResult(c *mycontext.Context, result reflect.Value) bool {
	if result.IsNil() {
		return true
	}
	switch v := result.Interface().(type) {
	case *mycontext.Response:
		v.Write(c)
	case error:
		mycontext.InternalError(v).Write(c)
	}
	return false
}

package router

import (
	"fmt"
	"strings"
)

// RouterMethod HTTP方法
type RouterMethod string

const (
	GET    RouterMethod = "GET"
	POST   RouterMethod = "POST"
	PUT    RouterMethod = "PUT"
	DELETE RouterMethod = "DELETE"
)

func (m RouterMethod) Value() string {
	return string(m)
}

// Router 路由表中的一项
type Router struct {
	method  RouterMethod
	path    string
	handler any
}

func NewRouter(method string, path string, handler any) *Router {
	return &Router{
		method:  RouterMethod(strings.ToUpper(method)),
		path:    path,
		handler: handler,
	}
}

func (r *Router) GetPath() string {
	return r.path
}

func (r *Router) GetMethod() RouterMethod {
	return r.method
}

func (r *Router) IsValid() bool {
	return r != nil && r.path != "" && r.method != "" && r.handler != nil
}

func (r *Router) String() string {
	return fmt.Sprintf("%s %s", r.method, r.path)
}

// RegisterRouters 批量注册路由表，非法路由记录日志后跳过
func (rg *RouterGroup) RegisterRouters(routers ...*Router) {
	for _, r := range routers {
		if !r.IsValid() {
			rg.reject(r, errInvalidRouter)
			continue
		}
		rg.Handle(r.method.Value(), r.path, r.handler)
	}
}

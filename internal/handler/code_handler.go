package handler

import (
	"github.com/ayxworxfr/newcomer_admin/internal/domain/params"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/vo"
	"github.com/ayxworxfr/newcomer_admin/internal/service"
	"github.com/ayxworxfr/newcomer_admin/pkg/component"
	"github.com/ayxworxfr/newcomer_admin/pkg/context"
	"github.com/samber/lo"
)

type ICodeHandler interface {
	Groups(c *context.Context) *context.Response
	ByGroup(c *context.Context, req *params.CodeGroupRequest) *context.Response
}

type CodeHandler struct{}

// @route GET /codes
func (h *CodeHandler) Groups(c *context.Context) *context.Response {
	groups, err := service.CodeServiceInstance.Groups(c.Context())
	if err != nil {
		return context.DatabaseError(err)
	}
	return context.Success(groups)
}

// @route GET /codes/:group
func (h *CodeHandler) ByGroup(c *context.Context, req *params.CodeGroupRequest) *context.Response {
	codes, err := service.CodeServiceInstance.ByGroup(c.Context(), req.Group)
	if err != nil {
		return context.DatabaseError(err)
	}
	return context.Success(codes)
}

type IComponentHandler interface {
	List(c *context.Context) *context.Response
}

// ComponentHandler 画面可挂载的组件
type ComponentHandler struct{}

// @route GET /components
func (h *ComponentHandler) List(c *context.Context) *context.Response {
	return context.Success(lo.Map(component.All(), func(s component.Spec, _ int) vo.Component {
		return vo.Component{Name: string(s.Tag), Title: s.Title, DefaultPath: s.DefaultPath, AdminOnly: s.AdminOnly}
	}))
}

package handler

import (
	"github.com/ayxworxfr/newcomer_admin/internal/domain/params"
	"github.com/ayxworxfr/newcomer_admin/internal/service"
	"github.com/ayxworxfr/newcomer_admin/pkg/context"
)

// IScreenHandler 画面目录
type IScreenHandler interface {
	List(c *context.Context, req *params.ScreenListRequest) *context.Response
	Get(c *context.Context, req *params.IDRequest) *context.Response
	GetByPath(c *context.Context, req *params.ScreenPathRequest) *context.Response
	Create(c *context.Context, req *params.ScreenRequest) *context.Response
	Update(c *context.Context, req *params.UpdateScreenRequest) *context.Response
	Delete(c *context.Context, req *params.IDRequest) *context.Response
}

type ScreenHandler struct{}

// @route GET /screens
func (h *ScreenHandler) List(c *context.Context, req *params.ScreenListRequest) *context.Response {
	screens, total, err := service.ScreenServiceInstance.List(c.Context(), req)
	if err != nil {
		return context.DatabaseError(err)
	}
	return context.PageSuccess(screens, total)
}

// @route GET /screens/:id
func (h *ScreenHandler) Get(c *context.Context, req *params.IDRequest) *context.Response {
	screen, err := service.ScreenServiceInstance.Get(c.Context(), req.ID)
	if err != nil {
		return errorResponse(c, err)
	}
	return context.Success(screen)
}

// @route GET /screens/path/*path
func (h *ScreenHandler) GetByPath(c *context.Context, req *params.ScreenPathRequest) *context.Response {
	screen, err := service.ScreenServiceInstance.GetByPath(c.Context(), req.Path)
	if err != nil {
		return errorResponse(c, err)
	}
	return context.Success(screen)
}

// @route POST /screens
func (h *ScreenHandler) Create(c *context.Context, req *params.ScreenRequest) *context.Response {
	screen, err := service.ScreenServiceInstance.Create(c.Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return context.Created(screen)
}

// @route PUT /screens/:id
func (h *ScreenHandler) Update(c *context.Context, req *params.UpdateScreenRequest) *context.Response {
	screen, err := service.ScreenServiceInstance.Update(c.Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return context.Success(screen)
}

// @route DELETE /screens/:id
func (h *ScreenHandler) Delete(c *context.Context, req *params.IDRequest) *context.Response {
	if err := service.ScreenServiceInstance.Delete(c.Context(), req.ID); err != nil {
		return errorResponse(c, err)
	}
	return context.NoContent()
}

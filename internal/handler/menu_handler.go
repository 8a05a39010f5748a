package handler

import (
	"github.com/ayxworxfr/newcomer_admin/internal/domain/params"
	"github.com/ayxworxfr/newcomer_admin/internal/service"
	"github.com/ayxworxfr/newcomer_admin/pkg/context"
)

// IMenuHandler 菜单及菜单下的画面关联
type IMenuHandler interface {
	List(c *context.Context, req *params.MenuListRequest) *context.Response
	Get(c *context.Context, req *params.IDRequest) *context.Response
	Create(c *context.Context, req *params.MenuRequest) *context.Response
	Update(c *context.Context, req *params.UpdateMenuRequest) *context.Response
	Delete(c *context.Context, req *params.IDRequest) *context.Response
	ListScreens(c *context.Context, req *params.IDRequest) *context.Response
	AvailableScreens(c *context.Context, req *params.IDRequest) *context.Response
	LinkScreen(c *context.Context, req *params.LinkScreenRequest) *context.Response
	UnlinkScreen(c *context.Context, req *params.UnlinkScreenRequest) *context.Response
}

type MenuHandler struct{}

// @route GET /menus
func (h *MenuHandler) List(c *context.Context, req *params.MenuListRequest) *context.Response {
	menus, total, err := service.MenuServiceInstance.List(c.Context(), req)
	if err != nil {
		return context.DatabaseError(err)
	}
	return context.PageSuccess(menus, total)
}

// @route GET /menus/:id
func (h *MenuHandler) Get(c *context.Context, req *params.IDRequest) *context.Response {
	menu, err := service.MenuServiceInstance.Get(c.Context(), req.ID)
	if err != nil {
		return errorResponse(c, err)
	}
	return context.Success(menu)
}

// @route POST /menus
func (h *MenuHandler) Create(c *context.Context, req *params.MenuRequest) *context.Response {
	menu, err := service.MenuServiceInstance.Create(c.Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return context.Created(menu)
}

// @route PUT /menus/:id
func (h *MenuHandler) Update(c *context.Context, req *params.UpdateMenuRequest) *context.Response {
	menu, err := service.MenuServiceInstance.Update(c.Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return context.Success(menu)
}

// @route DELETE /menus/:id
func (h *MenuHandler) Delete(c *context.Context, req *params.IDRequest) *context.Response {
	if err := service.MenuServiceInstance.Delete(c.Context(), req.ID); err != nil {
		return errorResponse(c, err)
	}
	return context.NoContent()
}

// @route GET /menus/:id/screens
func (h *MenuHandler) ListScreens(c *context.Context, req *params.IDRequest) *context.Response {
	screens, err := service.MenuServiceInstance.ListScreens(c.Context(), req.ID)
	if err != nil {
		return errorResponse(c, err)
	}
	return context.Success(screens)
}

// @route GET /menus/:id/available-screens
func (h *MenuHandler) AvailableScreens(c *context.Context, req *params.IDRequest) *context.Response {
	screens, err := service.MenuServiceInstance.AvailableScreens(c.Context(), req.ID)
	if err != nil {
		return errorResponse(c, err)
	}
	return context.Success(screens)
}

// @route POST /menus/:id/screens
func (h *MenuHandler) LinkScreen(c *context.Context, req *params.LinkScreenRequest) *context.Response {
	link, err := service.MenuServiceInstance.LinkScreen(c.Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return context.Created(link)
}

// @route DELETE /menus/:id/screens/:screen_id
func (h *MenuHandler) UnlinkScreen(c *context.Context, req *params.UnlinkScreenRequest) *context.Response {
	if err := service.MenuServiceInstance.UnlinkScreen(c.Context(), req.MenuID, req.ScreenID); err != nil {
		return errorResponse(c, err)
	}
	return context.NoContent()
}

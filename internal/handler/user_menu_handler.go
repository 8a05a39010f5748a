package handler

import (
	"github.com/ayxworxfr/newcomer_admin/internal/domain/params"
	"github.com/ayxworxfr/newcomer_admin/internal/service"
	"github.com/ayxworxfr/newcomer_admin/pkg/context"
	"github.com/ayxworxfr/newcomer_admin/pkg/jwtauth"
)

// IUserMenuHandler 用户菜单授权与导航
type IUserMenuHandler interface {
	UserMenus(c *context.Context, req *params.UserMenusRequest) *context.Response
	ListGrants(c *context.Context, req *params.GrantListRequest) *context.Response
	Grant(c *context.Context, req *params.GrantRequest) *context.Response
	Revoke(c *context.Context, req *params.IDRequest) *context.Response
}

type UserMenuHandler struct{}

// @route GET /user-menus/user/:user_id
func (h *UserMenuHandler) UserMenus(c *context.Context, req *params.UserMenusRequest) *context.Response {
	if req.UserID != c.GetUserID() && c.GetRoleKey() != jwtauth.RoleAdmin {
		return context.Forbidden("navigation of another user")
	}
	menus, err := service.UserMenuServiceInstance.GetUserMenus(c.Context(), req.UserID)
	if err != nil {
		return errorResponse(c, err)
	}
	return context.Success(menus)
}

// @route GET /user-menus
func (h *UserMenuHandler) ListGrants(c *context.Context, req *params.GrantListRequest) *context.Response {
	grants, total, err := service.UserMenuServiceInstance.ListGrants(c.Context(), req)
	if err != nil {
		return context.DatabaseError(err)
	}
	return context.PageSuccess(grants, total)
}

// @route POST /user-menus
func (h *UserMenuHandler) Grant(c *context.Context, req *params.GrantRequest) *context.Response {
	grant, err := service.UserMenuServiceInstance.Grant(c.Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return context.Created(grant)
}

// @route DELETE /user-menus/:id
func (h *UserMenuHandler) Revoke(c *context.Context, req *params.IDRequest) *context.Response {
	if err := service.UserMenuServiceInstance.Revoke(c.Context(), req.ID); err != nil {
		return errorResponse(c, err)
	}
	return context.NoContent()
}

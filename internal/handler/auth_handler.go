package handler

import (
	"github.com/ayxworxfr/newcomer_admin/internal/domain/params"
	"github.com/ayxworxfr/newcomer_admin/internal/service"
	"github.com/ayxworxfr/newcomer_admin/pkg/context"
)

type IAuthHandler interface {
	Login(c *context.Context, req *params.LoginRequest) *context.Response
	Refresh(c *context.Context, req *params.RefreshTokenRequest) *context.Response
}

type AuthHandler struct{}

// @route POST /auth/login
func (h *AuthHandler) Login(c *context.Context, req *params.LoginRequest) *context.Response {
	result, err := service.AuthServiceInstance.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return errorResponse(c, err)
	}
	return context.Success(result)
}

// @route POST /auth/refresh
func (h *AuthHandler) Refresh(c *context.Context, req *params.RefreshTokenRequest) *context.Response {
	token, err := service.AuthServiceInstance.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return errorResponse(c, err)
	}
	return context.Success(token)
}

package handler

import (
	"github.com/ayxworxfr/newcomer_admin/internal/service"
	"github.com/ayxworxfr/newcomer_admin/pkg/context"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// errorResponse 把服务层错误映射为响应码，未知错误按内部错误处理
func errorResponse(c *context.Context, err error) *context.Response {
	switch {
	case errors.Is(err, service.ErrScreenNotFound),
		errors.Is(err, service.ErrMenuNotFound),
		errors.Is(err, service.ErrLinkNotFound),
		errors.Is(err, service.ErrGrantNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return context.NotFound(err)
	case errors.Is(err, service.ErrLinkExists):
		return context.Conflict(err)
	case errors.Is(err, service.ErrUnknownComponent),
		errors.Is(err, service.ErrInvalidScreenPath):
		return context.ParamError(err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return context.Unauthorized(err)
	case errors.Is(err, service.ErrUserDisabled):
		return context.Forbidden(err)
	}
	logger.Error(c.Context(), "Request failed", zap.String("path", c.Path()), zap.Error(err))
	return context.InternalError()
}

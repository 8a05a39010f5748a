package handler

import (
	"github.com/ayxworxfr/newcomer_admin/internal/dao"
	"github.com/ayxworxfr/newcomer_admin/pkg/context"
)

type IHealthHandler interface {
	Health(c *context.Context) *context.Response
}

type HealthHandler struct{}

// @route GET /health
func (h *HealthHandler) Health(c *context.Context) *context.Response {
	if engine := dao.Engine(); engine != nil {
		if err := engine.PingContext(c.Context()); err != nil {
			return context.DatabaseError(err)
		}
	}
	return context.Success(map[string]string{"status": "ok"})
}

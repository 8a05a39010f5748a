package app

import (
	"context"

	"github.com/ayxworxfr/newcomer_admin/internal/app/router"
	"github.com/ayxworxfr/newcomer_admin/internal/handler"
	"github.com/ayxworxfr/newcomer_admin/internal/middleware"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"go.uber.org/zap"
)

func (a *App) SetupRoutes() {
	root := a.Group("/")
	root.GET("/health", handler.HealthHandlerInstance.Health)

	api := a.Group("/api")

	// 公开路由
	auth := api.Group("/auth")
	auth.Use(a.loginLimiter())
	auth.RegisterRouters(
		router.NewRouter("POST", "/login", handler.AuthHandlerInstance.Login),
		router.NewRouter("POST", "/refresh", handler.AuthHandlerInstance.Refresh),
	)

	// 登录用户可读
	protected := api.Group("")
	protected.Use(middleware.JWTMiddleware())
	protected.RegisterRouters(
		router.NewRouter("GET", "/user-menus/user/:user_id", handler.UserMenuHandlerInstance.UserMenus),
		router.NewRouter("GET", "/menus", handler.MenuHandlerInstance.List),
		router.NewRouter("GET", "/menus/:id", handler.MenuHandlerInstance.Get),
		router.NewRouter("GET", "/menus/:id/screens", handler.MenuHandlerInstance.ListScreens),
		router.NewRouter("GET", "/menus/:id/available-screens", handler.MenuHandlerInstance.AvailableScreens),
		router.NewRouter("GET", "/screens", handler.ScreenHandlerInstance.List),
		router.NewRouter("GET", "/screens/:id", handler.ScreenHandlerInstance.Get),
		router.NewRouter("GET", "/screens/path/*path", handler.ScreenHandlerInstance.GetByPath),
		router.NewRouter("GET", "/codes", handler.CodeHandlerInstance.Groups),
		router.NewRouter("GET", "/codes/:group", handler.CodeHandlerInstance.ByGroup),
		router.NewRouter("GET", "/components", handler.ComponentHandlerInstance.List),
	)

	// 管理员
	admin := protected.Group("")
	admin.Use(middleware.AdminMiddleware())
	admin.RegisterRouters(
		router.NewRouter("POST", "/screens", handler.ScreenHandlerInstance.Create),
		router.NewRouter("PUT", "/screens/:id", handler.ScreenHandlerInstance.Update),
		router.NewRouter("DELETE", "/screens/:id", handler.ScreenHandlerInstance.Delete),
		router.NewRouter("POST", "/menus", handler.MenuHandlerInstance.Create),
		router.NewRouter("PUT", "/menus/:id", handler.MenuHandlerInstance.Update),
		router.NewRouter("DELETE", "/menus/:id", handler.MenuHandlerInstance.Delete),
		router.NewRouter("POST", "/menus/:id/screens", handler.MenuHandlerInstance.LinkScreen),
		router.NewRouter("DELETE", "/menus/:id/screens/:screen_id", handler.MenuHandlerInstance.UnlinkScreen),
		router.NewRouter("GET", "/user-menus", handler.UserMenuHandlerInstance.ListGrants),
		router.NewRouter("POST", "/user-menus", handler.UserMenuHandlerInstance.Grant),
		router.NewRouter("DELETE", "/user-menus/:id", handler.UserMenuHandlerInstance.Revoke),
	)

	logger.Info(context.Background(), "Routes registered", zap.Int("count", len(a.Routes())))
}

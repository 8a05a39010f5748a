package service

import (
	"context"
	"os"

	"github.com/ayxworxfr/newcomer_admin/internal/config"
	"github.com/ayxworxfr/newcomer_admin/internal/dao"
	"github.com/ayxworxfr/newcomer_admin/pkg/jwtauth"
)

// Service 实例变量
var (
	AuthServiceInstance     *AuthService
	ScreenServiceInstance   *ScreenService
	MenuServiceInstance     *MenuService
	UserMenuServiceInstance *UserMenuService
	CodeServiceInstance     *CodeService
)

// Init dao 与 jwtauth 初始化完成后调用
func Init(ctx context.Context, cfg *config.Config) error {
	cache, err := NewNavCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	Setup(dao.Default, cache, jwtauth.Instance)

	return AuthServiceInstance.EnsureAdmin(ctx, os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_PASSWORD"))
}

// Setup 用给定仓储与缓存装配全部服务
func Setup(repos *dao.Repos, cache NavCache, jwt *jwtauth.JWT) {
	AuthServiceInstance = NewAuthService(repos, jwt)
	ScreenServiceInstance = NewScreenService(repos, cache)
	MenuServiceInstance = NewMenuService(repos, cache)
	UserMenuServiceInstance = NewUserMenuService(repos, cache)
	CodeServiceInstance = NewCodeService(repos)
}

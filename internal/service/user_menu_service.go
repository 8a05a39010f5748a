package service

import (
	"context"

	"github.com/ayxworxfr/newcomer_admin/internal/dao"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/models"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/params"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/vo"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/ayxworxfr/newcomer_admin/pkg/repository"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// UserMenuService 用户菜单授权与导航聚合
type UserMenuService struct {
	repos *dao.Repos
	cache NavCache

	resolutions metric.Int64Counter
}

func NewUserMenuService(repos *dao.Repos, cache NavCache) *UserMenuService {
	counter, err := otel.GetMeterProvider().Meter("newcomer-admin/service").Int64Counter(
		"navigation.resolutions",
		metric.WithDescription("User navigation resolutions by cache outcome"),
	)
	if err != nil {
		logger.Error(context.Background(), "Failed to create navigation counter", zap.Error(err))
	}
	return &UserMenuService{repos: repos, cache: cache, resolutions: counter}
}

func (s *UserMenuService) count(ctx context.Context, outcome string) {
	if s.resolutions != nil {
		s.resolutions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

// GetUserMenus 用户可见的菜单树
//
// 授权按菜单去重；停用或已删除的菜单和画面不出现；没有画面的菜单保留为空组。
// 菜单按 menu_order、ID 排序，画面按关联顺序、画面ID排序。
func (s *UserMenuService) GetUserMenus(ctx context.Context, userID uint64) ([]*vo.UserMenu, error) {
	if menus, ok := s.cache.Get(ctx, userID); ok {
		s.count(ctx, "cache_hit")
		return menus, nil
	}

	grants, err := s.repos.Grant.FindAll(ctx, &models.UserMenuGrant{UserID: userID})
	if err != nil {
		s.count(ctx, "error")
		return nil, errors.Wrap(err, "list grants")
	}
	menuIDs := lo.Uniq(lo.Map(grants, func(g models.UserMenuGrant, _ int) uint64 { return g.MenuID }))

	result := make([]*vo.UserMenu, 0, len(menuIDs))
	if len(menuIDs) > 0 {
		menus, err := s.repos.Menu.QueryBuilder().
			In("id", menuIDs).
			Eq("is_active", true).
			OrderBy("menu_order, id").
			Find(ctx)
		if err != nil {
			s.count(ctx, "error")
			return nil, errors.Wrap(err, "list menus")
		}

		activeIDs := lo.Map(menus, func(m models.Menu, _ int) uint64 { return m.ID })
		screens, err := linkedScreens(ctx, s.repos, activeIDs, true)
		if err != nil {
			s.count(ctx, "error")
			return nil, err
		}
		for _, m := range menus {
			result = append(result, &vo.UserMenu{
				ID:        m.ID,
				MenuName:  m.MenuName,
				MenuOrder: m.MenuOrder,
				Screens:   screens[m.ID],
			})
		}
	}

	s.cache.Set(ctx, userID, result)
	s.count(ctx, "resolved")
	logger.Debug(ctx, "User menus resolved", zap.Uint64("user_id", userID), zap.Int("menus", len(result)))
	return result, nil
}

func (s *UserMenuService) toGrantVos(ctx context.Context, grants []models.UserMenuGrant) ([]*vo.Grant, error) {
	menuIDs := lo.Uniq(lo.Map(grants, func(g models.UserMenuGrant, _ int) uint64 { return g.MenuID }))
	names := map[uint64]string{}
	if len(menuIDs) > 0 {
		menus, err := s.repos.Menu.QueryBuilder().In("id", menuIDs).Find(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "list menus")
		}
		names = lo.SliceToMap(menus, func(m models.Menu) (uint64, string) { return m.ID, m.MenuName })
	}
	return lo.Map(grants, func(g models.UserMenuGrant, _ int) *vo.Grant {
		return &vo.Grant{ID: g.ID, UserID: g.UserID, MenuID: g.MenuID, MenuName: names[g.MenuID], CreateTime: g.CreateTime}
	}), nil
}

// ListGrants 授权列表，可按用户或菜单过滤
func (s *UserMenuService) ListGrants(ctx context.Context, req *params.GrantListRequest) ([]*vo.Grant, int64, error) {
	grants, total, err := s.repos.Grant.FindPage(ctx, req, req.Limit, req.Offset, "user_id, id")
	if err != nil {
		return nil, 0, errors.Wrap(err, "list grants")
	}
	vos, err := s.toGrantVos(ctx, grants)
	return vos, total, err
}

// Grant 授予菜单；已有相同授权时直接返回已有记录
func (s *UserMenuService) Grant(ctx context.Context, req *params.GrantRequest) (*vo.Grant, error) {
	if _, err := s.repos.User.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find user")
	}
	if _, err := s.repos.Menu.FindByID(ctx, req.MenuID); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, errors.Wrap(err, "find menu")
	}

	existing, err := s.repos.Grant.QueryBuilder().
		Eq("user_id", req.UserID).
		Eq("menu_id", req.MenuID).
		OrderBy("id").
		First(ctx)
	switch {
	case err == nil:
		vos, err := s.toGrantVos(ctx, []models.UserMenuGrant{*existing})
		if err != nil {
			return nil, err
		}
		return vos[0], nil
	case !errors.Is(err, repository.ErrRecordNotFound):
		return nil, errors.Wrap(err, "find grant")
	}

	grant := &models.UserMenuGrant{UserID: req.UserID, MenuID: req.MenuID}
	if err := s.repos.Grant.Create(ctx, grant); err != nil {
		return nil, errors.Wrap(err, "create grant")
	}
	s.cache.Invalidate(ctx, req.UserID)
	logger.Info(ctx, "Menu granted", zap.Uint64("user_id", req.UserID), zap.Uint64("menu_id", req.MenuID))

	vos, err := s.toGrantVos(ctx, []models.UserMenuGrant{*grant})
	if err != nil {
		return nil, err
	}
	return vos[0], nil
}

// Revoke 按授权ID撤销
func (s *UserMenuService) Revoke(ctx context.Context, id uint64) error {
	grant, err := s.repos.Grant.FindByID(ctx, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return ErrGrantNotFound
	}
	if err != nil {
		return errors.Wrap(err, "find grant")
	}
	if err := s.repos.Grant.DeleteByID(ctx, id); err != nil {
		return errors.Wrap(err, "delete grant")
	}
	s.cache.Invalidate(ctx, grant.UserID)
	logger.Info(ctx, "Menu revoked", zap.Uint64("user_id", grant.UserID), zap.Uint64("menu_id", grant.MenuID))
	return nil
}

// SweepDangling 删除指向不存在画面或菜单的关联与授权，返回删除条数
func (s *UserMenuService) SweepDangling(ctx context.Context, dryRun bool) (int, error) {
	screens, err := s.repos.Screen.QueryBuilder().Find(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list screens")
	}
	menus, err := s.repos.Menu.QueryBuilder().Find(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list menus")
	}
	screenIDs := lo.SliceToMap(screens, func(sc models.Screen) (uint64, struct{}) { return sc.ID, struct{}{} })
	menuIDs := lo.SliceToMap(menus, func(m models.Menu) (uint64, struct{}) { return m.ID, struct{}{} })

	links, err := s.repos.Link.QueryBuilder().Find(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list links")
	}
	grants, err := s.repos.Grant.QueryBuilder().Find(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list grants")
	}

	danglingLinks := lo.FilterMap(links, func(l models.MenuScreenLink, _ int) (uint64, bool) {
		_, okScreen := screenIDs[l.ScreenID]
		_, okMenu := menuIDs[l.MenuID]
		return l.ID, !okScreen || !okMenu
	})
	danglingGrants := lo.FilterMap(grants, func(g models.UserMenuGrant, _ int) (uint64, bool) {
		_, ok := menuIDs[g.MenuID]
		return g.ID, !ok
	})
	total := len(danglingLinks) + len(danglingGrants)
	if dryRun || total == 0 {
		return total, nil
	}

	_, err = s.repos.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if len(danglingLinks) > 0 {
			if err := s.repos.Link.QueryBuilder().In("id", danglingLinks).Delete(txCtx); err != nil {
				return nil, err
			}
		}
		if len(danglingGrants) > 0 {
			if err := s.repos.Grant.QueryBuilder().In("id", danglingGrants).Delete(txCtx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "sweep dangling")
	}
	s.cache.InvalidateAll(ctx)
	return total, nil
}

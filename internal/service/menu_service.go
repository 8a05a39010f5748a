package service

import (
	"context"

	"github.com/ayxworxfr/newcomer_admin/internal/dao"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/models"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/params"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/vo"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/ayxworxfr/newcomer_admin/pkg/repository"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// MenuService 菜单目录及菜单与画面的关联
type MenuService struct {
	repos *dao.Repos
	cache NavCache
}

func NewMenuService(repos *dao.Repos, cache NavCache) *MenuService {
	return &MenuService{repos: repos, cache: cache}
}

func toMenuVo(m *models.Menu) *vo.Menu {
	v := &vo.Menu{}
	_ = copier.Copy(v, m)
	return v
}

func (s *MenuService) List(ctx context.Context, req *params.MenuListRequest) ([]*vo.Menu, int64, error) {
	menus, total, err := s.repos.Menu.FindPage(ctx, req, req.Limit, req.Offset, "menu_order, id")
	if err != nil {
		return nil, 0, errors.Wrap(err, "list menus")
	}
	return lo.Map(menus, func(m models.Menu, _ int) *vo.Menu { return toMenuVo(&m) }), total, nil
}

func (s *MenuService) find(ctx context.Context, id uint64) (*models.Menu, error) {
	menu, err := s.repos.Menu.FindByID(ctx, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, ErrMenuNotFound
	}
	return menu, errors.Wrap(err, "find menu")
}

func (s *MenuService) Get(ctx context.Context, id uint64) (*vo.Menu, error) {
	menu, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMenuVo(menu), nil
}

func (s *MenuService) Create(ctx context.Context, req *params.MenuRequest) (*vo.Menu, error) {
	menu := &models.Menu{}
	_ = copier.Copy(menu, req)
	if err := s.repos.Menu.Create(ctx, menu); err != nil {
		return nil, errors.Wrap(err, "create menu")
	}
	s.cache.InvalidateAll(ctx)
	logger.Info(ctx, "Menu created", zap.Uint64("menu_id", menu.ID), zap.String("name", menu.MenuName))
	return toMenuVo(menu), nil
}

func (s *MenuService) Update(ctx context.Context, req *params.UpdateMenuRequest) (*vo.Menu, error) {
	menu, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	_ = copier.Copy(menu, &req.MenuRequest)
	if err := s.repos.Menu.Update(ctx, menu); err != nil {
		return nil, errors.Wrap(err, "update menu")
	}
	s.cache.InvalidateAll(ctx)
	logger.Info(ctx, "Menu updated", zap.Uint64("menu_id", menu.ID))
	return toMenuVo(menu), nil
}

// Delete 删除菜单及其画面关联与用户授权
func (s *MenuService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	_, err := s.repos.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.repos.Link.QueryBuilder().Eq("menu_id", id).Delete(txCtx); err != nil {
			return nil, err
		}
		if err := s.repos.Grant.QueryBuilder().Eq("menu_id", id).Delete(txCtx); err != nil {
			return nil, err
		}
		return nil, s.repos.Menu.DeleteByID(txCtx, id)
	})
	if err != nil {
		return errors.Wrap(err, "delete menu")
	}
	s.cache.InvalidateAll(ctx)
	logger.Info(ctx, "Menu deleted", zap.Uint64("menu_id", id))
	return nil
}

// ListScreens 菜单下的画面，按关联顺序、画面ID排列，悬空关联被忽略
func (s *MenuService) ListScreens(ctx context.Context, menuID uint64) ([]*vo.MenuScreen, error) {
	if _, err := s.find(ctx, menuID); err != nil {
		return nil, err
	}
	screens, err := linkedScreens(ctx, s.repos, []uint64{menuID}, false)
	if err != nil {
		return nil, err
	}
	return screens[menuID], nil
}

// LinkScreen 把画面挂到菜单下，同一对 (menu, screen) 只能关联一次
func (s *MenuService) LinkScreen(ctx context.Context, req *params.LinkScreenRequest) (*vo.MenuScreenLink, error) {
	if _, err := s.find(ctx, req.MenuID); err != nil {
		return nil, err
	}
	if _, err := s.repos.Screen.FindByID(ctx, req.ScreenID); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrScreenNotFound
		}
		return nil, errors.Wrap(err, "find screen")
	}

	exists, err := s.repos.Link.QueryBuilder().
		Eq("menu_id", req.MenuID).
		Eq("screen_id", req.ScreenID).
		Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "check link")
	}
	if exists > 0 {
		return nil, ErrLinkExists
	}

	link := &models.MenuScreenLink{MenuID: req.MenuID, ScreenID: req.ScreenID, ScreenOrder: req.ScreenOrder}
	if err := s.repos.Link.Create(ctx, link); err != nil {
		return nil, errors.Wrap(err, "create link")
	}
	s.cache.InvalidateAll(ctx)
	logger.Info(ctx, "Screen linked", zap.Uint64("menu_id", link.MenuID), zap.Uint64("screen_id", link.ScreenID))

	v := &vo.MenuScreenLink{}
	_ = copier.Copy(v, link)
	return v, nil
}

// UnlinkScreen 解除菜单与画面的关联
func (s *MenuService) UnlinkScreen(ctx context.Context, menuID, screenID uint64) error {
	link, err := s.repos.Link.Find(ctx, &models.MenuScreenLink{MenuID: menuID, ScreenID: screenID})
	if errors.Is(err, repository.ErrRecordNotFound) {
		return ErrLinkNotFound
	}
	if err != nil {
		return errors.Wrap(err, "find link")
	}
	if err := s.repos.Link.DeleteByID(ctx, link.ID); err != nil {
		return errors.Wrap(err, "delete link")
	}
	s.cache.InvalidateAll(ctx)
	logger.Info(ctx, "Screen unlinked", zap.Uint64("menu_id", menuID), zap.Uint64("screen_id", screenID))
	return nil
}

// AvailableScreens 全部画面减去已挂到该菜单的画面
func (s *MenuService) AvailableScreens(ctx context.Context, menuID uint64) ([]*vo.Screen, error) {
	if _, err := s.find(ctx, menuID); err != nil {
		return nil, err
	}
	links, err := s.repos.Link.FindAll(ctx, &models.MenuScreenLink{MenuID: menuID})
	if err != nil {
		return nil, errors.Wrap(err, "list links")
	}
	linked := lo.SliceToMap(links, func(l models.MenuScreenLink) (uint64, struct{}) { return l.ScreenID, struct{}{} })

	all, err := s.repos.Screen.QueryBuilder().OrderBy("screen_order, id").Find(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list screens")
	}
	available := lo.Filter(all, func(sc models.Screen, _ int) bool {
		_, ok := linked[sc.ID]
		return !ok
	})
	return lo.Map(available, func(sc models.Screen, _ int) *vo.Screen { return toScreenVo(&sc) }), nil
}

// linkedScreens 批量读取多个菜单的画面；activeOnly 时排除停用画面
func linkedScreens(ctx context.Context, repos *dao.Repos, menuIDs []uint64, activeOnly bool) (map[uint64][]*vo.MenuScreen, error) {
	result := make(map[uint64][]*vo.MenuScreen, len(menuIDs))
	for _, id := range menuIDs {
		result[id] = []*vo.MenuScreen{}
	}
	if len(menuIDs) == 0 {
		return result, nil
	}

	links, err := repos.Link.QueryBuilder().
		In("menu_id", menuIDs).
		OrderBy("screen_order, screen_id").
		Find(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list links")
	}

	screenIDs := lo.Uniq(lo.Map(links, func(l models.MenuScreenLink, _ int) uint64 { return l.ScreenID }))
	if len(screenIDs) == 0 {
		return result, nil
	}
	qb := repos.Screen.QueryBuilder().In("id", screenIDs)
	if activeOnly {
		qb = qb.Eq("is_active", true)
	}
	screens, err := qb.Find(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list screens")
	}
	byID := lo.KeyBy(screens, func(sc models.Screen) uint64 { return sc.ID })

	for _, l := range links {
		sc, ok := byID[l.ScreenID]
		if !ok {
			continue
		}
		result[l.MenuID] = append(result[l.MenuID], &vo.MenuScreen{Screen: *toScreenVo(&sc), LinkOrder: l.ScreenOrder})
	}
	return result, nil
}

package service

import (
	"context"
	"strings"

	"github.com/ayxworxfr/newcomer_admin/internal/dao"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/models"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/params"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/vo"
	"github.com/ayxworxfr/newcomer_admin/pkg/component"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/ayxworxfr/newcomer_admin/pkg/repository"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ScreenService 画面目录
type ScreenService struct {
	repos *dao.Repos
	cache NavCache
}

func NewScreenService(repos *dao.Repos, cache NavCache) *ScreenService {
	return &ScreenService{repos: repos, cache: cache}
}

// NormalizePath 保证单个前导斜杠并去掉末尾斜杠
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = "/" + strings.TrimLeft(path, "/")
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

func toScreenVo(m *models.Screen) *vo.Screen {
	v := &vo.Screen{}
	_ = copier.Copy(v, m)
	return v
}

func (s *ScreenService) List(ctx context.Context, req *params.ScreenListRequest) ([]*vo.Screen, int64, error) {
	screens, total, err := s.repos.Screen.FindPage(ctx, req, req.Limit, req.Offset, "screen_order, id")
	if err != nil {
		return nil, 0, errors.Wrap(err, "list screens")
	}
	return lo.Map(screens, func(m models.Screen, _ int) *vo.Screen { return toScreenVo(&m) }), total, nil
}

func (s *ScreenService) find(ctx context.Context, id uint64) (*models.Screen, error) {
	screen, err := s.repos.Screen.FindByID(ctx, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, ErrScreenNotFound
	}
	return screen, errors.Wrap(err, "find screen")
}

// Get 按ID读取画面
func (s *ScreenService) Get(ctx context.Context, id uint64) (*vo.Screen, error) {
	screen, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toScreenVo(screen), nil
}

// GetByPath 按路由路径读取画面，同一路径有多条时取ID最小的
func (s *ScreenService) GetByPath(ctx context.Context, path string) (*vo.Screen, error) {
	screen, err := s.repos.Screen.QueryBuilder().
		Eq("screen_path", NormalizePath(path)).
		OrderBy("id").
		First(ctx)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, ErrScreenNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find screen by path")
	}
	return toScreenVo(screen), nil
}

func validateScreen(req *params.ScreenRequest) error {
	if !strings.HasPrefix(strings.TrimSpace(req.ScreenPath), "/") {
		return ErrInvalidScreenPath
	}
	if !component.Valid(req.ComponentName) {
		return errors.Wrap(ErrUnknownComponent, req.ComponentName)
	}
	return nil
}

func (s *ScreenService) Create(ctx context.Context, req *params.ScreenRequest) (*vo.Screen, error) {
	if err := validateScreen(req); err != nil {
		return nil, err
	}
	screen := &models.Screen{}
	_ = copier.Copy(screen, req)
	screen.ScreenPath = NormalizePath(screen.ScreenPath)

	if err := s.repos.Screen.Create(ctx, screen); err != nil {
		return nil, errors.Wrap(err, "create screen")
	}
	s.cache.InvalidateAll(ctx)
	logger.Info(ctx, "Screen created", zap.Uint64("screen_id", screen.ID), zap.String("path", screen.ScreenPath))
	return toScreenVo(screen), nil
}

func (s *ScreenService) Update(ctx context.Context, req *params.UpdateScreenRequest) (*vo.Screen, error) {
	if err := validateScreen(&req.ScreenRequest); err != nil {
		return nil, err
	}
	screen, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	_ = copier.Copy(screen, &req.ScreenRequest)
	screen.ScreenPath = NormalizePath(screen.ScreenPath)

	if err := s.repos.Screen.Update(ctx, screen); err != nil {
		return nil, errors.Wrap(err, "update screen")
	}
	s.cache.InvalidateAll(ctx)
	logger.Info(ctx, "Screen updated", zap.Uint64("screen_id", screen.ID))
	return toScreenVo(screen), nil
}

// Delete 删除画面及其全部菜单关联
func (s *ScreenService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	_, err := s.repos.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := s.repos.Link.QueryBuilder().Eq("screen_id", id).Delete(txCtx); err != nil {
			return nil, err
		}
		return nil, s.repos.Screen.DeleteByID(txCtx, id)
	})
	if err != nil {
		return errors.Wrap(err, "delete screen")
	}
	s.cache.InvalidateAll(ctx)
	logger.Info(ctx, "Screen deleted", zap.Uint64("screen_id", id))
	return nil
}

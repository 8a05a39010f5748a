package service

import (
	"context"
	"sync"
	"time"

	"github.com/ayxworxfr/newcomer_admin/internal/dao"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/models"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/vo"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// CodeService 字典分组的只读缓存，由定时任务 code_refresh 刷新
type CodeService struct {
	repos *dao.Repos

	mu       sync.RWMutex
	groups   map[string][]vo.Code
	loadedAt time.Time
}

func NewCodeService(repos *dao.Repos) *CodeService {
	return &CodeService{repos: repos}
}

// Reload 从数据库重新加载启用的字典项
func (s *CodeService) Reload(ctx context.Context) error {
	codes, err := s.repos.Code.QueryBuilder().
		Eq("is_active", true).
		OrderBy("group_code, sort_order, id").
		Find(ctx)
	if err != nil {
		return errors.Wrap(err, "load codes")
	}

	groups := lo.GroupBy(codes, func(c models.Code) string { return c.GroupCode })
	loaded := make(map[string][]vo.Code, len(groups))
	for group, items := range groups {
		loaded[group] = lo.Map(items, func(c models.Code, _ int) vo.Code {
			return vo.Code{Value: c.CodeValue, Label: c.CodeLabel}
		})
	}

	s.mu.Lock()
	s.groups = loaded
	s.loadedAt = time.Now()
	s.mu.Unlock()

	logger.Debug(ctx, "Code registry reloaded", zap.Int("groups", len(loaded)), zap.Int("codes", len(codes)))
	return nil
}

func (s *CodeService) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.groups != nil
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Reload(ctx)
}

// Groups 全部分组
func (s *CodeService) Groups(ctx context.Context) (map[string][]vo.Code, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.MapValues(s.groups, func(items []vo.Code, _ string) []vo.Code {
		return append([]vo.Code(nil), items...)
	}), nil
}

// ByGroup 分组下的字典项，未知分组返回空列表
func (s *CodeService) ByGroup(ctx context.Context, group string) ([]vo.Code, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]vo.Code{}, s.groups[group]...), nil
}

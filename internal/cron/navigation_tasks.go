package cron

import (
	"context"

	"github.com/ayxworxfr/newcomer_admin/internal/service"
	"github.com/ayxworxfr/newcomer_admin/pkg/cron"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"go.uber.org/zap"
)

type sweepParams struct {
	DryRun bool `mapstructure:"dry_run"`
}

// linkSweep 清理指向已删除画面或菜单的关联与授权
func linkSweep(ctx context.Context, params cron.Params) error {
	var p sweepParams
	if err := params.Decode(&p); err != nil {
		return err
	}
	n, err := service.UserMenuServiceInstance.SweepDangling(ctx, p.DryRun)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info(ctx, "Dangling navigation rows found", zap.Int("count", n), zap.Bool("dry_run", p.DryRun))
	}
	return nil
}

// codeRefresh 重新加载字典缓存
func codeRefresh(ctx context.Context, _ cron.Params) error {
	return service.CodeServiceInstance.Reload(ctx)
}

package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/ayxworxfr/newcomer_admin/internal/config"
	"github.com/ayxworxfr/newcomer_admin/pkg/cron"
	"github.com/ayxworxfr/newcomer_admin/pkg/httpclient"
	"github.com/ayxworxfr/newcomer_admin/pkg/logger"
	"go.uber.org/zap"
)

const (
	Timeout = 5 * time.Second        // 请求超时时间
	Retries = 2                      // 失败时重试次数
	Backoff = 200 * time.Millisecond // 退避时间
)

// healthParams health_task 的参数
type healthParams struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// healthCheck 请求本服务的 /health，失败返回错误由任务管理器记录
func healthCheck(ctx context.Context, params cron.Params) error {
	p := healthParams{
		BaseURL: fmt.Sprintf("http://localhost:%d", config.GetAppPort()),
		Timeout: Timeout,
	}
	if err := params.Decode(&p); err != nil {
		return err
	}

	client := httpclient.NewClient(p.BaseURL,
		httpclient.WithTimeout(p.Timeout),
		httpclient.WithRetries(Retries),
		httpclient.WithBackoff(Backoff),
	)
	if err := client.GetJSON(ctx, "/health", nil, nil); err != nil {
		return err
	}
	logger.Debug(ctx, "Health check successful", zap.String("base_url", p.BaseURL))
	return nil
}

package cron

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayxworxfr/newcomer_admin/internal/dao"
	"github.com/ayxworxfr/newcomer_admin/internal/domain/models"
	"github.com/ayxworxfr/newcomer_admin/internal/service"
	"github.com/ayxworxfr/newcomer_admin/pkg/cron"
	"github.com/ayxworxfr/newcomer_admin/pkg/jwtauth"
	"github.com/ayxworxfr/newcomer_admin/pkg/repository"
	"github.com/ayxworxfr/newcomer_admin/pkg/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":100000,"message":"Success","data":{"status":"ok"}}`))
	}))
	defer ts.Close()

	require.NoError(t, healthCheck(context.Background(), cron.Params{"base_url": ts.URL, "timeout": "1s"}))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	assert.Error(t, healthCheck(context.Background(), cron.Params{"base_url": down.URL}))
}

func newMemoryRepos(t *testing.T) *dao.Repos {
	t.Helper()
	e, err := dao.InitDB(tests.MemoryDatabase(), "error")
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return dao.NewRepos(repository.NewXormProcessor(e))
}

func TestNavigationTasks(t *testing.T) {
	jwt, err := jwtauth.NewJWT("cron-test", "1h", "1h")
	require.NoError(t, err)
	repos := newMemoryRepos(t)
	service.Setup(repos, service.NewMemoryNavCache(time.Minute), jwt)

	ctx := context.Background()
	require.NoError(t, repos.Link.Create(ctx, &models.MenuScreenLink{MenuID: 1, ScreenID: 2}))
	require.NoError(t, repos.Code.Create(ctx, &models.Code{GroupCode: "g", CodeValue: "v", IsActive: true}))

	manager := cron.NewTaskManager()
	require.NoError(t, manager.LoadTasksFromYAMLBytes([]byte(`
- name: link_sweep
  cron_expr: "0 3 * * *"
  params:
    dry_run: true
- name: code_refresh
  cron_expr: "*/30 * * * *"
`), Registry()))

	require.NoError(t, manager.RunNow("link_sweep"))
	count, err := repos.Link.QueryBuilder().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "dry run keeps the dangling link")

	require.NoError(t, manager.RunNow("code_refresh"))
	codes, err := service.CodeServiceInstance.ByGroup(ctx, "g")
	require.NoError(t, err)
	assert.Len(t, codes, 1)
}

package dao

import (
	"context"
	"errors"
	"testing"

	"github.com/ayxworxfr/newcomer_admin/internal/domain/models"
	"github.com/ayxworxfr/newcomer_admin/pkg/repository"
	"github.com/ayxworxfr/newcomer_admin/pkg/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xorm.io/xorm"
)

func setupTestDB(t *testing.T) (*xorm.Engine, *Repos) {
	e, err := InitDB(tests.Database(t), "error")
	require.NoError(t, err)
	require.NoError(t, SyncDB(e, true))
	t.Cleanup(func() { _ = e.Close() })
	return e, NewRepos(repository.NewXormProcessor(e))
}

func TestCatalogRepos_LinkUniqueAndOrder(t *testing.T) {
	_, repos := setupTestDB(t)
	ctx := context.Background()

	menu := &models.Menu{MenuName: "새가족관리", MenuOrder: 1, IsActive: true}
	require.NoError(t, repos.Menu.Create(ctx, menu))
	s1 := &models.Screen{ScreenName: "새가족 목록", ScreenPath: "/new-comers", IsActive: true}
	s2 := &models.Screen{ScreenName: "수료자 목록", ScreenPath: "/graduates", IsActive: true}
	require.NoError(t, repos.Screen.Create(ctx, s1))
	require.NoError(t, repos.Screen.Create(ctx, s2))

	require.NoError(t, repos.Link.Create(ctx, &models.MenuScreenLink{MenuID: menu.ID, ScreenID: s2.ID, ScreenOrder: 2}))
	require.NoError(t, repos.Link.Create(ctx, &models.MenuScreenLink{MenuID: menu.ID, ScreenID: s1.ID, ScreenOrder: 1}))
	assert.Error(t, repos.Link.Create(ctx, &models.MenuScreenLink{MenuID: menu.ID, ScreenID: s1.ID}), "unique(menu_id, screen_id)")

	links, err := repos.Link.QueryBuilder().Eq("menu_id", menu.ID).OrderBy("screen_order, screen_id").Find(ctx)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, s1.ID, links[0].ScreenID)
}

func TestCatalogRepos_TransactionRollback(t *testing.T) {
	_, repos := setupTestDB(t)
	ctx := context.Background()

	_, err := repos.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := repos.Menu.Create(txCtx, &models.Menu{MenuName: "tx"}); err != nil {
			return nil, err
		}
		return nil, errors.New("business error")
	})
	require.Error(t, err)

	count, err := repos.Menu.QueryBuilder().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestXormLogger_RecordsSpanEvent(t *testing.T) {
	_, repos := setupTestDB(t)
	recorder := tests.NewSpanRecorder(t)

	ctx, end := recorder.Start(context.Background(), "query")
	_, err := repos.Code.QueryBuilder().Eq("group_code", "department").Find(ctx)
	end()
	require.NoError(t, err)
	assert.Contains(t, recorder.EventNames(), "db_execute_info")
}

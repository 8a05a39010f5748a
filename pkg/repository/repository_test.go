package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
	"xorm.io/xorm"
)

type testLink struct {
	ID          uint64    `xorm:"pk autoincr bigint unsigned 'id'"`
	MenuID      uint64    `xorm:"bigint unsigned notnull 'menu_id'"`
	ScreenID    uint64    `xorm:"bigint unsigned notnull 'screen_id'"`
	ScreenOrder int       `xorm:"int 'screen_order'"`
	Note        string    `xorm:"varchar(50) 'note'"`
	CreateTime  time.Time `xorm:"created"`
}

type testLinkQuery struct {
	Offset int    `query:"offset"`
	Note   string `xorm:"note op=like"`
	MenuID uint64 `xorm:"menu_id"`
}

func newLinkRepo(t *testing.T) Repository[testLink] {
	t.Helper()
	engine, err := xorm.NewEngine("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })
	require.NoError(t, engine.Sync2(new(testLink)))
	return NewRepository[testLink](NewXormProcessor(engine))
}

func TestParseXormTag(t *testing.T) {
	col := parseXormTag("pk autoincr bigint unsigned 'id'")
	assert.Equal(t, "id", col.Name)
	assert.True(t, col.PK)

	col = parseXormTag("note op=like")
	assert.Equal(t, "note", col.Name)
	assert.Equal(t, OpLike, col.Op)

	col = parseXormTag("created")
	assert.Equal(t, "", col.Name)
	assert.False(t, col.PK)

	col = parseXormTag("varchar(50) notnull")
	assert.Equal(t, "", col.Name)
}

func TestCreateAssignsIDs(t *testing.T) {
	ctx := context.Background()
	repo := newLinkRepo(t)

	a := &testLink{MenuID: 1, ScreenID: 10}
	b := &testLink{MenuID: 1, ScreenID: 11}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	assert.Equal(t, uint64(1), a.ID)
	assert.Equal(t, uint64(2), b.ID)
	assert.False(t, a.CreateTime.IsZero())

	found, err := repo.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), found.ScreenID)

	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestQueryBuilderFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	repo := newLinkRepo(t)
	require.NoError(t, repo.BatchCreate(ctx, []testLink{
		{MenuID: 1, ScreenID: 30, ScreenOrder: 2},
		{MenuID: 1, ScreenID: 20, ScreenOrder: 1},
		{MenuID: 1, ScreenID: 10, ScreenOrder: 2},
		{MenuID: 2, ScreenID: 40, ScreenOrder: 1},
	}))

	links, err := repo.QueryBuilder().
		Eq("menu_id", uint64(1)).
		OrderBy("screen_order asc, screen_id asc").
		Find(ctx)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, []uint64{20, 10, 30}, []uint64{links[0].ScreenID, links[1].ScreenID, links[2].ScreenID})

	in, err := repo.QueryBuilder().In("screen_id", []uint64{10, 40}).Find(ctx)
	require.NoError(t, err)
	assert.Len(t, in, 2)

	none, err := repo.QueryBuilder().In("screen_id", []uint64{}).Find(ctx)
	require.NoError(t, err)
	assert.Empty(t, none)

	count, err := repo.QueryBuilder().NotIn("screen_id", []uint64{10}).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestDeleteAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newLinkRepo(t)
	link := &testLink{MenuID: 3, ScreenID: 5, ScreenOrder: 4, Note: "x"}
	require.NoError(t, repo.Create(ctx, link))
	created := link.CreateTime

	link.ScreenOrder = 0
	link.Note = ""
	require.NoError(t, repo.Update(ctx, link))
	got, err := repo.FindByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ScreenOrder)
	assert.Equal(t, "", got.Note)
	assert.WithinDuration(t, created, got.CreateTime, time.Second)

	require.NoError(t, repo.QueryBuilder().Eq("menu_id", uint64(3)).Eq("screen_id", uint64(5)).Delete(ctx))
	_, err = repo.FindByID(ctx, link.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	assert.Error(t, repo.QueryBuilder().Delete(ctx))
}

func TestFindPageUsesTaggedFieldsOnly(t *testing.T) {
	ctx := context.Background()
	repo := newLinkRepo(t)
	require.NoError(t, repo.BatchCreate(ctx, []testLink{
		{MenuID: 1, ScreenID: 1, Note: "alpha"},
		{MenuID: 1, ScreenID: 2, Note: "beta"},
		{MenuID: 2, ScreenID: 3, Note: "alphabet"},
	}))

	rows, total, err := repo.FindPage(ctx, &testLinkQuery{Offset: 5, Note: "alpha"}, 10, 0, "id asc")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	rows, total, err = repo.FindPage(ctx, &testLinkQuery{MenuID: 1}, 1, 1, "id asc")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 1)
	assert.Equal(t, uint64(2), rows[0].ScreenID)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := newLinkRepo(t)
	require.NoError(t, repo.Create(ctx, &testLink{MenuID: 1, ScreenID: 1}))

	boom := errors.New("boom")
	_, err := repo.Transaction(ctx, func(txCtx context.Context) (any, error) {
		if err := repo.DeleteByID(txCtx, 1); err != nil {
			return nil, err
		}
		if err := repo.Create(txCtx, &testLink{MenuID: 9, ScreenID: 9}); err != nil {
			return nil, err
		}
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := repo.FindAll(ctx, &testLink{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, uint64(1), all[0].MenuID)
}

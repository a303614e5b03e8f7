package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcs-funding/giftcrawl/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func strPtr(s string) *string { return &s }

func TestSQLiteBrandTargets(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	exists, err := st.BrandTargetExists(ctx, "https://gift.kakao.com/brand/101")
	require.NoError(t, err)
	assert.False(t, exists)

	targets := []model.BrandTarget{
		{BrandURL: "https://gift.kakao.com/brand/101", BrandName: "스타벅스", CategoryName: "교환권", CreatedAt: time.Now().UTC()},
		{BrandURL: "https://gift.kakao.com/brand/202", BrandName: "설화수", CategoryName: "뷰티", CreatedAt: time.Now().UTC().Add(time.Second)},
	}
	for _, target := range targets {
		require.NoError(t, st.SaveBrandTarget(ctx, target))
	}

	exists, err = st.BrandTargetExists(ctx, "https://gift.kakao.com/brand/101")
	require.NoError(t, err)
	assert.True(t, exists)

	listed, err := st.ListBrandTargets(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "스타벅스", listed[0].BrandName)
	assert.Equal(t, "설화수", listed[1].BrandName)
}

func TestSQLiteItems(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	found, err := st.FindItemByProductID(ctx, "9999999")
	require.NoError(t, err)
	assert.Nil(t, found)

	item := model.Item{
		ProductID:    "1234567",
		Name:         "아이스 카페 아메리카노 T",
		Price:        4500,
		ImageURL:     "https://st.kakaocdn.net/thumb/abc.jpg",
		BrandName:    "스타벅스",
		CategoryName: "교환권",
		ModifiedAt:   time.Now().UTC(),
	}
	require.NoError(t, st.SaveItem(ctx, item))

	found, err = st.FindItemByProductID(ctx, "1234567")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, item.Name, found.Name)
	assert.Equal(t, 4500, found.Price)
	assert.Nil(t, found.Option)

	dup, err := st.ItemExistsByBrandCategoryImage(ctx, "스타벅스", "교환권", item.ImageURL)
	require.NoError(t, err)
	assert.True(t, dup)

	dup, err = st.ItemExistsByBrandCategoryImage(ctx, "스타벅스", "뷰티", item.ImageURL)
	require.NoError(t, err)
	assert.False(t, dup)

	err = st.UpdateItem(ctx, "1234567", "아이스 카페 아메리카노 T 2잔", 9000, item.ImageURL, strPtr("ICE, HOT"))
	require.NoError(t, err)

	found, err = st.FindItemByProductID(ctx, "1234567")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 9000, found.Price)
	require.NotNil(t, found.Option)
	assert.Equal(t, "ICE, HOT", *found.Option)

	err = st.UpdateItem(ctx, "0000000", "x", 1, "y", nil)
	assert.Error(t, err)
}

func TestSQLitePurgeItemsBefore(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	now := time.Now().UTC()
	stale := model.Item{
		ProductID: "111", Name: "old", Price: 1000,
		ImageURL: "https://st.kakaocdn.net/a.jpg", BrandName: "b", CategoryName: "c",
		ModifiedAt: now.AddDate(0, 0, -10),
	}
	fresh := model.Item{
		ProductID: "222", Name: "new", Price: 2000,
		ImageURL: "https://st.kakaocdn.net/b.jpg", BrandName: "b", CategoryName: "c",
		ModifiedAt: now,
	}
	require.NoError(t, st.SaveItem(ctx, stale))
	require.NoError(t, st.SaveItem(ctx, fresh))

	purged, err := st.PurgeItemsBefore(ctx, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	gone, err := st.FindItemByProductID(ctx, "111")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := st.FindItemByProductID(ctx, "222")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestSQLiteCrawlRuns(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	run, err := st.CreateCrawlRun(ctx, model.RunKindCrawl)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	require.NoError(t, st.CompleteCrawlRun(ctx, run.ID, model.RunStatusComplete, 42))

	err = st.CompleteCrawlRun(ctx, "no-such-run", model.RunStatusFailed, 0)
	assert.Error(t, err)
}

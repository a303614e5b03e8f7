package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcs-funding/giftcrawl/internal/model"
)

func newMockPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PostgresStore{pool: mock}, mock
}

func TestPostgresBrandTargetExists(t *testing.T) {
	st, mock := newMockPostgres(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("https://gift.kakao.com/brand/101").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := st.BrandTargetExists(context.Background(), "https://gift.kakao.com/brand/101")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveBrandTarget(t *testing.T) {
	st, mock := newMockPostgres(t)

	mock.ExpectExec("INSERT INTO brand_targets").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := st.SaveBrandTarget(context.Background(), model.BrandTarget{
		BrandURL:     "https://gift.kakao.com/brand/101",
		BrandName:    "스타벅스",
		CategoryName: "교환권",
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListBrandTargets(t *testing.T) {
	st, mock := newMockPostgres(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT brand_url, brand_name, category_name, created_at FROM brand_targets").
		WillReturnRows(pgxmock.NewRows([]string{"brand_url", "brand_name", "category_name", "created_at"}).
			AddRow("https://gift.kakao.com/brand/101", "스타벅스", "교환권", now).
			AddRow("https://gift.kakao.com/brand/202", "설화수", "뷰티", now))

	targets, err := st.ListBrandTargets(context.Background())
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "설화수", targets[1].BrandName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindItemByProductID(t *testing.T) {
	st, mock := newMockPostgres(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM items WHERE product_id").
		WithArgs("1234567").
		WillReturnRows(pgxmock.NewRows([]string{
			"product_id", "name", "price", "image_url", "brand_name", "category_name", "option_name", "modified_at",
		}).AddRow("1234567", "아이스 카페 아메리카노 T", 4500,
			"https://st.kakaocdn.net/thumb/abc.jpg", "스타벅스", "교환권", nil, now))

	item, err := st.FindItemByProductID(context.Background(), "1234567")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 4500, item.Price)
	assert.Nil(t, item.Option)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindItemByProductID_NotFound(t *testing.T) {
	st, mock := newMockPostgres(t)

	mock.ExpectQuery("SELECT (.+) FROM items WHERE product_id").
		WithArgs("9999999").
		WillReturnError(pgx.ErrNoRows)

	item, err := st.FindItemByProductID(context.Background(), "9999999")
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateItem_NotFound(t *testing.T) {
	st, mock := newMockPostgres(t)

	mock.ExpectExec("UPDATE items SET").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := st.UpdateItem(context.Background(), "0000000", "x", 1, "y", nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPurgeItemsBefore(t *testing.T) {
	st, mock := newMockPostgres(t)

	mock.ExpectExec("DELETE FROM items WHERE modified_at").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	purged, err := st.PurgeItemsBefore(context.Background(), time.Now().AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Equal(t, 3, purged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCrawlRunLifecycle(t *testing.T) {
	st, mock := newMockPostgres(t)

	mock.ExpectExec("INSERT INTO crawl_runs").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE crawl_runs SET").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	run, err := st.CreateCrawlRun(context.Background(), model.RunKindDiscover)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, model.RunKindDiscover, run.Kind)

	require.NoError(t, st.CompleteCrawlRun(context.Background(), run.ID, model.RunStatusComplete, 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

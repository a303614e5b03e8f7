package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/kcs-funding/giftcrawl/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it in
// unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 5
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS brand_targets (
	brand_url     TEXT PRIMARY KEY,
	brand_name    TEXT NOT NULL,
	category_name TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS items (
	product_id    TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	price         INTEGER NOT NULL,
	image_url     TEXT NOT NULL,
	brand_name    TEXT NOT NULL,
	category_name TEXT NOT NULL,
	option_name   TEXT,
	modified_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS crawl_runs (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	count       INTEGER NOT NULL DEFAULT 0,
	started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_brand_targets_category ON brand_targets(category_name);
CREATE INDEX IF NOT EXISTS idx_items_dup_key ON items(brand_name, category_name, image_url);
CREATE INDEX IF NOT EXISTS idx_items_modified_at ON items(modified_at);
CREATE INDEX IF NOT EXISTS idx_crawl_runs_kind ON crawl_runs(kind);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) BrandTargetExists(ctx context.Context, brandURL string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM brand_targets WHERE brand_url = $1)`, brandURL,
	).Scan(&exists)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: brand target exists %s", brandURL)
	}
	return exists, nil
}

func (s *PostgresStore) SaveBrandTarget(ctx context.Context, target model.BrandTarget) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO brand_targets (brand_url, brand_name, category_name, created_at) VALUES ($1, $2, $3, $4)`,
		target.BrandURL, target.BrandName, target.CategoryName, target.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: save brand target %s", target.BrandURL)
}

func (s *PostgresStore) ListBrandTargets(ctx context.Context) ([]model.BrandTarget, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT brand_url, brand_name, category_name, created_at FROM brand_targets ORDER BY created_at, brand_url`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list brand targets")
	}
	defer rows.Close()

	var targets []model.BrandTarget
	for rows.Next() {
		var t model.BrandTarget
		if err := rows.Scan(&t.BrandURL, &t.BrandName, &t.CategoryName, &t.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan brand target")
		}
		targets = append(targets, t)
	}
	return targets, eris.Wrap(rows.Err(), "postgres: iterate brand targets")
}

func (s *PostgresStore) FindItemByProductID(ctx context.Context, productID string) (*model.Item, error) {
	var item model.Item
	err := s.pool.QueryRow(ctx,
		`SELECT product_id, name, price, image_url, brand_name, category_name, option_name, modified_at
		 FROM items WHERE product_id = $1`, productID,
	).Scan(&item.ProductID, &item.Name, &item.Price, &item.ImageURL,
		&item.BrandName, &item.CategoryName, &item.Option, &item.ModifiedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: find item %s", productID)
	}
	return &item, nil
}

func (s *PostgresStore) ItemExistsByBrandCategoryImage(ctx context.Context, brand, category, imageURL string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM items WHERE brand_name = $1 AND category_name = $2 AND image_url = $3)`,
		brand, category, imageURL,
	).Scan(&exists)
	if err != nil {
		return false, eris.Wrap(err, "postgres: item duplicate check")
	}
	return exists, nil
}

func (s *PostgresStore) SaveItem(ctx context.Context, item model.Item) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO items (product_id, name, price, image_url, brand_name, category_name, option_name, modified_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ProductID, item.Name, item.Price, item.ImageURL,
		item.BrandName, item.CategoryName, item.Option, item.ModifiedAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: save item %s", item.ProductID)
}

func (s *PostgresStore) UpdateItem(ctx context.Context, productID, name string, price int, imageURL string, option *string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE items SET name = $1, price = $2, image_url = $3, option_name = $4, modified_at = $5 WHERE product_id = $6`,
		name, price, imageURL, option, time.Now().UTC(), productID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update item %s", productID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: item not found: %s", productID)
	}
	return nil
}

func (s *PostgresStore) PurgeItemsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM items WHERE modified_at < $1`, cutoff.UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: purge items")
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) CreateCrawlRun(ctx context.Context, kind model.RunKind) (*model.CrawlRun, error) {
	run := &model.CrawlRun{
		ID:        uuid.New().String(),
		Kind:      kind,
		Status:    model.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO crawl_runs (id, kind, status, count, started_at) VALUES ($1, $2, $3, 0, $4)`,
		run.ID, string(run.Kind), string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create crawl run")
	}
	return run, nil
}

func (s *PostgresStore) CompleteCrawlRun(ctx context.Context, runID string, status model.RunStatus, count int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE crawl_runs SET status = $1, count = $2, finished_at = $3 WHERE id = $4`,
		string(status), count, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete crawl run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: crawl run not found: %s", runID)
	}
	return nil
}

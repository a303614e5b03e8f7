package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/kcs-funding/giftcrawl/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS brand_targets (
	brand_url     TEXT PRIMARY KEY,
	brand_name    TEXT NOT NULL,
	category_name TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS items (
	product_id    TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	price         INTEGER NOT NULL,
	image_url     TEXT NOT NULL,
	brand_name    TEXT NOT NULL,
	category_name TEXT NOT NULL,
	option_name   TEXT,
	modified_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS crawl_runs (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	count       INTEGER NOT NULL DEFAULT 0,
	started_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_brand_targets_category ON brand_targets(category_name);
CREATE INDEX IF NOT EXISTS idx_items_dup_key ON items(brand_name, category_name, image_url);
CREATE INDEX IF NOT EXISTS idx_items_modified_at ON items(modified_at);
CREATE INDEX IF NOT EXISTS idx_crawl_runs_kind ON crawl_runs(kind);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) BrandTargetExists(ctx context.Context, brandURL string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM brand_targets WHERE brand_url = ?`, brandURL,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: brand target exists %s", brandURL)
	}
	return true, nil
}

func (s *SQLiteStore) SaveBrandTarget(ctx context.Context, target model.BrandTarget) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO brand_targets (brand_url, brand_name, category_name, created_at) VALUES (?, ?, ?, ?)`,
		target.BrandURL, target.BrandName, target.CategoryName, target.CreatedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: save brand target %s", target.BrandURL)
}

func (s *SQLiteStore) ListBrandTargets(ctx context.Context) ([]model.BrandTarget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT brand_url, brand_name, category_name, created_at FROM brand_targets ORDER BY created_at, brand_url`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list brand targets")
	}
	defer rows.Close()

	var targets []model.BrandTarget
	for rows.Next() {
		var t model.BrandTarget
		if err := rows.Scan(&t.BrandURL, &t.BrandName, &t.CategoryName, &t.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan brand target")
		}
		targets = append(targets, t)
	}
	return targets, eris.Wrap(rows.Err(), "sqlite: iterate brand targets")
}

func (s *SQLiteStore) FindItemByProductID(ctx context.Context, productID string) (*model.Item, error) {
	var (
		item   model.Item
		option sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT product_id, name, price, image_url, brand_name, category_name, option_name, modified_at
		 FROM items WHERE product_id = ?`, productID,
	).Scan(&item.ProductID, &item.Name, &item.Price, &item.ImageURL,
		&item.BrandName, &item.CategoryName, &option, &item.ModifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: find item %s", productID)
	}
	if option.Valid {
		item.Option = &option.String
	}
	return &item, nil
}

func (s *SQLiteStore) ItemExistsByBrandCategoryImage(ctx context.Context, brand, category, imageURL string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM items WHERE brand_name = ? AND category_name = ? AND image_url = ?`,
		brand, category, imageURL,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrap(err, "sqlite: item duplicate check")
	}
	return true, nil
}

func (s *SQLiteStore) SaveItem(ctx context.Context, item model.Item) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (product_id, name, price, image_url, brand_name, category_name, option_name, modified_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ProductID, item.Name, item.Price, item.ImageURL,
		item.BrandName, item.CategoryName, nullable(item.Option), item.ModifiedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: save item %s", item.ProductID)
}

func (s *SQLiteStore) UpdateItem(ctx context.Context, productID, name string, price int, imageURL string, option *string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET name = ?, price = ?, image_url = ?, option_name = ?, modified_at = ? WHERE product_id = ?`,
		name, price, imageURL, nullable(option), time.Now().UTC(), productID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update item %s", productID)
	}
	return checkRowsAffected(res, "item", productID)
}

func (s *SQLiteStore) PurgeItemsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE modified_at < ?`, cutoff.UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: purge items")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: purge rows affected")
	}
	return int(n), nil
}

func (s *SQLiteStore) CreateCrawlRun(ctx context.Context, kind model.RunKind) (*model.CrawlRun, error) {
	run := &model.CrawlRun{
		ID:        uuid.New().String(),
		Kind:      kind,
		Status:    model.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO crawl_runs (id, kind, status, count, started_at) VALUES (?, ?, ?, 0, ?)`,
		run.ID, string(run.Kind), string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create crawl run")
	}
	return run, nil
}

func (s *SQLiteStore) CompleteCrawlRun(ctx context.Context, runID string, status model.RunStatus, count int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE crawl_runs SET status = ?, count = ?, finished_at = ? WHERE id = ?`,
		string(status), count, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete crawl run %s", runID)
	}
	return checkRowsAffected(res, "crawl run", runID)
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrapf(err, "sqlite: rows affected for %s %s", entity, id)
	}
	if n == 0 {
		return eris.Errorf("sqlite: %s not found: %s", entity, id)
	}
	return nil
}

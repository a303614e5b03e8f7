// Package store persists brand targets, items and crawl run history behind a
// driver-agnostic interface with SQLite and Postgres implementations.
package store

import (
	"context"
	"time"

	"github.com/kcs-funding/giftcrawl/internal/model"
)

// Store defines the persistence interface for the crawl pipeline.
type Store interface {
	// Brand targets
	BrandTargetExists(ctx context.Context, brandURL string) (bool, error)
	SaveBrandTarget(ctx context.Context, target model.BrandTarget) error
	ListBrandTargets(ctx context.Context) ([]model.BrandTarget, error)

	// Items
	FindItemByProductID(ctx context.Context, productID string) (*model.Item, error)
	ItemExistsByBrandCategoryImage(ctx context.Context, brand, category, imageURL string) (bool, error)
	SaveItem(ctx context.Context, item model.Item) error
	UpdateItem(ctx context.Context, productID, name string, price int, imageURL string, option *string) error
	PurgeItemsBefore(ctx context.Context, cutoff time.Time) (int, error)

	// Run history
	CreateCrawlRun(ctx context.Context, kind model.RunKind) (*model.CrawlRun, error)
	CompleteCrawlRun(ctx context.Context, runID string, status model.RunStatus, count int) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

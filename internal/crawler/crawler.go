// Package crawler runs the per-brand listing crawl: snapshot extraction,
// field resolution with detail-page enrichment, and reconciliation of
// resolved rows against persisted state.
package crawler

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kcs-funding/giftcrawl/internal/config"
	"github.com/kcs-funding/giftcrawl/internal/extract"
	"github.com/kcs-funding/giftcrawl/internal/metrics"
	"github.com/kcs-funding/giftcrawl/internal/model"
	"github.com/kcs-funding/giftcrawl/internal/render"
)

// ItemStore is the slice of persistence the crawler needs.
type ItemStore interface {
	ListBrandTargets(ctx context.Context) ([]model.BrandTarget, error)
	FindItemByProductID(ctx context.Context, productID string) (*model.Item, error)
	ItemExistsByBrandCategoryImage(ctx context.Context, brand, category, imageURL string) (bool, error)
	SaveItem(ctx context.Context, item model.Item) error
	UpdateItem(ctx context.Context, productID, name string, price int, imageURL string, option *string) error
}

// Crawler owns one rendering session for the duration of a run and processes
// brands strictly sequentially. Brand failures are absorbed at the loop
// boundary; only losing the session itself is fatal.
type Crawler struct {
	cfg         config.CrawlConfig
	browser     config.BrowserConfig
	session     render.Session
	store       ItemStore
	placeholder *extract.PlaceholderMatcher
}

// New creates a Crawler on top of an established rendering session.
func New(cfg *config.Config, session render.Session, st ItemStore) *Crawler {
	return &Crawler{
		cfg:         cfg.Crawl,
		browser:     cfg.Browser,
		session:     session,
		store:       st,
		placeholder: extract.NewPlaceholderMatcher(cfg.Crawl.PlaceholderImages),
	}
}

// CrawlAll crawls every known brand target with the given per-brand item cap
// and returns the number of newly inserted items. Updates and duplicate
// skips are not counted.
func (c *Crawler) CrawlAll(ctx context.Context, perBrandLimit int) (int, error) {
	brands, err := c.store.ListBrandTargets(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "crawler: list brand targets")
	}

	total := 0
	for _, b := range brands {
		n, err := c.CrawlBrand(ctx, b, perBrandLimit)
		if err != nil {
			metrics.UnitFailures.WithLabelValues("brand").Inc()
			zap.L().Warn("crawler: brand failed",
				zap.String("brand", b.BrandName),
				zap.String("url", b.BrandURL),
				zap.Error(err),
			)
			continue
		}
		total += n
	}
	zap.L().Info("crawler: run done", zap.Int("brands", len(brands)), zap.Int("items_inserted", total))
	return total, nil
}

// CrawlBrand crawls a single brand listing page and reconciles its rows.
// Returns the number of newly inserted items.
func (c *Crawler) CrawlBrand(ctx context.Context, brand model.BrandTarget, limit int) (int, error) {
	if err := c.session.Open(ctx, brand.BrandURL); err != nil {
		return 0, err
	}
	metrics.PagesRendered.WithLabelValues("brand").Inc()
	c.session.Settle(ctx, c.browser.SettlePasses, time.Duration(c.browser.SettlePauseMs)*time.Millisecond)

	var snaps []extract.Snapshot
	if err := c.session.Evaluate(ctx, extract.ListingSnapshotJS, &snaps); err != nil {
		return 0, err
	}
	if len(snaps) == 0 {
		zap.L().Info("crawler: no product anchors", zap.String("url", brand.BrandURL))
		return 0, nil
	}
	if limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
	}

	inserted := 0
	for _, snap := range snaps {
		if snap.ProductID == "" {
			continue
		}
		row := c.resolveRow(ctx, snap)
		if row == nil {
			continue
		}
		isNew, err := c.reconcile(ctx, *row, brand)
		if err != nil {
			return inserted, err
		}
		if isNew {
			inserted++
		}
	}

	zap.L().Info("crawler: brand done",
		zap.String("brand", brand.BrandName),
		zap.Int("rows", len(snaps)),
		zap.Int("inserted", inserted),
	)
	return inserted, nil
}

// resolveRow turns a raw snapshot into a candidate row, invoking detail
// enrichment for fields the listing could not supply. nil means the row was
// dropped (no usable image).
func (c *Crawler) resolveRow(ctx context.Context, snap extract.Snapshot) *model.CandidateRow {
	row := &model.CandidateRow{
		ProductID: snap.ProductID,
		Name:      extract.CleanName(snap.AriaLabel),
		Price:     extract.ResolvePrice(snap),
		ImageURL:  extract.ResolveImage(snap),
	}

	if c.placeholder.Unusable(row.ImageURL) {
		metrics.ItemsReconciled.WithLabelValues("dropped_image").Inc()
		zap.L().Debug("crawler: drop row, no usable image", zap.String("pid", row.ProductID))
		return nil
	}

	enriched := c.enrichFromDetail(ctx, row.ProductID, row.Price <= 0)
	if row.Price <= 0 && enriched.price > 0 {
		row.Price = enriched.price
	}
	row.Option = enriched.option

	return row
}

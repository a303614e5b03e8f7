package crawler

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kcs-funding/giftcrawl/internal/metrics"
	"github.com/kcs-funding/giftcrawl/internal/model"
)

// reconcile maps a resolved row onto existing persisted state. ProductID is
// the primary identity: a match updates name/price/image/option in place.
// Without one, a (brand, category, image) match means the same physical item
// is reachable under a different identifier, so the row is skipped entirely.
// Only a genuinely new row inserts; reconcile returns true for that case.
func (c *Crawler) reconcile(ctx context.Context, row model.CandidateRow, brand model.BrandTarget) (bool, error) {
	existing, err := c.store.FindItemByProductID(ctx, row.ProductID)
	if err != nil {
		return false, eris.Wrapf(err, "crawler: find item %s", row.ProductID)
	}
	if existing != nil {
		if err := c.store.UpdateItem(ctx, row.ProductID, row.Name, row.Price, row.ImageURL, row.Option); err != nil {
			return false, eris.Wrapf(err, "crawler: update item %s", row.ProductID)
		}
		metrics.ItemsReconciled.WithLabelValues("updated").Inc()
		return false, nil
	}

	dup, err := c.store.ItemExistsByBrandCategoryImage(ctx, brand.BrandName, brand.CategoryName, row.ImageURL)
	if err != nil {
		return false, eris.Wrapf(err, "crawler: duplicate check %s", row.ProductID)
	}
	if dup {
		metrics.ItemsReconciled.WithLabelValues("skipped_duplicate").Inc()
		zap.L().Debug("crawler: skip duplicate by brand/category/image",
			zap.String("pid", row.ProductID),
			zap.String("brand", brand.BrandName),
			zap.String("image", row.ImageURL),
		)
		return false, nil
	}

	item := model.Item{
		ProductID:    row.ProductID,
		Name:         row.Name,
		Price:        row.Price,
		ImageURL:     row.ImageURL,
		BrandName:    brand.BrandName,
		CategoryName: brand.CategoryName,
		Option:       row.Option,
		ModifiedAt:   time.Now().UTC(),
	}
	if err := c.store.SaveItem(ctx, item); err != nil {
		return false, eris.Wrapf(err, "crawler: save item %s", row.ProductID)
	}
	metrics.ItemsReconciled.WithLabelValues("inserted").Inc()
	return true, nil
}

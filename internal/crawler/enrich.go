package crawler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kcs-funding/giftcrawl/internal/extract"
	"github.com/kcs-funding/giftcrawl/internal/metrics"
	"github.com/kcs-funding/giftcrawl/internal/render"
)

// enrichment holds fields recovered from a detail page visit. The zero value
// is the neutral "unresolved" result.
type enrichment struct {
	price  int
	option *string
}

// enrichFromDetail opens the product's detail page in an auxiliary tab and
// recovers the fields the listing page could not supply: price (when
// needPrice) from the price metadata field with a body-text scan fallback,
// and option text from the page's label elements. Failures degrade to the
// neutral result; they never abort the row. The tab is always closed and
// focus restored afterward.
func (c *Crawler) enrichFromDetail(ctx context.Context, productID string, needPrice bool) enrichment {
	detailURL := c.cfg.DetailBaseURL + productID
	metrics.DetailVisits.Inc()

	var result enrichment
	err := c.session.WithAuxTab(ctx, detailURL, func(tab render.Page) error {
		metrics.PagesRendered.WithLabelValues("detail").Inc()
		tab.Settle(ctx, 1, time.Duration(c.browser.SettlePauseMs)*time.Millisecond)

		if needPrice {
			var meta string
			_ = tab.Evaluate(ctx, extract.DetailPriceMetaJS, &meta)
			result.price = extract.ParseMetaPrice(meta)
			if result.price <= 0 {
				var body string
				_ = tab.Evaluate(ctx, extract.BodyTextJS, &body)
				result.price = extract.ParsePrice(body)
			}
		}

		html, err := tab.HTML(ctx)
		if err != nil {
			return err
		}
		result.option = extract.ParseOptions(html)
		return nil
	})
	if err != nil {
		zap.L().Debug("crawler: detail enrichment failed",
			zap.String("pid", productID),
			zap.Error(err),
		)
		return enrichment{}
	}
	return result
}

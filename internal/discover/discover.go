// Package discover finds brand crawl targets on the storefront's category
// pages and resolves each brand's canonical display name from its own
// landing page.
package discover

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kcs-funding/giftcrawl/internal/config"
	"github.com/kcs-funding/giftcrawl/internal/extract"
	"github.com/kcs-funding/giftcrawl/internal/metrics"
	"github.com/kcs-funding/giftcrawl/internal/model"
	"github.com/kcs-funding/giftcrawl/internal/render"
)

// brandPathRe accepts only hrefs that point at a numbered brand page.
var brandPathRe = regexp.MustCompile(`/brand/\d+`)

// TargetStore is the slice of persistence the discoverer needs.
type TargetStore interface {
	BrandTargetExists(ctx context.Context, brandURL string) (bool, error)
	SaveBrandTarget(ctx context.Context, target model.BrandTarget) error
}

// Discoverer walks the configured category pages and persists new brand
// targets. Categories fail independently: an error in one is logged and the
// rest proceed.
type Discoverer struct {
	cfg     config.DiscoveryConfig
	browser config.BrowserConfig
	session render.Session
	store   TargetStore
}

// New creates a Discoverer on top of an established rendering session.
func New(cfg *config.Config, session render.Session, st TargetStore) *Discoverer {
	return &Discoverer{
		cfg:     cfg.Discovery,
		browser: cfg.Browser,
		session: session,
		store:   st,
	}
}

// DiscoverBrands processes every configured category and returns the number
// of brand targets saved. seen is the run-scoped set of canonical brand URLs
// already considered; the caller owns it so repeated invocations compose.
func (d *Discoverer) DiscoverBrands(ctx context.Context, seen map[string]struct{}) (int, error) {
	saved := 0
	for category, url := range d.cfg.Categories {
		n, err := d.discoverCategory(ctx, category, url, seen)
		if err != nil {
			metrics.UnitFailures.WithLabelValues("category").Inc()
			zap.L().Error("discover: category failed",
				zap.String("category", category),
				zap.String("url", url),
				zap.Error(err),
			)
			continue
		}
		saved += n
	}
	zap.L().Info("discover: done", zap.Int("brands_saved", saved))
	return saved, nil
}

func (d *Discoverer) discoverCategory(ctx context.Context, category, url string, seen map[string]struct{}) (int, error) {
	if err := d.session.Open(ctx, url); err != nil {
		return 0, err
	}
	metrics.PagesRendered.WithLabelValues("category").Inc()
	d.session.Settle(ctx, d.browser.SettlePasses, time.Duration(d.browser.SettlePauseMs)*time.Millisecond)

	html, err := d.session.HTML(ctx)
	if err != nil {
		return 0, err
	}

	candidates, err := CollectBrandLinks(html, d.cfg.BaseURL, d.cfg.BrandCap)
	if err != nil {
		return 0, err
	}
	zap.L().Info("discover: category candidates",
		zap.String("category", category),
		zap.Int("picked", len(candidates)),
	)

	saved := 0
	for _, brandURL := range candidates {
		if _, ok := seen[brandURL]; ok {
			zap.L().Debug("discover: skip, seen in this run", zap.String("url", brandURL))
			continue
		}
		seen[brandURL] = struct{}{}

		exists, err := d.store.BrandTargetExists(ctx, brandURL)
		if err != nil {
			return saved, eris.Wrap(err, "discover: exists check")
		}
		if exists {
			zap.L().Debug("discover: skip, already persisted", zap.String("url", brandURL))
			continue
		}

		name, err := d.resolveBrandName(ctx, brandURL)
		if err != nil {
			zap.L().Warn("discover: brand page failed",
				zap.String("url", brandURL),
				zap.Error(err),
			)
			continue
		}
		if name == "" {
			zap.L().Warn("discover: brand name not found", zap.String("url", brandURL))
			continue
		}

		target := model.BrandTarget{
			BrandName:    name,
			CategoryName: category,
			BrandURL:     brandURL,
			CreatedAt:    time.Now().UTC(),
		}
		if err := d.store.SaveBrandTarget(ctx, target); err != nil {
			return saved, eris.Wrap(err, "discover: save target")
		}
		metrics.BrandsSaved.Inc()
		saved++
		zap.L().Info("discover: saved",
			zap.String("category", category),
			zap.String("brand", name),
			zap.String("url", brandURL),
		)
	}
	return saved, nil
}

// resolveBrandName visits the brand landing page and extracts its display
// name, preferring the og:title metadata over heading elements.
func (d *Discoverer) resolveBrandName(ctx context.Context, brandURL string) (string, error) {
	if err := d.session.Open(ctx, brandURL); err != nil {
		return "", err
	}
	metrics.PagesRendered.WithLabelValues("brand").Inc()

	html, err := d.session.HTML(ctx)
	if err != nil {
		return "", err
	}
	return ParseBrandName(html), nil
}

// CollectBrandLinks extracts candidate brand URLs from a rendered category
// page: anchors referencing a numbered brand path, normalized to canonical
// form, deduplicated preserving document order, capped to the first limit.
func CollectBrandLinks(html, baseURL string, limit int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "discover: parse category page")
	}

	var ordered []string
	dedup := make(map[string]struct{})
	doc.Find(`a[href*="/brand/"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		u := NormalizeBrandURL(absolutize(baseURL, href))
		if !brandPathRe.MatchString(u) {
			return
		}
		if _, ok := dedup[u]; ok {
			return
		}
		dedup[u] = struct{}{}
		ordered = append(ordered, u)
	})

	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered, nil
}

// ParseBrandName resolves the brand display name from its landing page HTML:
// og:title metadata first, then the first heading-like element, with any
// label prefix stripped. Empty means the name could not be resolved.
func ParseBrandName(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	if content, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if name := extract.CleanBrandName(content); name != "" {
			return name
		}
	}

	heading := doc.Find(`h1, h2, .brand-title, [data-brand-title]`).First().Text()
	return extract.CleanBrandName(heading)
}

// Package metrics defines the Prometheus instrumentation for the crawl
// pipeline. Collectors are registered on the default registry and exposed by
// the serve command.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesRendered counts navigations by page kind (category, brand,
	// detail).
	PagesRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftcrawl_pages_rendered_total",
		Help: "Pages navigated and rendered, by page kind.",
	}, []string{"kind"})

	// DetailVisits counts auxiliary-tab detail page enrichment visits.
	DetailVisits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giftcrawl_detail_visits_total",
		Help: "Detail page enrichment visits.",
	})

	// ItemsReconciled counts reconciliation outcomes (inserted, updated,
	// skipped_duplicate, dropped_image).
	ItemsReconciled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftcrawl_items_reconciled_total",
		Help: "Reconciliation outcomes for resolved candidate rows.",
	}, []string{"outcome"})

	// BrandsSaved counts brand targets persisted by discovery.
	BrandsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giftcrawl_brands_saved_total",
		Help: "Brand targets saved by discovery.",
	})

	// UnitFailures counts absorbed per-unit failures (category, brand).
	UnitFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftcrawl_unit_failures_total",
		Help: "Per-category and per-brand failures absorbed by the run loop.",
	}, []string{"unit"})
)

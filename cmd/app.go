package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kcs-funding/giftcrawl/internal/crawler"
	"github.com/kcs-funding/giftcrawl/internal/discover"
	"github.com/kcs-funding/giftcrawl/internal/model"
	"github.com/kcs-funding/giftcrawl/internal/render"
	"github.com/kcs-funding/giftcrawl/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// withRun brackets a pipeline job with a crawl_runs record so run history
// survives crashes as a "running" row rather than silence.
func withRun(ctx context.Context, st store.Store, kind model.RunKind, fn func(context.Context) (int, error)) (int, error) {
	run, err := st.CreateCrawlRun(ctx, kind)
	if err != nil {
		return 0, err
	}

	count, jobErr := fn(ctx)

	status := model.RunStatusComplete
	if jobErr != nil {
		status = model.RunStatusFailed
	}
	if err := st.CompleteCrawlRun(ctx, run.ID, status, count); err != nil {
		zap.L().Error("complete crawl run", zap.String("run", run.ID), zap.Error(err))
	}
	return count, jobErr
}

func runDiscover(ctx context.Context, st store.Store) (int, error) {
	return withRun(ctx, st, model.RunKindDiscover, func(ctx context.Context) (int, error) {
		session, err := render.NewSession(cfg.Browser)
		if err != nil {
			return 0, err
		}
		defer session.Close()

		return discover.New(cfg, session, st).DiscoverBrands(ctx, map[string]struct{}{})
	})
}

func runCrawl(ctx context.Context, st store.Store, limit int) (int, error) {
	return withRun(ctx, st, model.RunKindCrawl, func(ctx context.Context) (int, error) {
		session, err := render.NewSession(cfg.Browser)
		if err != nil {
			return 0, err
		}
		defer session.Close()

		return crawler.New(cfg, session, st).CrawlAll(ctx, limit)
	})
}

func runPurge(ctx context.Context, st store.Store, days int) (int, error) {
	return withRun(ctx, st, model.RunKindPurge, func(ctx context.Context) (int, error) {
		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		return st.PurgeItemsBefore(ctx, cutoff)
	})
}

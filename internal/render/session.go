// Package render wraps a single headless-browser process behind a small
// session interface: navigate with a bounded readiness wait, lazy-scroll
// settling, read-only script evaluation, and scoped auxiliary tabs for
// detail-page excursions that must not disturb the primary page.
package render

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kcs-funding/giftcrawl/internal/config"
)

// ErrNavigationTimeout marks a page that did not reach ready state within the
// configured wait. Callers treat it as a per-unit failure, not a fatal one.
var ErrNavigationTimeout = errors.New("render: navigation timeout")

// Page is one live browsing context.
type Page interface {
	// Open navigates and blocks until document.readyState is "complete" or
	// the bounded wait elapses (ErrNavigationTimeout).
	Open(ctx context.Context, url string) error
	// Settle performs scroll-to-bottom passes to trigger lazy-loaded
	// content. Best effort; it never fails.
	Settle(ctx context.Context, passes int, pause time.Duration)
	// Evaluate runs a read-only script against the current document. A
	// malformed or throwing script logs and leaves out untouched; an error
	// is returned only when the browsing context itself is gone.
	Evaluate(ctx context.Context, script string, out any) error
	// HTML returns the current document's outer HTML.
	HTML(ctx context.Context) (string, error)
}

// Session is the primary page plus auxiliary tab management. Exactly one
// browser process backs a session; Close releases it.
type Session interface {
	Page
	// WithAuxTab opens url in a secondary tab, runs fn against it, and
	// always closes the tab and re-confirms the primary page's readiness,
	// on every exit path. At most one auxiliary tab is open at a time.
	WithAuxTab(ctx context.Context, url string, fn func(tab Page) error) error
	Close() error
}

type chromeSession struct {
	primary     *chromePage
	allocCancel context.CancelFunc
	tabCancel   context.CancelFunc
	navTimeout  time.Duration
}

type chromePage struct {
	ctx        context.Context // chromedp tab context
	navTimeout time.Duration
	limiter    *rate.Limiter
}

// NewSession launches the browser process. This is the only fatal failure
// class in the pipeline: without a session no run can proceed.
func NewSession(cfg config.BrowserConfig) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
		chromedp.Flag("lang", cfg.Lang),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, eris.Wrap(err, "render: start browser")
	}

	navTimeout := time.Duration(cfg.NavTimeoutSecs) * time.Second
	perMinute := cfg.NavPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)

	return &chromeSession{
		primary: &chromePage{
			ctx:        tabCtx,
			navTimeout: navTimeout,
			limiter:    limiter,
		},
		allocCancel: allocCancel,
		tabCancel:   tabCancel,
		navTimeout:  navTimeout,
	}, nil
}

func (s *chromeSession) Open(ctx context.Context, url string) error {
	return s.primary.Open(ctx, url)
}

func (s *chromeSession) Settle(ctx context.Context, passes int, pause time.Duration) {
	s.primary.Settle(ctx, passes, pause)
}

func (s *chromeSession) Evaluate(ctx context.Context, script string, out any) error {
	return s.primary.Evaluate(ctx, script, out)
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	return s.primary.HTML(ctx)
}

func (s *chromeSession) WithAuxTab(ctx context.Context, url string, fn func(tab Page) error) error {
	auxCtx, auxCancel := chromedp.NewContext(s.primary.ctx)
	aux := &chromePage{
		ctx:        auxCtx,
		navTimeout: s.navTimeout,
		limiter:    s.primary.limiter,
	}

	defer func() {
		auxCancel()
		// Focus returns to the primary page; re-confirm it is still ready.
		rctx, rcancel := context.WithTimeout(s.primary.ctx, s.navTimeout)
		defer rcancel()
		if err := chromedp.Run(rctx, waitReady()); err != nil {
			zap.L().Debug("render: primary page readiness after aux tab", zap.Error(err))
		}
	}()

	if err := aux.Open(ctx, url); err != nil {
		return err
	}
	return fn(aux)
}

func (s *chromeSession) Close() error {
	s.tabCancel()
	s.allocCancel()
	return nil
}

func (p *chromePage) Open(ctx context.Context, url string) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "render: rate limit wait")
	}

	tctx, cancel := context.WithTimeout(p.ctx, p.navTimeout)
	defer cancel()

	err := chromedp.Run(tctx,
		chromedp.Navigate(url),
		waitReady(),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return eris.Wrapf(ErrNavigationTimeout, "render: open %s", url)
		}
		return eris.Wrapf(err, "render: open %s", url)
	}
	return nil
}

func (p *chromePage) Settle(_ context.Context, passes int, pause time.Duration) {
	for i := 0; i < passes; i++ {
		err := chromedp.Run(p.ctx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(pause),
		)
		if err != nil {
			zap.L().Debug("render: settle pass failed", zap.Int("pass", i), zap.Error(err))
			return
		}
	}
}

func (p *chromePage) Evaluate(_ context.Context, script string, out any) error {
	if err := p.ctx.Err(); err != nil {
		return eris.Wrap(err, "render: evaluate")
	}
	if err := chromedp.Run(p.ctx, chromedp.Evaluate(script, out)); err != nil {
		if p.ctx.Err() != nil {
			return eris.Wrap(err, "render: evaluate")
		}
		zap.L().Warn("render: extraction script failed", zap.Error(err))
	}
	return nil
}

func (p *chromePage) HTML(_ context.Context) (string, error) {
	var html string
	if err := chromedp.Run(p.ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", eris.Wrap(err, "render: outer html")
	}
	return html, nil
}

func waitReady() chromedp.Action {
	return chromedp.Poll(`document.readyState === 'complete'`, nil,
		chromedp.WithPollingInterval(200*time.Millisecond))
}

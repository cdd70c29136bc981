package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ErrRendererDisabled indicates headless rendering has been disabled via
// configuration.
var ErrRendererDisabled = errors.New("renderer disabled")

// ChromedpRenderer fetches fully rendered HTML using headless Chrome. It is
// the first fetch tier and handles client-rendered pages.
type ChromedpRenderer struct {
	allocatorCancel context.CancelFunc
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	logger          *zap.Logger
	timeout         time.Duration
	settle          time.Duration
	userAgent       string
}

// NewChromedpRenderer starts a shared browser process. Each fetch gets its
// own tab context so a wedged page never poisons the next one.
func NewChromedpRenderer(cfg Config, logger *zap.Logger) (*ChromedpRenderer, error) {
	if !cfg.RenderEnabled {
		return nil, ErrRendererDisabled
	}

	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(cfg.UserAgent),
	)
	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		allocatorCancel()
		browserCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}

	return &ChromedpRenderer{
		allocatorCancel: allocatorCancel,
		browserCtx:      browserCtx,
		browserCancel:   browserCancel,
		logger:          logger,
		timeout:         cfg.RenderTimeout,
		settle:          cfg.RenderSettle,
		userAgent:       cfg.UserAgent,
	}, nil
}

// Name identifies the strategy in logs.
func (r *ChromedpRenderer) Name() string { return "headless" }

// Close tears down the browser and allocator contexts.
func (r *ChromedpRenderer) Close() {
	if r == nil {
		return
	}
	r.browserCancel()
	r.allocatorCancel()
}

// Fetch navigates to rawURL in a fresh tab and returns the rendered DOM.
// The tab context is cancelled on every exit path.
func (r *ChromedpRenderer) Fetch(ctx context.Context, rawURL string) (string, error) {
	if r == nil {
		return "", ErrRendererDisabled
	}

	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()

	taskCtx, cancelTask := context.WithTimeout(tabCtx, r.navTimeout())
	defer cancelTask()

	stopForward := forwardCancel(ctx, cancelTask)
	defer stopForward()

	var html string
	tasks := chromedp.Tasks{
		network.Enable(),
		emulation.SetUserAgentOverride(r.userAgent),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(r.settleWait()),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return "", fmt.Errorf("chromedp run: %w", err)
	}
	return html, nil
}

func (r *ChromedpRenderer) navTimeout() time.Duration {
	if r.timeout > 0 {
		return r.timeout
	}
	return 15 * time.Second
}

func (r *ChromedpRenderer) settleWait() time.Duration {
	if r.settle > 0 {
		return r.settle
	}
	return 2 * time.Second
}

// forwardCancel propagates cancellation from the caller's context into the
// chromedp task context.
func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// Package fetch retrieves HTML for arbitrary third-party websites using a
// fixed, ordered set of strategies: a headless-browser render first, then a
// plain HTTP GET. The composite fetcher never returns an error; total
// failure yields empty content.
package fetch

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config controls both fetch tiers.
type Config struct {
	UserAgent     string
	RenderEnabled bool
	RenderTimeout time.Duration
	RenderSettle  time.Duration
	HTTPTimeout   time.Duration
}

// Strategy is one way of turning a URL into HTML.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// WebsiteFetcher tries each strategy in order and returns the first
// non-empty result.
type WebsiteFetcher struct {
	strategies []Strategy
	logger     *zap.Logger
}

// New assembles a fetcher from the given strategies.
func New(logger *zap.Logger, strategies ...Strategy) *WebsiteFetcher {
	return &WebsiteFetcher{
		strategies: strategies,
		logger:     logger,
	}
}

// NewFromConfig wires the standard two-tier stack. When rendering is
// disabled (or the browser is unavailable) only the HTTP tier is used.
func NewFromConfig(cfg Config, logger *zap.Logger) (*WebsiteFetcher, func(), error) {
	httpTier := NewHTTPFetcher(cfg)

	renderer, err := NewChromedpRenderer(cfg, logger)
	switch {
	case err == nil:
		return New(logger, renderer, httpTier), renderer.Close, nil
	case errors.Is(err, ErrRendererDisabled):
		return New(logger, httpTier), func() {}, nil
	default:
		logger.Warn("Headless browser unavailable; falling back to HTTP only", zap.Error(err))
		return New(logger, httpTier), func() {}, nil
	}
}

// Fetch returns the page HTML, or "" when every strategy fails. Failures
// are logged, never propagated.
func (f *WebsiteFetcher) Fetch(ctx context.Context, rawURL string) string {
	url := NormalizeURL(rawURL)
	if url == "" {
		return ""
	}
	for _, s := range f.strategies {
		html, err := s.Fetch(ctx, url)
		if err != nil {
			f.logger.Debug("Fetch tier failed",
				zap.String("tier", s.Name()),
				zap.String("url", url),
				zap.Error(err),
			)
			continue
		}
		if html != "" {
			return html
		}
	}
	return ""
}

// FetchStatic retrieves the page using only the plain HTTP tier. Used for
// opportunistic follow-up fetches where a render is not worth the cost.
func (f *WebsiteFetcher) FetchStatic(ctx context.Context, rawURL string) string {
	url := NormalizeURL(rawURL)
	if url == "" {
		return ""
	}
	for _, s := range f.strategies {
		if s.Name() != "http" {
			continue
		}
		html, err := s.Fetch(ctx, url)
		if err != nil {
			f.logger.Debug("Static fetch failed", zap.String("url", url), zap.Error(err))
			return ""
		}
		return html
	}
	return ""
}

// NormalizeURL ensures the URL carries a scheme; bare hosts get https.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

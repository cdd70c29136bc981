package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
)

// HTTPFetcher is the plain-GET fallback tier, backed by a Colly collector.
// It is fast but does not execute JavaScript.
type HTTPFetcher struct {
	baseCollector *colly.Collector
	timeout       time.Duration
}

// NewHTTPFetcher constructs the HTTP tier.
func NewHTTPFetcher(cfg Config) *HTTPFetcher {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	base := colly.NewCollector(colly.UserAgent(cfg.UserAgent))
	base.AllowURLRevisit = true
	base.IgnoreRobotsTxt = true
	base.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
	})
	base.SetRequestTimeout(timeout)

	return &HTTPFetcher{
		baseCollector: base,
		timeout:       timeout,
	}
}

// Name identifies the strategy in logs.
func (f *HTTPFetcher) Name() string { return "http" }

// Fetch performs a single GET and returns the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	collector := f.baseCollector.Clone()

	var (
		once sync.Once
		html string
		err  error
	)
	collector.OnResponse(func(r *colly.Response) {
		once.Do(func() {
			if r.StatusCode >= 400 {
				err = fmt.Errorf("http status %d", r.StatusCode)
				return
			}
			html = string(r.Body)
		})
	})
	collector.OnError(func(_ *colly.Response, visitErr error) {
		once.Do(func() {
			if visitErr == nil {
				visitErr = errors.New("unknown colly error")
			}
			err = visitErr
		})
	})

	if visitErr := collector.Visit(rawURL); visitErr != nil {
		return "", fmt.Errorf("colly visit: %w", visitErr)
	}
	collector.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("http fetch canceled: %w", ctxErr)
	}
	if err != nil {
		return "", fmt.Errorf("http fetch: %w", err)
	}
	return html, nil
}

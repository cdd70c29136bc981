package scout

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/marchworks/leadscout/internal/contacts"
)

// contactPathHints mark anchor targets worth a follow-up fetch when the
// landing page yielded no emails.
var contactPathHints = []string{"contact", "about", "kontakt", "contacto"}

// Enricher visits each candidate's website and attaches the contact bundle.
// Places are processed sequentially with a fixed pacing delay as a courtesy
// to third-party hosts. A fetch failure yields an empty bundle; the place is
// never dropped.
type Enricher struct {
	fetcher         WebsiteFetcher
	platformDomains []string
	pace            *rate.Limiter
	logger          *zap.Logger
}

// NewEnricher builds an Enricher. delay is the pause between consecutive
// places; zero disables pacing (tests).
func NewEnricher(fetcher WebsiteFetcher, platformDomains []string, delay time.Duration, logger *zap.Logger) *Enricher {
	var limiter *rate.Limiter
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	return &Enricher{
		fetcher:         fetcher,
		platformDomains: platformDomains,
		pace:            limiter,
		logger:          logger,
	}
}

// EnrichAll processes candidates in order, returning the same slice with
// contact bundles attached. One output record per input record, always.
func (e *Enricher) EnrichAll(ctx context.Context, list []Candidate) []Candidate {
	for i := range list {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("Enrichment interrupted", zap.Error(err))
			break
		}
		e.enrich(ctx, &list[i])
		e.logger.Info("Enriched place",
			zap.String("name", list[i].Name),
			zap.Int("index", i+1),
			zap.Int("total", len(list)),
			zap.Int("emails", len(list[i].Contacts.Emails)),
			zap.Bool("socials", list[i].Contacts.HasSocial()),
		)
	}
	return list
}

func (e *Enricher) enrich(ctx context.Context, c *Candidate) {
	if !c.HasWebsite() {
		return
	}

	// A platform link is itself the contact channel; no fetch needed.
	if e.isPlatformURL(c.WebsiteURL) {
		c.Contacts.Merge(contacts.FromURL(c.WebsiteURL))
		return
	}

	if err := e.wait(ctx); err != nil {
		return
	}
	html := e.fetcher.Fetch(ctx, c.WebsiteURL)
	if html == "" {
		return
	}
	bundle := contacts.Extract(html)

	// Landing pages often hide the email behind a contact/about link; one
	// opportunistic follow-up, static tier only.
	if len(bundle.Emails) == 0 {
		if link := contactPageLink(html, c.WebsiteURL); link != "" {
			if followUp := e.fetcher.FetchStatic(ctx, link); followUp != "" {
				bundle.Merge(contacts.Extract(followUp))
			}
		}
	}
	c.Contacts.Merge(bundle)
}

func (e *Enricher) isPlatformURL(raw string) bool {
	lower := strings.ToLower(raw)
	for _, domain := range e.platformDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}

func (e *Enricher) wait(ctx context.Context) error {
	if e.pace == nil {
		return nil
	}
	return e.pace.Wait(ctx)
}

// contactPageLink finds the first anchor that looks like a contact or about
// page and resolves it against the base URL. Malformed HTML degrades to "".
func contactPageLink(html, baseURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return true
		}
		lower := strings.ToLower(href)
		for _, hint := range contactPathHints {
			if strings.Contains(lower, hint) {
				if resolved := resolveHref(base, href); resolved != "" {
					found = resolved
					return false
				}
			}
		}
		return true
	})
	return found
}

func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

package contacts

import (
	"regexp"
	"strings"
)

// Platform identifies a supported social or messaging channel.
type Platform string

// Supported platforms.
const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformWhatsApp  Platform = "whatsapp"
	PlatformTelegram  Platform = "telegram"
	PlatformMessenger Platform = "messenger"
	PlatformLine      Platform = "line"
)

// platformSpec binds a platform to its handle pattern, the canonical URL
// prefix used to rebuild a link from a captured handle, and an ordered list
// of supplemental widget extractors tried only when the primary pattern
// finds nothing.
type platformSpec struct {
	platform  Platform
	primary   *regexp.Regexp
	canonical string
	widgets   []widgetRule
}

// widgetRule captures a handle from chat-widget markup. normalize may reject
// the raw capture by returning false.
type widgetRule struct {
	pattern   *regexp.Regexp
	normalize func(raw string) (string, bool)
}

// minWhatsAppDigits is the shortest digit run accepted as a dialable number.
const minWhatsAppDigits = 9

var numberJunk = regexp.MustCompile(`[\s-]`)

// normalizeNumber strips whitespace, hyphens and a leading '+', then accepts
// the result only if at least minWhatsAppDigits digits remain.
func normalizeNumber(raw string) (string, bool) {
	n := numberJunk.ReplaceAllString(raw, "")
	n = strings.TrimPrefix(n, "+")
	if len(n) < minWhatsAppDigits {
		return "", false
	}
	return n, true
}

func keepVerbatim(raw string) (string, bool) {
	return raw, raw != ""
}

// platformSpecs is evaluated in order; the order matches the channel set the
// extractor reports.
var platformSpecs = []platformSpec{
	{
		platform:  PlatformInstagram,
		primary:   regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?instagram\.com/([a-zA-Z0-9_.]+)/?`),
		canonical: "https://instagram.com/",
	},
	{
		platform:  PlatformFacebook,
		primary:   regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?facebook\.com/([a-zA-Z0-9.]+)/?`),
		canonical: "https://facebook.com/",
	},
	{
		platform:  PlatformTwitter,
		primary:   regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?(?:twitter\.com|x\.com)/([a-zA-Z0-9_]+)/?`),
		canonical: "https://x.com/",
	},
	{
		platform:  PlatformWhatsApp,
		primary:   regexp.MustCompile(`(?i)(?:https?://)?(?:wa\.me|api\.whatsapp\.com|chat\.whatsapp\.com)/([a-zA-Z0-9+]+)/?`),
		canonical: "https://wa.me/",
		widgets: []widgetRule{
			{pattern: regexp.MustCompile(`(?i)wa\.me/(\d+)`), normalize: normalizeNumber},
			{pattern: regexp.MustCompile(`(?i)whatsapp["\s:]+["']?(\+?[\d\s-]{10,})`), normalize: normalizeNumber},
			{pattern: regexp.MustCompile(`(?i)data-wa-number[="\s]+["']?(\+?[\d\s-]{10,})`), normalize: normalizeNumber},
			{pattern: regexp.MustCompile(`(?i)whatsappNumber["\s:]+["']?(\+?[\d\s-]{10,})`), normalize: normalizeNumber},
		},
	},
	{
		platform:  PlatformTelegram,
		primary:   regexp.MustCompile(`(?i)(?:https?://)?(?:t\.me|telegram\.me)/([a-zA-Z0-9_]+)/?`),
		canonical: "https://t.me/",
	},
	{
		platform:  PlatformMessenger,
		primary:   regexp.MustCompile(`(?i)(?:https?://)?(?:m\.me|messenger\.com)/([a-zA-Z0-9.]+)/?`),
		canonical: "https://m.me/",
		widgets: []widgetRule{
			{pattern: regexp.MustCompile(`(?i)m\.me/([a-zA-Z0-9.]+)`), normalize: keepVerbatim},
			{pattern: regexp.MustCompile(`(?i)data-page-id[="\s]+["']?(\d+)`), normalize: keepVerbatim},
			{pattern: regexp.MustCompile(`(?i)fb-messengermessageus[^>]*page_id[="\s]+["']?(\d+)`), normalize: keepVerbatim},
			{pattern: regexp.MustCompile(`(?i)messenger_app_id["\s:]+["']?(\d+)`), normalize: keepVerbatim},
		},
	},
	{
		platform:  PlatformLine,
		primary:   regexp.MustCompile(`(?i)(?:https?://)?line\.me/(?:R/)?ti/p/([a-zA-Z0-9@~_-]+)/?`),
		canonical: "https://line.me/ti/p/",
	},
}

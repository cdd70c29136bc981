// Package contacts extracts contact channels from raw HTML or URLs via
// pattern matching. Extraction is pure: no I/O, and malformed input degrades
// to "no match".
package contacts

import (
	"regexp"
	"strings"
)

// maxEmails caps the number of emails kept per page.
const maxEmails = 3

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// emailDenylist filters template, CMS, and error-tracker addresses that show
// up in page source but are never a real contact channel.
var emailDenylist = []string{
	"example.com",
	"domain.com",
	"email.com",
	"wix",
	"wordpress",
	"sentry",
	"cloudflare",
}

// Bundle holds every contact channel discovered for one place. Each social
// field is a canonical URL; an empty string means the channel was not found.
type Bundle struct {
	Emails    []string `json:"emails,omitempty"`
	Instagram string   `json:"instagram,omitempty"`
	Facebook  string   `json:"facebook,omitempty"`
	Twitter   string   `json:"twitter,omitempty"`
	WhatsApp  string   `json:"whatsapp,omitempty"`
	Telegram  string   `json:"telegram,omitempty"`
	Messenger string   `json:"messenger,omitempty"`
	Line      string   `json:"line,omitempty"`
}

// Empty reports whether the bundle carries no contact information at all.
func (b Bundle) Empty() bool {
	return len(b.Emails) == 0 && !b.HasSocial()
}

// HasSocial reports whether any social or messaging field is populated.
func (b Bundle) HasSocial() bool {
	return b.Instagram != "" || b.Facebook != "" || b.Twitter != "" ||
		b.WhatsApp != "" || b.Telegram != "" || b.Messenger != "" || b.Line != ""
}

// Get returns the URL stored for the given platform.
func (b Bundle) Get(p Platform) string {
	switch p {
	case PlatformInstagram:
		return b.Instagram
	case PlatformFacebook:
		return b.Facebook
	case PlatformTwitter:
		return b.Twitter
	case PlatformWhatsApp:
		return b.WhatsApp
	case PlatformTelegram:
		return b.Telegram
	case PlatformMessenger:
		return b.Messenger
	case PlatformLine:
		return b.Line
	}
	return ""
}

func (b *Bundle) set(p Platform, url string) {
	switch p {
	case PlatformInstagram:
		b.Instagram = url
	case PlatformFacebook:
		b.Facebook = url
	case PlatformTwitter:
		b.Twitter = url
	case PlatformWhatsApp:
		b.WhatsApp = url
	case PlatformTelegram:
		b.Telegram = url
	case PlatformMessenger:
		b.Messenger = url
	case PlatformLine:
		b.Line = url
	}
}

// Merge copies channels from other into b without overwriting anything
// already populated. Emails are unioned preserving b's order first, capped
// at the usual limit.
func (b *Bundle) Merge(other Bundle) {
	seen := make(map[string]struct{}, len(b.Emails))
	for _, e := range b.Emails {
		seen[e] = struct{}{}
	}
	for _, e := range other.Emails {
		if len(b.Emails) >= maxEmails {
			break
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		b.Emails = append(b.Emails, e)
	}
	for _, spec := range platformSpecs {
		if b.Get(spec.platform) == "" {
			if v := other.Get(spec.platform); v != "" {
				b.set(spec.platform, v)
			}
		}
	}
}

// Extract scans raw HTML for emails and social handles. For each platform
// the primary pattern wins; supplemental widget patterns run only when the
// primary found nothing for that platform.
func Extract(html string) Bundle {
	var b Bundle
	b.Emails = extractEmails(html)
	for _, spec := range platformSpecs {
		if m := spec.primary.FindStringSubmatch(html); len(m) > 1 {
			b.set(spec.platform, spec.canonical+m[1])
			continue
		}
		for _, rule := range spec.widgets {
			m := rule.pattern.FindStringSubmatch(html)
			if len(m) < 2 {
				continue
			}
			handle, ok := rule.normalize(m[1])
			if !ok {
				continue
			}
			b.set(spec.platform, spec.canonical+handle)
			break
		}
	}
	return b
}

// FromURL extracts a single platform link from a URL that is itself a social
// or messaging link. At most one field is populated; no network access.
func FromURL(raw string) Bundle {
	var b Bundle
	if raw == "" {
		return b
	}
	for _, spec := range platformSpecs {
		if m := spec.primary.FindStringSubmatch(raw); len(m) > 1 {
			b.set(spec.platform, spec.canonical+m[1])
			return b
		}
	}
	return b
}

func extractEmails(html string) []string {
	matches := emailPattern.FindAllString(html, -1)
	if len(matches) == 0 {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, email := range matches {
		lower := strings.ToLower(email)
		if deniedEmail(lower) {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
		if len(out) == maxEmails {
			break
		}
	}
	return out
}

func deniedEmail(lower string) bool {
	for _, deny := range emailDenylist {
		if strings.Contains(lower, deny) {
			return true
		}
	}
	return false
}

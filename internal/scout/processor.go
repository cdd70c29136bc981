package scout

import (
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"go.uber.org/zap"
)

// Processor applies the quality filter and computes each candidate's initial
// bucket. Processing is deterministic: identical input and filters produce
// identical output.
type Processor struct {
	platformDomains []string
	phoneRegion     string
	logger          *zap.Logger
}

// NewProcessor builds a Processor. platformDomains are substring-matched
// against the website host; phoneRegion is the default region for phone
// normalization (empty disables it).
func NewProcessor(platformDomains []string, phoneRegion string, logger *zap.Logger) *Processor {
	return &Processor{
		platformDomains: platformDomains,
		phoneRegion:     phoneRegion,
		logger:          logger,
	}
}

// Process filters candidates by rating and review count (inclusive bounds),
// normalizes phone numbers best-effort, and assigns the pre-enrichment
// bucket. The input slice is not mutated.
func (p *Processor) Process(in []Candidate, minRating float64, minReviews int) []Candidate {
	out := make([]Candidate, 0, len(in))
	for _, c := range in {
		if c.Rating < minRating || c.ReviewCount < minReviews {
			continue
		}
		c.Phone = p.normalizePhone(c.Phone)
		if c.HasWebsite() && !p.IsPlatformURL(c.WebsiteURL) {
			c.Bucket = BucketWithWebsite
		} else {
			// Pending enrichment; a platform link may still yield socials.
			c.Bucket = BucketNoContact
		}
		out = append(out, c)
	}
	return out
}

// IsPlatformURL reports whether the website link points at a known
// social/booking platform rather than a standalone site.
func (p *Processor) IsPlatformURL(raw string) bool {
	if raw == "" {
		return false
	}
	lower := strings.ToLower(raw)
	host := lower
	if parsed, err := url.Parse(lower); err == nil && parsed.Host != "" {
		host = parsed.Host + parsed.Path
	}
	for _, domain := range p.platformDomains {
		if strings.Contains(host, domain) {
			return true
		}
	}
	return false
}

// normalizePhone formats the provider phone into E.164 when it parses;
// anything else is kept verbatim.
func (p *Processor) normalizePhone(raw string) string {
	if raw == "" || p.phoneRegion == "" {
		return raw
	}
	parsed, err := phonenumbers.Parse(raw, p.phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return raw
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// Reclassifier recomputes the bucket after enrichment.
type Reclassifier struct{}

// Reclassify returns the post-enrichment bucket: a standalone website is
// never downgraded; otherwise any discovered social promotes the place to
// socials-only.
func (Reclassifier) Reclassify(c Candidate) Bucket {
	if c.Bucket == BucketWithWebsite {
		return BucketWithWebsite
	}
	if c.Contacts.HasSocial() {
		return BucketSocialsOnly
	}
	return BucketNoContact
}

// Apply reclassifies every candidate in place.
func (r Reclassifier) Apply(list []Candidate) {
	for i := range list {
		list[i].Bucket = r.Reclassify(list[i])
	}
}

package scout

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob that influences a scouting run. All values
// originate from Viper so the pipeline can be configured via config file,
// env vars, or CLI flags.
type Config struct {
	// Search inputs.
	Query    string
	Region   string
	MapURL   string
	RadiusKM float64

	// Quality filters. Inclusive bounds.
	MinRating  float64
	MinReviews int

	// Sweep shape. CategoryTags is an open, extensible list; TextProbes are
	// the generic free-text recovery pass.
	CategoryTags []string
	TextProbes   []string

	// Bucketing. A website on one of these domains is a platform presence,
	// not a standalone site.
	PlatformDomains []string

	// Enrichment.
	SkipEnrichment bool
	EnrichDelay    time.Duration
	UserAgent      string
	RenderEnabled  bool
	RenderTimeout  time.Duration
	RenderSettle   time.Duration
	HTTPTimeout    time.Duration

	// Provider.
	APIKey    string
	PageDelay time.Duration

	// Output.
	OutputPath  string
	Append      bool
	PhoneRegion string
}

// LoadConfig constructs a Config from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Query:           v.GetString("scout.query"),
		Region:          v.GetString("scout.region"),
		MapURL:          v.GetString("scout.map_url"),
		RadiusKM:        v.GetFloat64("scout.radius_km"),
		MinRating:       v.GetFloat64("scout.min_rating"),
		MinReviews:      v.GetInt("scout.min_reviews"),
		CategoryTags:    dedupeList(v.GetStringSlice("scout.category_tags")),
		TextProbes:      dedupeList(v.GetStringSlice("scout.text_probes")),
		PlatformDomains: dedupeList(v.GetStringSlice("scout.platform_domains")),
		SkipEnrichment:  v.GetBool("scout.skip_enrichment"),
		EnrichDelay:     v.GetDuration("scout.enrich_delay"),
		UserAgent:       v.GetString("scout.user_agent"),
		RenderEnabled:   v.GetBool("scout.render_enabled"),
		RenderTimeout:   v.GetDuration("scout.render_timeout"),
		RenderSettle:    v.GetDuration("scout.render_settle"),
		HTTPTimeout:     v.GetDuration("scout.http_timeout"),
		APIKey:          v.GetString("places.api_key"),
		PageDelay:       v.GetDuration("places.page_delay"),
		OutputPath:      v.GetString("scout.output"),
		Append:          v.GetBool("scout.append"),
		PhoneRegion:     v.GetString("scout.phone_region"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for configurations that cannot produce a run.
func (c Config) Validate() error {
	if c.Region == "" && c.MapURL == "" {
		return fmt.Errorf("scout.region or scout.map_url must be set")
	}
	if c.RadiusKM <= 0 {
		return fmt.Errorf("scout.radius_km must be > 0")
	}
	if c.MinRating < 0 || c.MinRating > 5 {
		return fmt.Errorf("scout.min_rating must be between 0 and 5")
	}
	if c.MinReviews < 0 {
		return fmt.Errorf("scout.min_reviews must be >= 0")
	}
	if c.Query == "" && len(c.CategoryTags) == 0 && len(c.TextProbes) == 0 {
		return fmt.Errorf("no query, category tags, or text probes configured")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("scout.user_agent must be set")
	}
	if c.APIKey == "" {
		return fmt.Errorf("places.api_key must be set")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("scout.output must be set")
	}
	return nil
}

func dedupeList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, item := range in {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

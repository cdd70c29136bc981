package scout

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validViper() *viper.Viper {
	v := viper.New()
	v.Set("scout.region", "Ko Pha-ngan")
	v.Set("scout.radius_km", 10.0)
	v.Set("scout.min_rating", 4.0)
	v.Set("scout.category_tags", []string{"cafe", "cafe", " bar "})
	v.Set("scout.user_agent", "test-agent")
	v.Set("scout.enrich_delay", "1s")
	v.Set("scout.output", ".tmp/places_results.json")
	v.Set("places.api_key", "test-key")
	v.Set("places.page_delay", "300ms")
	return v
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(validViper())
	require.NoError(t, err)

	assert.Equal(t, "Ko Pha-ngan", cfg.Region)
	assert.Equal(t, 10.0, cfg.RadiusKM)
	assert.Equal(t, time.Second, cfg.EnrichDelay)
	assert.Equal(t, 300*time.Millisecond, cfg.PageDelay)
	assert.Equal(t, []string{"cafe", "bar"}, cfg.CategoryTags, "lists are trimmed and deduplicated")
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(v *viper.Viper)
	}{
		{"missing region and map url", func(v *viper.Viper) {
			v.Set("scout.region", "")
		}},
		{"zero radius", func(v *viper.Viper) {
			v.Set("scout.radius_km", 0.0)
		}},
		{"rating above five", func(v *viper.Viper) {
			v.Set("scout.min_rating", 5.5)
		}},
		{"negative reviews", func(v *viper.Viper) {
			v.Set("scout.min_reviews", -1)
		}},
		{"nothing to search", func(v *viper.Viper) {
			v.Set("scout.category_tags", []string{})
		}},
		{"missing user agent", func(v *viper.Viper) {
			v.Set("scout.user_agent", "")
		}},
		{"missing api key", func(v *viper.Viper) {
			v.Set("places.api_key", "")
		}},
		{"missing output", func(v *viper.Viper) {
			v.Set("scout.output", "")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := validViper()
			tt.mutate(v)
			_, err := LoadConfig(v)
			require.Error(t, err)
		})
	}
}

func TestConfigValidateAcceptsMapURLOnly(t *testing.T) {
	t.Parallel()

	v := validViper()
	v.Set("scout.region", "")
	v.Set("scout.map_url", "https://www.google.com/maps/@9.7313,100.0137,14z")
	_, err := LoadConfig(v)
	require.NoError(t, err)
}

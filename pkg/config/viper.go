// Package config initializes the application's configuration. It uses the
// Viper library to merge settings from a config file, a .env file,
// environment variables, and command-line flags into one view.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// InitConfig sets Viper defaults, search paths, and environment bindings.
// Called once at startup via cobra.OnInitialize; a missing config file is
// fine since defaults plus environment variables are enough to run.
func InitConfig() {
	// Secrets such as the Places API key commonly live in a local .env file.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/leadscout/")
	viper.AddConfigPath("$HOME/.leadscout")

	viper.SetDefault("logging.development", false)
	viper.SetDefault("logging.level", "info")

	viper.SetDefault("scout.radius_km", 10.0)
	viper.SetDefault("scout.min_rating", 4.0)
	viper.SetDefault("scout.min_reviews", 0)
	viper.SetDefault("scout.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	viper.SetDefault("scout.enrich_delay", "1s")
	viper.SetDefault("scout.render_enabled", false)
	viper.SetDefault("scout.render_timeout", "15s")
	viper.SetDefault("scout.render_settle", "2s")
	viper.SetDefault("scout.http_timeout", "10s")
	viper.SetDefault("scout.output", ".tmp/places_results.json")
	viper.SetDefault("scout.phone_region", "")

	// Broad category sweep plus free-text probes for what the taxonomy
	// misses. Both lists are open; override them in the config file to
	// narrow or widen a run.
	viper.SetDefault("scout.category_tags", []string{
		"restaurant",
		"cafe",
		"bar",
		"lodging",
		"spa",
		"gym",
		"doctor",
		"pharmacy",
		"store",
		"night_club",
	})
	viper.SetDefault("scout.text_probes", []string{
		"food restaurant",
		"cafe coffee",
		"bar pub",
		"hotel resort hostel lodging bungalows",
		"doctor clinic pharmacy",
		"spa wellness",
		"gym fitness",
		"shopping store",
		"nightclub event venue",
	})

	// A website on one of these domains is a social or booking-platform
	// presence, not a standalone site.
	viper.SetDefault("scout.platform_domains", []string{
		"facebook.com",
		"instagram.com",
		"twitter.com",
		"x.com",
		"wa.me",
		"t.me",
		"m.me",
		"line.me",
		"linktr.ee",
		"foodpanda",
		"grab.com",
		"tripadvisor",
		"booking.com",
		"agoda.com",
	})

	viper.SetDefault("places.base_url", "")
	viper.SetDefault("places.page_delay", "300ms")
	viper.SetDefault("places.timeout", "15s")

	viper.SetDefault("sheets.spreadsheet_id", "")
	viper.SetDefault("sheets.credentials_file", "credentials.json")
	viper.SetDefault("postgres.dsn", "")
	viper.SetDefault("postgres.table", "places")

	viper.SetEnvPrefix("LEADSCOUT") // e.g. LEADSCOUT_PLACES_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing file is not an error; defaults and env cover it.
	_ = viper.ReadInConfig()
}

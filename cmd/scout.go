// Package cmd defines and implements the CLI commands for the leadscout executable.
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marchworks/leadscout/internal/fetch"
	"github.com/marchworks/leadscout/internal/geo"
	"github.com/marchworks/leadscout/internal/places"
	"github.com/marchworks/leadscout/internal/scout"
	"github.com/marchworks/leadscout/internal/sink"
)

// newScoutCmd creates and configures the 'scout' subcommand, which runs one
// full discovery and enrichment batch over the configured region.
func newScoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scout",
		Short: "Run one discovery and enrichment batch",
		Long: `Sweeps the configured region through category and free-text searches,
filters the places by rating, crawls their websites for contact channels,
and writes the bucketed results to the configured outputs.`,

		RunE: runScoutCommand,
	}

	cmd.Flags().String("query", "", "single search query overriding the category sweep")
	cmd.Flags().String("region", "", "region name, e.g. 'Ko Pha-ngan, Thailand'")
	cmd.Flags().String("map-url", "", "Google Maps link to derive the center point from")
	cmd.Flags().Float64("radius", 10, "search radius in km (capped at 50)")
	cmd.Flags().Float64("min-rating", 4.0, "minimum rating, inclusive")
	cmd.Flags().Int("min-reviews", 0, "minimum review count, inclusive")
	cmd.Flags().Bool("append", false, "append to sheet tabs instead of replacing them")
	cmd.Flags().Bool("skip-enrichment", false, "skip the website contact crawl")
	cmd.Flags().Bool("render", false, "render JavaScript-heavy websites in a headless browser")
	cmd.Flags().String("output", "", "JSON snapshot path")

	bindings := map[string]string{
		"scout.query":           "query",
		"scout.region":          "region",
		"scout.map_url":         "map-url",
		"scout.radius_km":       "radius",
		"scout.min_rating":      "min-rating",
		"scout.min_reviews":     "min-reviews",
		"scout.append":          "append",
		"scout.skip_enrichment": "skip-enrichment",
		"scout.render_enabled":  "render",
		"scout.output":          "output",
	}
	for key, flag := range bindings {
		cobra.CheckErr(viper.BindPFlag(key, cmd.Flags().Lookup(flag)))
	}

	return cmd
}

func runScoutCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	cfg, err := scout.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load scout config: %w", err)
	}

	client, err := places.NewClient(places.Config{
		APIKey:    cfg.APIKey,
		BaseURL:   viper.GetString("places.base_url"),
		Timeout:   viper.GetDuration("places.timeout"),
		PageDelay: cfg.PageDelay,
	}, logger)
	if err != nil {
		return fmt.Errorf("init places client: %w", err)
	}

	fetcher, closeFetcher, err := fetch.NewFromConfig(fetch.Config{
		UserAgent:     cfg.UserAgent,
		RenderEnabled: cfg.RenderEnabled,
		RenderTimeout: cfg.RenderTimeout,
		RenderSettle:  cfg.RenderSettle,
		HTTPTimeout:   cfg.HTTPTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("init website fetcher: %w", err)
	}
	defer closeFetcher()

	snapshot, err := sink.NewSnapshot(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("init snapshot: %w", err)
	}

	pipeline := scout.NewPipeline(
		cfg,
		geo.NewGeocoder(cfg.APIKey),
		scout.NewPlanner(client, logger),
		scout.NewProcessor(cfg.PlatformDomains, cfg.PhoneRegion, logger),
		scout.NewEnricher(fetcher, cfg.PlatformDomains, cfg.EnrichDelay, logger),
		snapshot,
		appInstance.GetSinks(),
		logger,
	)

	summary, err := pipeline.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("run scout batch: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Region: %s\n", summary.Region)
	fmt.Fprintf(out, "Queries run: %d (%d raw results, %d duplicates)\n",
		summary.QueriesRun, summary.RawResults, summary.Duplicates)
	fmt.Fprintf(out, "Places kept: %d\n", summary.Kept)
	for _, bucket := range scout.BucketOrder {
		fmt.Fprintf(out, "  %s: %d\n", bucket, summary.BucketCounts[bucket])
	}
	fmt.Fprintf(out, "Snapshot: %s\n", summary.SnapshotPath)
	return nil
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

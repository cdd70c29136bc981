package scout

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/marchworks/leadscout/internal/places"
)

// Searcher is the mapping provider's search surface.
type Searcher interface {
	CategorySearch(ctx context.Context, category string, center orb.Point, radiusMeters float64) ([]places.Place, error)
	TextSearch(ctx context.Context, query string, center orb.Point, radiusMeters float64) ([]places.Place, error)
}

// WebsiteFetcher retrieves HTML for third-party sites. Both methods return
// empty content on failure, never an error.
type WebsiteFetcher interface {
	// Fetch uses the full render-first strategy chain.
	Fetch(ctx context.Context, url string) string
	// FetchStatic uses only the plain HTTP tier.
	FetchStatic(ctx context.Context, url string) string
}

// Locator resolves the run's center point and region label.
type Locator interface {
	Resolve(ctx context.Context, region, mapURL string) (orb.Point, string, error)
}

// Sink accepts the partitioned result set. Sinks are external collaborators;
// a sink failure is logged but never aborts the run.
type Sink interface {
	Name() string
	Write(ctx context.Context, batch Batch) error
}

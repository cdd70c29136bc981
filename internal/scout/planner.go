package scout

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/marchworks/leadscout/internal/places"
)

// Planner builds the query set for a run and sweeps the provider,
// deduplicating results by provider ID across every query and page.
type Planner struct {
	client Searcher
	logger *zap.Logger
}

// NewPlanner constructs a Planner over the given search client.
func NewPlanner(client Searcher, logger *zap.Logger) *Planner {
	return &Planner{client: client, logger: logger}
}

// SweepStats counts what the sweep saw, for instrumentation only.
type SweepStats struct {
	QueriesRun int
	RawResults int
	Duplicates int
	Failures   int
}

// Plan builds the query list. A single override query replaces the whole
// sweep; otherwise pass A iterates the category catalog and pass B runs the
// generic free-text probes against the same location bias.
func (p *Planner) Plan(cfg Config, center orb.Point, radiusMeters float64, region string) []Query {
	if cfg.Query != "" {
		return []Query{{
			Text:         fmt.Sprintf("%s in %s", cfg.Query, region),
			Center:       center,
			RadiusMeters: radiusMeters,
		}}
	}

	queries := make([]Query, 0, len(cfg.CategoryTags)+len(cfg.TextProbes))
	for _, tag := range cfg.CategoryTags {
		queries = append(queries, Query{
			Category:     tag,
			Center:       center,
			RadiusMeters: radiusMeters,
		})
	}
	for _, probe := range cfg.TextProbes {
		queries = append(queries, Query{
			Text:         fmt.Sprintf("%s in %s", probe, region),
			Center:       center,
			RadiusMeters: radiusMeters,
		})
	}
	return queries
}

// Sweep executes every planned query sequentially. A failing query aborts
// only its own slice of the sweep; the rest proceeds. Results are
// deduplicated first-writer-wins on provider ID.
func (p *Planner) Sweep(ctx context.Context, plan []Query, region string) ([]Candidate, SweepStats) {
	state := newRunState()
	stats := SweepStats{}

	for _, q := range plan {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("Sweep interrupted", zap.Error(err))
			break
		}
		results, err := p.run(ctx, q)
		stats.QueriesRun++
		stats.RawResults += len(results)
		if err != nil {
			// Treated as zero results for this slice; no retry.
			stats.Failures++
			p.logger.Warn("Search query failed",
				zap.String("query", q.Tag()),
				zap.Error(err),
			)
		}

		fresh := 0
		for _, place := range results {
			if state.admit(place, q.Tag(), region) {
				fresh++
			}
		}
		stats.Duplicates += len(results) - fresh
		p.logger.Info("Query complete",
			zap.String("query", q.Tag()),
			zap.Int("found", len(results)),
			zap.Int("new", fresh),
		)
	}

	p.logger.Info("Sweep complete",
		zap.Int("queries", stats.QueriesRun),
		zap.Int("unique", len(state.candidates)),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("failed_queries", stats.Failures),
	)
	return state.candidates, stats
}

func (p *Planner) run(ctx context.Context, q Query) ([]places.Place, error) {
	if q.Category != "" {
		return p.client.CategorySearch(ctx, q.Category, q.Center, q.RadiusMeters)
	}
	return p.client.TextSearch(ctx, q.Text, q.Center, q.RadiusMeters)
}

// runState is the run-scoped dedup state threaded through one sweep. It is
// never shared across runs and only touched from the sweep's control flow.
type runState struct {
	seen       map[string]struct{}
	candidates []Candidate
}

func newRunState() *runState {
	return &runState{seen: make(map[string]struct{})}
}

// admit appends a candidate on the first sighting of its provider ID and
// reports whether the place was new. Later sightings are absorbed.
func (s *runState) admit(place places.Place, queryTag, region string) bool {
	if place.ID == "" {
		return false
	}
	if _, dup := s.seen[place.ID]; dup {
		return false
	}
	s.seen[place.ID] = struct{}{}
	s.candidates = append(s.candidates, newCandidate(place, queryTag, region))
	return true
}

func newCandidate(place places.Place, queryTag, region string) Candidate {
	name := place.DisplayName.Text
	if name == "" {
		name = "Unknown"
	}
	address := place.FormattedAddress
	if address == "" {
		address = region
	}
	return Candidate{
		ProviderID:  place.ID,
		Name:        name,
		Rating:      place.Rating,
		ReviewCount: place.UserRatingCount,
		Phone:       place.InternationalPhoneNumber,
		Address:     address,
		MapsURL:     place.GoogleMapsURI,
		Categories:  place.Types,
		WebsiteURL:  place.WebsiteURI,
		Query:       queryTag,
	}
}

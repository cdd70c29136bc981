package scout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marchworks/leadscout/internal/geo"
)

// Snapshotter persists the intermediate JSON snapshot of results. It is
// written before enrichment starts and rewritten with the final set, so a
// crash mid-enrichment still leaves usable output behind.
type Snapshotter interface {
	Path() string
	Write(ctx context.Context, list []Candidate) error
}

// Pipeline is the composition root: it sequences the sweep, filtering,
// enrichment and reclassification, then hands the partitioned results to
// the sinks.
type Pipeline struct {
	cfg          Config
	locator      Locator
	planner      *Planner
	processor    *Processor
	enricher     *Enricher
	reclassifier Reclassifier
	snapshot     Snapshotter
	sinks        []Sink
	logger       *zap.Logger
}

// NewPipeline wires a Pipeline from its collaborators.
func NewPipeline(
	cfg Config,
	locator Locator,
	planner *Planner,
	processor *Processor,
	enricher *Enricher,
	snapshot Snapshotter,
	sinks []Sink,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:          cfg,
		locator:      locator,
		planner:      planner,
		processor:    processor,
		enricher:     enricher,
		snapshot:     snapshot,
		sinks:        sinks,
		logger:       logger,
	}
}

// Run executes one batch scouting run. Partial failures inside the run
// (failed queries, unreachable websites, sink errors) never abort it; the
// per-bucket counts and the snapshot are always produced.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID))

	center, region, err := p.locator.Resolve(ctx, p.cfg.Region, p.cfg.MapURL)
	if err != nil {
		return Summary{}, fmt.Errorf("resolve location: %w", err)
	}
	radius := geo.ClampRadius(p.cfg.RadiusKM)
	logger.Info("Starting run",
		zap.String("region", region),
		zap.Float64("radius_m", radius),
		zap.String("override", p.cfg.Query),
	)

	plan := p.planner.Plan(p.cfg, center, radius, region)
	raw, stats := p.planner.Sweep(ctx, plan, region)

	kept := p.processor.Process(raw, p.cfg.MinRating, p.cfg.MinReviews)
	logger.Info("Filtered candidates",
		zap.Int("raw", len(raw)),
		zap.Int("kept", len(kept)),
		zap.Float64("min_rating", p.cfg.MinRating),
		zap.Int("min_reviews", p.cfg.MinReviews),
	)

	if err := p.snapshot.Write(ctx, kept); err != nil {
		logger.Warn("Snapshot write failed", zap.Error(err))
	}

	if p.cfg.SkipEnrichment {
		logger.Info("Enrichment skipped by configuration")
	} else {
		kept = p.enricher.EnrichAll(ctx, kept)
	}
	p.reclassifier.Apply(kept)

	if err := p.snapshot.Write(ctx, kept); err != nil {
		logger.Warn("Snapshot rewrite failed", zap.Error(err))
	}

	batch := Batch{
		RunID:      runID,
		Region:     region,
		Append:     p.cfg.Append,
		Partitions: PartitionByBucket(kept),
	}
	for _, sink := range p.sinks {
		if err := sink.Write(ctx, batch); err != nil {
			logger.Error("Sink write failed", zap.String("sink", sink.Name()), zap.Error(err))
		}
	}

	summary := Summary{
		RunID:        runID,
		Region:       region,
		QueriesRun:   stats.QueriesRun,
		RawResults:   stats.RawResults,
		Duplicates:   stats.Duplicates,
		Kept:         len(kept),
		BucketCounts: make(map[Bucket]int, len(BucketOrder)),
		SnapshotPath: p.snapshot.Path(),
	}
	for _, part := range batch.Partitions {
		summary.BucketCounts[part.Bucket] = len(part.Places)
	}
	logger.Info("Run complete",
		zap.Int("kept", summary.Kept),
		zap.Int("with_website", summary.BucketCounts[BucketWithWebsite]),
		zap.Int("with_socials_only", summary.BucketCounts[BucketSocialsOnly]),
		zap.Int("without_contact", summary.BucketCounts[BucketNoContact]),
	)
	return summary, nil
}

// Package pipeline orchestrates one extract-correlate-load run: load the
// city reference dataset, fetch current weather per city, join on the stable
// city id, and write the dimensional batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Sujay-155/data-wareshouse/internal/domain"
	"github.com/Sujay-155/data-wareshouse/internal/observability"
)

// ReferenceLoader loads the normalized, deduplicated city reference dataset.
type ReferenceLoader interface {
	Load(path string) ([]domain.CityRecord, error)
}

// BatchFetcher fetches weather for a batch of targets, tolerating per-entity
// failure. Returns the successful observations and the failure count.
type BatchFetcher interface {
	FetchBatch(ctx context.Context, targets []domain.FetchTarget) ([]domain.WeatherObservation, int)
}

// BatchWriter persists correlated rows atomically and reports rows written
// per table.
type BatchWriter interface {
	WriteBatch(ctx context.Context, rows []domain.CorrelatedRow, observedAt time.Time) (dimRows, factRows int, err error)
}

// Outcome classifies how a run ended.
type Outcome string

const (
	// OutcomeLoaded means the run wrote at least one batch to the warehouse.
	OutcomeLoaded Outcome = "loaded"
	// OutcomeNoData means every fetch failed; correlate and write were
	// skipped. Not an error: the warehouse simply gains nothing this run.
	OutcomeNoData Outcome = "no_data"
)

// Summary reports per-phase counts for one completed run.
type Summary struct {
	RunID        string
	Outcome      Outcome
	CitiesLoaded int
	FetchTargets int
	FetchFailed  int
	Observations int
	Correlated   int
	DimRows      int
	FactRows     int
	Duration     time.Duration
}

// Pipeline wires the run phases together. No state survives a run beyond
// what lives in the warehouse tables, so re-running is idempotent on the
// dimension and additive on the fact table.
type Pipeline struct {
	loader     ReferenceLoader
	fetcher    BatchFetcher
	writer     BatchWriter
	csvPath    string
	fetchLimit int
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool
}

// New creates a Pipeline. fetchLimit caps remote lookups per run.
func New(loader ReferenceLoader, fetcher BatchFetcher, writer BatchWriter, csvPath string, fetchLimit int, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		loader:     loader,
		fetcher:    fetcher,
		writer:     writer,
		csvPath:    csvPath,
		fetchLimit: fetchLimit,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness returns nil once the pipeline has completed at least one
// run, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Run executes one load-fetch-correlate-write cycle. Reference schema errors
// and warehouse write errors are fatal and abort the run; per-city fetch
// failures are tolerated and only reduce the batch. An all-failed fetch
// short-circuits into OutcomeNoData without touching the warehouse.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", summary.RunID)
	start := time.Now()

	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)
	defer func() { summary.Duration = time.Since(start) }()

	logger.Info("pipeline run starting", "csv_path", p.csvPath, "fetch_limit", p.fetchLimit)

	cities, err := p.loader.Load(p.csvPath)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return summary, fmt.Errorf("load reference dataset: %w", err)
	}
	summary.CitiesLoaded = len(cities)
	p.metrics.CitiesLoaded.Set(float64(len(cities)))

	targets := buildTargets(cities, p.fetchLimit)
	summary.FetchTargets = len(targets)
	logger.Info("fetching weather", "targets", len(targets), "cities", len(cities))

	observations, failed := p.fetcher.FetchBatch(ctx, targets)
	summary.FetchFailed = failed
	summary.Observations = len(observations)

	if len(observations) == 0 {
		summary.Outcome = OutcomeNoData
		logger.Warn("no weather observations fetched, skipping correlate and write",
			"targets", len(targets),
			"failed", failed,
		)
		p.metrics.RunsTotal.WithLabelValues("no_data").Inc()
		p.ready.Store(true)
		return summary, nil
	}

	rows := domain.Correlate(cities, observations)
	summary.Correlated = len(rows)

	// One as-of timestamp for the whole batch: every fact row in a run
	// shares it regardless of per-call latency.
	observedAt := domain.Now()

	dimRows, factRows, err := p.writer.WriteBatch(ctx, rows, observedAt)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return summary, fmt.Errorf("write warehouse batch: %w", err)
	}
	summary.DimRows = dimRows
	summary.FactRows = factRows
	summary.Outcome = OutcomeLoaded

	p.metrics.RowsWritten.WithLabelValues("dim_city").Add(float64(dimRows))
	p.metrics.RowsWritten.WithLabelValues("fact_weather").Add(float64(factRows))
	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	logger.Info("pipeline run complete",
		"outcome", summary.Outcome,
		"cities", summary.CitiesLoaded,
		"fetch_failed", summary.FetchFailed,
		"observations", summary.Observations,
		"dim_rows", summary.DimRows,
		"fact_rows", summary.FactRows,
		"observed_at", observedAt,
	)
	return summary, nil
}

// buildTargets projects cities into fetch targets, capped at limit to
// respect remote rate limits.
func buildTargets(cities []domain.CityRecord, limit int) []domain.FetchTarget {
	if limit > 0 && len(cities) > limit {
		cities = cities[:limit]
	}
	targets := make([]domain.FetchTarget, len(cities))
	for i, c := range cities {
		targets[i] = domain.FetchTarget{CityID: c.ID, City: c.Name, Country: c.Country}
	}
	return targets
}

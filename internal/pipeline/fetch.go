package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/Sujay-155/data-wareshouse/internal/domain"
	"github.com/Sujay-155/data-wareshouse/internal/observability"
)

// Fetcher issues one current-conditions lookup per target, sequentially, in
// input order. One attempt per entity: a failed lookup is logged and the
// entity skipped, so a single bad city never aborts the batch. Sequential
// calls keep remote-side rate limits trivially respected.
type Fetcher struct {
	provider domain.WeatherProvider
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewFetcher creates a Fetcher.
func NewFetcher(provider domain.WeatherProvider, logger *slog.Logger, metrics *observability.Metrics) *Fetcher {
	return &Fetcher{
		provider: provider,
		logger:   logger,
		metrics:  metrics,
	}
}

// FetchBatch fetches current conditions for every target and returns the
// successful observations, each tagged with the originating city id, plus
// the number of per-entity failures. The result may be empty when every call
// failed; detecting that is the driver's job.
func (f *Fetcher) FetchBatch(ctx context.Context, targets []domain.FetchTarget) ([]domain.WeatherObservation, int) {
	observations := make([]domain.WeatherObservation, 0, len(targets))
	failures := 0

	for _, target := range targets {
		if ctx.Err() != nil {
			// Shutdown: report what was gathered so far.
			break
		}

		start := time.Now()
		conditions, err := f.provider.Current(ctx, target.Query())
		f.metrics.FetchDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			f.logger.Warn("weather fetch failed, skipping city",
				"city_id", target.CityID,
				"query", target.Query(),
				"error", err,
			)
			f.metrics.FetchRequests.WithLabelValues("error").Inc()
			failures++
			continue
		}

		f.metrics.FetchRequests.WithLabelValues("success").Inc()
		observations = append(observations, domain.WeatherObservation{
			CityID:            target.CityID,
			CurrentConditions: conditions,
			ObservedAt:        domain.Now(),
		})
	}

	return observations, failures
}

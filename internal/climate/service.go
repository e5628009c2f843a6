package climate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paradewx/parade-weather/internal/observability"
)

// Service orchestrates the record source, the series cache, and the
// statistical core. It holds no per-query state: every call takes the
// location and date explicitly, so concurrent queries need no coordination.
type Service struct {
	source  RecordSource
	cache   SeriesCache
	years   YearRange
	weights ComfortWeights
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService creates a Service. cache may be nil to disable memoization.
func NewService(source RecordSource, cache SeriesCache, years YearRange, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		source:  source,
		cache:   cache,
		years:   years,
		weights: DefaultComfortWeights,
		logger:  logger,
		metrics: metrics,
	}
}

// UseComfortWeights overrides the comfort index tuning. Call before
// serving queries.
func (s *Service) UseComfortWeights(w ComfortWeights) {
	s.weights = w
}

// Years reports the year range the service queries the source for.
func (s *Service) Years() YearRange {
	return s.years
}

// Report is the full outcome of one query: the computed result plus the
// matching records, so presentation collaborators can render charts or
// exports without re-deriving statistics.
type Report struct {
	Location   Location        `json:"location"`
	Month      time.Month      `json:"month"`
	Day        int             `json:"day"`
	Years      YearRange       `json:"year_range"`
	Thresholds Thresholds      `json:"thresholds"`
	Result     ConditionResult `json:"result"`
	Records    DaySubset       `json:"records"`
}

// Conditions answers one historical-condition query. It returns
// ErrSourceUnavailable when the upstream fetch fails and ErrNoData when
// the series or the day-of-year selection is empty.
func (s *Service) Conditions(ctx context.Context, loc Location, month time.Month, day int, t Thresholds) (*Report, error) {
	series, err := s.fetchSeries(ctx, loc)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, ErrNoData
	}

	subset := SelectDayOfYear(series, month, day)
	result, err := Analyze(subset, t, s.weights)
	if err != nil {
		return nil, err
	}

	return &Report{
		Location:   loc,
		Month:      month,
		Day:        day,
		Years:      s.years,
		Thresholds: t,
		Result:     result,
		Records:    subset,
	}, nil
}

// Warm pre-fetches the series for a location into the cache.
func (s *Service) Warm(ctx context.Context, loc Location) error {
	_, err := s.fetchSeries(ctx, loc)
	return err
}

func (s *Service) fetchSeries(ctx context.Context, loc Location) (TimeSeries, error) {
	key := FetchKey{Location: loc, Years: s.years}

	if s.cache != nil {
		if series, ok := s.cache.Get(ctx, key); ok {
			s.metrics.CacheLookups.WithLabelValues("hit").Inc()
			return series, nil
		}
		s.metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	series, err := s.source.FetchDaily(ctx, loc, s.years)
	s.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.SourceFetches.WithLabelValues(s.source.Name(), "error").Inc()
		s.logger.Warn("daily series fetch failed",
			"source", s.source.Name(),
			"location", loc.Key(),
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	s.metrics.SourceFetches.WithLabelValues(s.source.Name(), "success").Inc()

	if s.cache != nil && len(series) > 0 {
		s.cache.Set(ctx, key, series)
	}
	return series, nil
}

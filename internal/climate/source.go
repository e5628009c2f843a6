package climate

import (
	"context"
	"errors"
)

// ErrSourceUnavailable marks a failed upstream fetch: the record source
// could not be reached or returned malformed data. The statistical core
// never sees the underlying transport error.
var ErrSourceUnavailable = errors.New("climate record source unavailable")

// RecordSource abstracts a daily climate archive (e.g. NASA POWER). A
// successful fetch returns one record per calendar day for the requested
// span, in chronological order.
type RecordSource interface {
	Name() string
	FetchDaily(ctx context.Context, loc Location, years YearRange) (TimeSeries, error)
}

// SeriesCache memoizes fetched series by (location, year range). A
// location's multi-decade history changes at most once a day, so
// implementations are expected to hold entries for hours. Get returns
// false on a miss; implementations must degrade errors to misses.
type SeriesCache interface {
	Get(ctx context.Context, key FetchKey) (TimeSeries, bool)
	Set(ctx context.Context, key FetchKey, series TimeSeries)
}

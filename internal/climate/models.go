package climate

import (
	"fmt"
	"time"
)

// Location is a geographic point. Unlike a city/country pair it needs no
// geocoding before use; the API layer resolves names to coordinates first.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Key returns a canonical string key for indexing this location in caches.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f:%.4f", l.Lat, l.Lon)
}

// YearRange is the inclusive span of calendar years a time series covers.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DefaultYearRange matches the historical coverage of the NASA POWER daily
// archive used as the record source.
var DefaultYearRange = YearRange{Start: 1985, End: 2023}

// FetchKey identifies one upstream fetch: a location plus a year range.
// Series caches are keyed on it so repeated queries against the same
// location do not re-fetch.
type FetchKey struct {
	Location Location
	Years    YearRange
}

func (k FetchKey) String() string {
	return fmt.Sprintf("%s:%d:%d", k.Location.Key(), k.Years.Start, k.Years.End)
}

// DailyRecord is one day of observations for one location. Measurement
// fields are pointers because the upstream archive reports gaps as fill
// values; a nil field means "not observed", and the engine skips it.
type DailyRecord struct {
	Date          time.Time `json:"date"`
	Temperature   *float64  `json:"temperature"`   // °C
	Precipitation *float64  `json:"precipitation"` // mm/day
	WindSpeed     *float64  `json:"windspeed"`     // m/s
	UVIndex       *float64  `json:"solar_uv_index"`
	Humidity      *float64  `json:"relative_humidity"` // %
}

// TimeSeries is a chronologically ordered run of daily records for one
// location. It is empty when the upstream fetch failed or returned nothing.
type TimeSeries []DailyRecord

// DaySubset holds the records of a TimeSeries that share one (month, day),
// one entry per year present in the source range. An empty subset is a
// valid terminal state, not an error.
type DaySubset []DailyRecord

// Thresholds are the caller-supplied cutoffs for the five extreme
// conditions. They are independent of the data; the engine does not enforce
// hot > cold — an inverted configuration simply yields degenerate
// probabilities.
type Thresholds struct {
	HotC        float64 `json:"hot_c"`
	ColdC       float64 `json:"cold_c"`
	WindMS      float64 `json:"wind_ms"`
	RainMM      float64 `json:"rain_mm"`
	HumidityPct float64 `json:"humidity_pct"`
}

// DefaultThresholds mirrors the slider defaults of the original UI.
var DefaultThresholds = Thresholds{
	HotC:        35,
	ColdC:       5,
	WindMS:      10,
	RainMM:      10,
	HumidityPct: 80,
}

// Averages are the arithmetic means over a day subset, computed over
// present values only.
type Averages struct {
	Temperature float64 `json:"temperature_c"`
	Rainfall    float64 `json:"rainfall_mm"`
	WindSpeed   float64 `json:"windspeed_ms"`
	Humidity    float64 `json:"humidity_pct"`
}

// ConditionResult is the engine output for one (location, date, thresholds)
// query. Every percentage and the comfort index lie in [0,100]. Values are
// not rounded here; presentation formats for display.
type ConditionResult struct {
	PctHot           float64 `json:"pct_hot"`
	PctCold          float64 `json:"pct_cold"`
	PctWindy         float64 `json:"pct_windy"`
	PctWet           float64 `json:"pct_wet"`
	PctUncomfortable float64 `json:"pct_uncomfortable"`

	Averages Averages `json:"averages"`

	ComfortIndex float64 `json:"comfort_index"`

	// Years is the number of records the probabilities were computed over.
	Years int `json:"years"`
}

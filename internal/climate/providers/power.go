package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/paradewx/parade-weather/internal/climate"
	"github.com/sony/gobreaker"
)

// NASA POWER daily point parameters: 2-metre temperature, corrected
// precipitation, 10-metre windspeed, all-sky surface UV index, 2-metre
// relative humidity.
const (
	paramTemperature   = "T2M"
	paramPrecipitation = "PRECTOTCORR"
	paramWindSpeed     = "WS10M"
	paramUVIndex       = "ALLSKY_SFC_UV_INDEX"
	paramHumidity      = "RH2M"

	powerDateLayout = "20060102"

	// POWER reports gaps with this value unless the header says otherwise.
	defaultFillValue = -999.0
)

// DefaultPowerBaseURL is the NASA POWER daily point endpoint.
const DefaultPowerBaseURL = "https://power.larc.nasa.gov/api/temporal/daily/point"

// PowerSource implements climate.RecordSource against the NASA POWER API.
type PowerSource struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewPowerSource(client *http.Client, baseURL string) *PowerSource {
	if baseURL == "" {
		baseURL = DefaultPowerBaseURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nasa-power",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &PowerSource{
		name:    "nasa-power",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (p *PowerSource) Name() string {
	return p.name
}

// FetchDaily downloads the daily series for the given location and year
// range and normalizes it into a chronologically ordered TimeSeries.
func (p *PowerSource) FetchDaily(ctx context.Context, loc climate.Location, years climate.YearRange) (climate.TimeSeries, error) {
	if years.Start > years.End {
		return nil, fmt.Errorf("invalid year range %d-%d", years.Start, years.End)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("parameters", fmt.Sprintf("%s,%s,%s,%s,%s",
			paramTemperature, paramPrecipitation, paramWindSpeed, paramUVIndex, paramHumidity))
		values.Set("community", "RE")
		values.Set("latitude", fmt.Sprintf("%f", loc.Lat))
		values.Set("longitude", fmt.Sprintf("%f", loc.Lon))
		values.Set("start", fmt.Sprintf("%d0101", years.Start))
		values.Set("end", fmt.Sprintf("%d1231", years.End))
		values.Set("format", "JSON")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Header struct {
			FillValue *float64 `json:"fill_value"`
		} `json:"header"`
		Properties struct {
			Parameter map[string]map[string]float64 `json:"parameter"`
		} `json:"properties"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode POWER response: %w", err)
	}

	fill := defaultFillValue
	if payload.Header.FillValue != nil {
		fill = *payload.Header.FillValue
	}

	return buildSeries(payload.Properties.Parameter, fill)
}

// buildSeries turns the per-parameter date maps into one record per day.
// Dates come from the temperature map; POWER returns identical key sets
// for all requested parameters.
func buildSeries(params map[string]map[string]float64, fill float64) (climate.TimeSeries, error) {
	temps := params[paramTemperature]
	if len(temps) == 0 {
		return nil, nil
	}

	dates := make([]string, 0, len(temps))
	for d := range temps {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	series := make(climate.TimeSeries, 0, len(dates))
	for _, d := range dates {
		date, err := time.Parse(powerDateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("parse POWER date %q: %w", d, err)
		}

		series = append(series, climate.DailyRecord{
			Date:          date,
			Temperature:   lookup(params, paramTemperature, d, fill),
			Precipitation: lookup(params, paramPrecipitation, d, fill),
			WindSpeed:     lookup(params, paramWindSpeed, d, fill),
			UVIndex:       lookup(params, paramUVIndex, d, fill),
			Humidity:      lookup(params, paramHumidity, d, fill),
		})
	}
	return series, nil
}

// lookup returns the value for one parameter on one date, or nil when the
// value is absent or equals the fill value.
func lookup(params map[string]map[string]float64, param, date string, fill float64) *float64 {
	values, ok := params[param]
	if !ok {
		return nil
	}
	v, ok := values[date]
	if !ok || v == fill {
		return nil
	}
	return &v
}

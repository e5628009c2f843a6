package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradewx/parade-weather/internal/climate"
	"github.com/paradewx/parade-weather/internal/geocode"
	"github.com/paradewx/parade-weather/internal/observability"
)

type fakeSource struct {
	series climate.TimeSeries
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) FetchDaily(context.Context, climate.Location, climate.YearRange) (climate.TimeSeries, error) {
	return s.series, nil
}

type fakeGeocoder struct {
	place geocode.Place
	err   error
}

func (g *fakeGeocoder) Forward(context.Context, string) (geocode.Place, error) {
	return g.place, g.err
}

func (g *fakeGeocoder) Reverse(context.Context, float64, float64) (geocode.Place, error) {
	return g.place, g.err
}

func fixedSeries(years ...int) climate.TimeSeries {
	var series climate.TimeSeries
	for _, y := range years {
		temp, precip, wind, hum := 30.0, 2.0, 4.0, 65.0
		series = append(series, climate.DailyRecord{
			Date:          time.Date(y, time.July, 4, 0, 0, 0, 0, time.UTC),
			Temperature:   &temp,
			Precipitation: &precip,
			WindSpeed:     &wind,
			Humidity:      &hum,
		})
	}
	return series
}

func newTestApp(source climate.RecordSource, geocoder geocode.Geocoder) *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	service := climate.NewService(source, nil, climate.YearRange{Start: 2019, End: 2022}, logger, metrics)

	app := fiber.New()
	RegisterRoutes(app, service, geocoder, metrics)
	return app
}

func TestConditionsEndpoint(t *testing.T) {
	app := newTestApp(&fakeSource{series: fixedSeries(2019, 2020, 2021, 2022)}, &fakeGeocoder{})

	req := httptest.NewRequest("GET", "/api/v1/conditions?lat=40.7&lon=-74.0&date=2026-07-04", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report climate.Report
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &report))

	assert.Equal(t, time.July, report.Month)
	assert.Equal(t, 4, report.Day)
	assert.Equal(t, 4, report.Result.Years)
	assert.Len(t, report.Records, 4)
	assert.InDelta(t, 30.0, report.Result.Averages.Temperature, 1e-9)
	assert.Equal(t, climate.DefaultThresholds, report.Thresholds)
}

func TestConditionsEndpointMonthDayDate(t *testing.T) {
	app := newTestApp(&fakeSource{series: fixedSeries(2019, 2020)}, &fakeGeocoder{})

	req := httptest.NewRequest("GET", "/api/v1/conditions?lat=40.7&lon=-74.0&date=07-04", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestConditionsEndpointThresholdOverrides(t *testing.T) {
	app := newTestApp(&fakeSource{series: fixedSeries(2019, 2020)}, &fakeGeocoder{})

	req := httptest.NewRequest("GET", "/api/v1/conditions?lat=40.7&lon=-74.0&date=07-04&hot=25&humidity=60", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report climate.Report
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &report))

	assert.InDelta(t, 25.0, report.Thresholds.HotC, 1e-9)
	assert.InDelta(t, 60.0, report.Thresholds.HumidityPct, 1e-9)
	assert.InDelta(t, climate.DefaultThresholds.ColdC, report.Thresholds.ColdC, 1e-9)
	// All fixture days are 30 °C and 65 % humid: hot and uncomfortable.
	assert.InDelta(t, 100.0, report.Result.PctHot, 1e-9)
	assert.InDelta(t, 100.0, report.Result.PctUncomfortable, 1e-9)
}

func TestConditionsEndpointBadRequests(t *testing.T) {
	app := newTestApp(&fakeSource{series: fixedSeries(2019)}, &fakeGeocoder{})

	for name, target := range map[string]string{
		"missing lat":      "/api/v1/conditions?lon=-74.0&date=07-04",
		"missing date":     "/api/v1/conditions?lat=40.7&lon=-74.0",
		"bad date":         "/api/v1/conditions?lat=40.7&lon=-74.0&date=July+4th",
		"lat out of range": "/api/v1/conditions?lat=95&lon=-74.0&date=07-04",
		"lon out of range": "/api/v1/conditions?lat=40.7&lon=-190&date=07-04",
		"bad threshold":    "/api/v1/conditions?lat=40.7&lon=-74.0&date=07-04&hot=scorching",
		"impossible day":   "/api/v1/conditions?lat=40.7&lon=-74.0&date=13-40",
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", target, nil), 5000)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestConditionsEndpointNoData(t *testing.T) {
	app := newTestApp(&fakeSource{series: fixedSeries(2019, 2020)}, &fakeGeocoder{})

	// The fixture only has July 4 records; Feb 29 selects nothing.
	req := httptest.NewRequest("GET", "/api/v1/conditions?lat=40.7&lon=-74.0&date=02-29", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestConditionsEndpointEmptySeries(t *testing.T) {
	app := newTestApp(&fakeSource{}, &fakeGeocoder{})

	req := httptest.NewRequest("GET", "/api/v1/conditions?lat=40.7&lon=-74.0&date=07-04", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGeocodeEndpoint(t *testing.T) {
	place := geocode.Place{Lat: 40.7128, Lon: -74.0060, DisplayName: "New York"}
	app := newTestApp(&fakeSource{}, &fakeGeocoder{place: place})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/geocode?q=new+york", nil), 5000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got geocode.Place
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, place, got)
}

func TestGeocodeEndpointMissingQuery(t *testing.T) {
	app := newTestApp(&fakeSource{}, &fakeGeocoder{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/geocode", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGeocodeEndpointNotFound(t *testing.T) {
	app := newTestApp(&fakeSource{}, &fakeGeocoder{err: geocode.ErrNotFound})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/geocode?q=atlantis", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestReverseGeocodeEndpoint(t *testing.T) {
	place := geocode.Place{Lat: 51.5074, Lon: -0.1278, DisplayName: "London"}
	app := newTestApp(&fakeSource{}, &fakeGeocoder{place: place})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/geocode/reverse?lat=51.5&lon=-0.12", nil), 5000)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got geocode.Place
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, place, got)
}

func TestReverseGeocodeEndpointBadParams(t *testing.T) {
	app := newTestApp(&fakeSource{}, &fakeGeocoder{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/geocode/reverse?lat=51.5", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestParseDayOfYear(t *testing.T) {
	_, _, err := parseDayOfYear("2026-02-29")
	require.Error(t, err, "2026 is not a leap year")

	month, day, err := parseDayOfYear("02-29")
	require.NoError(t, err, "year-less form permits the leap day")
	assert.Equal(t, time.February, month)
	assert.Equal(t, 29, day)
}

package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradewx/parade-weather/internal/climate"
)

const powerSample = `{
  "header": {"fill_value": -999.0},
  "properties": {
    "parameter": {
      "T2M":                 {"20200101": 10.5, "20200102": -999.0, "20200103": 12.0},
      "PRECTOTCORR":         {"20200101": 1.2,  "20200102": 0.0,    "20200103": 4.5},
      "WS10M":               {"20200101": 3.4,  "20200102": 2.2,    "20200103": -999.0},
      "ALLSKY_SFC_UV_INDEX": {"20200101": 5.1,  "20200102": 4.0,    "20200103": 3.3},
      "RH2M":                {"20200101": 60.0, "20200102": 70.0,   "20200103": 55.0}
    }
  }
}`

func TestPowerSource_FetchDaily(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(powerSample))
	}))
	defer server.Close()

	src := NewPowerSource(server.Client(), server.URL)
	series, err := src.FetchDaily(context.Background(),
		climate.Location{Lat: 40.7128, Lon: -74.0060},
		climate.YearRange{Start: 2020, End: 2020})
	require.NoError(t, err)

	assert.Equal(t, "T2M,PRECTOTCORR,WS10M,ALLSKY_SFC_UV_INDEX,RH2M", gotQuery.Get("parameters"))
	assert.Equal(t, "RE", gotQuery.Get("community"))
	assert.Equal(t, "20200101", gotQuery.Get("start"))
	assert.Equal(t, "20201231", gotQuery.Get("end"))
	assert.Equal(t, "JSON", gotQuery.Get("format"))

	require.Len(t, series, 3)
	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), series[0].Date)
	assert.True(t, series[0].Date.Before(series[1].Date), "records ordered by date")

	require.NotNil(t, series[0].Temperature)
	assert.InDelta(t, 10.5, *series[0].Temperature, 1e-9)
	require.NotNil(t, series[0].Humidity)
	assert.InDelta(t, 60.0, *series[0].Humidity, 1e-9)

	// Fill values become missing observations, never -999 readings.
	assert.Nil(t, series[1].Temperature)
	assert.Nil(t, series[2].WindSpeed)
	require.NotNil(t, series[1].Precipitation)
	assert.Zero(t, *series[1].Precipitation)
}

func TestPowerSource_FetchDailyCustomFillValue(t *testing.T) {
	body := `{
	  "header": {"fill_value": -888.0},
	  "properties": {"parameter": {
	    "T2M":  {"20200101": -888.0},
	    "RH2M": {"20200101": 50.0}
	  }}
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	src := NewPowerSource(server.Client(), server.URL)
	series, err := src.FetchDaily(context.Background(), climate.Location{}, climate.YearRange{Start: 2020, End: 2020})
	require.NoError(t, err)

	require.Len(t, series, 1)
	assert.Nil(t, series[0].Temperature)
	require.NotNil(t, series[0].Humidity)
}

func TestPowerSource_FetchDailyEmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"properties": {"parameter": {}}}`))
	}))
	defer server.Close()

	src := NewPowerSource(server.Client(), server.URL)
	series, err := src.FetchDaily(context.Background(), climate.Location{}, climate.YearRange{Start: 2020, End: 2020})
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestPowerSource_FetchDailyDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	src := NewPowerSource(server.Client(), server.URL)
	_, err := src.FetchDaily(context.Background(), climate.Location{}, climate.YearRange{Start: 2020, End: 2020})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode POWER response")
}

func TestPowerSource_FetchDailyInvalidYearRange(t *testing.T) {
	src := NewPowerSource(http.DefaultClient, "http://invalid.example")
	_, err := src.FetchDaily(context.Background(), climate.Location{}, climate.YearRange{Start: 2023, End: 2020})
	require.Error(t, err)
}

func TestPowerSource_FetchDailyContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(powerSample))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewPowerSource(server.Client(), server.URL)
	_, err := src.FetchDaily(ctx, climate.Location{}, climate.YearRange{Start: 2020, End: 2020})
	require.ErrorIs(t, err, context.Canceled)
}

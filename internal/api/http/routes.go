package httpapi

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/paradewx/parade-weather/internal/climate"
	"github.com/paradewx/parade-weather/internal/geocode"
	"github.com/paradewx/parade-weather/internal/observability"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *climate.Service, geocoder geocode.Geocoder, metrics *observability.Metrics) {
	v1 := app.Group("/api/v1")

	v1.Get("/conditions", func(c *fiber.Ctx) error {
		var req conditionsQuery
		if err := req.bind(c); err != nil {
			metrics.ConditionQueries.WithLabelValues("bad_request").Inc()
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			metrics.ConditionQueries.WithLabelValues("bad_request").Inc()
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := climate.Location{Lat: req.Lat, Lon: req.Lon}
		report, err := service.Conditions(c.Context(), loc, req.Month, req.Day, req.Thresholds)
		switch {
		case errors.Is(err, climate.ErrNoData):
			metrics.ConditionQueries.WithLabelValues("no_data").Inc()
			return fiber.NewError(fiber.StatusNotFound, "no climate records for the requested day")
		case errors.Is(err, climate.ErrSourceUnavailable):
			metrics.ConditionQueries.WithLabelValues("source_error").Inc()
			return fiber.NewError(fiber.StatusBadGateway, "climate record source unavailable")
		case err != nil:
			metrics.ConditionQueries.WithLabelValues("error").Inc()
			return fiber.NewError(fiber.StatusInternalServerError, "failed to compute conditions")
		}

		metrics.ConditionQueries.WithLabelValues("ok").Inc()
		return c.JSON(report)
	})

	v1.Get("/geocode", func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
		}

		place, err := geocoder.Forward(c.Context(), query)
		switch {
		case errors.Is(err, geocode.ErrNotFound):
			metrics.GeocodeRequests.WithLabelValues("forward", "empty").Inc()
			return fiber.NewError(fiber.StatusNotFound, "location not found")
		case err != nil:
			metrics.GeocodeRequests.WithLabelValues("forward", "error").Inc()
			return fiber.NewError(fiber.StatusBadGateway, "geocoding service unavailable")
		}

		metrics.GeocodeRequests.WithLabelValues("forward", "success").Inc()
		return c.JSON(place)
	})

	v1.Get("/geocode/reverse", func(c *fiber.Ctx) error {
		lat, err := parseFloatParam(c, "lat")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		lon, err := parseFloatParam(c, "lon")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		place, err := geocoder.Reverse(c.Context(), lat, lon)
		switch {
		case errors.Is(err, geocode.ErrNotFound):
			metrics.GeocodeRequests.WithLabelValues("reverse", "empty").Inc()
			return fiber.NewError(fiber.StatusNotFound, "location not found")
		case err != nil:
			metrics.GeocodeRequests.WithLabelValues("reverse", "error").Inc()
			return fiber.NewError(fiber.StatusBadGateway, "geocoding service unavailable")
		}

		metrics.GeocodeRequests.WithLabelValues("reverse", "success").Inc()
		return c.JSON(place)
	})
}

// conditionsQuery holds the parsed parameters of a conditions request.
type conditionsQuery struct {
	Lat float64 `validate:"min=-90,max=90"`
	Lon float64 `validate:"min=-180,max=180"`

	Month time.Month `validate:"min=1,max=12"`
	Day   int        `validate:"min=1,max=31"`

	Thresholds climate.Thresholds
}

func (q *conditionsQuery) bind(c *fiber.Ctx) error {
	lat, err := parseFloatParam(c, "lat")
	if err != nil {
		return err
	}
	lon, err := parseFloatParam(c, "lon")
	if err != nil {
		return err
	}
	q.Lat, q.Lon = lat, lon

	month, day, err := parseDayOfYear(c.Query("date"))
	if err != nil {
		return err
	}
	q.Month, q.Day = month, day

	// Thresholds are optional and default to the original UI sliders.
	q.Thresholds = climate.DefaultThresholds
	overrides := []struct {
		name string
		dst  *float64
	}{
		{"hot", &q.Thresholds.HotC},
		{"cold", &q.Thresholds.ColdC},
		{"wind", &q.Thresholds.WindMS},
		{"rain", &q.Thresholds.RainMM},
		{"humidity", &q.Thresholds.HumidityPct},
	}
	for _, o := range overrides {
		raw := c.Query(o.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid %s parameter", o.name)
		}
		*o.dst = v
	}

	return nil
}

// parseDayOfYear accepts "2006-01-02" (year ignored) or "01-02".
func parseDayOfYear(s string) (time.Month, int, error) {
	if s == "" {
		return 0, 0, errors.New("date query parameter is required")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Month(), t.Day(), nil
	}
	if t, err := time.Parse("01-02", s); err == nil {
		return t.Month(), t.Day(), nil
	}
	return 0, 0, errors.New("invalid date format; use YYYY-MM-DD or MM-DD")
}

func parseFloatParam(c *fiber.Ctx, name string) (float64, error) {
	v, err := strconv.ParseFloat(c.Query(name), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid or missing %s parameter", name)
	}
	return v, nil
}

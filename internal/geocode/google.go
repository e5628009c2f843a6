package geocode

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"
)

// Google implements Geocoder against the Google Maps Geocoding API, for
// deployments that prefer it over the public Nominatim instance. The
// underlying library holds the API key as package state, so construct at
// most one Google geocoder per process.
type Google struct{}

func NewGoogle(apiKey string) *Google {
	geocoder.ApiKey = apiKey
	return &Google{}
}

func (g *Google) Forward(_ context.Context, query string) (Place, error) {
	loc, err := geocoder.Geocoding(geocoder.Address{Street: query})
	if err != nil {
		return Place{}, fmt.Errorf("google forward geocode: %w", err)
	}
	return Place{Lat: loc.Latitude, Lon: loc.Longitude, DisplayName: query}, nil
}

func (g *Google) Reverse(_ context.Context, lat, lon float64) (Place, error) {
	addresses, err := geocoder.GeocodingReverse(geocoder.Location{Latitude: lat, Longitude: lon})
	if err != nil {
		return Place{}, fmt.Errorf("google reverse geocode: %w", err)
	}
	if len(addresses) == 0 {
		return Place{}, ErrNotFound
	}
	return Place{Lat: lat, Lon: lon, DisplayName: addresses[0].FormatAddress()}, nil
}

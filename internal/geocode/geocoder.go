// Package geocode delegates place-name resolution to external services.
// It is integration glue only: the service never computes locations, it
// forwards queries so UI collaborators need no upstream coupling.
package geocode

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the upstream service has no match for the
// query. It is a normal outcome, not a transport failure.
var ErrNotFound = errors.New("location not found")

// Place is a resolved location.
type Place struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// Geocoder resolves free-text queries to coordinates and coordinates back
// to place names.
type Geocoder interface {
	Forward(ctx context.Context, query string) (Place, error)
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}

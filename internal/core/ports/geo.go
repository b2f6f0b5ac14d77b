package ports

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrGeoLookupFailed wraps every geocoding or directions failure. It is
// always recovered locally with a fallback and never reaches API callers.
var ErrGeoLookupFailed = errors.New("geo lookup failed")

// Geocoder resolves a free-text delivery address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)
}

// Route is a road distance and travel time between two points.
type Route struct {
	DistanceKm float64
	Duration   time.Duration
}

// DirectionsProvider computes a road route.
type DirectionsProvider interface {
	Route(ctx context.Context, origin, destination kernel.GeoPoint) (Route, error)
}

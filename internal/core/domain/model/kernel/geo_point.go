package kernel

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// LatitudeMin and LatitudeMax bound a valid latitude in degrees.
	LatitudeMin = -90.0
	LatitudeMax = 90.0
	// LongitudeMin and LongitudeMax bound a valid longitude in degrees.
	LongitudeMin = -180.0
	LongitudeMax = 180.0

	earthRadiusKm = 6371.0
)

// ErrGeoPointIsNotConstructed is returned when using a zero-value GeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint or ParseGeoPoint")

// ErrNoCoordinatesInText is returned by ParseGeoPoint when the text carries no "lat,lng" pair.
var ErrNoCoordinatesInText = errors.New("text does not contain coordinates")

var coordinatesPattern = regexp.MustCompile(`(-?\d{1,2}\.\d+)\s*,\s*(-?\d{1,3}\.\d+)`)

// GeoPoint is a WGS84 position: a partner's reported location or an order's
// resolved delivery destination. It is immutable and its zero value is invalid.
//
// Example:
//
//	shop, _ := kernel.NewGeoPoint(12.9716, 77.5946)
//	door, _ := kernel.NewGeoPoint(12.9352, 77.6245)
//	km, _ := shop.DistanceKm(door) // ≈ 5.3
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint validates lat in [-90, 90] and lng in [-180, 180].
// Both violations are reported together.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLat(lat), p.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// ParseGeoPoint extracts the first "lat,lng" pair embedded in free text, such as a
// delivery address that was captured from a map pin ("Flat 4B, 12.9716,77.5946").
// Returns ErrNoCoordinatesInText when nothing resembling coordinates is found.
func ParseGeoPoint(text string) (GeoPoint, error) {
	m := coordinatesPattern.FindStringSubmatch(text)
	if m == nil {
		return GeoPoint{}, ErrNoCoordinatesInText
	}

	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return GeoPoint{}, errs.NewValueIsInvalidErrorWithCause("lat", err)
	}
	lng, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return GeoPoint{}, errs.NewValueIsInvalidErrorWithCause("lng", err)
	}

	return NewGeoPoint(lat, lng)
}

// Validate returns ErrGeoPointIsNotConstructed for the zero value.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lng returns the longitude in degrees.
func (p GeoPoint) Lng() float64 {
	return p.lng
}

// String formats the point as "lat,lng", the form accepted by the directions collaborator.
func (p GeoPoint) String() string {
	return strconv.FormatFloat(p.lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.lng, 'f', 6, 64)
}

// IsEqual compares two constructed points.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p == other, nil
}

// DistanceKm returns the great-circle (haversine) distance between two points in kilometres.
// It is the straight-line fallback used when the directions collaborator is unavailable.
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	dLat := toRadians(other.lat - p.lat)
	dLng := toRadians(other.lng - p.lng)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(p.lat))*math.Cos(toRadians(other.lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, nil
}

func (p *GeoPoint) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}

	p.lat = lat
	return nil
}

func (p *GeoPoint) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lng", lng, LongitudeMin, LongitudeMax)
	}

	p.lng = lng
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// GoString keeps %#v output readable in test failures.
func (p GeoPoint) GoString() string {
	return fmt.Sprintf("kernel.GeoPoint(%s)", p.String())
}

package services

import (
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// DefaultFallbackSpeedKmh is the assumed average city speed of a two-wheeler.
const DefaultFallbackSpeedKmh = 20.0

// StraightLineEstimator estimates a route when the directions collaborator is
// unavailable: haversine distance at a constant speed.
type StraightLineEstimator struct {
	speedKmh float64
}

// NewStraightLineEstimator validates the speed is positive.
func NewStraightLineEstimator(speedKmh float64) (StraightLineEstimator, error) {
	if speedKmh <= 0 {
		return StraightLineEstimator{}, errs.NewValueIsInvalidErrorWithCause("fallback speed", fmt.Errorf("%v is not greater than 0", speedKmh))
	}
	return StraightLineEstimator{speedKmh: speedKmh}, nil
}

// Estimate returns the straight-line distance in km and the travel time at the configured speed.
func (e StraightLineEstimator) Estimate(origin, destination kernel.GeoPoint) (float64, time.Duration, error) {
	distance, err := origin.DistanceKm(destination)
	if err != nil {
		return 0, 0, err
	}

	hours := distance / e.speedKmh
	return distance, time.Duration(hours * float64(time.Hour)).Round(time.Second), nil
}

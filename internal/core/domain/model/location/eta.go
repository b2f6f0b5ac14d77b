package location

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// ETASource tells how an ETA was obtained.
type ETASource string

const (
	// SourceDirections is a route computed by the directions collaborator.
	SourceDirections ETASource = "directions"
	// SourceStraightLine is the haversine fallback.
	SourceStraightLine ETASource = "straight_line"
	// SourceLastKnown is a previous directions result reused after a lookup failure.
	SourceLastKnown ETASource = "last_known"
)

// ETA is the last computed arrival estimate for an order in transit.
type ETA struct {
	OrderID    kernel.UUID
	PartnerID  kernel.UUID
	Origin     kernel.GeoPoint
	DistanceKm float64
	Duration   time.Duration
	Source     ETASource
	ComputedAt time.Time
}

// ArrivalAt returns ComputedAt + Duration.
func (e ETA) ArrivalAt() time.Time {
	return e.ComputedAt.Add(e.Duration)
}

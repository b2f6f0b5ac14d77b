package location

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Sample is one position report from a partner's device. Samples are
// ephemeral: only the latest per partner is kept.
type Sample struct {
	partnerID  kernel.UUID
	point      kernel.GeoPoint
	capturedAt time.Time
}

// NewSample validates the partner, the point and the capture time.
func NewSample(partnerID kernel.UUID, point kernel.GeoPoint, capturedAt time.Time) (Sample, error) {
	var capturedErr error
	if capturedAt.IsZero() {
		capturedErr = errs.NewValueIsRequiredError("captured at")
	}

	if err := errors.Join(partnerID.Validate(), point.Validate(), capturedErr); err != nil {
		return Sample{}, err
	}

	return Sample{partnerID: partnerID, point: point, capturedAt: capturedAt}, nil
}

func (s Sample) PartnerID() kernel.UUID {
	return s.partnerID
}

func (s Sample) Point() kernel.GeoPoint {
	return s.point
}

func (s Sample) CapturedAt() time.Time {
	return s.capturedAt
}

// IsNewerThan reports whether s was captured strictly after other.
func (s Sample) IsNewerThan(other Sample) bool {
	return s.capturedAt.After(other.capturedAt)
}

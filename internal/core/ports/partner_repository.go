package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
)

// PartnerRepository persists delivery partner profiles.
type PartnerRepository interface {
	// Add inserts a new profile. Returns errs.ConflictError for a duplicate id.
	Add(ctx context.Context, profile *partner.Profile) error

	// Update writes KYC status and availability.
	Update(ctx context.Context, profile *partner.Profile) error

	// Get returns errs.ObjectNotFoundError when the partner does not exist.
	Get(ctx context.Context, id kernel.UUID) (*partner.Profile, error)

	// GetForUpdate reads the profile and locks its row until the transaction
	// ends, serializing balance-changing operations of one partner.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*partner.Profile, error)

	// ListOnlineApproved returns the partners eligible for claimable broadcasts.
	ListOnlineApproved(ctx context.Context) ([]*partner.Profile, error)

	// IncrementDeliveryCount adds one delivered order to the partner's counter.
	IncrementDeliveryCount(ctx context.Context, id kernel.UUID) error

	// SaveLastLocation stores the position unless a newer one is stored already.
	SaveLastLocation(ctx context.Context, id kernel.UUID, point kernel.GeoPoint, capturedAt time.Time) error
}

// KYCVerifier is the KYC collaborator. The dispatch core only ever asks for
// the current verification status of a partner.
type KYCVerifier interface {
	VerificationStatus(ctx context.Context, partnerID kernel.UUID) (partner.KYCStatus, error)
}

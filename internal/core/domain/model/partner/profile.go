package partner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for partner operations.
var (
	// ErrNameIsRequired is returned when registering a partner without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrProfileIsNotConstructed is returned when using an improperly initialized Profile.
	ErrProfileIsNotConstructed = errs.NewValueIsRequiredError("partner profile must be created via NewProfile or RestoreProfile")
	// ErrKYCNotApproved is returned when a partner without approved KYC tries to go online or claim.
	ErrKYCNotApproved = errors.New("partner kyc is not approved")
	// ErrPartnerOffline is returned when an offline partner tries to claim an order.
	ErrPartnerOffline = errors.New("partner is offline")
)

// Profile is a delivery partner as the dispatch engine sees it: identity,
// verification state, availability and the last reported position.
//
// Business rules:
//   - an online partner is always KYC-approved; losing approval forces the partner offline
//   - only online, approved partners may claim orders and receive claimable broadcasts
//   - the delivery count only grows, once per delivered order
//
// Example:
//
//	p, err := partner.NewProfile(kernel.NewUUID(), "Ravi", "+91-98450-00000")
//	if err != nil {
//	    return err
//	}
//	_ = p.ChangeKYCStatus(partner.KYCApproved)
//	_ = p.GoOnline()
type Profile struct {
	id             kernel.UUID
	name           string
	phone          string
	kycStatus      KYCStatus
	online         bool
	lastLocation   *kernel.GeoPoint
	lastLocationAt *time.Time
	deliveryCount  int
	guard          guard.ConstructorGuard
}

// NewProfile registers a partner who has not submitted KYC yet and is offline.
func NewProfile(id kernel.UUID, name, phone string) (*Profile, error) {
	p := &Profile{
		kycStatus: KYCNotSubmitted,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
	); err != nil {
		return nil, err
	}
	p.phone = strings.TrimSpace(phone)

	return p, nil
}

// RestoreProfile rebuilds a profile from storage.
// A row that is online without approval is restored offline.
func RestoreProfile(
	id kernel.UUID,
	name, phone string,
	kycStatus KYCStatus,
	online bool,
	lastLocation *kernel.GeoPoint,
	lastLocationAt *time.Time,
	deliveryCount int,
) (*Profile, error) {
	p := &Profile{
		phone:          phone,
		lastLocation:   lastLocation,
		lastLocationAt: lastLocationAt,
		guard:          guard.NewConstructorGuard(),
	}

	var countErr error
	if deliveryCount < 0 {
		countErr = errs.NewValueIsOutOfRangeError("delivery count", deliveryCount, 0, "unbounded")
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		kycStatus.Validate(),
		countErr,
	); err != nil {
		return nil, err
	}

	p.kycStatus = kycStatus
	p.online = online && kycStatus.IsApproved()
	p.deliveryCount = deliveryCount
	return p, nil
}

func (p *Profile) Validate() error {
	if p == nil {
		return ErrProfileIsNotConstructed
	}
	return p.guard.Validate(ErrProfileIsNotConstructed)
}

// ID returns the partner identifier.
func (p *Profile) ID() kernel.UUID {
	return p.id
}

// Name returns the display name.
func (p *Profile) Name() string {
	return p.name
}

func (p *Profile) Phone() string {
	return p.phone
}

// KYCStatus returns the last verification state recorded on the profile.
func (p *Profile) KYCStatus() KYCStatus {
	return p.kycStatus
}

// IsOnline reports whether the partner is taking orders.
func (p *Profile) IsOnline() bool {
	return p.online
}

// LastLocation returns the last persisted position, or nil if none was reported.
func (p *Profile) LastLocation() *kernel.GeoPoint {
	return p.lastLocation
}

func (p *Profile) LastLocationAt() *time.Time {
	return p.lastLocationAt
}

// DeliveryCount returns the number of delivered orders.
func (p *Profile) DeliveryCount() int {
	return p.deliveryCount
}

// ChangeKYCStatus records a verification outcome. Any status other than
// approved takes the partner offline.
func (p *Profile) ChangeKYCStatus(status KYCStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	p.kycStatus = status
	if !status.IsApproved() {
		p.online = false
	}
	return nil
}

// GoOnline makes the partner available for claims. Requires approved KYC.
func (p *Profile) GoOnline() error {
	if !p.kycStatus.IsApproved() {
		return fmt.Errorf("%w: kyc status is %s", ErrKYCNotApproved, p.kycStatus)
	}
	p.online = true
	return nil
}

// GoOffline stops claimable broadcasts to the partner. Orders already claimed stay assigned.
func (p *Profile) GoOffline() {
	p.online = false
}

// ValidateCanClaim checks the KYC gate and availability against the given
// verification status, which callers read fresh from the KYC collaborator.
func (p *Profile) ValidateCanClaim(verified KYCStatus) error {
	if !verified.IsApproved() {
		return fmt.Errorf("%w: kyc status is %s", ErrKYCNotApproved, verified)
	}
	if !p.online {
		return ErrPartnerOffline
	}
	return nil
}

// UpdateLastLocation stores a reported position if it is newer than the current one.
func (p *Profile) UpdateLastLocation(point kernel.GeoPoint, capturedAt time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}
	if p.lastLocationAt != nil && !capturedAt.After(*p.lastLocationAt) {
		return nil
	}

	p.lastLocation = &point
	p.lastLocationAt = &capturedAt
	return nil
}

// DistanceKm returns the straight-line distance from the last known location to target.
// ok is false when the partner never reported a location.
func (p *Profile) DistanceKm(target kernel.GeoPoint) (distance float64, ok bool, err error) {
	if p.lastLocation == nil {
		return 0, false, nil
	}
	distance, err = p.lastLocation.DistanceKm(target)
	if err != nil {
		return 0, false, err
	}
	return distance, true, nil
}

func (p *Profile) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Profile) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

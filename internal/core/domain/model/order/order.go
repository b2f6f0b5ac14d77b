package order

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errs.NewValueIsRequiredError("order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root of the delivery lifecycle. It owns the status,
// the assigned partner and the lifecycle timestamps the SLA timer reads.
//
// Order follows these invariants:
//   - a partner is assigned exactly when the status is dispatched, out_for_delivery or delivered
//   - delivered and cancelled are terminal
//   - deliveredAt and deliveryDurationMinutes are set together and only once
//
// Status changes go through Transition and Cancel. Claim and unassign are
// performed by the repository as single conditional writes, so the aggregate
// only exposes their preconditions through Status.
type Order struct {
	id              kernel.UUID
	number          string
	customerID      kernel.UUID
	deliveryAddress string
	destination     *kernel.GeoPoint
	total           kernel.Money
	status          Status
	partnerID       *kernel.UUID

	createdAt               time.Time
	acceptedAt              *time.Time
	pickedUpAt              *time.Time
	deliveredAt             *time.Time
	deliveryDurationMinutes *int

	guard guard.ConstructorGuard
}

// NewOrder creates an order in the pending status, the way the checkout
// collaborator hands it over.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), "QC-20261019-4F2A", customerID,
//	    "Flat 4B, 12.9716,77.5946", kernel.Money(54900), clk.Now())
func NewOrder(
	id kernel.UUID,
	number string,
	customerID kernel.UUID,
	deliveryAddress string,
	total kernel.Money,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomerID(customerID),
		o.setDeliveryAddress(deliveryAddress),
		o.setTotal(total),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// State is the full persisted state of an order, used by repositories to rebuild the aggregate.
type State struct {
	ID                      kernel.UUID
	Number                  string
	CustomerID              kernel.UUID
	DeliveryAddress         string
	Destination             *kernel.GeoPoint
	Total                   kernel.Money
	Status                  Status
	PartnerID               *kernel.UUID
	CreatedAt               time.Time
	AcceptedAt              *time.Time
	PickedUpAt              *time.Time
	DeliveredAt             *time.Time
	DeliveryDurationMinutes *int
}

// RestoreOrder rebuilds an order from storage. Rows that break the partner
// invariant are rejected instead of being silently repaired.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		destination:             s.Destination,
		acceptedAt:              s.AcceptedAt,
		pickedUpAt:              s.PickedUpAt,
		deliveredAt:             s.DeliveredAt,
		deliveryDurationMinutes: s.DeliveryDurationMinutes,
		guard:                   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.Number),
		o.setCustomerID(s.CustomerID),
		o.setDeliveryAddress(s.DeliveryAddress),
		o.setTotal(s.Total),
		o.setCreatedAt(s.CreatedAt),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if err := s.Status.ValidateCanHavePartner(s.PartnerID != nil); err != nil {
		return nil, err
	}

	o.status = s.Status
	o.partnerID = s.PartnerID
	return o, nil
}

// Validate returns ErrOrderIsNotConstructed for orders built without a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the human-readable order number.
func (o *Order) Number() string {
	return o.number
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// Destination returns the resolved delivery coordinates, or nil until geocoded.
func (o *Order) Destination() *kernel.GeoPoint {
	return o.destination
}

func (o *Order) Total() kernel.Money {
	return o.total
}

func (o *Order) Status() Status {
	return o.status
}

// Partner returns the assigned delivery partner, or nil.
func (o *Order) Partner() *kernel.UUID {
	return o.partnerID
}

// CreatedAt is the start of the SLA clock.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// AcceptedAt is when the current partner claimed the order.
func (o *Order) AcceptedAt() *time.Time {
	return o.acceptedAt
}

func (o *Order) PickedUpAt() *time.Time {
	return o.pickedUpAt
}

func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// DeliveryDurationMinutes is the frozen SLA clock of a delivered order.
func (o *Order) DeliveryDurationMinutes() *int {
	return o.deliveryDurationMinutes
}

// IsAssignedTo reports whether partnerID is the assigned delivery partner.
func (o *Order) IsAssignedTo(partnerID kernel.UUID) bool {
	return o.partnerID != nil && o.partnerID.IsEqual(partnerID)
}

// Transition moves the order one step forward along the transition table.
//
// actor is the partner driving the change, or nil when the store or an
// operator does. Partner-driven edges (out_for_delivery, delivered) require
// the actor, when given, to be the assigned partner.
//
// Entering out_for_delivery stamps pickedUpAt. Entering delivered stamps
// deliveredAt and freezes the delivery duration, in whole minutes rounded to
// the nearest minute.
func (o *Order) Transition(target Status, actor *kernel.UUID, now time.Time) error {
	if err := o.status.ValidateTransition(target); err != nil {
		return err
	}

	if target == OutForDelivery || target == Delivered {
		if actor != nil && !o.IsAssignedTo(*actor) {
			return fmt.Errorf("%w: %s", ErrNotAssignedPartner, actor)
		}
	}

	switch target { //nolint:exhaustive // only these edges carry timestamps
	case OutForDelivery:
		o.pickedUpAt = &now
	case Delivered:
		minutes := durationMinutes(now.Sub(o.createdAt))
		o.deliveredAt = &now
		o.deliveryDurationMinutes = &minutes
	}

	o.status = target
	return nil
}

// Cancel moves a non-terminal order to cancelled and releases the partner.
// elapsed equal to window is still accepted; anything beyond is refused with
// ErrCancellationWindowClosed.
func (o *Order) Cancel(now time.Time, window time.Duration) error {
	if err := o.status.ValidateCancel(); err != nil {
		return err
	}

	if !o.IsWithinCancellationWindow(now, window) {
		return fmt.Errorf("%w: placed %s ago, window is %s",
			ErrCancellationWindowClosed, now.Sub(o.createdAt).Truncate(time.Second), window)
	}

	o.status = Cancelled
	o.partnerID = nil
	o.acceptedAt = nil
	return nil
}

// IsWithinCancellationWindow reports whether now - createdAt <= window.
func (o *Order) IsWithinCancellationWindow(now time.Time, window time.Duration) bool {
	return now.Sub(o.createdAt) <= window
}

// ResolveDestination caches the geocoded destination. Once set it is kept.
func (o *Order) ResolveDestination(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	if o.destination != nil {
		return nil
	}
	o.destination = &point
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if strings.TrimSpace(number) == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = number
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customer id is invalid", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setDeliveryAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	o.deliveryAddress = address
	return nil
}

func (o *Order) setTotal(total kernel.Money) error {
	if total <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("total is invalid", fmt.Errorf("%s is not greater than 0", total))
	}
	o.total = total
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	o.createdAt = createdAt
	return nil
}

func durationMinutes(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(math.Round(d.Minutes()))
}

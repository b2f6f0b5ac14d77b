package order

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// State transitions:
//
//	pending ──> confirmed ──> ready_for_pickup ──> dispatched ──> out_for_delivery ──> delivered
//	               │                 ▲                  │
//	               │                 └──── unassign ────┤
//	               └──────────── claim ────────────────>┘
//
//	any non-terminal status ──> cancelled (within the cancellation window)
//
// delivered and cancelled are terminal. dispatched is entered only through a
// claim and left backwards only through an unassign.
type Status int

const (
	// Unknown is the zero value and never a valid stored status.
	Unknown Status = iota

	// Pending is the status the checkout collaborator creates orders in.
	Pending

	// Confirmed means the store accepted the order.
	Confirmed

	// ReadyForPickup means the order is packed and claimable by partners.
	ReadyForPickup

	// Dispatched means exactly one partner claimed the order.
	Dispatched

	// OutForDelivery means the partner picked the order up.
	OutForDelivery

	// Delivered is terminal; it closes the SLA clock and credits the partner.
	Delivered

	// Cancelled is terminal; reachable from any non-terminal status within the window.
	Cancelled
)

// Lifecycle errors. They are returned wrapped with the offending statuses,
// so classify them with errors.Is.
var (
	// ErrInvalidTransition means the requested edge is not in the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrStaleTransition means the stored status no longer matches the status the
	// caller read; another actor advanced the order first.
	ErrStaleTransition = errors.New("stale status transition")
	// ErrAlreadyClaimed means another partner won the claim or the order is no longer claimable.
	ErrAlreadyClaimed = errors.New("order already claimed")
	// ErrRejectNotAllowed means the caller is not the assigned partner or pickup already started.
	ErrRejectNotAllowed = errors.New("reject not allowed")
	// ErrCancellationWindowClosed means the cancellation window has passed. Not retryable.
	ErrCancellationWindowClosed = errors.New("cancellation window closed")
	// ErrNotAssignedPartner means a partner tried to advance an order assigned to someone else.
	ErrNotAssignedPartner = errors.New("partner is not assigned to this order")
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		Confirmed:      "confirmed",
		ReadyForPickup: "ready_for_pickup",
		Dispatched:     "dispatched",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Cancelled:      "cancelled",
	}
}

// forwardTransitions lists the edges a plain transition request may take.
// Claim, unassign and cancel have dedicated operations and are checked separately.
func forwardTransitions() map[Status]Status {
	//nolint:exhaustive // terminal statuses have no forward edge
	return map[Status]Status{
		Pending:        Confirmed,
		Confirmed:      ReadyForPickup,
		ReadyForPickup: Dispatched,
		Dispatched:     OutForDelivery,
		OutForDelivery: Delivered,
	}
}

// ParseStatus converts the persisted name back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values, typically read from storage or a request.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted snake_case name, or "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsActiveDelivery reports whether a partner is on the road with the order,
// which is when location samples are accepted.
func (s Status) IsActiveDelivery() bool {
	return s == Dispatched || s == OutForDelivery
}

// ValidateTransition checks a plain transition request against the table.
// It refuses dispatched (claim only), the unassign edge (reject only) and
// cancelled (cancel only) so those paths keep their own guards.
func (s Status) ValidateTransition(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	switch target {
	case Dispatched:
		return fmt.Errorf("%w: %s -> %s is reached only by claiming the order", ErrInvalidTransition, s, target)
	case Cancelled:
		return fmt.Errorf("%w: %s -> %s is reached only by cancelling the order", ErrInvalidTransition, s, target)
	}

	if next, ok := forwardTransitions()[s]; ok && next == target {
		return nil
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, target)
}

// ValidateClaim checks that a partner may claim an order in this status.
func (s Status) ValidateClaim() error {
	if s != ReadyForPickup && s != Confirmed {
		return fmt.Errorf("%w: order is %s", ErrAlreadyClaimed, s)
	}
	return nil
}

// ValidateUnassign checks the single backward edge dispatched -> ready_for_pickup.
func (s Status) ValidateUnassign() error {
	if s != Dispatched {
		return fmt.Errorf("%w: order is %s", ErrRejectNotAllowed, s)
	}
	return nil
}

// ValidateCancel checks that the order has not reached a terminal status.
func (s Status) ValidateCancel() error {
	if s.IsTerminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, Cancelled)
	}
	return nil
}

// ValidateCanHavePartner checks the assignment invariant: a partner is set
// exactly when the status is dispatched, out_for_delivery or delivered.
func (s Status) ValidateCanHavePartner(hasPartner bool) error {
	requiresPartner := s == Dispatched || s == OutForDelivery || s == Delivered

	if hasPartner && !requiresPartner {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a delivery partner", s),
		)
	}

	if !hasPartner && requiresPartner {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no delivery partner", s),
		)
	}

	return nil
}

// ClaimableStatuses returns the statuses a claim may start from.
func ClaimableStatuses() []Status {
	return []Status{ReadyForPickup, Confirmed}
}

// ActiveStatuses returns every non-terminal status.
func ActiveStatuses() []Status {
	return []Status{Pending, Confirmed, ReadyForPickup, Dispatched, OutForDelivery}
}

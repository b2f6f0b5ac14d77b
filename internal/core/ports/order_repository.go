// Package ports defines the contracts between the dispatch core and its
// infrastructure: repositories, the unit of work, and the external
// collaborators (KYC, geocoding, directions, event channel, tracking stores).
package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates and their status history.
//
// Every mutating method is a single conditional write. None of them reads the
// row first and writes it back, so concurrent actors can never both win.
type OrderRepository interface {
	// Add inserts a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get reads an order fresh from storage.
	// Returns errs.ObjectNotFoundError when the id does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateStatus writes the aggregate's status and lifecycle timestamps only if
	// the stored status still equals expected. Returns order.ErrStaleTransition otherwise.
	UpdateStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// Claim assigns partnerID and moves the order to dispatched, provided it is
	// unassigned and ready_for_pickup or confirmed. Returns order.ErrAlreadyClaimed
	// when another partner got there first or the order is not claimable.
	Claim(ctx context.Context, orderID, partnerID kernel.UUID, at time.Time) (*order.Order, error)

	// Unassign clears partnerID and moves the order back to ready_for_pickup,
	// provided partnerID is assigned and the order is still dispatched.
	// Returns order.ErrRejectNotAllowed otherwise.
	Unassign(ctx context.Context, orderID, partnerID kernel.UUID) (*order.Order, error)

	// Cancel writes the cancelled aggregate only if the stored status equals
	// expected and the order was created at or after cutoff.
	// Returns order.ErrStaleTransition when the row was not updated; the caller
	// classifies the refusal.
	Cancel(ctx context.Context, aggregate *order.Order, expected order.Status, cutoff time.Time) error

	// CacheDestination stores resolved coordinates unless some were stored already.
	CacheDestination(ctx context.Context, orderID kernel.UUID, point kernel.GeoPoint) error

	// AppendEvent adds one entry to the status history.
	AppendEvent(ctx context.Context, event order.StatusEvent) error

	// ListEvents returns the status history oldest first.
	ListEvents(ctx context.Context, orderID kernel.UUID) ([]order.StatusEvent, error)

	// ListClaimable returns unassigned ready_for_pickup orders, oldest first.
	ListClaimable(ctx context.Context, limit int) ([]*order.Order, error)

	// ListActive returns every non-terminal order.
	ListActive(ctx context.Context) ([]*order.Order, error)

	// ListInTransitByPartner returns the dispatched and out_for_delivery orders of a partner.
	ListInTransitByPartner(ctx context.Context, partnerID kernel.UUID) ([]*order.Order, error)
}

package order

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// StatusEvent is one entry of an order's append-only status history.
// Every successful transition, claim, unassign and cancel writes exactly one.
type StatusEvent struct {
	id        kernel.UUID
	orderID   kernel.UUID
	status    Status
	partnerID *kernel.UUID
	note      string
	at        time.Time
}

// NewStatusEvent records that orderID entered status at the given time.
// partnerID is the partner involved in the change, if any.
func NewStatusEvent(orderID kernel.UUID, status Status, partnerID *kernel.UUID, note string, at time.Time) (StatusEvent, error) {
	return RestoreStatusEvent(kernel.NewUUID(), orderID, status, partnerID, note, at)
}

// RestoreStatusEvent rebuilds a stored history entry.
func RestoreStatusEvent(
	id, orderID kernel.UUID,
	status Status,
	partnerID *kernel.UUID,
	note string,
	at time.Time,
) (StatusEvent, error) {
	var atErr error
	if at.IsZero() {
		atErr = errs.NewValueIsRequiredError("event time")
	}

	if err := errors.Join(id.Validate(), orderID.Validate(), status.Validate(), atErr); err != nil {
		return StatusEvent{}, err
	}

	return StatusEvent{
		id:        id,
		orderID:   orderID,
		status:    status,
		partnerID: partnerID,
		note:      note,
		at:        at,
	}, nil
}

func (e StatusEvent) ID() kernel.UUID {
	return e.id
}

func (e StatusEvent) OrderID() kernel.UUID {
	return e.orderID
}

func (e StatusEvent) Status() Status {
	return e.status
}

func (e StatusEvent) PartnerID() *kernel.UUID {
	return e.partnerID
}

func (e StatusEvent) Note() string {
	return e.note
}

func (e StatusEvent) At() time.Time {
	return e.at
}

package queries

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// orderColumns is the projection shared by the order read models.
const orderColumns = `
	id,
	number,
	customer_id,
	delivery_address,
	resolved_lat,
	resolved_lng,
	total_minor,
	status,
	delivery_partner_id,
	created_at,
	accepted_at,
	picked_up_at,
	delivered_at,
	delivery_duration_minutes`

type orderRow struct {
	ID                      uuid.UUID
	Number                  string
	CustomerID              uuid.UUID
	DeliveryAddress         string
	ResolvedLat             *float64
	ResolvedLng             *float64
	TotalMinor              int64
	Status                  string
	DeliveryPartnerID       *uuid.UUID
	CreatedAt               time.Time
	AcceptedAt              *time.Time
	PickedUpAt              *time.Time
	DeliveredAt             *time.Time
	DeliveryDurationMinutes *int
}

// restore rebuilds the aggregate so read models can reuse domain rules such as the SLA timer.
func (r orderRow) restore() (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(r.CustomerID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(r.Status)
	if err != nil {
		return nil, err
	}
	partnerID, err := optionalUUID(r.DeliveryPartnerID)
	if err != nil {
		return nil, err
	}
	destination, err := optionalPoint(r.ResolvedLat, r.ResolvedLng)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.State{
		ID:                      id,
		Number:                  r.Number,
		CustomerID:              customerID,
		DeliveryAddress:         r.DeliveryAddress,
		Destination:             destination,
		Total:                   kernel.Money(r.TotalMinor),
		Status:                  status,
		PartnerID:               partnerID,
		CreatedAt:               r.CreatedAt.UTC(),
		AcceptedAt:              utc(r.AcceptedAt),
		PickedUpAt:              utc(r.PickedUpAt),
		DeliveredAt:             utc(r.DeliveredAt),
		DeliveryDurationMinutes: r.DeliveryDurationMinutes,
	})
}

func optionalUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	restored, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &restored, nil
}

func optionalPoint(lat, lng *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lng == nil {
		return nil, nil
	}
	point, err := kernel.NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

// Package orderrepo persists order aggregates and their status history with GORM.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row of the orders table. Status is stored by name so the
// conditional updates read like the lifecycle they guard.
type OrderDTO struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number                  string     `gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerID              uuid.UUID  `gorm:"type:uuid;not null"`
	DeliveryAddress         string     `gorm:"type:text;not null"`
	ResolvedLat             *float64   `gorm:"type:double precision"`
	ResolvedLng             *float64   `gorm:"type:double precision"`
	TotalMinor              int64      `gorm:"not null"`
	Status                  string     `gorm:"type:varchar(32);index;not null"`
	DeliveryPartnerID       *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt               time.Time  `gorm:"not null"`
	AcceptedAt              *time.Time
	PickedUpAt              *time.Time
	DeliveredAt             *time.Time
	DeliveryDurationMinutes *int
}

func (OrderDTO) TableName() string {
	return "orders"
}

// StatusEventDTO is one row of the append-only order history.
type StatusEventDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	Status    string     `gorm:"type:varchar(32);not null"`
	PartnerID *uuid.UUID `gorm:"type:uuid"`
	Note      string     `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time  `gorm:"not null"`
}

func (StatusEventDTO) TableName() string {
	return "order_status_events"
}

func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:                      o.ID().Bytes(),
		Number:                  o.Number(),
		CustomerID:              o.CustomerID().Bytes(),
		DeliveryAddress:         o.DeliveryAddress(),
		TotalMinor:              int64(o.Total()),
		Status:                  o.Status().String(),
		DeliveryPartnerID:       optionalID(o.Partner()),
		CreatedAt:               o.CreatedAt(),
		AcceptedAt:              o.AcceptedAt(),
		PickedUpAt:              o.PickedUpAt(),
		DeliveredAt:             o.DeliveredAt(),
		DeliveryDurationMinutes: o.DeliveryDurationMinutes(),
	}

	if dest := o.Destination(); dest != nil {
		lat, lng := dest.Lat(), dest.Lng()
		dto.ResolvedLat = &lat
		dto.ResolvedLng = &lng
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	partnerID, err := restoreOptionalID(dto.DeliveryPartnerID)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var destination *kernel.GeoPoint
	if dto.ResolvedLat != nil && dto.ResolvedLng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.ResolvedLat, *dto.ResolvedLng)
		if pointErr != nil {
			return nil, pointErr
		}
		destination = &point
	}

	return order.RestoreOrder(order.State{
		ID:                      id,
		Number:                  dto.Number,
		CustomerID:              customerID,
		DeliveryAddress:         dto.DeliveryAddress,
		Destination:             destination,
		Total:                   kernel.Money(dto.TotalMinor),
		Status:                  status,
		PartnerID:               partnerID,
		CreatedAt:               dto.CreatedAt.UTC(),
		AcceptedAt:              utc(dto.AcceptedAt),
		PickedUpAt:              utc(dto.PickedUpAt),
		DeliveredAt:             utc(dto.DeliveredAt),
		DeliveryDurationMinutes: dto.DeliveryDurationMinutes,
	})
}

func eventFromDomain(e order.StatusEvent) StatusEventDTO {
	return StatusEventDTO{
		ID:        e.ID().Bytes(),
		OrderID:   e.OrderID().Bytes(),
		Status:    e.Status().String(),
		PartnerID: optionalID(e.PartnerID()),
		Note:      e.Note(),
		CreatedAt: e.At(),
	}
}

func eventToDomain(dto StatusEventDTO) (order.StatusEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.StatusEvent{}, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.StatusEvent{}, err
	}

	partnerID, err := restoreOptionalID(dto.PartnerID)
	if err != nil {
		return order.StatusEvent{}, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return order.StatusEvent{}, err
	}

	return order.RestoreStatusEvent(id, orderID, status, partnerID, dto.Note, dto.CreatedAt.UTC())
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreOptionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent reference
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

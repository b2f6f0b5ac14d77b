package queries

import (
	"context"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/clock"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads an order straight from the orders table.
type GetOrderQueryHandler struct {
	db    *gorm.DB
	timer services.SLATimer
	clock clock.Clock
}

func NewGetOrderQueryHandler(db *gorm.DB, timer services.SLATimer, clk clock.Clock) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db, timer: timer, clock: clk}
}

// Handle returns errs.ObjectNotFoundError when the order does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Scan(&rows).Error
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if len(rows) == 0 {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order id", query.OrderID())
	}

	o, err := rows[0].restore()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return GetOrderQueryResponse{
		ID:                      o.ID(),
		Number:                  o.Number(),
		CustomerID:              o.CustomerID(),
		DeliveryAddress:         o.DeliveryAddress(),
		Destination:             o.Destination(),
		Total:                   o.Total(),
		Status:                  o.Status(),
		PartnerID:               o.Partner(),
		CreatedAt:               o.CreatedAt(),
		AcceptedAt:              o.AcceptedAt(),
		PickedUpAt:              o.PickedUpAt(),
		DeliveredAt:             o.DeliveredAt(),
		DeliveryDurationMinutes: o.DeliveryDurationMinutes(),
		SLA:                     h.timer.Snapshot(o, h.clock.Now()),
	}, nil
}

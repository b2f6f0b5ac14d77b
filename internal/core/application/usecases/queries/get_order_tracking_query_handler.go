package queries

import (
	"context"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderTrackingQueryHandler struct {
	db        *gorm.DB
	locations ports.LocationStore
	etas      ports.ETACache
}

func NewGetOrderTrackingQueryHandler(
	db *gorm.DB,
	locations ports.LocationStore,
	etas ports.ETACache,
) GetOrderTrackingQueryHandler {
	return GetOrderTrackingQueryHandler{db: db, locations: locations, etas: etas}
}

func (h GetOrderTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackingQuery,
) (GetOrderTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Scan(&rows).Error
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}
	if len(rows) == 0 {
		return GetOrderTrackingQueryResponse{}, errs.NewObjectNotFoundError("order id", query.OrderID())
	}

	o, err := rows[0].restore()
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	response := GetOrderTrackingQueryResponse{
		OrderID:   o.ID(),
		Status:    o.Status(),
		PartnerID: o.Partner(),
	}
	if !o.Status().IsActiveDelivery() || o.Partner() == nil {
		return response, nil
	}

	if sample, ok := h.locations.Latest(*o.Partner()); ok {
		point := sample.Point()
		capturedAt := sample.CapturedAt()
		response.PartnerLocation = &point
		response.LocationCapturedAt = &capturedAt
	}

	if eta, ok := h.etas.Get(o.ID()); ok && eta.PartnerID.IsEqual(*o.Partner()) {
		response.ETA = &eta
	}

	return response, nil
}

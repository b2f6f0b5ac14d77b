package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError for an unknown order, and an empty
// slice for an order that has not changed status yet.
func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) ([]GetOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var exists bool
	err := h.db.WithContext(ctx).Raw(`SELECT EXISTS (SELECT 1 FROM orders WHERE id = ?)`,
		query.OrderID().Bytes()).Scan(&exists).Error
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NewObjectNotFoundError("order id", query.OrderID())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			partner_id,
			note,
			created_at
		FROM order_status_events
		WHERE order_id = ?
		ORDER BY created_at, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]GetOrderHistoryQueryResponse, 0)
	for rows.Next() {
		var (
			id        uuid.UUID
			status    string
			partnerID *uuid.UUID
			note      string
			at        time.Time
		)
		if err = rows.Scan(&id, &status, &partnerID, &note, &at); err != nil {
			return nil, err
		}

		entry := GetOrderHistoryQueryResponse{Note: note, At: at.UTC()}
		if entry.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if entry.Status, err = order.ParseStatus(status); err != nil {
			return nil, err
		}
		if entry.PartnerID, err = optionalUUID(partnerID); err != nil {
			return nil, err
		}
		history = append(history, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}

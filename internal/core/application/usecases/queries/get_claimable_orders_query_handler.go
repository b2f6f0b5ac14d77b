package queries

import (
	"context"

	"dispatch/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type GetClaimableOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetClaimableOrdersQueryHandler(db *gorm.DB) GetClaimableOrdersQueryHandler {
	return GetClaimableOrdersQueryHandler{db: db}
}

// Handle returns unassigned orders in a claimable status. The list is a hint:
// a partner acting on it may still lose the claim to someone else.
func (h GetClaimableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetClaimableOrdersQuery,
) ([]GetClaimableOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statuses := make([]string, 0, len(order.ClaimableStatuses()))
	for _, s := range order.ClaimableStatuses() {
		statuses = append(statuses, s.String())
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE delivery_partner_id IS NULL
			AND status IN ?
		ORDER BY created_at, id
		LIMIT ?
	`, statuses, query.Limit()).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]GetClaimableOrdersQueryResponse, 0, len(rows))
	for _, row := range rows {
		o, err := row.restore()
		if err != nil {
			return nil, err
		}
		result = append(result, GetClaimableOrdersQueryResponse{
			ID:              o.ID(),
			Number:          o.Number(),
			DeliveryAddress: o.DeliveryAddress(),
			Destination:     o.Destination(),
			Total:           o.Total(),
			Status:          o.Status(),
			CreatedAt:       o.CreatedAt(),
		})
	}

	return result, nil
}

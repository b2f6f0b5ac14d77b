package queries

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/clock"

	"gorm.io/gorm"
)

type GetOverdueOrdersQueryHandler struct {
	db    *gorm.DB
	timer services.SLATimer
	clock clock.Clock
}

func NewGetOverdueOrdersQueryHandler(db *gorm.DB, timer services.SLATimer, clk clock.Clock) GetOverdueOrdersQueryHandler {
	return GetOverdueOrdersQueryHandler{db: db, timer: timer, clock: clk}
}

// Handle filters in SQL by creation time and confirms each row with the SLA
// timer, so both agree on what overdue means.
func (h GetOverdueOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOverdueOrdersQuery,
) ([]GetOverdueOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()

	statuses := make([]string, 0, len(order.ActiveStatuses()))
	for _, s := range order.ActiveStatuses() {
		statuses = append(statuses, s.String())
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE status IN ?
			AND created_at < ?
		ORDER BY created_at, id
	`, statuses, now.Add(-h.timer.Budget())).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]GetOverdueOrdersQueryResponse, 0, len(rows))
	for _, row := range rows {
		o, err := row.restore()
		if err != nil {
			return nil, err
		}
		if !h.timer.IsOverdue(o, now) {
			continue
		}

		elapsed := h.timer.Elapsed(o, now)
		result = append(result, GetOverdueOrdersQueryResponse{
			ID:        o.ID(),
			Number:    o.Number(),
			Status:    o.Status(),
			PartnerID: o.Partner(),
			CreatedAt: o.CreatedAt(),
			Elapsed:   elapsed,
			Overrun:   elapsed - h.timer.Budget(),
		})
	}

	return result, nil
}

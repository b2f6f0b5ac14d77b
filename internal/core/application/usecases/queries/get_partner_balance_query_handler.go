package queries

import (
	"context"

	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetPartnerBalanceQueryHandler struct {
	db *gorm.DB
}

func NewGetPartnerBalanceQueryHandler(db *gorm.DB) GetPartnerBalanceQueryHandler {
	return GetPartnerBalanceQueryHandler{db: db}
}

type balanceRow struct {
	DeliveryCount int
	Earned        int64
	Withdrawn     int64
	Pending       int64
}

// Handle returns errs.ObjectNotFoundError when the partner is not registered.
func (h GetPartnerBalanceQueryHandler) Handle(
	ctx context.Context,
	query GetPartnerBalanceQuery,
) (GetPartnerBalanceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetPartnerBalanceQueryResponse{}, err
	}

	var rows []balanceRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			p.delivery_count,
			(SELECT COALESCE(SUM(e.amount_minor), 0)
				FROM delivery_earnings e WHERE e.partner_id = p.id) AS earned,
			(SELECT COALESCE(SUM(w.amount_minor), 0)
				FROM partner_withdrawals w WHERE w.partner_id = p.id AND w.status = ?) AS withdrawn,
			(SELECT COALESCE(SUM(w.amount_minor), 0)
				FROM partner_withdrawals w WHERE w.partner_id = p.id AND w.status = ?) AS pending
		FROM delivery_partners p
		WHERE p.id = ?
	`, earning.WithdrawalCompleted.String(), earning.WithdrawalPending.String(), query.PartnerID().Bytes(),
	).Scan(&rows).Error
	if err != nil {
		return GetPartnerBalanceQueryResponse{}, err
	}
	if len(rows) == 0 {
		return GetPartnerBalanceQueryResponse{}, errs.NewObjectNotFoundError("partner id", query.PartnerID())
	}

	balance := earning.Balance{
		Earned:    kernel.Money(rows[0].Earned),
		Withdrawn: kernel.Money(rows[0].Withdrawn),
		Pending:   kernel.Money(rows[0].Pending),
	}

	return GetPartnerBalanceQueryResponse{
		PartnerID:     query.PartnerID(),
		Earned:        balance.Earned,
		Withdrawn:     balance.Withdrawn,
		Pending:       balance.Pending,
		Available:     balance.Available(),
		DeliveryCount: rows[0].DeliveryCount,
	}, nil
}

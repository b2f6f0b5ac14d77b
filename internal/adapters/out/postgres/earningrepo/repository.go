package earningrepo

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEarningRepository implements ports.EarningRepository using GORM.
type GormEarningRepository struct {
	db *gorm.DB
}

func NewGormEarningRepository(db *gorm.DB) *GormEarningRepository {
	return &GormEarningRepository{db: db}
}

// AddIfAbsent inserts the record unless the order already has one, in which
// case it returns earning.ErrDuplicate and leaves the stored record untouched.
func (r *GormEarningRepository) AddIfAbsent(ctx context.Context, record earning.Record) error {
	dto := recordFromDomain(record)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoNothing: true,
		}).
		Create(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: order %s", earning.ErrDuplicate, record.OrderID())
	}
	return nil
}

func (r *GormEarningRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (earning.Record, error) {
	if err := orderID.Validate(); err != nil {
		return earning.Record{}, err
	}

	var dto EarningDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return earning.Record{}, errs.NewObjectNotFoundError("earning for order", orderID.String())
		}
		return earning.Record{}, err
	}

	return recordToDomain(dto)
}

// ListByPartner returns the partner's earnings, newest first.
func (r *GormEarningRepository) ListByPartner(ctx context.Context, partnerID kernel.UUID) ([]earning.Record, error) {
	if err := partnerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EarningDTO
	if err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID.Bytes()).
		Order("created_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	records := make([]earning.Record, 0, len(dtos))
	for _, dto := range dtos {
		rec, err := recordToDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// Balance sums the ledger for one partner.
func (r *GormEarningRepository) Balance(ctx context.Context, partnerID kernel.UUID) (earning.Balance, error) {
	if err := partnerID.Validate(); err != nil {
		return earning.Balance{}, err
	}

	var earned, withdrawn, pending int64

	if err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(amount_minor), 0)
		FROM delivery_earnings
		WHERE partner_id = ?
	`, partnerID.Bytes()).Row().Scan(&earned); err != nil {
		return earning.Balance{}, err
	}

	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(amount_minor) FILTER (WHERE status = ?), 0),
			COALESCE(SUM(amount_minor) FILTER (WHERE status = ?), 0)
		FROM partner_withdrawals
		WHERE partner_id = ?
	`, earning.WithdrawalCompleted.String(), earning.WithdrawalPending.String(), partnerID.Bytes(),
	).Row().Scan(&withdrawn, &pending); err != nil {
		return earning.Balance{}, err
	}

	return earning.Balance{
		Earned:    kernel.Money(earned),
		Withdrawn: kernel.Money(withdrawn),
		Pending:   kernel.Money(pending),
	}, nil
}

func (r *GormEarningRepository) AddWithdrawal(ctx context.Context, withdrawal earning.Withdrawal) error {
	dto := withdrawalFromDomain(withdrawal)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormEarningRepository) GetWithdrawal(ctx context.Context, id kernel.UUID) (earning.Withdrawal, error) {
	if err := id.Validate(); err != nil {
		return earning.Withdrawal{}, err
	}

	var dto WithdrawalDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return earning.Withdrawal{}, errs.NewObjectNotFoundError("withdrawal", id.String())
		}
		return earning.Withdrawal{}, err
	}

	return withdrawalToDomain(dto)
}

// ResolveWithdrawal stores the outcome only while the stored row is still pending.
func (r *GormEarningRepository) ResolveWithdrawal(ctx context.Context, withdrawal earning.Withdrawal) error {
	dto := withdrawalFromDomain(withdrawal)

	result := r.db.WithContext(ctx).
		Model(&WithdrawalDTO{}).
		Where("id = ? AND status = ?", dto.ID, earning.WithdrawalPending.String()).
		Updates(map[string]any{
			"status":      dto.Status,
			"resolved_at": dto.ResolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: withdrawal %s", earning.ErrWithdrawalAlreadyResolved, withdrawal.ID())
	}
	return nil
}

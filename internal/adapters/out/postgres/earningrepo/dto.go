// Package earningrepo persists the earnings ledger and partner withdrawals with GORM.
package earningrepo

import (
	"time"

	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EarningDTO is one row of delivery_earnings. The unique order_id is what makes
// recording idempotent.
type EarningDTO struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID                 uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	PartnerID               uuid.UUID `gorm:"type:uuid;index;not null"`
	AmountMinor             int64     `gorm:"not null"`
	DeliveryDurationMinutes int       `gorm:"not null"`
	CreatedAt               time.Time `gorm:"not null"`
}

func (EarningDTO) TableName() string {
	return "delivery_earnings"
}

// WithdrawalDTO is one row of partner_withdrawals.
type WithdrawalDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PartnerID   uuid.UUID `gorm:"type:uuid;index;not null"`
	AmountMinor int64     `gorm:"not null"`
	Status      string    `gorm:"type:varchar(32);not null"`
	CreatedAt   time.Time `gorm:"not null"`
	ResolvedAt  *time.Time
}

func (WithdrawalDTO) TableName() string {
	return "partner_withdrawals"
}

func recordFromDomain(r earning.Record) EarningDTO {
	return EarningDTO{
		ID:                      r.ID().Bytes(),
		OrderID:                 r.OrderID().Bytes(),
		PartnerID:               r.PartnerID().Bytes(),
		AmountMinor:             int64(r.Amount()),
		DeliveryDurationMinutes: r.DurationMinutes(),
		CreatedAt:               r.CreatedAt(),
	}
}

func recordToDomain(dto EarningDTO) (earning.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return earning.Record{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return earning.Record{}, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return earning.Record{}, err
	}

	return earning.RestoreRecord(id, orderID, partnerID,
		kernel.Money(dto.AmountMinor), dto.DeliveryDurationMinutes, dto.CreatedAt.UTC())
}

func withdrawalFromDomain(w earning.Withdrawal) WithdrawalDTO {
	return WithdrawalDTO{
		ID:          w.ID().Bytes(),
		PartnerID:   w.PartnerID().Bytes(),
		AmountMinor: int64(w.Amount()),
		Status:      w.Status().String(),
		CreatedAt:   w.CreatedAt(),
		ResolvedAt:  w.ResolvedAt(),
	}
}

func withdrawalToDomain(dto WithdrawalDTO) (earning.Withdrawal, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return earning.Withdrawal{}, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return earning.Withdrawal{}, err
	}
	status, err := earning.ParseWithdrawalStatus(dto.Status)
	if err != nil {
		return earning.Withdrawal{}, err
	}

	var resolvedAt *time.Time
	if dto.ResolvedAt != nil {
		at := dto.ResolvedAt.UTC()
		resolvedAt = &at
	}

	return earning.RestoreWithdrawal(id, partnerID, kernel.Money(dto.AmountMinor), status, dto.CreatedAt.UTC(), resolvedAt)
}

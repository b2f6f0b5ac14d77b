package ports

import (
	"context"

	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/kernel"
)

// EarningRepository persists the earnings ledger.
type EarningRepository interface {
	// AddIfAbsent inserts the record unless one exists for the same order.
	// Returns earning.ErrDuplicate in that case, which callers treat as success.
	AddIfAbsent(ctx context.Context, record earning.Record) error

	// GetByOrder returns errs.ObjectNotFoundError when the order was not credited.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (earning.Record, error)

	// ListByPartner returns the partner's earnings, newest first.
	ListByPartner(ctx context.Context, partnerID kernel.UUID) ([]earning.Record, error)

	// Balance sums earnings, completed withdrawals and pending withdrawals.
	Balance(ctx context.Context, partnerID kernel.UUID) (earning.Balance, error)

	// AddWithdrawal inserts a pending withdrawal.
	AddWithdrawal(ctx context.Context, withdrawal earning.Withdrawal) error

	// GetWithdrawal returns errs.ObjectNotFoundError when the withdrawal does not exist.
	GetWithdrawal(ctx context.Context, id kernel.UUID) (earning.Withdrawal, error)

	// ResolveWithdrawal writes the outcome only if the stored withdrawal is
	// still pending. Returns earning.ErrWithdrawalAlreadyResolved otherwise.
	ResolveWithdrawal(ctx context.Context, withdrawal earning.Withdrawal) error
}

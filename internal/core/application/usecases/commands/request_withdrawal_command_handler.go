package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/clock"
)

// DefaultWithdrawalMinimum is 100.00 in minor units.
const DefaultWithdrawalMinimum = kernel.Money(10000)

// RequestWithdrawalCommandHandler creates pending withdrawals.
//
// The partner row is locked for the duration of the transaction, so two
// concurrent requests of one partner see each other's reservation and cannot
// overdraw the balance together.
type RequestWithdrawalCommandHandler struct {
	uowFactory UoWFactory
	minimum    kernel.Money
	clock      clock.Clock
	logger     *slog.Logger
}

// NewRequestWithdrawalCommandHandler creates a handler with the deployment's minimum withdrawal.
func NewRequestWithdrawalCommandHandler(
	uowFactory UoWFactory,
	minimum kernel.Money,
	clk clock.Clock,
	logger *slog.Logger,
) RequestWithdrawalCommandHandler {
	return RequestWithdrawalCommandHandler{
		uowFactory: uowFactory,
		minimum:    minimum,
		clock:      clk,
		logger:     logger.With("component", "RequestWithdrawalCommandHandler"),
	}
}

// Handle returns the pending withdrawal. It fails with earning.ErrBelowMinimumWithdrawal
// or earning.ErrInsufficientBalance when the request does not fit.
func (h RequestWithdrawalCommandHandler) Handle(ctx context.Context, cmd RequestWithdrawalCommand) (earning.Withdrawal, error) {
	if err := cmd.Validate(); err != nil {
		return earning.Withdrawal{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return earning.Withdrawal{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.PartnerRepository().GetForUpdate(ctx, cmd.PartnerID()); err != nil {
		return earning.Withdrawal{}, err
	}

	ledger := uow.EarningRepository()

	balance, err := ledger.Balance(ctx, cmd.PartnerID())
	if err != nil {
		return earning.Withdrawal{}, err
	}

	withdrawal, err := earning.NewWithdrawal(cmd.PartnerID(), cmd.Amount(), h.minimum, balance, h.clock.Now())
	if err != nil {
		return earning.Withdrawal{}, err
	}

	if err = ledger.AddWithdrawal(ctx, withdrawal); err != nil {
		return earning.Withdrawal{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return earning.Withdrawal{}, err
	}

	h.logger.InfoContext(ctx, "withdrawal requested",
		"partner_id", cmd.PartnerID().String(),
		"withdrawal_id", withdrawal.ID().String(),
		"amount", withdrawal.Amount().String(),
	)
	return withdrawal, nil
}

package commands

import (
	"context"

	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/pkg/clock"
)

// ResolveWithdrawalCommandHandler completes or rejects a pending withdrawal.
// The write is conditional on the stored status still being pending.
type ResolveWithdrawalCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewResolveWithdrawalCommandHandler(uowFactory UoWFactory, clk clock.Clock) ResolveWithdrawalCommandHandler {
	return ResolveWithdrawalCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle returns the resolved withdrawal.
func (h ResolveWithdrawalCommandHandler) Handle(ctx context.Context, cmd ResolveWithdrawalCommand) (earning.Withdrawal, error) {
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

	ledger := uow.EarningRepository()

	withdrawal, err := ledger.GetWithdrawal(ctx, cmd.WithdrawalID())
	if err != nil {
		return earning.Withdrawal{}, err
	}

	if err = withdrawal.Resolve(cmd.Outcome(), h.clock.Now()); err != nil {
		return earning.Withdrawal{}, err
	}

	if err = ledger.ResolveWithdrawal(ctx, withdrawal); err != nil {
		return earning.Withdrawal{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return earning.Withdrawal{}, err
	}

	return withdrawal, nil
}

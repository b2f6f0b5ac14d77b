package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrResolveWithdrawalCommandIsNotConstructed = errors.New(
	"ResolveWithdrawalCommand must be created via NewResolveWithdrawalCommand constructor",
)

// ResolveWithdrawalCommand records the payout outcome of a pending withdrawal.
type ResolveWithdrawalCommand struct {
	withdrawalID kernel.UUID
	outcome      earning.WithdrawalStatus

	guard guard.ConstructorGuard
}

// NewResolveWithdrawalCommand validates the id and a known outcome.
func NewResolveWithdrawalCommand(withdrawalID kernel.UUID, outcome earning.WithdrawalStatus) (ResolveWithdrawalCommand, error) {
	if err := errors.Join(withdrawalID.Validate(), outcome.Validate()); err != nil {
		return ResolveWithdrawalCommand{}, err
	}

	return ResolveWithdrawalCommand{
		withdrawalID: withdrawalID,
		outcome:      outcome,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ResolveWithdrawalCommand) Validate() error {
	return c.guard.Validate(ErrResolveWithdrawalCommandIsNotConstructed)
}

func (c ResolveWithdrawalCommand) WithdrawalID() kernel.UUID {
	return c.withdrawalID
}

func (c ResolveWithdrawalCommand) Outcome() earning.WithdrawalStatus {
	return c.outcome
}

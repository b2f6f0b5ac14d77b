package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRequestWithdrawalCommandIsNotConstructed = errors.New(
	"RequestWithdrawalCommand must be created via NewRequestWithdrawalCommand constructor",
)

// RequestWithdrawalCommand asks to pay out part of a partner's balance.
type RequestWithdrawalCommand struct {
	partnerID kernel.UUID
	amount    kernel.Money

	guard guard.ConstructorGuard
}

// NewRequestWithdrawalCommand validates the partner and a positive amount.
// The minimum and the balance are checked by the handler.
func NewRequestWithdrawalCommand(partnerID kernel.UUID, amount kernel.Money) (RequestWithdrawalCommand, error) {
	var amountErr error
	if amount <= 0 {
		amountErr = errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is not greater than 0", amount))
	}

	if err := errors.Join(partnerID.Validate(), amountErr); err != nil {
		return RequestWithdrawalCommand{}, err
	}

	return RequestWithdrawalCommand{
		partnerID: partnerID,
		amount:    amount,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestWithdrawalCommand) Validate() error {
	return c.guard.Validate(ErrRequestWithdrawalCommandIsNotConstructed)
}

func (c RequestWithdrawalCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c RequestWithdrawalCommand) Amount() kernel.Money {
	return c.amount
}

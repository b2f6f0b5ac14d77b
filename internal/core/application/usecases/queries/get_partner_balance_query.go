package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetPartnerBalanceQueryIsNotConstructed = errors.New(
		"GetPartnerBalanceQuery must be created via NewGetPartnerBalanceQuery constructor",
	)
)

// GetPartnerBalanceQuery reads a partner's ledger totals.
type GetPartnerBalanceQuery struct {
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetPartnerBalanceQuery(partnerID kernel.UUID) (GetPartnerBalanceQuery, error) {
	if err := partnerID.Validate(); err != nil {
		return GetPartnerBalanceQuery{}, err
	}
	return GetPartnerBalanceQuery{partnerID: partnerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPartnerBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetPartnerBalanceQueryIsNotConstructed)
}

func (q GetPartnerBalanceQuery) PartnerID() kernel.UUID {
	return q.partnerID
}

// GetPartnerBalanceQueryResponse carries the ledger totals.
// Available is Earned minus Withdrawn minus Pending.
type GetPartnerBalanceQueryResponse struct {
	PartnerID     kernel.UUID
	Earned        kernel.Money
	Withdrawn     kernel.Money
	Pending       kernel.Money
	Available     kernel.Money
	DeliveryCount int
}

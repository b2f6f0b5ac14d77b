package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/pkg/guard"
)

var ErrChangeKYCStatusCommandIsNotConstructed = errors.New(
	"ChangeKYCStatusCommand must be created via NewChangeKYCStatusCommand constructor",
)

// ChangeKYCStatusCommand records a verification outcome reported by the KYC collaborator.
type ChangeKYCStatusCommand struct {
	partnerID kernel.UUID
	status    partner.KYCStatus

	guard guard.ConstructorGuard
}

func NewChangeKYCStatusCommand(partnerID kernel.UUID, status partner.KYCStatus) (ChangeKYCStatusCommand, error) {
	if err := errors.Join(partnerID.Validate(), status.Validate()); err != nil {
		return ChangeKYCStatusCommand{}, err
	}

	return ChangeKYCStatusCommand{
		partnerID: partnerID,
		status:    status,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeKYCStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeKYCStatusCommandIsNotConstructed)
}

func (c ChangeKYCStatusCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c ChangeKYCStatusCommand) Status() partner.KYCStatus {
	return c.status
}

package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrRegisterPartnerCommandIsNotConstructed = errors.New(
		"RegisterPartnerCommand must be created via NewRegisterPartnerCommand constructor",
	)
	ErrPartnerNameIsRequired = errors.New("partner name is required")
)

// RegisterPartnerCommand onboards a delivery partner. The partner starts
// offline with KYC not submitted.
//
// Example:
//
//	cmd, err := NewRegisterPartnerCommand(kernel.NewUUID(), "Ravi", "+91-98450-00000")
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type RegisterPartnerCommand struct {
	partnerID kernel.UUID
	name      string
	phone     string

	guard guard.ConstructorGuard
}

func NewRegisterPartnerCommand(partnerID kernel.UUID, name, phone string) (RegisterPartnerCommand, error) {
	var nameErr error
	name = strings.TrimSpace(name)
	if name == "" {
		nameErr = ErrPartnerNameIsRequired
	}

	if err := errors.Join(partnerID.Validate(), nameErr); err != nil {
		return RegisterPartnerCommand{}, err
	}

	return RegisterPartnerCommand{
		partnerID: partnerID,
		name:      name,
		phone:     strings.TrimSpace(phone),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterPartnerCommand) Validate() error {
	return c.guard.Validate(ErrRegisterPartnerCommandIsNotConstructed)
}

func (c RegisterPartnerCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c RegisterPartnerCommand) Name() string {
	return c.name
}

func (c RegisterPartnerCommand) Phone() string {
	return c.phone
}

package commands

import (
	"context"

	"dispatch/internal/core/domain/model/partner"
)

// RegisterPartnerCommandHandler persists new partner profiles.
type RegisterPartnerCommandHandler struct {
	uowFactory PartnerUoWFactory
}

func NewRegisterPartnerCommandHandler(uowFactory PartnerUoWFactory) RegisterPartnerCommandHandler {
	return RegisterPartnerCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle creates the profile. A duplicate id surfaces as errs.ConflictError.
func (h RegisterPartnerCommandHandler) Handle(ctx context.Context, cmd RegisterPartnerCommand) (*partner.Profile, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	profile, err := partner.NewProfile(cmd.PartnerID(), cmd.Name(), cmd.Phone())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.PartnerRepository().Add(ctx, profile); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return profile, nil
}

package commands

import (
	"context"

	"dispatch/internal/core/domain/model/partner"
)

// SetPartnerAvailabilityCommandHandler toggles the online flag. Going online
// requires approved KYC and fails with partner.ErrKYCNotApproved otherwise.
type SetPartnerAvailabilityCommandHandler struct {
	uowFactory PartnerUoWFactory
}

func NewSetPartnerAvailabilityCommandHandler(uowFactory PartnerUoWFactory) SetPartnerAvailabilityCommandHandler {
	return SetPartnerAvailabilityCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h SetPartnerAvailabilityCommandHandler) Handle(
	ctx context.Context,
	cmd SetPartnerAvailabilityCommand,
) (*partner.Profile, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	partnerRepo := uow.PartnerRepository()

	// The row lock orders this write after any concurrent KYC change.
	profile, err := partnerRepo.GetForUpdate(ctx, cmd.PartnerID())
	if err != nil {
		return nil, err
	}

	if cmd.Online() {
		if err = profile.GoOnline(); err != nil {
			return nil, err
		}
	} else {
		profile.GoOffline()
	}

	if err = partnerRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return profile, nil
}

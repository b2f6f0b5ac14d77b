package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/partner"
)

// ChangeKYCStatusCommandHandler updates a partner's verification state.
// Any outcome other than approved takes the partner offline in the same write.
type ChangeKYCStatusCommandHandler struct {
	uowFactory PartnerUoWFactory
	logger     *slog.Logger
}

func NewChangeKYCStatusCommandHandler(uowFactory PartnerUoWFactory, logger *slog.Logger) ChangeKYCStatusCommandHandler {
	return ChangeKYCStatusCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "ChangeKYCStatusCommandHandler"),
	}
}

func (h ChangeKYCStatusCommandHandler) Handle(ctx context.Context, cmd ChangeKYCStatusCommand) (*partner.Profile, error) {
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

	// The row lock keeps a concurrent go-online from writing back the old status.
	profile, err := partnerRepo.GetForUpdate(ctx, cmd.PartnerID())
	if err != nil {
		return nil, err
	}

	wasOnline := profile.IsOnline()
	if err = profile.ChangeKYCStatus(cmd.Status()); err != nil {
		return nil, err
	}

	if err = partnerRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if wasOnline && !profile.IsOnline() {
		h.logger.InfoContext(ctx, "partner forced offline by kyc change",
			"partner_id", profile.ID().String(),
			"kyc_status", profile.KYCStatus().String(),
		)
	}
	return profile, nil
}

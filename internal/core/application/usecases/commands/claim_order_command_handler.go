package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
)

// ClaimOrderCommandHandler runs the assignment protocol.
//
// The partner must be KYC-approved, as reported by the KYC collaborator at the
// time of the claim, and online. The claim itself is one conditional write on
// the order row: exactly one of several concurrent claimers succeeds and the
// others get order.ErrAlreadyClaimed. Claims are never retried.
//
// Example:
//
//	handler := NewClaimOrderCommandHandler(uowFactory, kycVerifier, notifier, clock.System{}, logger)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, order.ErrAlreadyClaimed) {
//	    // show "order no longer available"
//	}
type ClaimOrderCommandHandler struct {
	uowFactory UoWFactory
	kyc        ports.KYCVerifier
	notifier   EventNotifier
	clock      clock.Clock
	logger     *slog.Logger
}

// NewClaimOrderCommandHandler creates a handler for claims.
func NewClaimOrderCommandHandler(
	uowFactory UoWFactory,
	kyc ports.KYCVerifier,
	notifier EventNotifier,
	clk clock.Clock,
	logger *slog.Logger,
) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		kyc:        kyc,
		notifier:   notifier,
		clock:      clk,
		logger:     logger.With("component", "ClaimOrderCommandHandler"),
	}
}

// Handle claims the order for the partner and returns it in dispatched status.
func (h ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	verified, err := h.kyc.VerificationStatus(ctx, cmd.PartnerID())
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

	profile, err := uow.PartnerRepository().Get(ctx, cmd.PartnerID())
	if err != nil {
		return nil, err
	}

	if err = profile.ValidateCanClaim(verified); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Claim(ctx, cmd.OrderID(), cmd.PartnerID(), now)
	if err != nil {
		return nil, err
	}

	partnerID := cmd.PartnerID()
	event, err := order.NewStatusEvent(o.ID(), order.Dispatched, &partnerID, "claimed", now)
	if err != nil {
		return nil, err
	}
	if err = orderRepo.AppendEvent(ctx, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order claimed",
		"order_id", o.ID().String(),
		"partner_id", partnerID.String(),
	)
	h.notifier.StatusChanged(ctx, o)
	return o, nil
}

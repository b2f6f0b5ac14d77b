package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/location"
	"dispatch/internal/core/domain/model/partner"

	"github.com/labstack/echo/v4"
)

// RegisterPartner handles POST /api/v1/partners. New partners start offline
// with KYC not submitted.
func (s *Server) RegisterPartner(ctx echo.Context) error {
	var body NewPartner
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	partnerID, err := fromOptionalAPIUUID(body.ID)
	if err != nil {
		return badRequest(ctx, "Invalid partner id: "+err.Error())
	}

	cmd, err := commands.NewRegisterPartnerCommand(partnerID, body.Name, body.Phone)
	if err != nil {
		return badRequest(ctx, "Invalid partner data: "+err.Error())
	}

	p, err := s.handlers.RegisterPartner.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err, "Failed to register partner")
	}

	return ctx.JSON(http.StatusCreated, toPartner(p))
}

// ChangeKYCStatus handles PUT /api/v1/partners/:partner_id/kyc.
func (s *Server) ChangeKYCStatus(ctx echo.Context) error {
	partnerID, err := pathUUID(ctx, "partner_id")
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var body KYCRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	status, err := partner.ParseKYCStatus(body.Status)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewChangeKYCStatusCommand(partnerID, status)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	p, err := s.handlers.ChangeKYCStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err, "Failed to change kyc status")
	}

	return ctx.JSON(http.StatusOK, toPartner(p))
}

// SetAvailability handles PUT /api/v1/partners/:partner_id/online.
func (s *Server) SetAvailability(ctx echo.Context) error {
	partnerID, err := pathUUID(ctx, "partner_id")
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var body AvailabilityRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSetPartnerAvailabilityCommand(partnerID, body.Online)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	p, err := s.handlers.SetAvailability.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err, "Failed to change availability")
	}

	return ctx.JSON(http.StatusOK, toPartner(p))
}

// ReportLocation handles POST /api/v1/partners/:partner_id/locations.
// The sample is accepted with 202; the ETA follows asynchronously.
func (s *Server) ReportLocation(ctx echo.Context) error {
	partnerID, err := pathUUID(ctx, "partner_id")
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var body LocationReport
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	point, err := kernel.NewGeoPoint(body.Lat, body.Lng)
	if err != nil {
		return badRequest(ctx, "Invalid location: "+err.Error())
	}

	capturedAt := s.clock.Now()
	if body.CapturedAt != nil {
		capturedAt = body.CapturedAt.UTC()
	}

	sample, err := location.NewSample(partnerID, point, capturedAt)
	if err != nil {
		return badRequest(ctx, "Invalid location: "+err.Error())
	}

	if err := s.handlers.Locations.Ingest(ctx.Request().Context(), sample); err != nil {
		return s.respondError(ctx, err, "Failed to ingest location")
	}

	return ctx.NoContent(http.StatusAccepted)
}

// GetPartnerBalance handles GET /api/v1/partners/:partner_id/balance.
func (s *Server) GetPartnerBalance(ctx echo.Context) error {
	partnerID, err := pathUUID(ctx, "partner_id")
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetPartnerBalanceQuery(partnerID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	b, err := s.handlers.GetPartnerBalance.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err, "Failed to retrieve balance")
	}

	return ctx.JSON(http.StatusOK, Balance{
		PartnerID:     toAPIUUID(b.PartnerID),
		Earned:        int64(b.Earned),
		Withdrawn:     int64(b.Withdrawn),
		Pending:       int64(b.Pending),
		Available:     int64(b.Available),
		DeliveryCount: b.DeliveryCount,
	})
}

// RequestWithdrawal handles POST /api/v1/partners/:partner_id/withdrawals.
func (s *Server) RequestWithdrawal(ctx echo.Context) error {
	partnerID, err := pathUUID(ctx, "partner_id")
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var body WithdrawalRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRequestWithdrawalCommand(partnerID, kernel.Money(body.Amount))
	if err != nil {
		return badRequest(ctx, "Invalid withdrawal: "+err.Error())
	}

	w, err := s.handlers.RequestWithdrawal.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err, "Failed to request withdrawal")
	}

	return ctx.JSON(http.StatusCreated, toWithdrawal(w))
}

// ResolveWithdrawal handles POST /api/v1/withdrawals/:withdrawal_id/resolve.
func (s *Server) ResolveWithdrawal(ctx echo.Context) error {
	withdrawalID, err := pathUUID(ctx, "withdrawal_id")
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var body ResolveWithdrawalRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	outcome, err := earning.ParseWithdrawalStatus(body.Outcome)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewResolveWithdrawalCommand(withdrawalID, outcome)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	w, err := s.handlers.ResolveWithdrawal.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err, "Failed to resolve withdrawal")
	}

	return ctx.JSON(http.StatusOK, toWithdrawal(w))
}

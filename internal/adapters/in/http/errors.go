package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/tracking"
	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusRule maps one error class to a response code. Rules are checked in
// order, so domain sentinels come before the generic errs classes.
type statusRule struct {
	target error
	code   int
}

var statusRules = []statusRule{
	{order.ErrInvalidTransition, http.StatusUnprocessableEntity},
	{order.ErrRejectNotAllowed, http.StatusUnprocessableEntity},
	{partner.ErrKYCNotApproved, http.StatusUnprocessableEntity},
	{partner.ErrPartnerOffline, http.StatusUnprocessableEntity},
	{earning.ErrBelowMinimumWithdrawal, http.StatusUnprocessableEntity},
	{earning.ErrInsufficientBalance, http.StatusUnprocessableEntity},
	{earning.ErrOrderNotDelivered, http.StatusUnprocessableEntity},
	{order.ErrNotAssignedPartner, http.StatusForbidden},
	{order.ErrStaleTransition, http.StatusConflict},
	{order.ErrAlreadyClaimed, http.StatusConflict},
	{order.ErrCancellationWindowClosed, http.StatusConflict},
	{earning.ErrWithdrawalAlreadyResolved, http.StatusConflict},
	{earning.ErrDuplicate, http.StatusConflict},
	{tracking.ErrNoActiveDelivery, http.StatusConflict},
	{ports.ErrGeoLookupFailed, http.StatusBadGateway},
	{errs.ErrObjectNotFound, http.StatusNotFound},
	{errs.ErrConflict, http.StatusConflict},
	{errs.ErrValueIsInvalid, http.StatusBadRequest},
	{errs.ErrValueIsOutOfRange, http.StatusBadRequest},
	{errs.ErrValueIsRequired, http.StatusBadRequest},
}

func statusFor(err error) int {
	for _, rule := range statusRules {
		if errors.Is(err, rule.target) {
			return rule.code
		}
	}
	return http.StatusInternalServerError
}

// respondError writes the error body. Internal failures are logged and
// reported with a generic message.
func (s *Server) respondError(ctx echo.Context, err error, fallback string) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), fallback,
			"error", err, "method", ctx.Request().Method, "path", ctx.Path())
		return ctx.JSON(code, Error{Code: code, Message: fallback})
	}
	return ctx.JSON(code, Error{Code: code, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

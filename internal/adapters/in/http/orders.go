package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders. The order starts pending.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := fromOptionalAPIUUID(body.ID)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}
	customerID, err := fromAPIUUID(body.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer id: "+err.Error())
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, customerID, body.DeliveryAddress, kernel.Money(body.Total))
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	number, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, CreatedOrder{ID: toAPIUUID(orderID), Number: number})
}

// GetOrder handles GET /api/v1/orders/:order_id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "order_id")
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err, "Failed to retrieve order")
	}

	return ctx.JSON(http.StatusOK, toOrder(result))
}

// GetOrderHistory handles GET /api/v1/orders/:order_id/history, oldest first.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "order_id")
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetOrderHistoryQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	events, err := s.handlers.GetOrderHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err, "Failed to retrieve order history")
	}

	response := make([]StatusEvent, len(events))
	for i, e := range events {
		response[i] = StatusEvent{
			ID:        toAPIUUID(e.ID),
			Status:    e.Status.String(),
			PartnerID: toOptionalAPIUUID(e.PartnerID),
			Note:      e.Note,
			At:        e.At,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrderTracking handles GET /api/v1/orders/:order_id/tracking.
func (s *Server) GetOrderTracking(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "order_id")
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetOrderTrackingQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.handlers.GetOrderTracking.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err, "Failed to retrieve tracking")
	}

	return ctx.JSON(http.StatusOK, Tracking{
		OrderID:            toAPIUUID(result.OrderID),
		Status:             result.Status.String(),
		PartnerID:          toOptionalAPIUUID(result.PartnerID),
		PartnerLocation:    toPoint(result.PartnerLocation),
		LocationCapturedAt: result.LocationCapturedAt,
		ETA:                toETA(result.ETA),
	})
}

// GetClaimableOrders handles GET /api/v1/orders/claimable?limit=N.
func (s *Server) GetClaimableOrders(ctx echo.Context) error {
	limit, err := queryInt(ctx, "limit")
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	query, err := queries.NewGetClaimableOrdersQuery(limit)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	orders, err := s.handlers.GetClaimableOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err, "Failed to retrieve claimable orders")
	}

	response := make([]ClaimableOrder, len(orders))
	for i, o := range orders {
		response[i] = ClaimableOrder{
			ID:              toAPIUUID(o.ID),
			Number:          o.Number,
			Status:          o.Status.String(),
			DeliveryAddress: o.DeliveryAddress,
			Destination:     toPoint(o.Destination),
			Total:           int64(o.Total),
			CreatedAt:       o.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOverdueOrders handles GET /api/v1/orders/overdue.
func (s *Server) GetOverdueOrders(ctx echo.Context) error {
	orders, err := s.handlers.GetOverdueOrders.Handle(ctx.Request().Context(), queries.NewGetOverdueOrdersQuery())
	if err != nil {
		return s.respondError(ctx, err, "Failed to retrieve overdue orders")
	}

	response := make([]OverdueOrder, len(orders))
	for i, o := range orders {
		response[i] = OverdueOrder{
			ID:             toAPIUUID(o.ID),
			Number:         o.Number,
			Status:         o.Status.String(),
			PartnerID:      toOptionalAPIUUID(o.PartnerID),
			CreatedAt:      o.CreatedAt,
			ElapsedSeconds: seconds(o.Elapsed),
			OverrunSeconds: seconds(o.Overrun),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// TransitionOrder handles POST /api/v1/orders/:order_id/transitions.
// partner_id is required for the partner-driven steps.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "order_id")
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var body TransitionRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := order.ParseStatus(body.Status)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var actor *kernel.UUID
	if body.PartnerID != nil {
		id, err := fromAPIUUID(*body.PartnerID)
		if err != nil {
			return badRequest(ctx, "Invalid partner id: "+err.Error())
		}
		actor = &id
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, actor, body.Note)
	if err != nil {
		return badRequest(ctx, "Invalid transition: "+err.Error())
	}

	o, err := s.handlers.TransitionOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err, "Failed to transition order")
	}

	return ctx.JSON(http.StatusOK, toOrderState(o))
}

// ClaimOrder handles POST /api/v1/orders/:order_id/claim. Of two partners
// racing for one order exactly one gets 200; the other gets 409.
func (s *Server) ClaimOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "order_id")
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var body ClaimRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	partnerID, err := fromAPIUUID(body.PartnerID)
	if err != nil {
		return badRequest(ctx, "Invalid partner id: "+err.Error())
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, partnerID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	o, err := s.handlers.ClaimOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err, "Failed to claim order")
	}

	return ctx.JSON(http.StatusOK, toOrderState(o))
}

// RejectOrder handles POST /api/v1/orders/:order_id/reject.
func (s *Server) RejectOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "order_id")
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var body RejectRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	partnerID, err := fromAPIUUID(body.PartnerID)
	if err != nil {
		return badRequest(ctx, "Invalid partner id: "+err.Error())
	}

	cmd, err := commands.NewRejectOrderCommand(orderID, partnerID, body.Reason)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	o, err := s.handlers.RejectOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err, "Failed to reject order")
	}

	return ctx.JSON(http.StatusOK, toOrderState(o))
}

// CancelOrder handles POST /api/v1/orders/:order_id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "order_id")
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var body CancelRequest
	if ctx.Request().ContentLength != 0 {
		if err := ctx.Bind(&body); err != nil {
			return badRequest(ctx, "Invalid request body")
		}
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, body.Reason)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	o, err := s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err, "Failed to cancel order")
	}

	return ctx.JSON(http.StatusOK, toOrderState(o))
}

// RecordEarning handles POST /api/v1/earnings. It credits a delivered order
// outside the delivered transition, for reconciliation, using the stored total.
// A repeated call for the same order answers 200 with the existing earning.
func (s *Server) RecordEarning(ctx echo.Context) error {
	var body NewEarning
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := fromAPIUUID(body.OrderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}
	partnerID, err := fromAPIUUID(body.PartnerID)
	if err != nil {
		return badRequest(ctx, "Invalid partner id: "+err.Error())
	}

	cmd, err := commands.NewRecordEarningCommand(orderID, partnerID)
	if err != nil {
		return badRequest(ctx, "Invalid earning data: "+err.Error())
	}

	record, created, err := s.handlers.RecordEarning.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err, "Failed to record earning")
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return ctx.JSON(code, toEarning(record))
}

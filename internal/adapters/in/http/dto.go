package http

import (
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/location"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/domain/services"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Money amounts are integer minor units throughout the API.

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type NewOrder struct {
	ID              *openapi_types.UUID `json:"id,omitempty"`
	CustomerID      openapi_types.UUID  `json:"customer_id"`
	DeliveryAddress string              `json:"delivery_address"`
	Total           int64               `json:"total"`
}

type CreatedOrder struct {
	ID     openapi_types.UUID `json:"id"`
	Number string             `json:"number"`
}

type TransitionRequest struct {
	Status    string              `json:"status"`
	PartnerID *openapi_types.UUID `json:"partner_id,omitempty"`
	Note      string              `json:"note,omitempty"`
}

type ClaimRequest struct {
	PartnerID openapi_types.UUID `json:"partner_id"`
}

type RejectRequest struct {
	PartnerID openapi_types.UUID `json:"partner_id"`
	Reason    string             `json:"reason,omitempty"`
}

type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// OrderState is returned by every order mutation.
type OrderState struct {
	ID                      openapi_types.UUID  `json:"id"`
	Number                  string              `json:"number"`
	Status                  string              `json:"status"`
	PartnerID               *openapi_types.UUID `json:"partner_id,omitempty"`
	AcceptedAt              *time.Time          `json:"accepted_at,omitempty"`
	PickedUpAt              *time.Time          `json:"picked_up_at,omitempty"`
	DeliveredAt             *time.Time          `json:"delivered_at,omitempty"`
	DeliveryDurationMinutes *int                `json:"delivery_duration_minutes,omitempty"`
}

type SLA struct {
	BudgetSeconds           int64 `json:"budget_seconds"`
	ElapsedSeconds          int64 `json:"elapsed_seconds"`
	RemainingSeconds        int64 `json:"remaining_seconds"`
	Overdue                 bool  `json:"overdue"`
	Frozen                  bool  `json:"frozen"`
	PartnerElapsedSeconds   int64 `json:"partner_elapsed_seconds"`
	PartnerRemainingSeconds int64 `json:"partner_remaining_seconds"`
}

type Order struct {
	OrderState
	CustomerID      openapi_types.UUID `json:"customer_id"`
	DeliveryAddress string             `json:"delivery_address"`
	Destination     *Point             `json:"destination,omitempty"`
	Total           int64              `json:"total"`
	CreatedAt       time.Time          `json:"created_at"`
	SLA             SLA                `json:"sla"`
}

type ClaimableOrder struct {
	ID              openapi_types.UUID `json:"id"`
	Number          string             `json:"number"`
	Status          string             `json:"status"`
	DeliveryAddress string             `json:"delivery_address"`
	Destination     *Point             `json:"destination,omitempty"`
	Total           int64              `json:"total"`
	CreatedAt       time.Time          `json:"created_at"`
}

type OverdueOrder struct {
	ID             openapi_types.UUID  `json:"id"`
	Number         string              `json:"number"`
	Status         string              `json:"status"`
	PartnerID      *openapi_types.UUID `json:"partner_id,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	ElapsedSeconds int64               `json:"elapsed_seconds"`
	OverrunSeconds int64               `json:"overrun_seconds"`
}

type StatusEvent struct {
	ID        openapi_types.UUID  `json:"id"`
	Status    string              `json:"status"`
	PartnerID *openapi_types.UUID `json:"partner_id,omitempty"`
	Note      string              `json:"note,omitempty"`
	At        time.Time           `json:"at"`
}

type ETA struct {
	PartnerID       openapi_types.UUID `json:"partner_id"`
	DistanceKm      float64            `json:"distance_km"`
	DurationSeconds int64              `json:"duration_seconds"`
	Source          string             `json:"source"`
	ComputedAt      time.Time          `json:"computed_at"`
	ArrivalAt       time.Time          `json:"arrival_at"`
}

type Tracking struct {
	OrderID            openapi_types.UUID  `json:"order_id"`
	Status             string              `json:"status"`
	PartnerID          *openapi_types.UUID `json:"partner_id,omitempty"`
	PartnerLocation    *Point              `json:"partner_location,omitempty"`
	LocationCapturedAt *time.Time          `json:"location_captured_at,omitempty"`
	ETA                *ETA                `json:"eta,omitempty"`
}

type NewEarning struct {
	OrderID   openapi_types.UUID `json:"order_id"`
	PartnerID openapi_types.UUID `json:"partner_id"`
}

type Earning struct {
	ID                      openapi_types.UUID `json:"id"`
	OrderID                 openapi_types.UUID `json:"order_id"`
	PartnerID               openapi_types.UUID `json:"partner_id"`
	Amount                  int64              `json:"amount"`
	DeliveryDurationMinutes int                `json:"delivery_duration_minutes"`
	CreatedAt               time.Time          `json:"created_at"`
}

type NewPartner struct {
	ID    *openapi_types.UUID `json:"id,omitempty"`
	Name  string              `json:"name"`
	Phone string              `json:"phone"`
}

type KYCRequest struct {
	Status string `json:"status"`
}

type AvailabilityRequest struct {
	Online bool `json:"online"`
}

type Partner struct {
	ID             openapi_types.UUID `json:"id"`
	Name           string             `json:"name"`
	Phone          string             `json:"phone"`
	KYCStatus      string             `json:"kyc_status"`
	Online         bool               `json:"online"`
	LastLocation   *Point             `json:"last_location,omitempty"`
	LastLocationAt *time.Time         `json:"last_location_at,omitempty"`
	DeliveryCount  int                `json:"delivery_count"`
}

type LocationReport struct {
	Lat        float64    `json:"lat"`
	Lng        float64    `json:"lng"`
	CapturedAt *time.Time `json:"captured_at,omitempty"`
}

type Balance struct {
	PartnerID     openapi_types.UUID `json:"partner_id"`
	Earned        int64              `json:"earned"`
	Withdrawn     int64              `json:"withdrawn"`
	Pending       int64              `json:"pending"`
	Available     int64              `json:"available"`
	DeliveryCount int                `json:"delivery_count"`
}

type WithdrawalRequest struct {
	Amount int64 `json:"amount"`
}

type ResolveWithdrawalRequest struct {
	Outcome string `json:"outcome"`
}

type Withdrawal struct {
	ID         openapi_types.UUID `json:"id"`
	PartnerID  openapi_types.UUID `json:"partner_id"`
	Amount     int64              `json:"amount"`
	Status     string             `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	ResolvedAt *time.Time         `json:"resolved_at,omitempty"`
}

func toAPIUUID(id kernel.UUID) openapi_types.UUID {
	return id.Bytes()
}

func toOptionalAPIUUID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	v := toAPIUUID(*id)
	return &v
}

func fromAPIUUID(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

// fromOptionalAPIUUID returns a fresh identifier when the client sent none.
func fromOptionalAPIUUID(id *openapi_types.UUID) (kernel.UUID, error) {
	if id == nil {
		return kernel.NewUUID(), nil
	}
	return fromAPIUUID(*id)
}

func toPoint(p *kernel.GeoPoint) *Point {
	if p == nil {
		return nil
	}
	return &Point{Lat: p.Lat(), Lng: p.Lng()}
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

func toOrderState(o *order.Order) OrderState {
	return OrderState{
		ID:                      toAPIUUID(o.ID()),
		Number:                  o.Number(),
		Status:                  o.Status().String(),
		PartnerID:               toOptionalAPIUUID(o.Partner()),
		AcceptedAt:              o.AcceptedAt(),
		PickedUpAt:              o.PickedUpAt(),
		DeliveredAt:             o.DeliveredAt(),
		DeliveryDurationMinutes: o.DeliveryDurationMinutes(),
	}
}

func toSLA(s services.SLASnapshot) SLA {
	return SLA{
		BudgetSeconds:           seconds(s.Budget),
		ElapsedSeconds:          seconds(s.Elapsed),
		RemainingSeconds:        seconds(s.Remaining),
		Overdue:                 s.Overdue,
		Frozen:                  s.Frozen,
		PartnerElapsedSeconds:   seconds(s.PartnerElapsed),
		PartnerRemainingSeconds: seconds(s.PartnerRemaining),
	}
}

func toOrder(r queries.GetOrderQueryResponse) Order {
	return Order{
		OrderState: OrderState{
			ID:                      toAPIUUID(r.ID),
			Number:                  r.Number,
			Status:                  r.Status.String(),
			PartnerID:               toOptionalAPIUUID(r.PartnerID),
			AcceptedAt:              r.AcceptedAt,
			PickedUpAt:              r.PickedUpAt,
			DeliveredAt:             r.DeliveredAt,
			DeliveryDurationMinutes: r.DeliveryDurationMinutes,
		},
		CustomerID:      toAPIUUID(r.CustomerID),
		DeliveryAddress: r.DeliveryAddress,
		Destination:     toPoint(r.Destination),
		Total:           int64(r.Total),
		CreatedAt:       r.CreatedAt,
		SLA:             toSLA(r.SLA),
	}
}

func toETA(e *location.ETA) *ETA {
	if e == nil {
		return nil
	}
	return &ETA{
		PartnerID:       toAPIUUID(e.PartnerID),
		DistanceKm:      e.DistanceKm,
		DurationSeconds: seconds(e.Duration),
		Source:          string(e.Source),
		ComputedAt:      e.ComputedAt,
		ArrivalAt:       e.ArrivalAt(),
	}
}

func toPartner(p *partner.Profile) Partner {
	return Partner{
		ID:             toAPIUUID(p.ID()),
		Name:           p.Name(),
		Phone:          p.Phone(),
		KYCStatus:      p.KYCStatus().String(),
		Online:         p.IsOnline(),
		LastLocation:   toPoint(p.LastLocation()),
		LastLocationAt: p.LastLocationAt(),
		DeliveryCount:  p.DeliveryCount(),
	}
}

func toWithdrawal(w earning.Withdrawal) Withdrawal {
	return Withdrawal{
		ID:         toAPIUUID(w.ID()),
		PartnerID:  toAPIUUID(w.PartnerID()),
		Amount:     int64(w.Amount()),
		Status:     w.Status().String(),
		CreatedAt:  w.CreatedAt(),
		ResolvedAt: w.ResolvedAt(),
	}
}

func toEarning(r earning.Record) Earning {
	return Earning{
		ID:                      toAPIUUID(r.ID()),
		OrderID:                 toAPIUUID(r.OrderID()),
		PartnerID:               toAPIUUID(r.PartnerID()),
		Amount:                  int64(r.Amount()),
		DeliveryDurationMinutes: r.DurationMinutes(),
		CreatedAt:               r.CreatedAt(),
	}
}

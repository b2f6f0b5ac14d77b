package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	DefaultClaimableLimit = 50
	MaxClaimableLimit     = 200
)

var (
	ErrGetClaimableOrdersQueryIsNotConstructed = errors.New(
		"GetClaimableOrdersQuery must be created via NewGetClaimableOrdersQuery constructor",
	)
)

// GetClaimableOrdersQuery lists unassigned orders a partner may claim, oldest first.
// A limit of zero means DefaultClaimableLimit.
type GetClaimableOrdersQuery struct {
	limit int

	guard guard.ConstructorGuard
}

func NewGetClaimableOrdersQuery(limit int) (GetClaimableOrdersQuery, error) {
	if limit == 0 {
		limit = DefaultClaimableLimit
	}
	if limit < 1 || limit > MaxClaimableLimit {
		return GetClaimableOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxClaimableLimit)
	}
	return GetClaimableOrdersQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetClaimableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetClaimableOrdersQueryIsNotConstructed)
}

func (q GetClaimableOrdersQuery) Limit() int {
	return q.limit
}

type GetClaimableOrdersQueryResponse struct {
	ID              kernel.UUID
	Number          string
	DeliveryAddress string
	Destination     *kernel.GeoPoint
	Total           kernel.Money
	Status          order.Status
	CreatedAt       time.Time
}

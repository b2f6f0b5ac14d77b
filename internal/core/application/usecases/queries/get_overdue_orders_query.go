package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetOverdueOrdersQueryIsNotConstructed = errors.New(
		"GetOverdueOrdersQuery must be created via NewGetOverdueOrdersQuery constructor",
	)
)

// GetOverdueOrdersQuery lists active orders past the SLA budget, most late first.
type GetOverdueOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetOverdueOrdersQuery() GetOverdueOrdersQuery {
	return GetOverdueOrdersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetOverdueOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOverdueOrdersQueryIsNotConstructed)
}

type GetOverdueOrdersQueryResponse struct {
	ID        kernel.UUID
	Number    string
	Status    order.Status
	PartnerID *kernel.UUID
	CreatedAt time.Time
	Elapsed   time.Duration
	Overrun   time.Duration
}

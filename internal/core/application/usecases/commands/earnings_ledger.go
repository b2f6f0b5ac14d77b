package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

// ledgerRepos is the part of a unit of work crediting a delivery needs.
type ledgerRepos interface {
	PartnerRepoFactory
	EarningRepoFactory
}

// creditDelivery records the partner's earning for a delivered order and
// counts the delivery, inside the caller's transaction. An order that was
// credited before is left alone: the stored record is returned with created=false.
func creditDelivery(
	ctx context.Context,
	repos ledgerRepos,
	policy services.CommissionPolicy,
	orderID, partnerID kernel.UUID,
	total kernel.Money,
	durationMinutes int,
	now time.Time,
) (record earning.Record, created bool, err error) {
	amount, err := policy.EarningFor(total)
	if err != nil {
		return earning.Record{}, false, err
	}

	record, err = earning.NewRecord(orderID, partnerID, amount, durationMinutes, now)
	if err != nil {
		return earning.Record{}, false, err
	}

	err = repos.EarningRepository().AddIfAbsent(ctx, record)
	if errors.Is(err, earning.ErrDuplicate) {
		stored, getErr := repos.EarningRepository().GetByOrder(ctx, orderID)
		if getErr != nil {
			return earning.Record{}, false, getErr
		}
		return stored, false, nil
	}
	if err != nil {
		return earning.Record{}, false, err
	}

	if err = repos.PartnerRepository().IncrementDeliveryCount(ctx, partnerID); err != nil {
		return earning.Record{}, false, err
	}

	return record, true, nil
}

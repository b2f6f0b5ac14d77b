package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/adapters/out/postgres/pgerr"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
// Every state change is a single conditional UPDATE; the WHERE clause is the
// guard and RowsAffected tells whether this writer won.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new order. A duplicate id or number is reported as errs.ConflictError.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewConflictErrorWithCause("order", aggregate.ID().String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateStatus writes the aggregate's status and lifecycle timestamps only if
// the stored status still equals expected.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, expected.String()).
		Updates(map[string]any{
			"status":                    dto.Status,
			"delivery_partner_id":       dto.DeliveryPartnerID,
			"accepted_at":               dto.AcceptedAt,
			"picked_up_at":              dto.PickedUpAt,
			"delivered_at":              dto.DeliveredAt,
			"delivery_duration_minutes": dto.DeliveryDurationMinutes,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: order %s is no longer %s", order.ErrStaleTransition, aggregate.ID(), expected)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Claim assigns the order to partnerID if nobody holds it and it is claimable.
// Of several concurrent callers exactly one sees a matched row.
func (r *GormOrderRepository) Claim(ctx context.Context, orderID, partnerID kernel.UUID, at time.Time) (*order.Order, error) {
	if err := errors.Join(orderID.Validate(), partnerID.Validate()); err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND delivery_partner_id IS NULL AND status IN ?", orderID.Bytes(), statusNames(order.ClaimableStatuses())).
		Updates(map[string]any{
			"delivery_partner_id": partnerID.Bytes(),
			"status":              order.Dispatched.String(),
			"accepted_at":         at,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	current, err := r.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected == 0 {
		if claimErr := current.Status().ValidateClaim(); claimErr != nil {
			return nil, claimErr
		}
		return nil, fmt.Errorf("%w: order %s", order.ErrAlreadyClaimed, orderID)
	}

	r.tracker.TrackAggregate(current.ID(), current)
	return current, nil
}

// Unassign returns a dispatched order held by partnerID to ready_for_pickup.
func (r *GormOrderRepository) Unassign(ctx context.Context, orderID, partnerID kernel.UUID) (*order.Order, error) {
	if err := errors.Join(orderID.Validate(), partnerID.Validate()); err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND delivery_partner_id = ? AND status = ?",
			orderID.Bytes(), partnerID.Bytes(), order.Dispatched.String()).
		Updates(map[string]any{
			"delivery_partner_id": nil,
			"status":              order.ReadyForPickup.String(),
			"accepted_at":         nil,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	current, err := r.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: order %s is %s", order.ErrRejectNotAllowed, orderID, current.Status())
	}

	r.tracker.TrackAggregate(current.ID(), current)
	return current, nil
}

// Cancel stores the cancelled aggregate if the status is still expected and the
// order was created at or after cutoff.
func (r *GormOrderRepository) Cancel(ctx context.Context, aggregate *order.Order, expected order.Status, cutoff time.Time) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND created_at >= ?", aggregate.ID().Bytes(), expected.String(), cutoff).
		Updates(map[string]any{
			"status":              order.Cancelled.String(),
			"delivery_partner_id": nil,
			"accepted_at":         nil,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: order %s was not cancellable as %s", order.ErrStaleTransition, aggregate.ID(), expected)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// CacheDestination stores geocoded coordinates once; later calls keep the first value.
func (r *GormOrderRepository) CacheDestination(ctx context.Context, orderID kernel.UUID, point kernel.GeoPoint) error {
	if err := errors.Join(orderID.Validate(), point.Validate()); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND resolved_lat IS NULL", orderID.Bytes()).
		Updates(map[string]any{
			"resolved_lat": point.Lat(),
			"resolved_lng": point.Lng(),
		}).Error
}

func (r *GormOrderRepository) AppendEvent(ctx context.Context, event order.StatusEvent) error {
	dto := eventFromDomain(event)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListEvents returns the history of an order, oldest first.
func (r *GormOrderRepository) ListEvents(ctx context.Context, orderID kernel.UUID) ([]order.StatusEvent, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []StatusEventDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	events := make([]order.StatusEvent, 0, len(dtos))
	for _, dto := range dtos {
		e, err := eventToDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, nil
}

// ListClaimable returns unassigned claimable orders, oldest first. limit <= 0 means no limit.
func (r *GormOrderRepository) ListClaimable(ctx context.Context, limit int) ([]*order.Order, error) {
	query := r.db.WithContext(ctx).
		Where("delivery_partner_id IS NULL AND status IN ?", statusNames(order.ClaimableStatuses())).
		Order("created_at")
	if limit > 0 {
		query = query.Limit(limit)
	}

	return r.find(query)
}

// ListActive returns every order that is neither delivered nor cancelled.
func (r *GormOrderRepository) ListActive(ctx context.Context) ([]*order.Order, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status IN ?", statusNames(order.ActiveStatuses())).
		Order("created_at"))
}

// ListInTransitByPartner returns the partner's dispatched and out-for-delivery orders.
func (r *GormOrderRepository) ListInTransitByPartner(ctx context.Context, partnerID kernel.UUID) ([]*order.Order, error) {
	if err := partnerID.Validate(); err != nil {
		return nil, err
	}

	return r.find(r.db.WithContext(ctx).
		Where("delivery_partner_id = ? AND status IN ?",
			partnerID.Bytes(), []string{order.Dispatched.String(), order.OutForDelivery.String()}).
		Order("accepted_at"))
}

func (r *GormOrderRepository) find(query *gorm.DB) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func statusNames(statuses []order.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}

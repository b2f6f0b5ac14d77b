package partnerrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/adapters/out/postgres/pgerr"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPartnerRepository implements ports.PartnerRepository using GORM.
type GormPartnerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormPartnerRepository(db *gorm.DB, tracker aggregateTracker) *GormPartnerRepository {
	return &GormPartnerRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new profile. A duplicate id is reported as errs.ConflictError.
func (r *GormPartnerRepository) Add(ctx context.Context, profile *partner.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	dto := fromDomain(profile)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewConflictErrorWithCause("partner", profile.ID().String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(profile.ID(), profile)
	return nil
}

// Update writes the profile fields owned by onboarding: name, phone, KYC status
// and availability. Location and delivery count have their own writers.
func (r *GormPartnerRepository) Update(ctx context.Context, profile *partner.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	dto := fromDomain(profile)
	result := r.db.WithContext(ctx).
		Model(&PartnerDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"name":       dto.Name,
			"phone":      dto.Phone,
			"kyc_status": dto.KYCStatus,
			"online":     dto.Online,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("partner", profile.ID().String())
	}

	r.tracker.TrackAggregate(profile.ID(), profile)
	return nil
}

func (r *GormPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.Profile, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate reads the profile and locks its row until the surrounding
// transaction ends.
func (r *GormPartnerRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*partner.Profile, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormPartnerRepository) get(_ context.Context, query *gorm.DB, id kernel.UUID) (*partner.Profile, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PartnerDTO
	if err := query.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("partner", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListOnlineApproved returns partners eligible for claimable broadcasts, by name.
func (r *GormPartnerRepository) ListOnlineApproved(ctx context.Context) ([]*partner.Profile, error) {
	var dtos []PartnerDTO
	if err := r.db.WithContext(ctx).
		Where("online AND kyc_status = ?", partner.KYCApproved.String()).
		Order("name").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	profiles := make([]*partner.Profile, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, nil
}

func (r *GormPartnerRepository) IncrementDeliveryCount(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&PartnerDTO{}).
		Where("id = ?", id.Bytes()).
		Update("delivery_count", gorm.Expr("delivery_count + 1"))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("partner", id.String())
	}
	return nil
}

// SaveLastLocation keeps the newest reported position. Older samples match no row
// and are dropped without error.
func (r *GormPartnerRepository) SaveLastLocation(
	ctx context.Context,
	id kernel.UUID,
	point kernel.GeoPoint,
	capturedAt time.Time,
) error {
	if err := errors.Join(id.Validate(), point.Validate()); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&PartnerDTO{}).
		Where("id = ? AND (last_location_at IS NULL OR last_location_at < ?)", id.Bytes(), capturedAt).
		Updates(map[string]any{
			"last_lat":         point.Lat(),
			"last_lng":         point.Lng(),
			"last_location_at": capturedAt,
		}).Error
}

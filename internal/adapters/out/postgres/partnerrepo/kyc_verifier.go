package partnerrepo

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// StoredKYCVerifier answers verification queries from the status the KYC
// collaborator last reported through the onboarding API. It reads outside any
// unit of work so a claim sees the latest committed outcome.
type StoredKYCVerifier struct {
	db *gorm.DB
}

func NewStoredKYCVerifier(db *gorm.DB) *StoredKYCVerifier {
	return &StoredKYCVerifier{db: db}
}

func (v *StoredKYCVerifier) VerificationStatus(ctx context.Context, partnerID kernel.UUID) (partner.KYCStatus, error) {
	if err := partnerID.Validate(); err != nil {
		return partner.KYCUnknown, err
	}

	var statuses []string
	if err := v.db.WithContext(ctx).
		Model(&PartnerDTO{}).
		Where("id = ?", partnerID.Bytes()).
		Limit(1).
		Pluck("kyc_status", &statuses).Error; err != nil {
		return partner.KYCUnknown, err
	}

	if len(statuses) == 0 {
		return partner.KYCUnknown, errs.NewObjectNotFoundError("partner", partnerID.String())
	}

	return partner.ParseKYCStatus(statuses[0])
}

// Package partnerrepo persists delivery partner profiles with GORM.
package partnerrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

// PartnerDTO is the row of the delivery_partners table.
type PartnerDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"type:varchar(255);not null"`
	Phone          string    `gorm:"type:varchar(32);not null;default:''"`
	KYCStatus      string    `gorm:"column:kyc_status;type:varchar(32);not null"`
	Online         bool      `gorm:"not null;default:false;index"`
	LastLat        *float64  `gorm:"type:double precision"`
	LastLng        *float64  `gorm:"type:double precision"`
	LastLocationAt *time.Time
	DeliveryCount  int `gorm:"not null;default:0"`
}

func (PartnerDTO) TableName() string {
	return "delivery_partners"
}

func fromDomain(p *partner.Profile) PartnerDTO {
	dto := PartnerDTO{
		ID:             p.ID().Bytes(),
		Name:           p.Name(),
		Phone:          p.Phone(),
		KYCStatus:      p.KYCStatus().String(),
		Online:         p.IsOnline(),
		LastLocationAt: p.LastLocationAt(),
		DeliveryCount:  p.DeliveryCount(),
	}

	if loc := p.LastLocation(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		dto.LastLat = &lat
		dto.LastLng = &lng
	}

	return dto
}

func toDomain(dto PartnerDTO) (*partner.Profile, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	kyc, err := partner.ParseKYCStatus(dto.KYCStatus)
	if err != nil {
		return nil, err
	}

	var (
		lastLocation   *kernel.GeoPoint
		lastLocationAt *time.Time
	)
	if dto.LastLat != nil && dto.LastLng != nil && dto.LastLocationAt != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.LastLat, *dto.LastLng)
		if pointErr != nil {
			return nil, pointErr
		}
		at := dto.LastLocationAt.UTC()
		lastLocation = &point
		lastLocationAt = &at
	}

	return partner.RestoreProfile(id, dto.Name, dto.Phone, kyc, dto.Online, lastLocation, lastLocationAt, dto.DeliveryCount)
}

package pharmacy

import (
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
)

// DrugFactory is a drug manufacturer. Factories are shared master data:
// clinics link to them through partnerships rather than owning them.
type DrugFactory struct {
	shared.BaseAggregateRoot
	Name  string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Email string `gorm:"type:varchar(255)"`
	Phone string `gorm:"type:varchar(50)"`
}

// NewDrugFactory creates a new drug factory
func NewDrugFactory(name, email, phone string) (*DrugFactory, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_FACTORY", "Factory name is required")
	}
	return &DrugFactory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Phone:             phone,
	}, nil
}

// UpdateContact updates the factory contact details
func (f *DrugFactory) UpdateContact(email, phone string) {
	f.Email = email
	f.Phone = phone
	f.UpdatedAt = time.Now()
}

// FactoryPartnership links a clinic to a drug factory it purchases from
type FactoryPartnership struct {
	shared.BaseEntity
	ClinicID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_partnership_clinic_factory,priority:1"`
	FactoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_partnership_clinic_factory,priority:2"`
}

// NewFactoryPartnership creates a partnership between a clinic and a factory
func NewFactoryPartnership(clinicID, factoryID uuid.UUID) *FactoryPartnership {
	return &FactoryPartnership{
		BaseEntity: shared.NewBaseEntity(),
		ClinicID:   clinicID,
		FactoryID:  factoryID,
	}
}

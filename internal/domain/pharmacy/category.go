package pharmacy

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
)

// DrugCategory groups drugs within a clinic (antibiotics, analgesics, ...)
type DrugCategory struct {
	shared.ClinicAggregateRoot
	Number string `gorm:"type:varchar(20);not null;uniqueIndex:idx_drug_category_clinic_number,priority:2"`
	Name   string `gorm:"type:varchar(100);not null"`
}

// NewDrugCategory creates a new drug category
func NewDrugCategory(clinicID uuid.UUID, number, name string) (*DrugCategory, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category name is required")
	}
	return &DrugCategory{
		ClinicAggregateRoot: shared.NewClinicAggregateRoot(clinicID),
		Number:              number,
		Name:                name,
	}, nil
}

// Rename changes the category name
func (c *DrugCategory) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Category name is required")
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	return nil
}

// FormatCategoryNumber formats a category number from its sequence
func FormatCategoryNumber(sequence int64) string {
	return fmt.Sprintf("KTO%d", sequence)
}

// Unit is a dispensing unit for drugs (tablet, capsule, bottle, ...)
type Unit struct {
	shared.ClinicAggregateRoot
	Name string `gorm:"type:varchar(50);not null"`
}

// NewUnit creates a new drug unit
func NewUnit(clinicID uuid.UUID, name string) (*Unit, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit name is required")
	}
	return &Unit{
		ClinicAggregateRoot: shared.NewClinicAggregateRoot(clinicID),
		Name:                name,
	}, nil
}

// Rename changes the unit name
func (u *Unit) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit name is required")
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	return nil
}

package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Action is a billable medical procedure (wound care, injection, ...)
type Action struct {
	shared.ClinicAggregateRoot
	Name  string          `gorm:"type:varchar(255);not null"`
	Price decimal.Decimal `gorm:"type:decimal(12,2)"`
}

// NewAction creates a billable procedure for a clinic
func NewAction(clinicID uuid.UUID, name string, price decimal.Decimal) (*Action, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ACTION", "Action name is required")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Action price cannot be negative")
	}
	return &Action{
		ClinicAggregateRoot: shared.NewClinicAggregateRoot(clinicID),
		Name:                name,
		Price:               price,
	}, nil
}

// Update changes the procedure name and price
func (a *Action) Update(name string, price decimal.Decimal) error {
	if name == "" {
		return shared.NewDomainError("INVALID_ACTION", "Action name is required")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Action price cannot be negative")
	}
	a.Name = name
	a.Price = price
	a.UpdatedAt = time.Now()
	return nil
}

package pharmacy

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Drug represents a sellable drug in a clinic's catalog.
// TotalStock is the aggregate on-hand quantity and must equal the sum of
// ActiveQuantity over the drug's stock lots.
type Drug struct {
	shared.ClinicAggregateRoot
	Number        string `gorm:"type:varchar(20);not null;uniqueIndex:idx_drug_clinic_number,priority:2"`
	Name          string `gorm:"type:varchar(255);not null"`
	GenericName   string `gorm:"type:varchar(255)"`
	Composition   string `gorm:"type:varchar(255)"`
	Dose          string `gorm:"type:varchar(100)"`
	CategoryID    uuid.UUID
	FactoryID     uuid.UUID
	UnitID        uuid.UUID
	Shelve        string          `gorm:"type:varchar(50)"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2)"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalStock    int             `gorm:"not null;default:0"`
}

// NewDrug creates a new drug with zero stock
func NewDrug(
	clinicID uuid.UUID,
	number, name, genericName string,
	categoryID, factoryID, unitID uuid.UUID,
	purchasePrice, sellingPrice decimal.Decimal,
) (*Drug, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_DRUG", "Drug name is required")
	}
	if purchasePrice.IsNegative() || sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Drug prices cannot be negative")
	}

	return &Drug{
		ClinicAggregateRoot: shared.NewClinicAggregateRoot(clinicID),
		Number:              number,
		Name:                name,
		GenericName:         genericName,
		CategoryID:          categoryID,
		FactoryID:           factoryID,
		UnitID:              unitID,
		PurchasePrice:       purchasePrice,
		SellingPrice:        sellingPrice,
		TotalStock:          0,
	}, nil
}

// HasStock returns true if the aggregate stock covers the requested quantity
func (d *Drug) HasStock(quantity int) bool {
	return d.TotalStock >= quantity
}

// IncreaseStock adds received quantity to the aggregate stock
func (d *Drug) IncreaseStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	d.TotalStock += quantity
	d.UpdatedAt = time.Now()
	return nil
}

// DecreaseStock removes sold quantity from the aggregate stock
func (d *Drug) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > d.TotalStock {
		return shared.NewInsufficientStockError(d.Name)
	}
	d.TotalStock -= quantity
	d.UpdatedAt = time.Now()
	return nil
}

// ReconcileStock overwrites the aggregate stock with the actual lot sum.
// Used when a depletion finds the aggregate claiming more than the lots hold.
func (d *Drug) ReconcileStock(actual int) error {
	if actual < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock cannot be negative")
	}
	d.TotalStock = actual
	d.UpdatedAt = time.Now()
	return nil
}

// UpdateDetails updates the catalog fields of the drug
func (d *Drug) UpdateDetails(name, genericName, composition, dose, shelve string, categoryID, factoryID, unitID uuid.UUID) error {
	if name == "" {
		return shared.NewDomainError("INVALID_DRUG", "Drug name is required")
	}
	d.Name = name
	d.GenericName = genericName
	d.Composition = composition
	d.Dose = dose
	d.Shelve = shelve
	d.CategoryID = categoryID
	d.FactoryID = factoryID
	d.UnitID = unitID
	d.UpdatedAt = time.Now()
	return nil
}

// UpdatePrices updates purchase and selling prices
func (d *Drug) UpdatePrices(purchasePrice, sellingPrice decimal.Decimal) error {
	if purchasePrice.IsNegative() || sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Drug prices cannot be negative")
	}
	d.PurchasePrice = purchasePrice
	d.SellingPrice = sellingPrice
	d.UpdatedAt = time.Now()
	return nil
}

// FormatDrugNumber formats a drug catalog number from its sequence
func FormatDrugNumber(sequence int64) string {
	return fmt.Sprintf("OBT%d", sequence)
}

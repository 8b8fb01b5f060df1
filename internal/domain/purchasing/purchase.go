package purchasing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseTransaction is one invoice of drugs bought from a factory.
// The factory contact details are denormalized onto the transaction so the
// invoice stays readable after the factory record changes.
type PurchaseTransaction struct {
	shared.ClinicAggregateRoot
	InvoiceNumber string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_purchase_clinic_invoice,priority:2"`
	FactoryID     uuid.UUID `gorm:"type:uuid;not null"`
	FactoryName   string    `gorm:"type:varchar(255);not null"`
	FactoryEmail  string    `gorm:"type:varchar(255)"`
	FactoryPhone  string    `gorm:"type:varchar(50)"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(14,2)"`

	Items []PurchaseItem `gorm:"foreignKey:PurchaseID"`
}

// PurchaseItem is one drug line on a purchase invoice
type PurchaseItem struct {
	shared.BaseEntity
	PurchaseID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	DrugID      uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity    int             `gorm:"not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(14,2)"`
	ExpiredDate time.Time       `gorm:"not null"`
}

// NewPurchaseTransaction starts an empty purchase invoice
func NewPurchaseTransaction(clinicID, factoryID uuid.UUID, factoryName, factoryEmail, factoryPhone string) (*PurchaseTransaction, error) {
	if factoryName == "" {
		return nil, shared.NewDomainError("INVALID_PURCHASE", "Factory name is required")
	}
	return &PurchaseTransaction{
		ClinicAggregateRoot: shared.NewClinicAggregateRoot(clinicID),
		FactoryID:           factoryID,
		FactoryName:         factoryName,
		FactoryEmail:        factoryEmail,
		FactoryPhone:        factoryPhone,
		TotalPrice:          decimal.Zero,
		Items:               make([]PurchaseItem, 0),
	}, nil
}

// AddItem appends a drug line and accumulates the invoice total
func (p *PurchaseTransaction) AddItem(drugID uuid.UUID, quantity int, totalPrice decimal.Decimal, expiredDate time.Time) (*PurchaseItem, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Purchase quantity must be positive")
	}
	if totalPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}

	item := PurchaseItem{
		BaseEntity:  shared.NewBaseEntity(),
		PurchaseID:  p.ID,
		DrugID:      drugID,
		Quantity:    quantity,
		TotalPrice:  totalPrice,
		ExpiredDate: expiredDate,
	}
	p.Items = append(p.Items, item)
	p.TotalPrice = p.TotalPrice.Add(totalPrice)
	p.UpdatedAt = time.Now()
	return &p.Items[len(p.Items)-1], nil
}

// AssignInvoiceNumber sets the invoice number from its sequence
func (p *PurchaseTransaction) AssignInvoiceNumber(sequence int64) {
	p.InvoiceNumber = FormatInvoiceNumber(p.CreatedAt, sequence)
}

// FormatInvoiceNumber formats a purchase invoice number.
// Format: INV/YYYYMMDD/sequence.
func FormatInvoiceNumber(t time.Time, sequence int64) string {
	return fmt.Sprintf("INV/%s/%d", t.Format("20060102"), sequence)
}

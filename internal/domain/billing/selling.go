package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SellingTransaction is the bill for one patient visit. It is created
// unpaid when the doctor submits the assessment, its carts stay editable
// until payment, and paying it dispenses the drug lines from stock.
type SellingTransaction struct {
	shared.ClinicAggregateRoot
	InvoiceNumber      string     `gorm:"type:varchar(30);uniqueIndex:idx_selling_clinic_invoice,priority:2"`
	RegistrationNumber string     `gorm:"type:varchar(30);not null"`
	PatientID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	QueueID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	RecordID           *uuid.UUID `gorm:"type:uuid"`
	OutpatientFee      decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalPrice         decimal.Decimal `gorm:"type:decimal(14,2)"`
	Paid               bool            `gorm:"not null;default:false"`
	PaidAt             *time.Time
	PickedUp           bool `gorm:"not null;default:false"`

	DrugCarts   []DrugCartItem   `gorm:"foreignKey:TransactionID"`
	ActionCarts []ActionCartItem `gorm:"foreignKey:TransactionID"`
}

// DrugCartItem is one drug line on the bill. Name, unit and price are
// snapshots taken when the line was added.
type DrugCartItem struct {
	shared.BaseEntity
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	DrugID        uuid.UUID       `gorm:"type:uuid;not null"`
	DrugName      string          `gorm:"type:varchar(255);not null"`
	UnitName      string          `gorm:"type:varchar(50)"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2)"`
	Quantity      int             `gorm:"not null"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(14,2)"`
}

// ActionCartItem is one procedure line on the bill
type ActionCartItem struct {
	shared.BaseEntity
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ActionID      uuid.UUID       `gorm:"type:uuid;not null"`
	ActionName    string          `gorm:"type:varchar(255);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2)"`
	Quantity      int             `gorm:"not null"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(14,2)"`
}

// NewSellingTransaction opens an unpaid bill for a visit, charging the
// clinic's outpatient fee up front
func NewSellingTransaction(clinicID, patientID, queueID uuid.UUID, registrationNumber string, outpatientFee decimal.Decimal) (*SellingTransaction, error) {
	if registrationNumber == "" {
		return nil, shared.NewDomainError("INVALID_TRANSACTION", "Registration number is required")
	}
	if outpatientFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_FEE", "Outpatient fee cannot be negative")
	}
	return &SellingTransaction{
		ClinicAggregateRoot: shared.NewClinicAggregateRoot(clinicID),
		RegistrationNumber:  registrationNumber,
		PatientID:           patientID,
		QueueID:             queueID,
		OutpatientFee:       outpatientFee,
		TotalPrice:          outpatientFee,
		DrugCarts:           make([]DrugCartItem, 0),
		ActionCarts:         make([]ActionCartItem, 0),
	}, nil
}

// AttachRecord links the bill to the medical record of the visit
func (t *SellingTransaction) AttachRecord(recordID uuid.UUID) {
	t.RecordID = &recordID
	t.UpdatedAt = time.Now()
}

// AddDrugCart appends a drug line with price snapshots and accumulates the total
func (t *SellingTransaction) AddDrugCart(drugID uuid.UUID, drugName, unitName string, unitPrice decimal.Decimal, quantity int) (*DrugCartItem, error) {
	if t.Paid {
		return nil, shared.ErrTransactionPaid
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Cart quantity must be positive")
	}

	lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	item := DrugCartItem{
		BaseEntity:    shared.NewBaseEntity(),
		TransactionID: t.ID,
		DrugID:        drugID,
		DrugName:      drugName,
		UnitName:      unitName,
		UnitPrice:     unitPrice,
		Quantity:      quantity,
		TotalPrice:    lineTotal,
	}
	t.DrugCarts = append(t.DrugCarts, item)
	t.TotalPrice = t.TotalPrice.Add(lineTotal)
	t.UpdatedAt = time.Now()
	return &t.DrugCarts[len(t.DrugCarts)-1], nil
}

// AddActionCart appends a procedure line and accumulates the total
func (t *SellingTransaction) AddActionCart(actionID uuid.UUID, actionName string, unitPrice decimal.Decimal, quantity int) (*ActionCartItem, error) {
	if t.Paid {
		return nil, shared.ErrTransactionPaid
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Cart quantity must be positive")
	}

	lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	item := ActionCartItem{
		BaseEntity:    shared.NewBaseEntity(),
		TransactionID: t.ID,
		ActionID:      actionID,
		ActionName:    actionName,
		UnitPrice:     unitPrice,
		Quantity:      quantity,
		TotalPrice:    lineTotal,
	}
	t.ActionCarts = append(t.ActionCarts, item)
	t.TotalPrice = t.TotalPrice.Add(lineTotal)
	t.UpdatedAt = time.Now()
	return &t.ActionCarts[len(t.ActionCarts)-1], nil
}

// RemoveDrugCart deletes a drug line and subtracts its total from the bill
func (t *SellingTransaction) RemoveDrugCart(itemID uuid.UUID) error {
	if t.Paid {
		return shared.ErrTransactionPaid
	}
	for i, item := range t.DrugCarts {
		if item.ID == itemID {
			t.TotalPrice = t.TotalPrice.Sub(item.TotalPrice)
			t.DrugCarts = append(t.DrugCarts[:i], t.DrugCarts[i+1:]...)
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveActionCart deletes a procedure line and subtracts its total
func (t *SellingTransaction) RemoveActionCart(itemID uuid.UUID) error {
	if t.Paid {
		return shared.ErrTransactionPaid
	}
	for i, item := range t.ActionCarts {
		if item.ID == itemID {
			t.TotalPrice = t.TotalPrice.Sub(item.TotalPrice)
			t.ActionCarts = append(t.ActionCarts[:i], t.ActionCarts[i+1:]...)
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// UpdateDrugCartQuantity changes a drug line's quantity, repricing the line
func (t *SellingTransaction) UpdateDrugCartQuantity(itemID uuid.UUID, quantity int) error {
	if t.Paid {
		return shared.ErrTransactionPaid
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Cart quantity must be positive")
	}
	for i := range t.DrugCarts {
		if t.DrugCarts[i].ID == itemID {
			item := &t.DrugCarts[i]
			t.TotalPrice = t.TotalPrice.Sub(item.TotalPrice)
			item.Quantity = quantity
			item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
			item.UpdatedAt = time.Now()
			t.TotalPrice = t.TotalPrice.Add(item.TotalPrice)
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// MarkPaid settles the bill and assigns its invoice number
func (t *SellingTransaction) MarkPaid(sequence int64) error {
	if t.Paid {
		return shared.ErrTransactionPaid
	}
	now := time.Now()
	t.Paid = true
	t.PaidAt = &now
	t.InvoiceNumber = FormatInvoiceNumber(now, sequence)
	t.UpdatedAt = now
	return nil
}

// MarkPickedUp records that the patient collected the drugs
func (t *SellingTransaction) MarkPickedUp() error {
	if !t.Paid {
		return shared.NewDomainError("NOT_PAID", "Cannot pick up drugs for an unpaid transaction")
	}
	if t.PickedUp {
		return shared.ErrInvalidState
	}
	t.PickedUp = true
	t.UpdatedAt = time.Now()
	return nil
}

// HasDrugLines reports whether the bill dispenses any drugs
func (t *SellingTransaction) HasDrugLines() bool {
	return len(t.DrugCarts) > 0
}

// FormatInvoiceNumber formats a selling invoice number.
// Format: INV/YYYYMMDD/sequence.
func FormatInvoiceNumber(t time.Time, sequence int64) string {
	return fmt.Sprintf("INV/%s/%d", t.Format("20060102"), sequence)
}

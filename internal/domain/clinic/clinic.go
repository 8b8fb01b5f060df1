package clinic

import (
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Clinic is the tenant root. Every other aggregate in the system belongs
// to exactly one clinic.
type Clinic struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"type:varchar(255);not null"`
	Phone         string          `gorm:"type:varchar(50)"`
	Address       string          `gorm:"type:varchar(500)"`
	OutpatientFee decimal.Decimal `gorm:"type:decimal(12,2)"`
	SellingFee    decimal.Decimal `gorm:"type:decimal(12,2)"`

	CashierOpen    bool            `gorm:"not null;default:false"`
	CashierBalance decimal.Decimal `gorm:"type:decimal(14,2)"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(14,2)"`
	OpenedAt       *time.Time
	OpenedBy       *uuid.UUID `gorm:"type:uuid"`
}

// NewClinic creates a new clinic with a closed cashier
func NewClinic(name, phone, address string, outpatientFee, sellingFee decimal.Decimal) (*Clinic, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CLINIC", "Clinic name is required")
	}
	return &Clinic{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Phone:             phone,
		Address:           address,
		OutpatientFee:     outpatientFee,
		SellingFee:        sellingFee,
		CashierBalance:    decimal.Zero,
	}, nil
}

// UpdateProfile updates the clinic's contact and fee settings
func (c *Clinic) UpdateProfile(name, phone, address string, outpatientFee, sellingFee decimal.Decimal) error {
	if name == "" {
		return shared.NewDomainError("INVALID_CLINIC", "Clinic name is required")
	}
	if outpatientFee.IsNegative() || sellingFee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Fees cannot be negative")
	}
	c.Name = name
	c.Phone = phone
	c.Address = address
	c.OutpatientFee = outpatientFee
	c.SellingFee = sellingFee
	c.UpdatedAt = time.Now()
	return nil
}

// OpenCashier opens the cashier with an opening balance.
// Patients can only be queued while the cashier is open.
func (c *Clinic) OpenCashier(openedBy uuid.UUID, openingBalance decimal.Decimal) error {
	if c.CashierOpen {
		return shared.ErrCashierAlreadyOpen
	}
	if openingBalance.IsNegative() {
		return shared.NewDomainError("INVALID_BALANCE", "Opening balance cannot be negative")
	}
	now := time.Now()
	c.CashierOpen = true
	c.CashierBalance = openingBalance
	c.OpeningBalance = openingBalance
	c.OpenedAt = &now
	c.OpenedBy = &openedBy
	c.UpdatedAt = now
	return nil
}

// CloseCashier closes the cashier and returns the session that just ended
func (c *Clinic) CloseCashier(closedBy uuid.UUID) (*CashierSession, error) {
	if !c.CashierOpen {
		return nil, shared.ErrCashierClosed
	}

	session := NewCashierSession(c.ID, *c.OpenedBy, closedBy, c.OpeningBalance, c.CashierBalance, *c.OpenedAt)

	now := time.Now()
	c.CashierOpen = false
	c.CashierBalance = decimal.Zero
	c.OpeningBalance = decimal.Zero
	c.OpenedAt = nil
	c.OpenedBy = nil
	c.UpdatedAt = now
	return session, nil
}

// AddToCashierBalance adds a paid transaction total to the running balance
func (c *Clinic) AddToCashierBalance(amount decimal.Decimal) error {
	if !c.CashierOpen {
		return shared.ErrCashierClosed
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	c.CashierBalance = c.CashierBalance.Add(amount)
	c.UpdatedAt = time.Now()
	return nil
}

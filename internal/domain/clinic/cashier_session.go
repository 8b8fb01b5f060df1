package clinic

import (
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CashierSession records one open/close cycle of a clinic's cashier
type CashierSession struct {
	shared.BaseEntity
	ClinicID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	OpenedBy       uuid.UUID       `gorm:"type:uuid;not null"`
	ClosedBy       uuid.UUID       `gorm:"type:uuid;not null"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(14,2)"`
	ClosingBalance decimal.Decimal `gorm:"type:decimal(14,2)"`
	OpenedAt       time.Time       `gorm:"not null"`
	ClosedAt       time.Time       `gorm:"not null"`
}

// NewCashierSession creates a closed cashier session record
func NewCashierSession(clinicID, openedBy, closedBy uuid.UUID, openingBalance, closingBalance decimal.Decimal, openedAt time.Time) *CashierSession {
	return &CashierSession{
		BaseEntity:     shared.NewBaseEntity(),
		ClinicID:       clinicID,
		OpenedBy:       openedBy,
		ClosedBy:       closedBy,
		OpeningBalance: openingBalance,
		ClosingBalance: closingBalance,
		OpenedAt:       openedAt,
		ClosedAt:       time.Now(),
	}
}

// Revenue returns how much the cashier took in during the session
func (s *CashierSession) Revenue() decimal.Decimal {
	return s.ClosingBalance.Sub(s.OpeningBalance)
}

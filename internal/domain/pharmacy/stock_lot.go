package pharmacy

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
)

// StockLot is one received batch of a drug. A lot never loses quantity:
// units move from ActiveQuantity to SoldQuantity as they are dispensed, so
// TotalQuantity == ActiveQuantity + SoldQuantity holds for the lot's
// entire lifetime.
type StockLot struct {
	shared.BaseEntity
	ClinicID       uuid.UUID `gorm:"type:uuid;not null;index"`
	DrugID         uuid.UUID `gorm:"type:uuid;not null;index"`
	PurchaseItemID uuid.UUID `gorm:"type:uuid;not null"`
	BatchNumber    string    `gorm:"type:varchar(30);not null"`
	ExpiredDate    time.Time `gorm:"not null"`
	TotalQuantity  int       `gorm:"not null"`
	ActiveQuantity int       `gorm:"not null"`
	SoldQuantity   int       `gorm:"not null;default:0"`
}

// NewStockLot creates a stock lot for a received quantity.
// The full quantity starts active and nothing is sold.
func NewStockLot(clinicID, drugID, purchaseItemID uuid.UUID, quantity int, expiredDate time.Time) (*StockLot, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Lot quantity must be positive")
	}
	return &StockLot{
		BaseEntity:     shared.NewBaseEntity(),
		ClinicID:       clinicID,
		DrugID:         drugID,
		PurchaseItemID: purchaseItemID,
		ExpiredDate:    expiredDate,
		TotalQuantity:  quantity,
		ActiveQuantity: quantity,
		SoldQuantity:   0,
	}, nil
}

// AssignBatchNumber sets the lot's batch number from its sequence.
// Format: BN + year + month + day + sequence, date parts unpadded.
func (l *StockLot) AssignBatchNumber(sequence int64) {
	l.BatchNumber = FormatBatchNumber(l.CreatedAt, sequence)
}

// FormatBatchNumber formats a batch number for a lot received at t
func FormatBatchNumber(t time.Time, sequence int64) string {
	return fmt.Sprintf("BN%d%d%d%d", t.Year(), int(t.Month()), t.Day(), sequence)
}

// HasActiveStock returns true if the lot still has units to dispense
func (l *StockLot) HasActiveStock() bool {
	return l.ActiveQuantity > 0
}

// IsExpired returns true if the lot has passed its expiry date
func (l *StockLot) IsExpired() bool {
	return l.ExpiredDate.Before(time.Now())
}

// WillExpireWithin returns true if the lot expires within the given duration
func (l *StockLot) WillExpireWithin(d time.Duration) bool {
	return l.ExpiredDate.Before(time.Now().Add(d))
}

// Deplete moves up to requested units from active to sold.
// Returns the quantity actually taken, which is min(ActiveQuantity, requested).
func (l *StockLot) Deplete(requested int) int {
	if requested <= 0 || l.ActiveQuantity <= 0 {
		return 0
	}
	taken := requested
	if taken > l.ActiveQuantity {
		taken = l.ActiveQuantity
	}
	l.ActiveQuantity -= taken
	l.SoldQuantity += taken
	l.UpdatedAt = time.Now()
	return taken
}

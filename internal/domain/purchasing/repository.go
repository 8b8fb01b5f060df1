package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseRepository defines the interface for purchase transaction persistence
type PurchaseRepository interface {
	// FindByID finds a purchase with its items
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseTransaction, error)
	FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*PurchaseTransaction, error)

	// FindAllForClinic lists purchases, searching invoice number and factory name
	FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]PurchaseTransaction, error)
	CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error)

	// Save persists the purchase and its items
	Save(ctx context.Context, purchase *PurchaseTransaction) error

	// NextInvoiceSequence returns the next invoice sequence for a clinic on a day
	NextInvoiceSequence(ctx context.Context, clinicID uuid.UUID, day time.Time) (int64, error)

	// SumSpendForDay sums purchase totals for a clinic on one day
	SumSpendForDay(ctx context.Context, clinicID uuid.UUID, day time.Time) (decimal.Decimal, error)
}

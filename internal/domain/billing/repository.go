package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SellingRepository defines the interface for selling transaction persistence
type SellingRepository interface {
	// FindByID finds a transaction with its carts
	FindByID(ctx context.Context, id uuid.UUID) (*SellingTransaction, error)
	FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*SellingTransaction, error)

	// FindByQueue finds the transaction attached to a queue entry
	FindByQueue(ctx context.Context, clinicID, queueID uuid.UUID) (*SellingTransaction, error)

	// FindUnpaidForClinic lists unpaid bills, oldest first
	FindUnpaidForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]SellingTransaction, error)

	// FindPaidForPickup lists paid bills with drugs not yet collected
	FindPaidForPickup(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]SellingTransaction, error)

	// FindAllForClinic lists transactions, searching invoice and registration numbers
	FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]SellingTransaction, error)
	CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error)

	// Save persists the transaction and its carts
	Save(ctx context.Context, transaction *SellingTransaction) error

	// DeleteCartItem removes one persisted cart line
	DeleteDrugCartItem(ctx context.Context, itemID uuid.UUID) error
	DeleteActionCartItem(ctx context.Context, itemID uuid.UUID) error

	// NextInvoiceSequence returns the next invoice sequence for a clinic on a day
	NextInvoiceSequence(ctx context.Context, clinicID uuid.UUID, day time.Time) (int64, error)

	// SumRevenueForDay sums paid totals for a clinic on one day
	SumRevenueForDay(ctx context.Context, clinicID uuid.UUID, day time.Time) (decimal.Decimal, error)

	// CountPaidForDay counts paid transactions for a clinic on one day
	CountPaidForDay(ctx context.Context, clinicID uuid.UUID, day time.Time) (int64, error)
}

// ActionRepository defines the interface for procedure master data
type ActionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Action, error)
	FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*Action, error)
	FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]Action, error)
	CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, action *Action) error
	DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error
}

package clinic

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ClinicRepository defines the interface for clinic persistence
type ClinicRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Clinic, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, clinic *Clinic) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SaveWithLock saves with optimistic locking (checks version).
	// Cashier balance updates race with concurrent payments.
	SaveWithLock(ctx context.Context, clinic *Clinic) error
}

// CashierSessionRepository defines the interface for cashier session history
type CashierSessionRepository interface {
	Save(ctx context.Context, session *CashierSession) error
	FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]CashierSession, error)
	CountForClinic(ctx context.Context, clinicID uuid.UUID) (int64, error)
}

// DailyReport summarizes one day of clinic activity.
// Built by the report repository straight from the transaction tables.
type DailyReport struct {
	Date            time.Time       `json:"date"`
	PatientCount    int64           `json:"patient_count"`
	SellingRevenue  decimal.Decimal `json:"selling_revenue"`
	PurchaseSpend   decimal.Decimal `json:"purchase_spend"`
	TransactionsPaid int64          `json:"transactions_paid"`
}

// ReportRepository aggregates clinic activity for reporting
type ReportRepository interface {
	// DailyReport summarizes activity for a clinic on the given date
	DailyReport(ctx context.Context, clinicID uuid.UUID, date time.Time) (*DailyReport, error)
}

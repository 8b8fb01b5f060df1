package pharmacy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
)

// DrugRepository defines the interface for drug persistence
type DrugRepository interface {
	// FindByID finds a drug by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Drug, error)

	// FindByIDForClinic finds a drug by ID within a clinic
	FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*Drug, error)

	// FindByNumber finds a drug by its catalog number within a clinic
	FindByNumber(ctx context.Context, clinicID uuid.UUID, number string) (*Drug, error)

	// FindAllForClinic finds all drugs for a clinic, searching name and generic name
	FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]Drug, error)

	// CountForClinic counts drugs matching the filter
	CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a drug
	Save(ctx context.Context, drug *Drug) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, drug *Drug) error

	// Delete deletes a drug within a clinic
	DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error

	// NextNumberSequence returns the next drug number sequence for a clinic
	NextNumberSequence(ctx context.Context, clinicID uuid.UUID) (int64, error)
}

// StockLotRepository defines the interface for stock lot persistence
type StockLotRepository interface {
	// FindByID finds a stock lot by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockLot, error)

	// FindActiveByDrug finds lots with active stock for a drug, ordered by
	// creation time ascending (receipt order)
	FindActiveByDrug(ctx context.Context, clinicID, drugID uuid.UUID) ([]*StockLot, error)

	// FindByDrug finds all lots for a drug, newest first
	FindByDrug(ctx context.Context, clinicID, drugID uuid.UUID, filter shared.Filter) ([]StockLot, error)

	// FindExpiringBefore finds lots with active stock expiring before the cutoff
	FindExpiringBefore(ctx context.Context, clinicID uuid.UUID, cutoff time.Time, filter shared.Filter) ([]StockLot, error)

	// Save creates or updates a stock lot
	Save(ctx context.Context, lot *StockLot) error

	// SaveAll persists multiple lots
	SaveAll(ctx context.Context, lots []*StockLot) error

	// NextBatchSequence returns the next batch number sequence for a clinic
	NextBatchSequence(ctx context.Context, clinicID uuid.UUID) (int64, error)

	// SumActiveByDrug sums active quantity across a drug's lots
	SumActiveByDrug(ctx context.Context, clinicID, drugID uuid.UUID) (int64, error)
}

// DrugCategoryRepository defines the interface for drug category persistence
type DrugCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DrugCategory, error)
	FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*DrugCategory, error)
	FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]DrugCategory, error)
	CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, category *DrugCategory) error
	DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error

	// NextNumberSequence returns the next category number sequence for a clinic
	NextNumberSequence(ctx context.Context, clinicID uuid.UUID) (int64, error)
}

// UnitRepository defines the interface for drug unit persistence
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*Unit, error)
	FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]Unit, error)
	Save(ctx context.Context, unit *Unit) error
	DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error
}

// DrugFactoryRepository defines the interface for drug factory persistence.
// Factories are shared master data; partnership methods manage which
// factories a clinic purchases from.
type DrugFactoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DrugFactory, error)

	// FindByName finds a factory by exact name
	FindByName(ctx context.Context, name string) (*DrugFactory, error)

	// FindPartneredForClinic finds factories the clinic has partnered with
	FindPartneredForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]DrugFactory, error)

	// CountPartneredForClinic counts partnered factories
	CountPartneredForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error)

	Save(ctx context.Context, factory *DrugFactory) error

	// AttachClinic creates a partnership between a clinic and a factory
	AttachClinic(ctx context.Context, clinicID, factoryID uuid.UUID) error

	// DetachClinic removes a partnership
	DetachClinic(ctx context.Context, clinicID, factoryID uuid.UUID) error

	// IsPartnered reports whether the clinic has a partnership with the factory
	IsPartnered(ctx context.Context, clinicID, factoryID uuid.UUID) (bool, error)
}

package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/shared"
)

// GormStockLotRepository implements StockLotRepository using GORM
type GormStockLotRepository struct {
	db *gorm.DB
}

// NewGormStockLotRepository creates a new GormStockLotRepository
func NewGormStockLotRepository(db *gorm.DB) *GormStockLotRepository {
	return &GormStockLotRepository{db: db}
}

// FindByID finds a stock lot by its ID
func (r *GormStockLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*pharmacy.StockLot, error) {
	var lot pharmacy.StockLot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindActiveByDrug finds lots with active stock for a drug in receipt order.
// Dispensing consumes the oldest received lot first, regardless of expiry.
func (r *GormStockLotRepository) FindActiveByDrug(ctx context.Context, clinicID, drugID uuid.UUID) ([]*pharmacy.StockLot, error) {
	var lots []*pharmacy.StockLot
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND drug_id = ? AND active_quantity > 0", clinicID, drugID).
		Order("created_at ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindByDrug finds all lots for a drug, newest first
func (r *GormStockLotRepository) FindByDrug(ctx context.Context, clinicID, drugID uuid.UUID, filter shared.Filter) ([]pharmacy.StockLot, error) {
	var lots []pharmacy.StockLot
	orderBy := ValidateSortField(filter.OrderBy, StockLotSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND drug_id = ?", clinicID, drugID).
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindExpiringBefore finds lots with active stock expiring before the cutoff
func (r *GormStockLotRepository) FindExpiringBefore(ctx context.Context, clinicID uuid.UUID, cutoff time.Time, filter shared.Filter) ([]pharmacy.StockLot, error) {
	var lots []pharmacy.StockLot
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND active_quantity > 0 AND expired_date < ?", clinicID, cutoff).
		Order("expired_date ASC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// Save creates or updates a stock lot
func (r *GormStockLotRepository) Save(ctx context.Context, lot *pharmacy.StockLot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

// SaveAll persists multiple lots
func (r *GormStockLotRepository) SaveAll(ctx context.Context, lots []*pharmacy.StockLot) error {
	if len(lots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(lots).Error
}

// NextBatchSequence returns the next batch number sequence for a clinic.
// Batch numbers restart at 1 each day, so only today's batches are scanned.
func (r *GormStockLotRepository) NextBatchSequence(ctx context.Context, clinicID uuid.UUID) (int64, error) {
	now := time.Now()
	prefix := fmt.Sprintf("BN%d%d%d", now.Year(), int(now.Month()), now.Day())

	var last pharmacy.StockLot
	err := r.db.WithContext(ctx).
		Model(&pharmacy.StockLot{}).
		Where("clinic_id = ? AND batch_number LIKE ?", clinicID, prefix+"%").
		Order("LENGTH(batch_number) DESC, batch_number DESC").
		First(&last).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	seq, parseErr := strconv.ParseInt(strings.TrimPrefix(last.BatchNumber, prefix), 10, 64)
	if parseErr != nil {
		return 1, nil
	}
	return seq + 1, nil
}

// SumActiveByDrug sums active quantity across a drug's lots
func (r *GormStockLotRepository) SumActiveByDrug(ctx context.Context, clinicID, drugID uuid.UUID) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).
		Model(&pharmacy.StockLot{}).
		Where("clinic_id = ? AND drug_id = ?", clinicID, drugID).
		Select("COALESCE(SUM(active_quantity), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

var _ pharmacy.StockLotRepository = (*GormStockLotRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/klinika/backend/internal/domain/purchasing"
	"github.com/klinika/backend/internal/domain/shared"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase with its items
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseTransaction, error) {
	var purchase purchasing.PurchaseTransaction
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindByIDForClinic finds a purchase by ID within a clinic
func (r *GormPurchaseRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*purchasing.PurchaseTransaction, error) {
	var purchase purchasing.PurchaseTransaction
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("clinic_id = ? AND id = ?", clinicID, id).
		First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindAllForClinic lists purchases, searching invoice number and factory name
func (r *GormPurchaseRepository) FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseTransaction, error) {
	var purchases []purchasing.PurchaseTransaction
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&purchasing.PurchaseTransaction{}).Where("clinic_id = ?", clinicID),
		filter,
	)

	orderBy := ValidateSortField(filter.OrderBy, PurchaseSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := query.
		Preload("Items").
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// CountForClinic counts purchases matching the filter
func (r *GormPurchaseRepository) CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&purchasing.PurchaseTransaction{}).Where("clinic_id = ?", clinicID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the purchase and its items
func (r *GormPurchaseRepository) Save(ctx context.Context, purchase *purchasing.PurchaseTransaction) error {
	return r.db.WithContext(ctx).Save(purchase).Error
}

// NextInvoiceSequence returns the next invoice sequence for a clinic on a day.
// Invoice numbers restart at 1 each day.
func (r *GormPurchaseRepository) NextInvoiceSequence(ctx context.Context, clinicID uuid.UUID, day time.Time) (int64, error) {
	prefix := "INV/" + day.Format("20060102") + "/"

	var last purchasing.PurchaseTransaction
	err := r.db.WithContext(ctx).
		Model(&purchasing.PurchaseTransaction{}).
		Where("clinic_id = ? AND invoice_number LIKE ?", clinicID, prefix+"%").
		Order("LENGTH(invoice_number) DESC, invoice_number DESC").
		First(&last).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	seq, parseErr := strconv.ParseInt(strings.TrimPrefix(last.InvoiceNumber, prefix), 10, 64)
	if parseErr != nil {
		return 1, nil
	}
	return seq + 1, nil
}

// SumSpendForDay sums purchase totals for a clinic on one day
func (r *GormPurchaseRepository) SumSpendForDay(ctx context.Context, clinicID uuid.UUID, day time.Time) (decimal.Decimal, error) {
	start, end := dayBounds(day)

	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&purchasing.PurchaseTransaction{}).
		Where("clinic_id = ? AND created_at >= ? AND created_at < ?", clinicID, start, end).
		Select("COALESCE(SUM(total_price), 0)").
		Row().Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (r *GormPurchaseRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number LIKE ? OR factory_name ILIKE ?", pattern, pattern)
	}
	if factoryID, ok := filter.Filters["factory_id"]; ok {
		query = query.Where("factory_id = ?", factoryID)
	}
	return query
}

var _ purchasing.PurchaseRepository = (*GormPurchaseRepository)(nil)

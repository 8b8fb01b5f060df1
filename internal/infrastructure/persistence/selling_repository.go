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

	"github.com/klinika/backend/internal/domain/billing"
	"github.com/klinika/backend/internal/domain/shared"
)

// GormSellingRepository implements SellingRepository using GORM
type GormSellingRepository struct {
	db *gorm.DB
}

// NewGormSellingRepository creates a new GormSellingRepository
func NewGormSellingRepository(db *gorm.DB) *GormSellingRepository {
	return &GormSellingRepository{db: db}
}

// FindByID finds a transaction with its carts
func (r *GormSellingRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.SellingTransaction, error) {
	var transaction billing.SellingTransaction
	if err := r.db.WithContext(ctx).
		Preload("DrugCarts").
		Preload("ActionCarts").
		First(&transaction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

// FindByIDForClinic finds a transaction by ID within a clinic
func (r *GormSellingRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*billing.SellingTransaction, error) {
	var transaction billing.SellingTransaction
	if err := r.db.WithContext(ctx).
		Preload("DrugCarts").
		Preload("ActionCarts").
		Where("clinic_id = ? AND id = ?", clinicID, id).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

// FindByQueue finds the transaction attached to a queue entry
func (r *GormSellingRepository) FindByQueue(ctx context.Context, clinicID, queueID uuid.UUID) (*billing.SellingTransaction, error) {
	var transaction billing.SellingTransaction
	if err := r.db.WithContext(ctx).
		Preload("DrugCarts").
		Preload("ActionCarts").
		Where("clinic_id = ? AND queue_id = ?", clinicID, queueID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

// FindUnpaidForClinic lists unpaid bills, oldest first
func (r *GormSellingRepository) FindUnpaidForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]billing.SellingTransaction, error) {
	var transactions []billing.SellingTransaction
	if err := r.db.WithContext(ctx).
		Preload("DrugCarts").
		Preload("ActionCarts").
		Where("clinic_id = ? AND paid = false", clinicID).
		Order("created_at ASC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindPaidForPickup lists paid bills with drugs not yet collected
func (r *GormSellingRepository) FindPaidForPickup(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]billing.SellingTransaction, error) {
	var transactions []billing.SellingTransaction
	if err := r.db.WithContext(ctx).
		Preload("DrugCarts").
		Where("clinic_id = ? AND paid = true AND picked_up = false", clinicID).
		Where("EXISTS (SELECT 1 FROM drug_cart_items WHERE drug_cart_items.transaction_id = selling_transactions.id)").
		Order("paid_at ASC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindAllForClinic lists transactions, searching invoice and registration numbers
func (r *GormSellingRepository) FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]billing.SellingTransaction, error) {
	var transactions []billing.SellingTransaction
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&billing.SellingTransaction{}).Where("clinic_id = ?", clinicID),
		filter,
	)

	orderBy := ValidateSortField(filter.OrderBy, SellingSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := query.
		Preload("DrugCarts").
		Preload("ActionCarts").
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// CountForClinic counts transactions matching the filter
func (r *GormSellingRepository) CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&billing.SellingTransaction{}).Where("clinic_id = ?", clinicID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the transaction and its carts
func (r *GormSellingRepository) Save(ctx context.Context, transaction *billing.SellingTransaction) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(transaction).Error
}

// DeleteDrugCartItem removes one persisted drug cart line
func (r *GormSellingRepository) DeleteDrugCartItem(ctx context.Context, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.DrugCartItem{}, "id = ?", itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteActionCartItem removes one persisted action cart line
func (r *GormSellingRepository) DeleteActionCartItem(ctx context.Context, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.ActionCartItem{}, "id = ?", itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextInvoiceSequence returns the next invoice sequence for a clinic on a day.
// Invoice numbers restart at 1 each day.
func (r *GormSellingRepository) NextInvoiceSequence(ctx context.Context, clinicID uuid.UUID, day time.Time) (int64, error) {
	prefix := "INV/" + day.Format("20060102") + "/"

	var last billing.SellingTransaction
	err := r.db.WithContext(ctx).
		Model(&billing.SellingTransaction{}).
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

// SumRevenueForDay sums paid totals for a clinic on one day
func (r *GormSellingRepository) SumRevenueForDay(ctx context.Context, clinicID uuid.UUID, day time.Time) (decimal.Decimal, error) {
	start, end := dayBounds(day)

	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&billing.SellingTransaction{}).
		Where("clinic_id = ? AND paid = true AND paid_at >= ? AND paid_at < ?", clinicID, start, end).
		Select("COALESCE(SUM(total_price), 0)").
		Row().Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// CountPaidForDay counts paid transactions for a clinic on one day
func (r *GormSellingRepository) CountPaidForDay(ctx context.Context, clinicID uuid.UUID, day time.Time) (int64, error) {
	start, end := dayBounds(day)

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.SellingTransaction{}).
		Where("clinic_id = ? AND paid = true AND paid_at >= ? AND paid_at < ?", clinicID, start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSellingRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number LIKE ? OR registration_number LIKE ?", pattern, pattern)
	}
	if paid, ok := filter.Filters["paid"]; ok {
		query = query.Where("paid = ?", paid)
	}
	return query
}

var _ billing.SellingRepository = (*GormSellingRepository)(nil)

// GormActionRepository implements ActionRepository using GORM
type GormActionRepository struct {
	db *gorm.DB
}

// NewGormActionRepository creates a new GormActionRepository
func NewGormActionRepository(db *gorm.DB) *GormActionRepository {
	return &GormActionRepository{db: db}
}

// FindByID finds an action by its ID
func (r *GormActionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Action, error) {
	var action billing.Action
	if err := r.db.WithContext(ctx).First(&action, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &action, nil
}

// FindByIDForClinic finds an action by ID within a clinic
func (r *GormActionRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*billing.Action, error) {
	var action billing.Action
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		First(&action).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &action, nil
}

// FindAllForClinic lists a clinic's actions
func (r *GormActionRepository) FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]billing.Action, error) {
	var actions []billing.Action
	query := r.db.WithContext(ctx).Model(&billing.Action{}).Where("clinic_id = ?", clinicID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.
		Order("name ASC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

// CountForClinic counts actions matching the filter
func (r *GormActionRepository) CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&billing.Action{}).Where("clinic_id = ?", clinicID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an action
func (r *GormActionRepository) Save(ctx context.Context, action *billing.Action) error {
	return r.db.WithContext(ctx).Save(action).Error
}

// DeleteForClinic deletes an action within a clinic
func (r *GormActionRepository) DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Action{}, "clinic_id = ? AND id = ?", clinicID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ billing.ActionRepository = (*GormActionRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/shared"
)

// GormDrugRepository implements DrugRepository using GORM
type GormDrugRepository struct {
	db *gorm.DB
}

// NewGormDrugRepository creates a new GormDrugRepository
func NewGormDrugRepository(db *gorm.DB) *GormDrugRepository {
	return &GormDrugRepository{db: db}
}

// FindByID finds a drug by its ID
func (r *GormDrugRepository) FindByID(ctx context.Context, id uuid.UUID) (*pharmacy.Drug, error) {
	var drug pharmacy.Drug
	if err := r.db.WithContext(ctx).First(&drug, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &drug, nil
}

// FindByIDForClinic finds a drug by ID within a clinic
func (r *GormDrugRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*pharmacy.Drug, error) {
	var drug pharmacy.Drug
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		First(&drug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &drug, nil
}

// FindByNumber finds a drug by its catalog number within a clinic
func (r *GormDrugRepository) FindByNumber(ctx context.Context, clinicID uuid.UUID, number string) (*pharmacy.Drug, error) {
	var drug pharmacy.Drug
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND number = ?", clinicID, strings.ToUpper(number)).
		First(&drug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &drug, nil
}

// FindAllForClinic finds all drugs for a clinic
func (r *GormDrugRepository) FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]pharmacy.Drug, error) {
	var drugs []pharmacy.Drug
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&pharmacy.Drug{}).Where("clinic_id = ?", clinicID),
		filter,
	)

	if err := query.Find(&drugs).Error; err != nil {
		return nil, err
	}
	return drugs, nil
}

// CountForClinic counts drugs matching the filter
func (r *GormDrugRepository) CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&pharmacy.Drug{}).Where("clinic_id = ?", clinicID)
	query = r.applySearch(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a drug
func (r *GormDrugRepository) Save(ctx context.Context, drug *pharmacy.Drug) error {
	return r.db.WithContext(ctx).Save(drug).Error
}

// SaveWithLock saves stock fields with optimistic locking (checks version)
func (r *GormDrugRepository) SaveWithLock(ctx context.Context, drug *pharmacy.Drug) error {
	result := r.db.WithContext(ctx).
		Model(drug).
		Where("id = ? AND version = ?", drug.ID, drug.Version-1).
		Updates(map[string]interface{}{
			"total_stock": drug.TotalStock,
			"version":     drug.Version,
			"updated_at":  drug.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Drug stock was modified by another transaction")
	}
	return nil
}

// DeleteForClinic deletes a drug within a clinic
func (r *GormDrugRepository) DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&pharmacy.Drug{}, "clinic_id = ? AND id = ?", clinicID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextNumberSequence returns the next drug number sequence for a clinic.
// Drug numbers are the OBT prefix followed by an unpadded sequence, so
// the numeric maximum is found by ordering on length before value.
func (r *GormDrugRepository) NextNumberSequence(ctx context.Context, clinicID uuid.UUID) (int64, error) {
	var last pharmacy.Drug
	err := r.db.WithContext(ctx).
		Model(&pharmacy.Drug{}).
		Where("clinic_id = ? AND number LIKE ?", clinicID, "OBT%").
		Order("LENGTH(number) DESC, number DESC").
		First(&last).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	seq, parseErr := strconv.ParseInt(strings.TrimPrefix(last.Number, "OBT"), 10, 64)
	if parseErr != nil {
		return 1, nil
	}
	return seq + 1, nil
}

// applyFilter applies search, pagination and ordering to the query
func (r *GormDrugRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, DrugSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	return query.Offset(filter.Offset()).Limit(filter.Limit())
}

func (r *GormDrugRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR generic_name ILIKE ?", pattern, pattern)
	}
	if categoryID, ok := filter.Filters["category_id"]; ok {
		query = query.Where("category_id = ?", categoryID)
	}
	return query
}

var _ pharmacy.DrugRepository = (*GormDrugRepository)(nil)

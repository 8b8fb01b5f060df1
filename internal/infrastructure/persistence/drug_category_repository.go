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

// GormDrugCategoryRepository implements DrugCategoryRepository using GORM
type GormDrugCategoryRepository struct {
	db *gorm.DB
}

// NewGormDrugCategoryRepository creates a new GormDrugCategoryRepository
func NewGormDrugCategoryRepository(db *gorm.DB) *GormDrugCategoryRepository {
	return &GormDrugCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormDrugCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*pharmacy.DrugCategory, error) {
	var category pharmacy.DrugCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindByIDForClinic finds a category by ID within a clinic
func (r *GormDrugCategoryRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*pharmacy.DrugCategory, error) {
	var category pharmacy.DrugCategory
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAllForClinic finds all categories for a clinic
func (r *GormDrugCategoryRepository) FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]pharmacy.DrugCategory, error) {
	var categories []pharmacy.DrugCategory
	query := r.db.WithContext(ctx).Model(&pharmacy.DrugCategory{}).Where("clinic_id = ?", clinicID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	orderBy := ValidateSortField(filter.OrderBy, CommonSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := query.
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CountForClinic counts categories matching the filter
func (r *GormDrugCategoryRepository) CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&pharmacy.DrugCategory{}).Where("clinic_id = ?", clinicID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a category
func (r *GormDrugCategoryRepository) Save(ctx context.Context, category *pharmacy.DrugCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// DeleteForClinic deletes a category within a clinic
func (r *GormDrugCategoryRepository) DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&pharmacy.DrugCategory{}, "clinic_id = ? AND id = ?", clinicID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextNumberSequence returns the next category number sequence for a clinic
func (r *GormDrugCategoryRepository) NextNumberSequence(ctx context.Context, clinicID uuid.UUID) (int64, error) {
	var last pharmacy.DrugCategory
	err := r.db.WithContext(ctx).
		Model(&pharmacy.DrugCategory{}).
		Where("clinic_id = ? AND number LIKE ?", clinicID, "KTO%").
		Order("LENGTH(number) DESC, number DESC").
		First(&last).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	seq, parseErr := strconv.ParseInt(strings.TrimPrefix(last.Number, "KTO"), 10, 64)
	if parseErr != nil {
		return 1, nil
	}
	return seq + 1, nil
}

var _ pharmacy.DrugCategoryRepository = (*GormDrugCategoryRepository)(nil)

// GormUnitRepository implements UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID finds a unit by its ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*pharmacy.Unit, error) {
	var unit pharmacy.Unit
	if err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindByIDForClinic finds a unit by ID within a clinic
func (r *GormUnitRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*pharmacy.Unit, error) {
	var unit pharmacy.Unit
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindAllForClinic finds all units for a clinic
func (r *GormUnitRepository) FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]pharmacy.Unit, error) {
	var units []pharmacy.Unit
	query := r.db.WithContext(ctx).Model(&pharmacy.Unit{}).Where("clinic_id = ?", clinicID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.
		Order("created_at ASC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Save creates or updates a unit
func (r *GormUnitRepository) Save(ctx context.Context, unit *pharmacy.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

// DeleteForClinic deletes a unit within a clinic
func (r *GormUnitRepository) DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&pharmacy.Unit{}, "clinic_id = ? AND id = ?", clinicID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ pharmacy.UnitRepository = (*GormUnitRepository)(nil)

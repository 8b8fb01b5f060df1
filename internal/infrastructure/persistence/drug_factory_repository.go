package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/shared"
)

// GormDrugFactoryRepository implements DrugFactoryRepository using GORM.
// Factories are shared master data; the partnership table records which
// factories a clinic purchases from.
type GormDrugFactoryRepository struct {
	db *gorm.DB
}

// NewGormDrugFactoryRepository creates a new GormDrugFactoryRepository
func NewGormDrugFactoryRepository(db *gorm.DB) *GormDrugFactoryRepository {
	return &GormDrugFactoryRepository{db: db}
}

// FindByID finds a factory by its ID
func (r *GormDrugFactoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*pharmacy.DrugFactory, error) {
	var factory pharmacy.DrugFactory
	if err := r.db.WithContext(ctx).First(&factory, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &factory, nil
}

// FindByName finds a factory by exact name
func (r *GormDrugFactoryRepository) FindByName(ctx context.Context, name string) (*pharmacy.DrugFactory, error) {
	var factory pharmacy.DrugFactory
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&factory).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &factory, nil
}

// FindPartneredForClinic finds factories the clinic has partnered with
func (r *GormDrugFactoryRepository) FindPartneredForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]pharmacy.DrugFactory, error) {
	var factories []pharmacy.DrugFactory
	query := r.partneredQuery(ctx, clinicID, filter)

	if err := query.
		Order("drug_factories.name ASC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&factories).Error; err != nil {
		return nil, err
	}
	return factories, nil
}

// CountPartneredForClinic counts partnered factories
func (r *GormDrugFactoryRepository) CountPartneredForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.partneredQuery(ctx, clinicID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormDrugFactoryRepository) partneredQuery(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&pharmacy.DrugFactory{}).
		Joins("JOIN factory_partnerships ON factory_partnerships.factory_id = drug_factories.id").
		Where("factory_partnerships.clinic_id = ?", clinicID)

	if filter.Search != "" {
		query = query.Where("drug_factories.name ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Save creates or updates a factory
func (r *GormDrugFactoryRepository) Save(ctx context.Context, factory *pharmacy.DrugFactory) error {
	return r.db.WithContext(ctx).Save(factory).Error
}

// AttachClinic creates a partnership between a clinic and a factory
func (r *GormDrugFactoryRepository) AttachClinic(ctx context.Context, clinicID, factoryID uuid.UUID) error {
	partnered, err := r.IsPartnered(ctx, clinicID, factoryID)
	if err != nil {
		return err
	}
	if partnered {
		return nil
	}

	partnership := pharmacy.NewFactoryPartnership(clinicID, factoryID)
	return r.db.WithContext(ctx).Create(partnership).Error
}

// DetachClinic removes a partnership
func (r *GormDrugFactoryRepository) DetachClinic(ctx context.Context, clinicID, factoryID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&pharmacy.FactoryPartnership{}, "clinic_id = ? AND factory_id = ?", clinicID, factoryID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// IsPartnered reports whether the clinic has a partnership with the factory
func (r *GormDrugFactoryRepository) IsPartnered(ctx context.Context, clinicID, factoryID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&pharmacy.FactoryPartnership{}).
		Where("clinic_id = ? AND factory_id = ?", clinicID, factoryID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ pharmacy.DrugFactoryRepository = (*GormDrugFactoryRepository)(nil)

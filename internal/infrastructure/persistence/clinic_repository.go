package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klinika/backend/internal/domain/clinic"
	"github.com/klinika/backend/internal/domain/shared"
)

// GormClinicRepository implements ClinicRepository using GORM
type GormClinicRepository struct {
	db *gorm.DB
}

// NewGormClinicRepository creates a new GormClinicRepository
func NewGormClinicRepository(db *gorm.DB) *GormClinicRepository {
	return &GormClinicRepository{db: db}
}

// FindByID finds a clinic by its ID
func (r *GormClinicRepository) FindByID(ctx context.Context, id uuid.UUID) (*clinic.Clinic, error) {
	var c clinic.Clinic
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll lists all clinics
func (r *GormClinicRepository) FindAll(ctx context.Context, filter shared.Filter) ([]clinic.Clinic, error) {
	var clinics []clinic.Clinic
	query := r.db.WithContext(ctx).Model(&clinic.Clinic{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&clinics).Error; err != nil {
		return nil, err
	}
	return clinics, nil
}

// Count counts clinics matching the filter
func (r *GormClinicRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&clinic.Clinic{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a clinic
func (r *GormClinicRepository) Save(ctx context.Context, c *clinic.Clinic) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete removes a clinic
func (r *GormClinicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&clinic.Clinic{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SaveWithLock saves cashier state with optimistic locking (checks version).
// Payments from several cashiers race on the balance.
func (r *GormClinicRepository) SaveWithLock(ctx context.Context, c *clinic.Clinic) error {
	result := r.db.WithContext(ctx).
		Model(c).
		Where("id = ? AND version = ?", c.ID, c.Version-1).
		Updates(map[string]interface{}{
			"cashier_open":    c.CashierOpen,
			"cashier_balance": c.CashierBalance,
			"opening_balance": c.OpeningBalance,
			"opened_at":       c.OpenedAt,
			"opened_by":       c.OpenedBy,
			"version":         c.Version,
			"updated_at":      c.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Clinic cashier was modified by another transaction")
	}
	return nil
}

var _ clinic.ClinicRepository = (*GormClinicRepository)(nil)

// GormCashierSessionRepository implements CashierSessionRepository using GORM
type GormCashierSessionRepository struct {
	db *gorm.DB
}

// NewGormCashierSessionRepository creates a new GormCashierSessionRepository
func NewGormCashierSessionRepository(db *gorm.DB) *GormCashierSessionRepository {
	return &GormCashierSessionRepository{db: db}
}

// Save persists a closed cashier session
func (r *GormCashierSessionRepository) Save(ctx context.Context, session *clinic.CashierSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// FindAllForClinic lists a clinic's cashier sessions, newest first
func (r *GormCashierSessionRepository) FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]clinic.CashierSession, error) {
	var sessions []clinic.CashierSession
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ?", clinicID).
		Order("closed_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// CountForClinic counts a clinic's cashier sessions
func (r *GormCashierSessionRepository) CountForClinic(ctx context.Context, clinicID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&clinic.CashierSession{}).
		Where("clinic_id = ?", clinicID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ clinic.CashierSessionRepository = (*GormCashierSessionRepository)(nil)

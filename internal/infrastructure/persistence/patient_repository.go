package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klinika/backend/internal/domain/patient"
	"github.com/klinika/backend/internal/domain/shared"
)

// GormPatientRepository implements PatientRepository using GORM
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GormPatientRepository
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

// FindByID finds a patient by its ID
func (r *GormPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByIDForClinic finds a patient by ID within a clinic
func (r *GormPatientRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByNIK finds a patient by national ID within a clinic
func (r *GormPatientRepository) FindByNIK(ctx context.Context, clinicID uuid.UUID, nik string) (*patient.Patient, error) {
	var p patient.Patient
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND nik = ?", clinicID, nik).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAllForClinic lists patients, searching full name, NIK and record number
func (r *GormPatientRepository) FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]patient.Patient, error) {
	var patients []patient.Patient
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&patient.Patient{}).Where("clinic_id = ?", clinicID),
		filter,
	)

	orderBy := ValidateSortField(filter.OrderBy, PatientSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := query.
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// CountForClinic counts patients matching the filter
func (r *GormPatientRepository) CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&patient.Patient{}).Where("clinic_id = ?", clinicID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a patient
func (r *GormPatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// DeleteForClinic deletes a patient within a clinic
func (r *GormPatientRepository) DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&patient.Patient{}, "clinic_id = ? AND id = ?", clinicID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextRecordSequence returns the next medical record number sequence
// for a clinic. Record numbers are zero padded, so lexical order
// matches numeric order.
func (r *GormPatientRepository) NextRecordSequence(ctx context.Context, clinicID uuid.UUID) (int64, error) {
	var last patient.Patient
	err := r.db.WithContext(ctx).
		Model(&patient.Patient{}).
		Where("clinic_id = ? AND record_number LIKE ?", clinicID, "RM%").
		Order("record_number DESC").
		First(&last).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	seq, parseErr := strconv.ParseInt(strings.TrimPrefix(last.RecordNumber, "RM"), 10, 64)
	if parseErr != nil {
		return 1, nil
	}
	return seq + 1, nil
}

func (r *GormPatientRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR nik LIKE ? OR record_number LIKE ?", pattern, pattern, pattern)
	}
	return query
}

var _ patient.PatientRepository = (*GormPatientRepository)(nil)

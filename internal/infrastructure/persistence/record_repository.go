package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klinika/backend/internal/domain/record"
	"github.com/klinika/backend/internal/domain/shared"
)

// GormRecordRepository implements RecordRepository using GORM
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

// FindByID finds a record with its drug assessments
func (r *GormRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*record.Record, error) {
	var rec record.Record
	if err := r.db.WithContext(ctx).
		Preload("DrugAssessments").
		First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindByIDForClinic finds a record by ID within a clinic
func (r *GormRecordRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*record.Record, error) {
	var rec record.Record
	if err := r.db.WithContext(ctx).
		Preload("DrugAssessments").
		Where("clinic_id = ? AND id = ?", clinicID, id).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// FindByPatient lists a patient's records, newest first
func (r *GormRecordRepository) FindByPatient(ctx context.Context, clinicID, patientID uuid.UUID, filter shared.Filter) ([]record.Record, error) {
	var records []record.Record
	if err := r.db.WithContext(ctx).
		Preload("DrugAssessments").
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Order("created_at DESC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountByPatient counts a patient's records
func (r *GormRecordRepository) CountByPatient(ctx context.Context, clinicID, patientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&record.Record{}).
		Where("clinic_id = ? AND patient_id = ?", clinicID, patientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByQueue finds the record written during a queue entry's consultation
func (r *GormRecordRepository) FindByQueue(ctx context.Context, clinicID, queueID uuid.UUID) (*record.Record, error) {
	var rec record.Record
	if err := r.db.WithContext(ctx).
		Preload("DrugAssessments").
		Where("clinic_id = ? AND queue_id = ?", clinicID, queueID).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Save persists the record and its drug assessments
func (r *GormRecordRepository) Save(ctx context.Context, rec *record.Record) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(rec).Error
}

var _ record.RecordRepository = (*GormRecordRepository)(nil)

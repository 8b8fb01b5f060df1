package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klinika/backend/internal/domain/queue"
	"github.com/klinika/backend/internal/domain/shared"
)

// GormQueueRepository implements QueueRepository using GORM
type GormQueueRepository struct {
	db *gorm.DB
}

// NewGormQueueRepository creates a new GormQueueRepository
func NewGormQueueRepository(db *gorm.DB) *GormQueueRepository {
	return &GormQueueRepository{db: db}
}

// FindByID finds a queue entry by its ID
func (r *GormQueueRepository) FindByID(ctx context.Context, id uuid.UUID) (*queue.Queue, error) {
	var q queue.Queue
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindByIDForClinic finds a queue entry by ID within a clinic
func (r *GormQueueRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*queue.Queue, error) {
	var q queue.Queue
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND id = ?", clinicID, id).
		First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindByStatusForDay lists a clinic's queue entries in a status for one day, oldest first
func (r *GormQueueRepository) FindByStatusForDay(ctx context.Context, clinicID uuid.UUID, status queue.Status, day time.Time, filter shared.Filter) ([]queue.Queue, error) {
	start, end := dayBounds(day)

	var entries []queue.Queue
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND status = ? AND created_at >= ? AND created_at < ?", clinicID, status, start, end).
		Order("created_at ASC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindActiveByPatient finds a patient's unfinished queue entry, if any
func (r *GormQueueRepository) FindActiveByPatient(ctx context.Context, clinicID, patientID uuid.UUID) (*queue.Queue, error) {
	var q queue.Queue
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND patient_id = ? AND status <> ?", clinicID, patientID, queue.StatusDone).
		Order("created_at DESC").
		First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// CountByStatusForDay counts entries in a status for one day
func (r *GormQueueRepository) CountByStatusForDay(ctx context.Context, clinicID uuid.UUID, status queue.Status, day time.Time) (int64, error) {
	start, end := dayBounds(day)

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&queue.Queue{}).
		Where("clinic_id = ? AND status = ? AND created_at >= ? AND created_at < ?", clinicID, status, start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a queue entry
func (r *GormQueueRepository) Save(ctx context.Context, q *queue.Queue) error {
	return r.db.WithContext(ctx).Save(q).Error
}

// DeleteForClinic deletes a queue entry within a clinic
func (r *GormQueueRepository) DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&queue.Queue{}, "clinic_id = ? AND id = ?", clinicID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// dayBounds returns the local midnight bounds around a day
func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

var _ queue.QueueRepository = (*GormQueueRepository)(nil)

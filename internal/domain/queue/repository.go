package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
)

// QueueRepository defines the interface for queue persistence
type QueueRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Queue, error)
	FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*Queue, error)

	// FindByStatusForDay lists a clinic's queue entries in a status for one day,
	// oldest first
	FindByStatusForDay(ctx context.Context, clinicID uuid.UUID, status Status, day time.Time, filter shared.Filter) ([]Queue, error)

	// FindActiveByPatient finds a patient's unfinished queue entry, if any
	FindActiveByPatient(ctx context.Context, clinicID, patientID uuid.UUID) (*Queue, error)

	// CountByStatusForDay counts entries in a status for one day
	CountByStatusForDay(ctx context.Context, clinicID uuid.UUID, status Status, day time.Time) (int64, error)

	Save(ctx context.Context, queue *Queue) error
	DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error
}

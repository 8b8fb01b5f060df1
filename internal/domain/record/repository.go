package record

import (
	"context"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
)

// RecordRepository defines the interface for medical record persistence
type RecordRepository interface {
	// FindByID finds a record with its drug assessments
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*Record, error)

	// FindByPatient lists a patient's records, newest first
	FindByPatient(ctx context.Context, clinicID, patientID uuid.UUID, filter shared.Filter) ([]Record, error)
	CountByPatient(ctx context.Context, clinicID, patientID uuid.UUID) (int64, error)

	// FindByQueue finds the record written during a queue entry's consultation
	FindByQueue(ctx context.Context, clinicID, queueID uuid.UUID) (*Record, error)

	// Save persists the record and its drug assessments
	Save(ctx context.Context, record *Record) error
}

package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
)

// PatientRepository defines the interface for patient persistence
type PatientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*Patient, error)

	// FindByNIK finds a patient by national ID within a clinic
	FindByNIK(ctx context.Context, clinicID uuid.UUID, nik string) (*Patient, error)

	// FindAllForClinic lists patients, searching full name and NIK
	FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]Patient, error)
	CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error)

	Save(ctx context.Context, patient *Patient) error
	DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error

	// NextRecordSequence returns the next medical record number sequence for a clinic
	NextRecordSequence(ctx context.Context, clinicID uuid.UUID) (int64, error)
}

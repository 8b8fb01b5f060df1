package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/patient"
	"github.com/klinika/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PatientService manages patient registration for a clinic
type PatientService struct {
	patientRepo patient.PatientRepository
	logger      *zap.Logger
}

// NewPatientService creates a new patient service
func NewPatientService(patientRepo patient.PatientRepository, logger *zap.Logger) *PatientService {
	return &PatientService{
		patientRepo: patientRepo,
		logger:      logger,
	}
}

// Register creates a patient with the next medical record number.
// NIK must be unique within the clinic.
func (s *PatientService) Register(ctx context.Context, clinicID uuid.UUID, req RegisterPatientRequest) (*PatientResponse, error) {
	existing, err := s.patientRepo.FindByNIK(ctx, clinicID, req.NIK)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("NIK_TAKEN", "A patient with this NIK is already registered")
	}

	sequence, err := s.patientRepo.NextRecordSequence(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	p, err := patient.NewPatient(
		clinicID,
		patient.FormatRecordNumber(sequence),
		req.NIK,
		req.FullName,
		patient.Gender(req.Gender),
		req.PlaceOfBirth,
		req.BirthDate,
		req.Phone,
		req.Address,
		req.Allergy,
		req.Occupation,
	)
	if err != nil {
		return nil, err
	}

	if err := s.patientRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Patient registered",
		zap.String("clinic_id", clinicID.String()),
		zap.String("record_number", p.RecordNumber))

	response := ToPatientResponse(p)
	return &response, nil
}

// GetByID returns a patient of the clinic
func (s *PatientService) GetByID(ctx context.Context, clinicID, patientID uuid.UUID) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByIDForClinic(ctx, clinicID, patientID)
	if err != nil {
		return nil, err
	}
	response := ToPatientResponse(p)
	return &response, nil
}

// List returns the clinic's patients, searching name, NIK and record number
func (s *PatientService) List(ctx context.Context, clinicID uuid.UUID, filter PatientListFilter) (shared.Paginated[PatientResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	patients, err := s.patientRepo.FindAllForClinic(ctx, clinicID, domainFilter)
	if err != nil {
		return shared.Paginated[PatientResponse]{}, err
	}
	total, err := s.patientRepo.CountForClinic(ctx, clinicID, domainFilter)
	if err != nil {
		return shared.Paginated[PatientResponse]{}, err
	}

	return shared.NewPaginated(ToPatientResponses(patients), total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update changes a patient's registration details
func (s *PatientService) Update(ctx context.Context, clinicID, patientID uuid.UUID, req UpdatePatientRequest) (*PatientResponse, error) {
	p, err := s.patientRepo.FindByIDForClinic(ctx, clinicID, patientID)
	if err != nil {
		return nil, err
	}

	if err := p.Update(
		req.FullName,
		patient.Gender(req.Gender),
		req.PlaceOfBirth,
		req.BirthDate,
		req.Phone,
		req.Address,
		req.Allergy,
		req.Occupation,
	); err != nil {
		return nil, err
	}
	if err := s.patientRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	response := ToPatientResponse(p)
	return &response, nil
}

// Delete removes a patient from the clinic
func (s *PatientService) Delete(ctx context.Context, clinicID, patientID uuid.UUID) error {
	return s.patientRepo.DeleteForClinic(ctx, clinicID, patientID)
}

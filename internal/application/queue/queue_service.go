package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/clinic"
	"github.com/klinika/backend/internal/domain/patient"
	"github.com/klinika/backend/internal/domain/queue"
	"github.com/klinika/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// QueueService moves patient visits through the clinic pipeline
type QueueService struct {
	queueRepo   queue.QueueRepository
	patientRepo patient.PatientRepository
	clinicRepo  clinic.ClinicRepository
	logger      *zap.Logger
}

// NewQueueService creates a new queue service
func NewQueueService(
	queueRepo queue.QueueRepository,
	patientRepo patient.PatientRepository,
	clinicRepo clinic.ClinicRepository,
	logger *zap.Logger,
) *QueueService {
	return &QueueService{
		queueRepo:   queueRepo,
		patientRepo: patientRepo,
		clinicRepo:  clinicRepo,
		logger:      logger,
	}
}

// Enqueue queues a patient for consultation. Requires an open cashier and
// a patient without an active visit.
func (s *QueueService) Enqueue(ctx context.Context, clinicID uuid.UUID, req EnqueueRequest) (*QueueResponse, error) {
	c, err := s.clinicRepo.FindByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if !c.CashierOpen {
		return nil, shared.ErrCashierClosed
	}

	p, err := s.patientRepo.FindByIDForClinic(ctx, clinicID, req.PatientID)
	if err != nil {
		return nil, err
	}

	if active, err := s.queueRepo.FindActiveByPatient(ctx, clinicID, req.PatientID); err == nil && active != nil {
		return nil, shared.NewDomainError("PATIENT_IN_QUEUE", "Patient already has an active visit")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	entry := queue.NewQueue(clinicID, req.PatientID, queue.FormatRegistrationNumber(time.Now()))
	if err := s.queueRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	p.MarkBusy()
	if err := s.patientRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Patient queued",
		zap.String("clinic_id", clinicID.String()),
		zap.String("registration_number", entry.RegistrationNumber))

	response := ToQueueResponse(entry)
	response.PatientName = p.FullName
	response.RecordNumber = p.RecordNumber
	return &response, nil
}

// ListByStatus returns a day's queue entries in one status, oldest first.
// An empty date means today.
func (s *QueueService) ListByStatus(ctx context.Context, clinicID uuid.UUID, filter QueueListFilter) ([]QueueResponse, error) {
	status := queue.Status(filter.Status)
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown queue status")
	}

	day := time.Now()
	if filter.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", filter.Date, time.Local)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Date must be YYYY-MM-DD")
		}
		day = parsed
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	entries, err := s.queueRepo.FindByStatusForDay(ctx, clinicID, status, day, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]QueueResponse, 0, len(entries))
	for i := range entries {
		response := ToQueueResponse(&entries[i])
		if p, err := s.patientRepo.FindByID(ctx, entries[i].PatientID); err == nil {
			response.PatientName = p.FullName
			response.RecordNumber = p.RecordNumber
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// TodayCounts reports how many entries sit in each status today
func (s *QueueService) TodayCounts(ctx context.Context, clinicID uuid.UUID) (*QueueCountsResponse, error) {
	today := time.Now()
	counts := &QueueCountsResponse{}

	for _, pair := range []struct {
		status queue.Status
		target *int64
	}{
		{queue.StatusConsultWait, &counts.ConsultWait},
		{queue.StatusConsulting, &counts.Consulting},
		{queue.StatusPayment, &counts.Payment},
		{queue.StatusDrugPickUp, &counts.DrugPickUp},
		{queue.StatusDone, &counts.Done},
	} {
		count, err := s.queueRepo.CountByStatusForDay(ctx, clinicID, pair.status, today)
		if err != nil {
			return nil, err
		}
		*pair.target = count
	}
	return counts, nil
}

// StartConsultation assigns the doctor and moves the entry to consulting
func (s *QueueService) StartConsultation(ctx context.Context, clinicID, queueID, doctorID uuid.UUID) (*QueueResponse, error) {
	entry, err := s.queueRepo.FindByIDForClinic(ctx, clinicID, queueID)
	if err != nil {
		return nil, err
	}
	if err := entry.StartConsultation(doctorID); err != nil {
		return nil, err
	}
	if err := s.queueRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Consultation started",
		zap.String("queue_id", queueID.String()),
		zap.String("doctor_id", doctorID.String()))

	response := ToQueueResponse(entry)
	return &response, nil
}

// Cancel removes a waiting entry and frees the patient.
// Only entries still waiting for consultation can be cancelled.
func (s *QueueService) Cancel(ctx context.Context, clinicID, queueID uuid.UUID) error {
	entry, err := s.queueRepo.FindByIDForClinic(ctx, clinicID, queueID)
	if err != nil {
		return err
	}
	if !entry.CanCancel() {
		return shared.ErrInvalidQueueStatus
	}

	if err := s.queueRepo.DeleteForClinic(ctx, clinicID, queueID); err != nil {
		return err
	}

	if p, err := s.patientRepo.FindByIDForClinic(ctx, clinicID, entry.PatientID); err == nil {
		p.MarkReady()
		if err := s.patientRepo.Save(ctx, p); err != nil {
			s.logger.Error("Failed to mark patient ready after cancel", zap.Error(err))
		}
	}

	s.logger.Info("Queue entry cancelled", zap.String("queue_id", queueID.String()))
	return nil
}

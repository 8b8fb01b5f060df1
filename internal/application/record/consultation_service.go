package record

import (
	"context"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/billing"
	"github.com/klinika/backend/internal/domain/clinic"
	"github.com/klinika/backend/internal/domain/patient"
	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/queue"
	"github.com/klinika/backend/internal/domain/record"
	"github.com/klinika/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ConsultationService closes consultations: the doctor's assessment becomes
// the medical record, the prescriptions and procedures become the unpaid
// bill, and the visit moves on to payment.
type ConsultationService struct {
	scope       TransactionScope
	queueRepo   queue.QueueRepository
	patientRepo patient.PatientRepository
	clinicRepo  clinic.ClinicRepository
	drugRepo    pharmacy.DrugRepository
	unitRepo    pharmacy.UnitRepository
	actionRepo  billing.ActionRepository
	recordRepo  record.RecordRepository
	logger      *zap.Logger
}

// NewConsultationService creates a new consultation service
func NewConsultationService(
	scope TransactionScope,
	queueRepo queue.QueueRepository,
	patientRepo patient.PatientRepository,
	clinicRepo clinic.ClinicRepository,
	drugRepo pharmacy.DrugRepository,
	unitRepo pharmacy.UnitRepository,
	actionRepo billing.ActionRepository,
	recordRepo record.RecordRepository,
	logger *zap.Logger,
) *ConsultationService {
	return &ConsultationService{
		scope:       scope,
		queueRepo:   queueRepo,
		patientRepo: patientRepo,
		clinicRepo:  clinicRepo,
		drugRepo:    drugRepo,
		unitRepo:    unitRepo,
		actionRepo:  actionRepo,
		recordRepo:  recordRepo,
		logger:      logger,
	}
}

// SubmitAssessment writes the medical record, opens the unpaid bill with
// drug and action carts, and moves the queue entry to payment. All of it
// lands in one transaction. Prescriptions do not touch stock here; the
// drugs are dispensed when the bill is paid.
func (s *ConsultationService) SubmitAssessment(ctx context.Context, clinicID, doctorID uuid.UUID, req SubmitAssessmentRequest) (*SubmitAssessmentResponse, error) {
	entry, err := s.queueRepo.FindByIDForClinic(ctx, clinicID, req.QueueID)
	if err != nil {
		return nil, err
	}
	if entry.Status != queue.StatusConsulting {
		return nil, shared.ErrInvalidQueueStatus
	}
	if entry.DoctorID == nil || *entry.DoctorID != doctorID {
		return nil, shared.NewDomainError("WRONG_DOCTOR", "Visit is assigned to another doctor")
	}

	p, err := s.patientRepo.FindByIDForClinic(ctx, clinicID, entry.PatientID)
	if err != nil {
		return nil, err
	}
	c, err := s.clinicRepo.FindByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	rec, err := record.NewRecord(
		clinicID, entry.PatientID, doctorID, entry.ID,
		record.PatientSnapshot{
			RecordNumber: p.RecordNumber,
			FullName:     p.FullName,
			NIK:          p.NIK,
			Gender:       string(p.Gender),
			BirthDate:    p.BirthDate,
		},
		record.Vitals{
			Height:          req.Vitals.Height,
			Weight:          req.Vitals.Weight,
			Systole:         req.Vitals.Systole,
			Diastole:        req.Vitals.Diastole,
			Temperature:     req.Vitals.Temperature,
			Pulse:           req.Vitals.Pulse,
			RespiratoryRate: req.Vitals.RespiratoryRate,
		},
		req.Subjective, req.Objective, req.Assessment, req.Plan,
	)
	if err != nil {
		return nil, err
	}

	bill, err := billing.NewSellingTransaction(clinicID, entry.PatientID, entry.ID, entry.RegistrationNumber, c.OutpatientFee)
	if err != nil {
		return nil, err
	}
	bill.AttachRecord(rec.ID)

	for _, line := range req.Drugs {
		drug, err := s.drugRepo.FindByIDForClinic(ctx, clinicID, line.DrugID)
		if err != nil {
			return nil, err
		}
		// Prescriptions are gated on aggregate stock but deplete nothing;
		// the lots are drained when the bill is paid. Duplicate lines count
		// against the same shelf.
		if !drug.HasStock(pendingQuantity(bill, drug.ID) + line.Quantity) {
			return nil, shared.NewInsufficientStockError(drug.Name)
		}
		if _, err := rec.AddDrugAssessment(drug.ID, drug.Name, line.Quantity, line.Instruction); err != nil {
			return nil, err
		}

		unitName := ""
		if unit, err := s.unitRepo.FindByID(ctx, drug.UnitID); err == nil {
			unitName = unit.Name
		}
		if _, err := bill.AddDrugCart(drug.ID, drug.Name, unitName, drug.SellingPrice, line.Quantity); err != nil {
			return nil, err
		}
	}

	for _, line := range req.Actions {
		action, err := s.actionRepo.FindByIDForClinic(ctx, clinicID, line.ActionID)
		if err != nil {
			return nil, err
		}
		if _, err := bill.AddActionCart(action.ID, action.Name, action.Price, line.Quantity); err != nil {
			return nil, err
		}
	}

	if err := entry.SendToPayment(); err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Records().Save(ctx, rec); err != nil {
			return err
		}
		if err := repos.Sellings().Save(ctx, bill); err != nil {
			return err
		}
		return repos.Queues().Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Assessment submitted",
		zap.String("clinic_id", clinicID.String()),
		zap.String("queue_id", entry.ID.String()),
		zap.String("record_id", rec.ID.String()),
		zap.Int("prescriptions", len(rec.DrugAssessments)),
		zap.String("bill_total", bill.TotalPrice.String()))

	return &SubmitAssessmentResponse{
		Record:        ToRecordResponse(rec),
		TransactionID: bill.ID,
		QueueStatus:   entry.Status.String(),
	}, nil
}

// GetByID returns a medical record
func (s *ConsultationService) GetByID(ctx context.Context, clinicID, recordID uuid.UUID) (*RecordResponse, error) {
	rec, err := s.recordRepo.FindByIDForClinic(ctx, clinicID, recordID)
	if err != nil {
		return nil, err
	}
	response := ToRecordResponse(rec)
	return &response, nil
}

// History returns a patient's medical records, newest first
func (s *ConsultationService) History(ctx context.Context, clinicID, patientID uuid.UUID, filter shared.Filter) (shared.Paginated[RecordResponse], error) {
	records, err := s.recordRepo.FindByPatient(ctx, clinicID, patientID, filter)
	if err != nil {
		return shared.Paginated[RecordResponse]{}, err
	}
	total, err := s.recordRepo.CountByPatient(ctx, clinicID, patientID)
	if err != nil {
		return shared.Paginated[RecordResponse]{}, err
	}
	return shared.NewPaginated(ToRecordResponses(records), total, filter.Page, filter.PageSize), nil
}

// ForQueue returns the record written for a visit
func (s *ConsultationService) ForQueue(ctx context.Context, clinicID, queueID uuid.UUID) (*RecordResponse, error) {
	rec, err := s.recordRepo.FindByQueue(ctx, clinicID, queueID)
	if err != nil {
		return nil, err
	}
	response := ToRecordResponse(rec)
	return &response, nil
}

// pendingQuantity sums how much of a drug the bill already carries
func pendingQuantity(bill *billing.SellingTransaction, drugID uuid.UUID) int {
	total := 0
	for _, line := range bill.DrugCarts {
		if line.DrugID == drugID {
			total += line.Quantity
		}
	}
	return total
}

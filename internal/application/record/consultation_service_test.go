package record

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/billing"
	"github.com/klinika/backend/internal/domain/clinic"
	"github.com/klinika/backend/internal/domain/patient"
	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/queue"
	"github.com/klinika/backend/internal/domain/record"
	"github.com/klinika/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockQueueRepository is a mock implementation of queue.QueueRepository
type MockQueueRepository struct {
	mock.Mock
}

func (m *MockQueueRepository) FindByID(ctx context.Context, id uuid.UUID) (*queue.Queue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.Queue), args.Error(1)
}

func (m *MockQueueRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*queue.Queue, error) {
	args := m.Called(ctx, clinicID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.Queue), args.Error(1)
}

func (m *MockQueueRepository) FindByStatusForDay(ctx context.Context, clinicID uuid.UUID, status queue.Status, day time.Time, filter shared.Filter) ([]queue.Queue, error) {
	args := m.Called(ctx, clinicID, status, day, filter)
	return args.Get(0).([]queue.Queue), args.Error(1)
}

func (m *MockQueueRepository) FindActiveByPatient(ctx context.Context, clinicID, patientID uuid.UUID) (*queue.Queue, error) {
	args := m.Called(ctx, clinicID, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.Queue), args.Error(1)
}

func (m *MockQueueRepository) CountByStatusForDay(ctx context.Context, clinicID uuid.UUID, status queue.Status, day time.Time) (int64, error) {
	args := m.Called(ctx, clinicID, status, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQueueRepository) Save(ctx context.Context, entry *queue.Queue) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockQueueRepository) DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error {
	args := m.Called(ctx, clinicID, id)
	return args.Error(0)
}

// MockPatientRepository is a mock implementation of patient.PatientRepository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*patient.Patient, error) {
	args := m.Called(ctx, clinicID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindByNIK(ctx context.Context, clinicID uuid.UUID, nik string) (*patient.Patient, error) {
	args := m.Called(ctx, clinicID, nik)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]patient.Patient, error) {
	args := m.Called(ctx, clinicID, filter)
	return args.Get(0).([]patient.Patient), args.Error(1)
}

func (m *MockPatientRepository) CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, clinicID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPatientRepository) Save(ctx context.Context, p *patient.Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatientRepository) DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error {
	args := m.Called(ctx, clinicID, id)
	return args.Error(0)
}

func (m *MockPatientRepository) NextRecordSequence(ctx context.Context, clinicID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clinicID)
	return args.Get(0).(int64), args.Error(1)
}

// MockClinicRepository is a mock implementation of clinic.ClinicRepository
type MockClinicRepository struct {
	mock.Mock
}

func (m *MockClinicRepository) FindByID(ctx context.Context, id uuid.UUID) (*clinic.Clinic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clinic.Clinic), args.Error(1)
}

func (m *MockClinicRepository) FindAll(ctx context.Context, filter shared.Filter) ([]clinic.Clinic, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]clinic.Clinic), args.Error(1)
}

func (m *MockClinicRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClinicRepository) Save(ctx context.Context, c *clinic.Clinic) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClinicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClinicRepository) SaveWithLock(ctx context.Context, c *clinic.Clinic) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockDrugRepository is a mock implementation of pharmacy.DrugRepository
type MockDrugRepository struct {
	mock.Mock
}

func (m *MockDrugRepository) FindByID(ctx context.Context, id uuid.UUID) (*pharmacy.Drug, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pharmacy.Drug), args.Error(1)
}

func (m *MockDrugRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*pharmacy.Drug, error) {
	args := m.Called(ctx, clinicID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pharmacy.Drug), args.Error(1)
}

func (m *MockDrugRepository) FindByNumber(ctx context.Context, clinicID uuid.UUID, number string) (*pharmacy.Drug, error) {
	args := m.Called(ctx, clinicID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pharmacy.Drug), args.Error(1)
}

func (m *MockDrugRepository) FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]pharmacy.Drug, error) {
	args := m.Called(ctx, clinicID, filter)
	return args.Get(0).([]pharmacy.Drug), args.Error(1)
}

func (m *MockDrugRepository) CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, clinicID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDrugRepository) Save(ctx context.Context, drug *pharmacy.Drug) error {
	args := m.Called(ctx, drug)
	return args.Error(0)
}

func (m *MockDrugRepository) SaveWithLock(ctx context.Context, drug *pharmacy.Drug) error {
	args := m.Called(ctx, drug)
	return args.Error(0)
}

func (m *MockDrugRepository) DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error {
	args := m.Called(ctx, clinicID, id)
	return args.Error(0)
}

func (m *MockDrugRepository) NextNumberSequence(ctx context.Context, clinicID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clinicID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUnitRepository is a mock implementation of pharmacy.UnitRepository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*pharmacy.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pharmacy.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*pharmacy.Unit, error) {
	args := m.Called(ctx, clinicID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pharmacy.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]pharmacy.Unit, error) {
	args := m.Called(ctx, clinicID, filter)
	return args.Get(0).([]pharmacy.Unit), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, unit *pharmacy.Unit) error {
	args := m.Called(ctx, unit)
	return args.Error(0)
}

func (m *MockUnitRepository) DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error {
	args := m.Called(ctx, clinicID, id)
	return args.Error(0)
}

// MockActionRepository is a mock implementation of billing.ActionRepository
type MockActionRepository struct {
	mock.Mock
}

func (m *MockActionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Action, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Action), args.Error(1)
}

func (m *MockActionRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*billing.Action, error) {
	args := m.Called(ctx, clinicID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Action), args.Error(1)
}

func (m *MockActionRepository) FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]billing.Action, error) {
	args := m.Called(ctx, clinicID, filter)
	return args.Get(0).([]billing.Action), args.Error(1)
}

func (m *MockActionRepository) CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, clinicID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockActionRepository) Save(ctx context.Context, action *billing.Action) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockActionRepository) DeleteForClinic(ctx context.Context, clinicID, id uuid.UUID) error {
	args := m.Called(ctx, clinicID, id)
	return args.Error(0)
}

// MockRecordRepository is a mock implementation of record.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*record.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*record.Record), args.Error(1)
}

func (m *MockRecordRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*record.Record, error) {
	args := m.Called(ctx, clinicID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*record.Record), args.Error(1)
}

func (m *MockRecordRepository) FindByPatient(ctx context.Context, clinicID, patientID uuid.UUID, filter shared.Filter) ([]record.Record, error) {
	args := m.Called(ctx, clinicID, patientID, filter)
	return args.Get(0).([]record.Record), args.Error(1)
}

func (m *MockRecordRepository) CountByPatient(ctx context.Context, clinicID, patientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clinicID, patientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepository) FindByQueue(ctx context.Context, clinicID, queueID uuid.UUID) (*record.Record, error) {
	args := m.Called(ctx, clinicID, queueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*record.Record), args.Error(1)
}

func (m *MockRecordRepository) Save(ctx context.Context, rec *record.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// MockSellingRepository is a mock implementation of billing.SellingRepository
type MockSellingRepository struct {
	mock.Mock
}

func (m *MockSellingRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.SellingTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SellingTransaction), args.Error(1)
}

func (m *MockSellingRepository) FindByIDForClinic(ctx context.Context, clinicID, id uuid.UUID) (*billing.SellingTransaction, error) {
	args := m.Called(ctx, clinicID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SellingTransaction), args.Error(1)
}

func (m *MockSellingRepository) FindByQueue(ctx context.Context, clinicID, queueID uuid.UUID) (*billing.SellingTransaction, error) {
	args := m.Called(ctx, clinicID, queueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SellingTransaction), args.Error(1)
}

func (m *MockSellingRepository) FindUnpaidForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]billing.SellingTransaction, error) {
	args := m.Called(ctx, clinicID, filter)
	return args.Get(0).([]billing.SellingTransaction), args.Error(1)
}

func (m *MockSellingRepository) FindPaidForPickup(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]billing.SellingTransaction, error) {
	args := m.Called(ctx, clinicID, filter)
	return args.Get(0).([]billing.SellingTransaction), args.Error(1)
}

func (m *MockSellingRepository) FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]billing.SellingTransaction, error) {
	args := m.Called(ctx, clinicID, filter)
	return args.Get(0).([]billing.SellingTransaction), args.Error(1)
}

func (m *MockSellingRepository) CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, clinicID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSellingRepository) Save(ctx context.Context, transaction *billing.SellingTransaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockSellingRepository) DeleteDrugCartItem(ctx context.Context, itemID uuid.UUID) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockSellingRepository) DeleteActionCartItem(ctx context.Context, itemID uuid.UUID) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockSellingRepository) NextInvoiceSequence(ctx context.Context, clinicID uuid.UUID, day time.Time) (int64, error) {
	args := m.Called(ctx, clinicID, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSellingRepository) SumRevenueForDay(ctx context.Context, clinicID uuid.UUID, day time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, clinicID, day)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSellingRepository) CountPaidForDay(ctx context.Context, clinicID uuid.UUID, day time.Time) (int64, error) {
	args := m.Called(ctx, clinicID, day)
	return args.Get(0).(int64), args.Error(1)
}

type consultationFixture struct {
	queueRepo   *MockQueueRepository
	patientRepo *MockPatientRepository
	clinicRepo  *MockClinicRepository
	drugRepo    *MockDrugRepository
	unitRepo    *MockUnitRepository
	actionRepo  *MockActionRepository
	recordRepo  *MockRecordRepository
	sellingRepo *MockSellingRepository
	service     *ConsultationService
}

func newConsultationFixture() *consultationFixture {
	f := &consultationFixture{
		queueRepo:   new(MockQueueRepository),
		patientRepo: new(MockPatientRepository),
		clinicRepo:  new(MockClinicRepository),
		drugRepo:    new(MockDrugRepository),
		unitRepo:    new(MockUnitRepository),
		actionRepo:  new(MockActionRepository),
		recordRepo:  new(MockRecordRepository),
		sellingRepo: new(MockSellingRepository),
	}
	scope := NewNoOpTransactionScope(f.recordRepo, f.sellingRepo, f.queueRepo)
	f.service = NewConsultationService(
		scope, f.queueRepo, f.patientRepo, f.clinicRepo,
		f.drugRepo, f.unitRepo, f.actionRepo, f.recordRepo,
		zap.NewNop(),
	)
	return f
}

func newConsultingVisit(t *testing.T, clinicID, patientID, doctorID uuid.UUID) *queue.Queue {
	t.Helper()
	entry := queue.NewQueue(clinicID, patientID, "REG-20250901-003")
	require.NoError(t, entry.StartConsultation(doctorID))
	return entry
}

func newVisitingPatient(t *testing.T, clinicID uuid.UUID) *patient.Patient {
	t.Helper()
	p, err := patient.NewPatient(
		clinicID, "RM-000017", "3173052208900004", "Budi Santoso",
		patient.GenderMale, "Jakarta", time.Date(1990, 8, 22, 0, 0, 0, 0, time.UTC),
		"+6281234567890", "Jl. Kenanga 12", "Penicillin", "Karyawan swasta",
	)
	require.NoError(t, err)
	return p
}

func newConsultationClinic(t *testing.T) *clinic.Clinic {
	t.Helper()
	c, err := clinic.NewClinic("Klinik Sehat", "+62215550001", "Jl. Merdeka 1",
		decimal.NewFromInt(30000), decimal.NewFromInt(5000))
	require.NoError(t, err)
	return c
}

func TestConsultationService_SubmitAssessment(t *testing.T) {
	ctx := context.Background()
	clinicID := uuid.New()
	doctorID := uuid.New()

	t.Run("writes the record, opens the bill and moves the visit to payment", func(t *testing.T) {
		f := newConsultationFixture()
		c := newConsultationClinic(t)
		p := newVisitingPatient(t, clinicID)
		entry := newConsultingVisit(t, clinicID, p.ID, doctorID)

		drug, err := pharmacy.NewDrug(
			clinicID, "OBT-0002", "Paracetamol", "Paracetamol",
			uuid.New(), uuid.New(), uuid.New(),
			decimal.NewFromInt(1000), decimal.NewFromInt(2000),
		)
		require.NoError(t, err)
		require.NoError(t, drug.IncreaseStock(20))
		unit, err := pharmacy.NewUnit(clinicID, "Strip")
		require.NoError(t, err)
		action, err := billing.NewAction(clinicID, "Wound dressing", decimal.NewFromInt(50000))
		require.NoError(t, err)

		f.queueRepo.On("FindByIDForClinic", ctx, clinicID, entry.ID).Return(entry, nil)
		f.patientRepo.On("FindByIDForClinic", ctx, clinicID, p.ID).Return(p, nil)
		f.clinicRepo.On("FindByID", ctx, clinicID).Return(c, nil)
		f.drugRepo.On("FindByIDForClinic", ctx, clinicID, drug.ID).Return(drug, nil)
		f.unitRepo.On("FindByID", ctx, drug.UnitID).Return(unit, nil)
		f.actionRepo.On("FindByIDForClinic", ctx, clinicID, action.ID).Return(action, nil)

		var savedRecord *record.Record
		f.recordRepo.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
			savedRecord = args.Get(1).(*record.Record)
		}).Return(nil)
		var savedBill *billing.SellingTransaction
		f.sellingRepo.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
			savedBill = args.Get(1).(*billing.SellingTransaction)
		}).Return(nil)
		f.queueRepo.On("Save", ctx, entry).Return(nil)

		result, err := f.service.SubmitAssessment(ctx, clinicID, doctorID, SubmitAssessmentRequest{
			QueueID:    entry.ID,
			Vitals:     VitalsRequest{Height: 172, Weight: 68, Systole: 120, Diastole: 80, Temperature: 37.8, Pulse: 82, RespiratoryRate: 18},
			Subjective: "Fever for two days",
			Objective:  "Pharynx hyperemic",
			Assessment: "Acute pharyngitis",
			Plan:       "Rest, fluids, antipyretics",
			Drugs:      []DrugAssessmentRequest{{DrugID: drug.ID, Quantity: 3, Instruction: "3x1 after meals"}},
			Actions:    []ActionRequest{{ActionID: action.ID, Quantity: 1}},
		})
		require.NoError(t, err)

		assert.Equal(t, queue.StatusPayment, entry.Status)
		assert.Equal(t, queue.StatusPayment.String(), result.QueueStatus)

		require.NotNil(t, savedRecord)
		assert.Equal(t, p.RecordNumber, savedRecord.RecordNumber)
		assert.Equal(t, p.FullName, savedRecord.PatientName)
		assert.Equal(t, "Acute pharyngitis", savedRecord.Assessment)
		require.Len(t, savedRecord.DrugAssessments, 1)
		assert.Equal(t, "Paracetamol", savedRecord.DrugAssessments[0].DrugName)

		require.NotNil(t, savedBill)
		assert.Equal(t, savedBill.ID, result.TransactionID)
		require.NotNil(t, savedBill.RecordID)
		assert.Equal(t, savedRecord.ID, *savedBill.RecordID)
		require.Len(t, savedBill.DrugCarts, 1)
		assert.Equal(t, "Strip", savedBill.DrugCarts[0].UnitName)
		require.Len(t, savedBill.ActionCarts, 1)
		// 30000 outpatient fee + 3 x 2000 drug + 50000 action
		assert.True(t, savedBill.TotalPrice.Equal(decimal.NewFromInt(86000)))
		assert.False(t, savedBill.Paid)

		f.recordRepo.AssertExpectations(t)
		f.sellingRepo.AssertExpectations(t)
		f.queueRepo.AssertExpectations(t)
	})

	t.Run("rejects a visit that is not in consultation", func(t *testing.T) {
		f := newConsultationFixture()
		entry := queue.NewQueue(clinicID, uuid.New(), "REG-20250901-004")

		f.queueRepo.On("FindByIDForClinic", ctx, clinicID, entry.ID).Return(entry, nil)

		_, err := f.service.SubmitAssessment(ctx, clinicID, doctorID, SubmitAssessmentRequest{
			QueueID:    entry.ID,
			Assessment: "Acute pharyngitis",
		})
		assert.ErrorIs(t, err, shared.ErrInvalidQueueStatus)
		f.recordRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a doctor who does not own the visit", func(t *testing.T) {
		f := newConsultationFixture()
		entry := newConsultingVisit(t, clinicID, uuid.New(), uuid.New())

		f.queueRepo.On("FindByIDForClinic", ctx, clinicID, entry.ID).Return(entry, nil)

		_, err := f.service.SubmitAssessment(ctx, clinicID, doctorID, SubmitAssessmentRequest{
			QueueID:    entry.ID,
			Assessment: "Acute pharyngitis",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "WRONG_DOCTOR", domainErr.Code)
		f.sellingRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a prescription the shelves cannot cover", func(t *testing.T) {
		f := newConsultationFixture()
		c := newConsultationClinic(t)
		p := newVisitingPatient(t, clinicID)
		entry := newConsultingVisit(t, clinicID, p.ID, doctorID)

		drug, err := pharmacy.NewDrug(
			clinicID, "OBT-0003", "Cetirizine", "Cetirizine",
			uuid.New(), uuid.New(), uuid.New(),
			decimal.NewFromInt(1500), decimal.NewFromInt(3000),
		)
		require.NoError(t, err)

		f.queueRepo.On("FindByIDForClinic", ctx, clinicID, entry.ID).Return(entry, nil)
		f.patientRepo.On("FindByIDForClinic", ctx, clinicID, p.ID).Return(p, nil)
		f.clinicRepo.On("FindByID", ctx, clinicID).Return(c, nil)
		f.drugRepo.On("FindByIDForClinic", ctx, clinicID, drug.ID).Return(drug, nil)

		_, err = f.service.SubmitAssessment(ctx, clinicID, doctorID, SubmitAssessmentRequest{
			QueueID:    entry.ID,
			Assessment: "Allergic rhinitis",
			Drugs:      []DrugAssessmentRequest{{DrugID: drug.ID, Quantity: 3, Instruction: "1x1"}},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Contains(t, domainErr.Message, "Cetirizine")
		assert.Equal(t, queue.StatusConsulting, entry.Status)
		f.recordRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.sellingRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("gates duplicate lines against the combined quantity", func(t *testing.T) {
		f := newConsultationFixture()
		c := newConsultationClinic(t)
		p := newVisitingPatient(t, clinicID)
		entry := newConsultingVisit(t, clinicID, p.ID, doctorID)

		drug, err := pharmacy.NewDrug(
			clinicID, "OBT-0004", "Amoxicillin", "Amoxicillin",
			uuid.New(), uuid.New(), uuid.New(),
			decimal.NewFromInt(2000), decimal.NewFromInt(4000),
		)
		require.NoError(t, err)
		require.NoError(t, drug.IncreaseStock(5))
		unit, err := pharmacy.NewUnit(clinicID, "Strip")
		require.NoError(t, err)

		f.queueRepo.On("FindByIDForClinic", ctx, clinicID, entry.ID).Return(entry, nil)
		f.patientRepo.On("FindByIDForClinic", ctx, clinicID, p.ID).Return(p, nil)
		f.clinicRepo.On("FindByID", ctx, clinicID).Return(c, nil)
		f.drugRepo.On("FindByIDForClinic", ctx, clinicID, drug.ID).Return(drug, nil)
		f.unitRepo.On("FindByID", ctx, drug.UnitID).Return(unit, nil)

		// Each line fits alone; together they exceed the 5 on the shelf
		_, err = f.service.SubmitAssessment(ctx, clinicID, doctorID, SubmitAssessmentRequest{
			QueueID:    entry.ID,
			Assessment: "Acute otitis media",
			Drugs: []DrugAssessmentRequest{
				{DrugID: drug.ID, Quantity: 3, Instruction: "3x1"},
				{DrugID: drug.ID, Quantity: 3, Instruction: "reserve course"},
			},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		f.sellingRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("keeps the bill empty of drug carts when nothing is prescribed", func(t *testing.T) {
		f := newConsultationFixture()
		c := newConsultationClinic(t)
		p := newVisitingPatient(t, clinicID)
		entry := newConsultingVisit(t, clinicID, p.ID, doctorID)

		f.queueRepo.On("FindByIDForClinic", ctx, clinicID, entry.ID).Return(entry, nil)
		f.patientRepo.On("FindByIDForClinic", ctx, clinicID, p.ID).Return(p, nil)
		f.clinicRepo.On("FindByID", ctx, clinicID).Return(c, nil)
		f.recordRepo.On("Save", ctx, mock.Anything).Return(nil)
		var savedBill *billing.SellingTransaction
		f.sellingRepo.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
			savedBill = args.Get(1).(*billing.SellingTransaction)
		}).Return(nil)
		f.queueRepo.On("Save", ctx, entry).Return(nil)

		result, err := f.service.SubmitAssessment(ctx, clinicID, doctorID, SubmitAssessmentRequest{
			QueueID:    entry.ID,
			Assessment: "Common cold, no medication needed",
		})
		require.NoError(t, err)

		assert.Equal(t, queue.StatusPayment.String(), result.QueueStatus)
		require.NotNil(t, savedBill)
		assert.Empty(t, savedBill.DrugCarts)
		assert.True(t, savedBill.TotalPrice.Equal(c.OutpatientFee))
	})
}

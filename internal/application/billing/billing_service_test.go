package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	apppharmacy "github.com/klinika/backend/internal/application/pharmacy"
	"github.com/klinika/backend/internal/domain/billing"
	"github.com/klinika/backend/internal/domain/clinic"
	"github.com/klinika/backend/internal/domain/patient"
	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/queue"
	"github.com/klinika/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

// MockStockLotRepository is a mock implementation of pharmacy.StockLotRepository
type MockStockLotRepository struct {
	mock.Mock
}

func (m *MockStockLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*pharmacy.StockLot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pharmacy.StockLot), args.Error(1)
}

func (m *MockStockLotRepository) FindActiveByDrug(ctx context.Context, clinicID, drugID uuid.UUID) ([]*pharmacy.StockLot, error) {
	args := m.Called(ctx, clinicID, drugID)
	return args.Get(0).([]*pharmacy.StockLot), args.Error(1)
}

func (m *MockStockLotRepository) FindByDrug(ctx context.Context, clinicID, drugID uuid.UUID, filter shared.Filter) ([]pharmacy.StockLot, error) {
	args := m.Called(ctx, clinicID, drugID, filter)
	return args.Get(0).([]pharmacy.StockLot), args.Error(1)
}

func (m *MockStockLotRepository) FindExpiringBefore(ctx context.Context, clinicID uuid.UUID, cutoff time.Time, filter shared.Filter) ([]pharmacy.StockLot, error) {
	args := m.Called(ctx, clinicID, cutoff, filter)
	return args.Get(0).([]pharmacy.StockLot), args.Error(1)
}

func (m *MockStockLotRepository) Save(ctx context.Context, lot *pharmacy.StockLot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockStockLotRepository) SaveAll(ctx context.Context, lots []*pharmacy.StockLot) error {
	args := m.Called(ctx, lots)
	return args.Error(0)
}

func (m *MockStockLotRepository) NextBatchSequence(ctx context.Context, clinicID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clinicID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockLotRepository) SumActiveByDrug(ctx context.Context, clinicID, drugID uuid.UUID) (int64, error) {
	args := m.Called(ctx, clinicID, drugID)
	return args.Get(0).(int64), args.Error(1)
}

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

type billingFixture struct {
	sellingRepo *MockSellingRepository
	drugRepo    *MockDrugRepository
	lotRepo     *MockStockLotRepository
	queueRepo   *MockQueueRepository
	clinicRepo  *MockClinicRepository
	patientRepo *MockPatientRepository
	unitRepo    *MockUnitRepository
	actionRepo  *MockActionRepository
	service     *BillingService
}

func newBillingFixture() *billingFixture {
	f := &billingFixture{
		sellingRepo: new(MockSellingRepository),
		drugRepo:    new(MockDrugRepository),
		lotRepo:     new(MockStockLotRepository),
		queueRepo:   new(MockQueueRepository),
		clinicRepo:  new(MockClinicRepository),
		patientRepo: new(MockPatientRepository),
		unitRepo:    new(MockUnitRepository),
		actionRepo:  new(MockActionRepository),
	}
	scope := NewNoOpTransactionScope(f.sellingRepo, f.drugRepo, f.lotRepo, f.queueRepo, f.clinicRepo, f.patientRepo)
	ledger := apppharmacy.NewStockLedgerService(
		apppharmacy.NewNoOpTransactionScope(f.drugRepo, f.lotRepo),
		zap.NewNop(),
	)
	f.service = NewBillingService(scope, f.sellingRepo, f.drugRepo, f.unitRepo, f.actionRepo, ledger, zap.NewNop())
	return f
}

func newPaymentClinic(t *testing.T, clinicID uuid.UUID) *clinic.Clinic {
	t.Helper()
	c, err := clinic.NewClinic("Klinik Melati", "021-555", "Jl. Melati 1", decimal.NewFromInt(25000), decimal.NewFromInt(2000))
	require.NoError(t, err)
	c.ID = clinicID
	require.NoError(t, c.OpenCashier(uuid.New(), decimal.NewFromInt(100000)))
	return c
}

func newPaymentBill(t *testing.T, clinicID uuid.UUID) *billing.SellingTransaction {
	t.Helper()
	bill, err := billing.NewSellingTransaction(clinicID, uuid.New(), uuid.New(), "REG/20260901/1234", decimal.NewFromInt(25000))
	require.NoError(t, err)
	return bill
}

func newPaymentQueue(clinicID, patientID, queueID uuid.UUID) *queue.Queue {
	q := queue.NewQueue(clinicID, patientID, "REG/20260901/1234")
	q.ID = queueID
	q.Status = queue.StatusPayment
	return q
}

func newBilledDrug(t *testing.T, clinicID uuid.UUID, name string, stock int) *pharmacy.Drug {
	t.Helper()
	d, err := pharmacy.NewDrug(clinicID, "OBT1", name, name, uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(5000), decimal.NewFromInt(8000))
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, d.IncreaseStock(stock))
	}
	return d
}

func newBilledLot(t *testing.T, drug *pharmacy.Drug, qty int) *pharmacy.StockLot {
	t.Helper()
	lot, err := pharmacy.NewStockLot(drug.ClinicID, drug.ID, uuid.New(), qty, time.Now().AddDate(1, 0, 0))
	require.NoError(t, err)
	return lot
}

func TestBillingService_Pay(t *testing.T) {
	ctx := context.Background()
	clinicID := uuid.New()

	t.Run("settles the bill and dispenses the drug lines", func(t *testing.T) {
		f := newBillingFixture()
		c := newPaymentClinic(t, clinicID)
		bill := newPaymentBill(t, clinicID)
		entry := newPaymentQueue(clinicID, bill.PatientID, bill.QueueID)

		drug := newBilledDrug(t, clinicID, "Paracetamol", 10)
		_, err := bill.AddDrugCart(drug.ID, drug.Name, "Strip", drug.SellingPrice, 3)
		require.NoError(t, err)
		lot := newBilledLot(t, drug, 10)

		f.sellingRepo.On("FindByIDForClinic", ctx, clinicID, bill.ID).Return(bill, nil)
		f.clinicRepo.On("FindByID", ctx, clinicID).Return(c, nil)
		f.drugRepo.On("FindByIDForClinic", ctx, clinicID, drug.ID).Return(drug, nil)
		f.lotRepo.On("FindActiveByDrug", ctx, clinicID, drug.ID).Return([]*pharmacy.StockLot{lot}, nil)
		f.lotRepo.On("SaveAll", ctx, mock.Anything).Return(nil)
		f.drugRepo.On("SaveWithLock", ctx, drug).Return(nil)
		f.sellingRepo.On("NextInvoiceSequence", ctx, clinicID, mock.Anything).Return(int64(1), nil)
		f.sellingRepo.On("Save", ctx, bill).Return(nil)
		f.queueRepo.On("FindByIDForClinic", ctx, clinicID, bill.QueueID).Return(entry, nil)
		f.queueRepo.On("Save", ctx, entry).Return(nil)
		f.clinicRepo.On("SaveWithLock", ctx, c).Return(nil)

		result, err := f.service.Pay(ctx, clinicID, bill.ID)
		require.NoError(t, err)

		assert.True(t, result.Paid)
		assert.Equal(t, billing.FormatInvoiceNumber(time.Now(), 1), result.InvoiceNumber)
		assert.Equal(t, queue.StatusDrugPickUp, entry.Status)
		assert.Equal(t, 7, lot.ActiveQuantity)
		assert.Equal(t, 3, lot.SoldQuantity)
		assert.Equal(t, 7, drug.TotalStock)
		assert.True(t, c.CashierBalance.Equal(decimal.NewFromInt(100000).Add(bill.TotalPrice)))
		f.sellingRepo.AssertExpectations(t)
		f.clinicRepo.AssertExpectations(t)
	})

	t.Run("finishes the queue when the bill has no drugs", func(t *testing.T) {
		f := newBillingFixture()
		c := newPaymentClinic(t, clinicID)
		bill := newPaymentBill(t, clinicID)
		entry := newPaymentQueue(clinicID, bill.PatientID, bill.QueueID)
		p := &patient.Patient{}

		f.sellingRepo.On("FindByIDForClinic", ctx, clinicID, bill.ID).Return(bill, nil)
		f.clinicRepo.On("FindByID", ctx, clinicID).Return(c, nil)
		f.sellingRepo.On("NextInvoiceSequence", ctx, clinicID, mock.Anything).Return(int64(4), nil)
		f.sellingRepo.On("Save", ctx, bill).Return(nil)
		f.queueRepo.On("FindByIDForClinic", ctx, clinicID, bill.QueueID).Return(entry, nil)
		f.queueRepo.On("Save", ctx, entry).Return(nil)
		f.patientRepo.On("FindByIDForClinic", ctx, clinicID, bill.PatientID).Return(p, nil)
		f.patientRepo.On("Save", ctx, p).Return(nil)
		f.clinicRepo.On("SaveWithLock", ctx, c).Return(nil)

		result, err := f.service.Pay(ctx, clinicID, bill.ID)
		require.NoError(t, err)

		assert.Equal(t, queue.StatusDone, entry.Status)
		assert.True(t, p.Ready)
		assert.True(t, result.Paid)
		f.patientRepo.AssertExpectations(t)
	})

	t.Run("rejects payment while the cashier is closed", func(t *testing.T) {
		f := newBillingFixture()
		c := newPaymentClinic(t, clinicID)
		_, err := c.CloseCashier(uuid.New())
		require.NoError(t, err)
		bill := newPaymentBill(t, clinicID)

		f.sellingRepo.On("FindByIDForClinic", ctx, clinicID, bill.ID).Return(bill, nil)
		f.clinicRepo.On("FindByID", ctx, clinicID).Return(c, nil)

		_, err = f.service.Pay(ctx, clinicID, bill.ID)
		assert.ErrorIs(t, err, shared.ErrCashierClosed)
		assert.False(t, bill.Paid)
		f.sellingRepo.AssertNotCalled(t, "NextInvoiceSequence", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects an already paid bill", func(t *testing.T) {
		f := newBillingFixture()
		bill := newPaymentBill(t, clinicID)
		require.NoError(t, bill.MarkPaid(1))

		f.sellingRepo.On("FindByIDForClinic", ctx, clinicID, bill.ID).Return(bill, nil)

		_, err := f.service.Pay(ctx, clinicID, bill.ID)
		assert.ErrorIs(t, err, shared.ErrTransactionPaid)
	})

	t.Run("gates every drug line before touching any lot", func(t *testing.T) {
		f := newBillingFixture()
		c := newPaymentClinic(t, clinicID)
		bill := newPaymentBill(t, clinicID)

		stocked := newBilledDrug(t, clinicID, "Amoxicillin", 20)
		short := newBilledDrug(t, clinicID, "Cetirizine", 1)
		_, err := bill.AddDrugCart(stocked.ID, stocked.Name, "Strip", stocked.SellingPrice, 5)
		require.NoError(t, err)
		_, err = bill.AddDrugCart(short.ID, short.Name, "Strip", short.SellingPrice, 2)
		require.NoError(t, err)

		f.sellingRepo.On("FindByIDForClinic", ctx, clinicID, bill.ID).Return(bill, nil)
		f.clinicRepo.On("FindByID", ctx, clinicID).Return(c, nil)
		f.drugRepo.On("FindByIDForClinic", ctx, clinicID, stocked.ID).Return(stocked, nil)
		f.drugRepo.On("FindByIDForClinic", ctx, clinicID, short.ID).Return(short, nil)

		_, err = f.service.Pay(ctx, clinicID, bill.ID)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Contains(t, domainErr.Message, "Cetirizine")

		// Nothing was dispensed, not even the line that had stock.
		assert.Equal(t, 20, stocked.TotalStock)
		f.lotRepo.AssertNotCalled(t, "FindActiveByDrug", mock.Anything, mock.Anything, mock.Anything)
		f.sellingRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestBillingService_Pickup(t *testing.T) {
	ctx := context.Background()
	clinicID := uuid.New()

	t.Run("finishes the visit after the drugs are collected", func(t *testing.T) {
		f := newBillingFixture()
		bill := newPaymentBill(t, clinicID)
		require.NoError(t, bill.MarkPaid(1))
		entry := newPaymentQueue(clinicID, bill.PatientID, bill.QueueID)
		entry.Status = queue.StatusDrugPickUp
		p := &patient.Patient{}

		f.sellingRepo.On("FindByIDForClinic", ctx, clinicID, bill.ID).Return(bill, nil)
		f.sellingRepo.On("Save", ctx, bill).Return(nil)
		f.queueRepo.On("FindByIDForClinic", ctx, clinicID, bill.QueueID).Return(entry, nil)
		f.queueRepo.On("Save", ctx, entry).Return(nil)
		f.patientRepo.On("FindByIDForClinic", ctx, clinicID, bill.PatientID).Return(p, nil)
		f.patientRepo.On("Save", ctx, p).Return(nil)

		result, err := f.service.Pickup(ctx, clinicID, bill.ID)
		require.NoError(t, err)

		assert.True(t, result.PickedUp)
		assert.Equal(t, queue.StatusDone, entry.Status)
		assert.True(t, p.Ready)
	})

	t.Run("rejects pickup on an unpaid bill", func(t *testing.T) {
		f := newBillingFixture()
		bill := newPaymentBill(t, clinicID)

		f.sellingRepo.On("FindByIDForClinic", ctx, clinicID, bill.ID).Return(bill, nil)

		_, err := f.service.Pickup(ctx, clinicID, bill.ID)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_PAID", domainErr.Code)
	})
}

func TestBillingService_CartEditing(t *testing.T) {
	ctx := context.Background()
	clinicID := uuid.New()

	t.Run("adds a drug line within available stock", func(t *testing.T) {
		f := newBillingFixture()
		bill := newPaymentBill(t, clinicID)
		drug := newBilledDrug(t, clinicID, "Paracetamol", 10)

		f.sellingRepo.On("FindByIDForClinic", ctx, clinicID, bill.ID).Return(bill, nil)
		f.drugRepo.On("FindByIDForClinic", ctx, clinicID, drug.ID).Return(drug, nil)
		f.unitRepo.On("FindByID", ctx, drug.UnitID).Return(&pharmacy.Unit{Name: "Strip"}, nil)
		f.sellingRepo.On("Save", ctx, bill).Return(nil)

		result, err := f.service.AddDrugCart(ctx, clinicID, bill.ID, AddDrugCartRequest{DrugID: drug.ID, Quantity: 4})
		require.NoError(t, err)

		require.Len(t, result.DrugCarts, 1)
		assert.Equal(t, "Strip", result.DrugCarts[0].UnitName)
		assert.True(t, result.DrugCarts[0].TotalPrice.Equal(decimal.NewFromInt(32000)))
	})

	t.Run("counts lines already on the bill against stock", func(t *testing.T) {
		f := newBillingFixture()
		bill := newPaymentBill(t, clinicID)
		drug := newBilledDrug(t, clinicID, "Paracetamol", 10)
		_, err := bill.AddDrugCart(drug.ID, drug.Name, "Strip", drug.SellingPrice, 8)
		require.NoError(t, err)

		f.sellingRepo.On("FindByIDForClinic", ctx, clinicID, bill.ID).Return(bill, nil)
		f.drugRepo.On("FindByIDForClinic", ctx, clinicID, drug.ID).Return(drug, nil)

		_, err = f.service.AddDrugCart(ctx, clinicID, bill.ID, AddDrugCartRequest{DrugID: drug.ID, Quantity: 3})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		f.sellingRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("regates stock when a line quantity changes", func(t *testing.T) {
		f := newBillingFixture()
		bill := newPaymentBill(t, clinicID)
		drug := newBilledDrug(t, clinicID, "Paracetamol", 10)
		line, err := bill.AddDrugCart(drug.ID, drug.Name, "Strip", drug.SellingPrice, 2)
		require.NoError(t, err)

		f.sellingRepo.On("FindByIDForClinic", ctx, clinicID, bill.ID).Return(bill, nil)
		f.drugRepo.On("FindByIDForClinic", ctx, clinicID, drug.ID).Return(drug, nil)
		f.sellingRepo.On("Save", ctx, bill).Return(nil)

		result, err := f.service.UpdateDrugCartQuantity(ctx, clinicID, bill.ID, line.ID, UpdateCartQuantityRequest{Quantity: 10})
		require.NoError(t, err)
		assert.Equal(t, 10, result.DrugCarts[0].Quantity)

		_, err = f.service.UpdateDrugCartQuantity(ctx, clinicID, bill.ID, line.ID, UpdateCartQuantityRequest{Quantity: 11})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	})

	t.Run("removes a drug line and deletes its row", func(t *testing.T) {
		f := newBillingFixture()
		bill := newPaymentBill(t, clinicID)
		drug := newBilledDrug(t, clinicID, "Paracetamol", 10)
		line, err := bill.AddDrugCart(drug.ID, drug.Name, "Strip", drug.SellingPrice, 2)
		require.NoError(t, err)
		lineID := line.ID
		feeOnly := bill.OutpatientFee

		f.sellingRepo.On("FindByIDForClinic", ctx, clinicID, bill.ID).Return(bill, nil)
		f.sellingRepo.On("DeleteDrugCartItem", ctx, lineID).Return(nil)
		f.sellingRepo.On("Save", ctx, bill).Return(nil)

		result, err := f.service.RemoveDrugCart(ctx, clinicID, bill.ID, lineID)
		require.NoError(t, err)

		assert.Empty(t, result.DrugCarts)
		assert.True(t, result.TotalPrice.Equal(feeOnly))
		f.sellingRepo.AssertCalled(t, "DeleteDrugCartItem", ctx, lineID)
	})

	t.Run("adds a procedure line from the catalog", func(t *testing.T) {
		f := newBillingFixture()
		bill := newPaymentBill(t, clinicID)
		action, err := billing.NewAction(clinicID, "Wound care", decimal.NewFromInt(50000))
		require.NoError(t, err)

		f.sellingRepo.On("FindByIDForClinic", ctx, clinicID, bill.ID).Return(bill, nil)
		f.actionRepo.On("FindByIDForClinic", ctx, clinicID, action.ID).Return(action, nil)
		f.sellingRepo.On("Save", ctx, bill).Return(nil)

		result, err := f.service.AddActionCart(ctx, clinicID, bill.ID, AddActionCartRequest{ActionID: action.ID, Quantity: 1})
		require.NoError(t, err)

		require.Len(t, result.ActionCarts, 1)
		assert.Equal(t, "Wound care", result.ActionCarts[0].ActionName)
		assert.True(t, result.TotalPrice.Equal(decimal.NewFromInt(75000)))
	})
}

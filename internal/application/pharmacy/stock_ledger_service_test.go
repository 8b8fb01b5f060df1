package pharmacy

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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

func newTestDrug(t *testing.T, clinicID uuid.UUID, stock int) *pharmacy.Drug {
	t.Helper()
	drug, err := pharmacy.NewDrug(
		clinicID, "OBT1", "Paracetamol", "Acetaminophen",
		uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(1000), decimal.NewFromInt(1500),
	)
	require.NoError(t, err)
	drug.TotalStock = stock
	return drug
}

func newTestLot(t *testing.T, clinicID, drugID uuid.UUID, quantity int, createdAt time.Time) *pharmacy.StockLot {
	t.Helper()
	lot, err := pharmacy.NewStockLot(clinicID, drugID, uuid.New(), quantity, time.Now().AddDate(1, 0, 0))
	require.NoError(t, err)
	lot.CreatedAt = createdAt
	return lot
}

func TestStockLedgerService_ReceiveLot(t *testing.T) {
	ctx := context.Background()
	clinicID := uuid.New()

	t.Run("books lot and increments drug stock", func(t *testing.T) {
		drugRepo := new(MockDrugRepository)
		lotRepo := new(MockStockLotRepository)
		service := NewStockLedgerService(NewNoOpTransactionScope(drugRepo, lotRepo), zap.NewNop())

		drug := newTestDrug(t, clinicID, 0)
		drugRepo.On("FindByIDForClinic", ctx, clinicID, drug.ID).Return(drug, nil)
		lotRepo.On("NextBatchSequence", ctx, clinicID).Return(int64(1), nil)
		lotRepo.On("Save", ctx, mock.AnythingOfType("*pharmacy.StockLot")).Return(nil)
		drugRepo.On("SaveWithLock", ctx, drug).Return(nil)

		response, err := service.ReceiveLot(ctx, clinicID, ReceiveLotRequest{
			DrugID:         drug.ID,
			PurchaseItemID: uuid.New(),
			Quantity:       10,
			ExpiredDate:    time.Now().AddDate(1, 0, 0),
		})
		require.NoError(t, err)

		assert.Equal(t, 10, response.TotalQuantity)
		assert.Equal(t, 10, response.ActiveQuantity)
		assert.Equal(t, 0, response.SoldQuantity)
		assert.NotEmpty(t, response.BatchNumber)
		assert.Equal(t, 10, drug.TotalStock)
		drugRepo.AssertExpectations(t)
		lotRepo.AssertExpectations(t)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		drugRepo := new(MockDrugRepository)
		lotRepo := new(MockStockLotRepository)
		service := NewStockLedgerService(NewNoOpTransactionScope(drugRepo, lotRepo), zap.NewNop())

		drug := newTestDrug(t, clinicID, 0)
		drugRepo.On("FindByIDForClinic", ctx, clinicID, drug.ID).Return(drug, nil)

		_, err := service.ReceiveLot(ctx, clinicID, ReceiveLotRequest{
			DrugID:         drug.ID,
			PurchaseItemID: uuid.New(),
			Quantity:       0,
			ExpiredDate:    time.Now().AddDate(1, 0, 0),
		})
		assert.Error(t, err)
	})

	t.Run("unknown drug", func(t *testing.T) {
		drugRepo := new(MockDrugRepository)
		lotRepo := new(MockStockLotRepository)
		service := NewStockLedgerService(NewNoOpTransactionScope(drugRepo, lotRepo), zap.NewNop())

		missing := uuid.New()
		drugRepo.On("FindByIDForClinic", ctx, clinicID, missing).Return(nil, shared.ErrNotFound)

		_, err := service.ReceiveLot(ctx, clinicID, ReceiveLotRequest{
			DrugID:         missing,
			PurchaseItemID: uuid.New(),
			Quantity:       5,
			ExpiredDate:    time.Now().AddDate(1, 0, 0),
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestStockLedgerService_Deplete(t *testing.T) {
	ctx := context.Background()
	clinicID := uuid.New()

	t.Run("drains lots in receipt order across a boundary", func(t *testing.T) {
		drugRepo := new(MockDrugRepository)
		lotRepo := new(MockStockLotRepository)
		service := NewStockLedgerService(NewNoOpTransactionScope(drugRepo, lotRepo), zap.NewNop())

		drug := newTestDrug(t, clinicID, 15)
		older := newTestLot(t, clinicID, drug.ID, 10, time.Now().Add(-48*time.Hour))
		newer := newTestLot(t, clinicID, drug.ID, 5, time.Now().Add(-24*time.Hour))

		drugRepo.On("FindByIDForClinic", ctx, clinicID, drug.ID).Return(drug, nil)
		lotRepo.On("FindActiveByDrug", ctx, clinicID, drug.ID).Return([]*pharmacy.StockLot{older, newer}, nil)
		lotRepo.On("SaveAll", ctx, mock.AnythingOfType("[]*pharmacy.StockLot")).Return(nil)
		drugRepo.On("SaveWithLock", ctx, drug).Return(nil)

		response, err := service.Deplete(ctx, clinicID, DepleteRequest{DrugID: drug.ID, Quantity: 12})
		require.NoError(t, err)

		assert.Equal(t, 12, response.TotalDepleted)
		require.Len(t, response.Depletions, 2)
		assert.Equal(t, older.ID, response.Depletions[0].LotID)
		assert.Equal(t, 10, response.Depletions[0].Taken)
		assert.True(t, response.Depletions[0].FullyConsumed)
		assert.Equal(t, newer.ID, response.Depletions[1].LotID)
		assert.Equal(t, 2, response.Depletions[1].Taken)

		// Lots keep their totals, units moved from active to sold
		assert.Equal(t, 0, older.ActiveQuantity)
		assert.Equal(t, 10, older.SoldQuantity)
		assert.Equal(t, 10, older.TotalQuantity)
		assert.Equal(t, 3, newer.ActiveQuantity)
		assert.Equal(t, 2, newer.SoldQuantity)
		assert.Equal(t, 5, newer.TotalQuantity)

		assert.Equal(t, 3, drug.TotalStock)
	})

	t.Run("receipt order wins over expiry order", func(t *testing.T) {
		drugRepo := new(MockDrugRepository)
		lotRepo := new(MockStockLotRepository)
		service := NewStockLedgerService(NewNoOpTransactionScope(drugRepo, lotRepo), zap.NewNop())

		drug := newTestDrug(t, clinicID, 8)
		// The older lot expires later than the newer one; receipt order
		// still drains it first.
		older := newTestLot(t, clinicID, drug.ID, 5, time.Now().Add(-48*time.Hour))
		older.ExpiredDate = time.Now().AddDate(2, 0, 0)
		newer := newTestLot(t, clinicID, drug.ID, 3, time.Now().Add(-24*time.Hour))
		newer.ExpiredDate = time.Now().AddDate(0, 1, 0)

		drugRepo.On("FindByIDForClinic", ctx, clinicID, drug.ID).Return(drug, nil)
		lotRepo.On("FindActiveByDrug", ctx, clinicID, drug.ID).Return([]*pharmacy.StockLot{older, newer}, nil)
		lotRepo.On("SaveAll", ctx, mock.Anything).Return(nil)
		drugRepo.On("SaveWithLock", ctx, drug).Return(nil)

		response, err := service.Deplete(ctx, clinicID, DepleteRequest{DrugID: drug.ID, Quantity: 4})
		require.NoError(t, err)

		require.Len(t, response.Depletions, 1)
		assert.Equal(t, older.ID, response.Depletions[0].LotID)
		assert.Equal(t, 4, response.Depletions[0].Taken)
		assert.Equal(t, 3, newer.ActiveQuantity)
	})

	t.Run("insufficient aggregate stock", func(t *testing.T) {
		drugRepo := new(MockDrugRepository)
		lotRepo := new(MockStockLotRepository)
		service := NewStockLedgerService(NewNoOpTransactionScope(drugRepo, lotRepo), zap.NewNop())

		drug := newTestDrug(t, clinicID, 5)
		drugRepo.On("FindByIDForClinic", ctx, clinicID, drug.ID).Return(drug, nil)

		_, err := service.Deplete(ctx, clinicID, DepleteRequest{DrugID: drug.ID, Quantity: 6})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		lotRepo.AssertNotCalled(t, "FindActiveByDrug", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("drifted aggregate converges onto lot sum", func(t *testing.T) {
		drugRepo := new(MockDrugRepository)
		lotRepo := new(MockStockLotRepository)
		service := NewStockLedgerService(NewNoOpTransactionScope(drugRepo, lotRepo), zap.NewNop())

		// Aggregate says 10 but the lots only hold 7
		drug := newTestDrug(t, clinicID, 10)
		lot := newTestLot(t, clinicID, drug.ID, 7, time.Now().Add(-24*time.Hour))

		drugRepo.On("FindByIDForClinic", ctx, clinicID, drug.ID).Return(drug, nil)
		lotRepo.On("FindActiveByDrug", ctx, clinicID, drug.ID).Return([]*pharmacy.StockLot{lot}, nil)
		lotRepo.On("SaveAll", ctx, mock.Anything).Return(nil)
		drugRepo.On("SaveWithLock", ctx, drug).Return(nil)

		response, err := service.Deplete(ctx, clinicID, DepleteRequest{DrugID: drug.ID, Quantity: 9})
		require.NoError(t, err)

		// Only 7 units existed; the aggregate is reset to the lot sum
		// rather than keeping the phantom 3
		assert.Equal(t, 7, response.TotalDepleted)
		assert.Equal(t, 0, lot.ActiveQuantity)
		assert.Equal(t, lot.ActiveQuantity, drug.TotalStock)
	})

	t.Run("saves only the touched lots", func(t *testing.T) {
		drugRepo := new(MockDrugRepository)
		lotRepo := new(MockStockLotRepository)
		service := NewStockLedgerService(NewNoOpTransactionScope(drugRepo, lotRepo), zap.NewNop())

		drug := newTestDrug(t, clinicID, 20)
		first := newTestLot(t, clinicID, drug.ID, 10, time.Now().Add(-72*time.Hour))
		second := newTestLot(t, clinicID, drug.ID, 10, time.Now().Add(-24*time.Hour))

		drugRepo.On("FindByIDForClinic", ctx, clinicID, drug.ID).Return(drug, nil)
		lotRepo.On("FindActiveByDrug", ctx, clinicID, drug.ID).Return([]*pharmacy.StockLot{first, second}, nil)
		lotRepo.On("SaveAll", ctx, mock.MatchedBy(func(lots []*pharmacy.StockLot) bool {
			return len(lots) == 1 && lots[0].ID == first.ID
		})).Return(nil)
		drugRepo.On("SaveWithLock", ctx, drug).Return(nil)

		_, err := service.Deplete(ctx, clinicID, DepleteRequest{DrugID: drug.ID, Quantity: 6})
		require.NoError(t, err)
		lotRepo.AssertExpectations(t)
	})
}

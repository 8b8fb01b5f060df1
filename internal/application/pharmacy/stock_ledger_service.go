package pharmacy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockLedgerService keeps the pharmacy stock ledger: every received batch
// becomes a lot, and dispensing walks the lots in receipt order. The drug's
// TotalStock mirrors the sum of active quantities over its lots.
type StockLedgerService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewStockLedgerService creates a new stock ledger service
func NewStockLedgerService(scope TransactionScope, logger *zap.Logger) *StockLedgerService {
	return &StockLedgerService{
		scope:  scope,
		logger: logger,
	}
}

// ReceiveLot books a received batch into stock: a new lot with the full
// quantity active, plus the drug aggregate incremented, in one transaction.
func (s *StockLedgerService) ReceiveLot(ctx context.Context, clinicID uuid.UUID, req ReceiveLotRequest) (*StockLotResponse, error) {
	var lot *pharmacy.StockLot

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		lot, err = s.ReceiveLotIn(ctx, repos.Drugs(), repos.Lots(), clinicID, req.DrugID, req.PurchaseItemID, req.Quantity, req.ExpiredDate)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToStockLotResponse(lot)
	return &response, nil
}

// ReceiveLotIn runs the lot receipt against the given repositories. Callers
// that already hold a transaction (purchase intake) pass their own.
func (s *StockLedgerService) ReceiveLotIn(
	ctx context.Context,
	drugs pharmacy.DrugRepository,
	lots pharmacy.StockLotRepository,
	clinicID, drugID, purchaseItemID uuid.UUID,
	quantity int,
	expiredDate time.Time,
) (*pharmacy.StockLot, error) {
	drug, err := drugs.FindByIDForClinic(ctx, clinicID, drugID)
	if err != nil {
		return nil, err
	}

	lot, err := pharmacy.NewStockLot(clinicID, drugID, purchaseItemID, quantity, expiredDate)
	if err != nil {
		return nil, err
	}

	sequence, err := lots.NextBatchSequence(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	lot.AssignBatchNumber(sequence)

	if err := lots.Save(ctx, lot); err != nil {
		return nil, err
	}

	if err := drug.IncreaseStock(quantity); err != nil {
		return nil, err
	}
	drug.IncrementVersion()
	if err := drugs.SaveWithLock(ctx, drug); err != nil {
		return nil, err
	}

	s.logger.Info("Stock lot received",
		zap.String("clinic_id", clinicID.String()),
		zap.String("drug_id", drugID.String()),
		zap.String("batch_number", lot.BatchNumber),
		zap.Int("quantity", quantity),
		zap.Int("total_stock", drug.TotalStock))

	return lot, nil
}

// Deplete dispenses a quantity of a drug from stock, walking the lots in
// receipt order, in one transaction.
func (s *StockLedgerService) Deplete(ctx context.Context, clinicID uuid.UUID, req DepleteRequest) (*DepletionResponse, error) {
	var result *pharmacy.DepletionResult

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		result, err = s.DepleteIn(ctx, repos.Drugs(), repos.Lots(), clinicID, req.DrugID, req.Quantity)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToDepletionResponse(req.DrugID, req.Quantity, result)
	return &response, nil
}

// DepleteIn runs the depletion against the given repositories. The drug's
// aggregate stock gates the request; the lots are then drained in receipt
// order. When the lots cover the request the aggregate is decremented by
// the depleted amount; when they come up short the aggregate is reset to
// the remaining lot sum, so a drifted aggregate converges back onto the
// lots instead of preserving the gap.
func (s *StockLedgerService) DepleteIn(
	ctx context.Context,
	drugs pharmacy.DrugRepository,
	lots pharmacy.StockLotRepository,
	clinicID, drugID uuid.UUID,
	quantity int,
) (*pharmacy.DepletionResult, error) {
	drug, err := drugs.FindByIDForClinic(ctx, clinicID, drugID)
	if err != nil {
		return nil, err
	}
	if !drug.HasStock(quantity) {
		return nil, shared.NewInsufficientStockError(drug.Name)
	}

	activeLots, err := lots.FindActiveByDrug(ctx, clinicID, drugID)
	if err != nil {
		return nil, err
	}

	result, err := pharmacy.DepleteLots(quantity, activeLots)
	if err != nil {
		return nil, err
	}

	touched := make([]*pharmacy.StockLot, 0, len(result.Depletions))
	byID := make(map[uuid.UUID]*pharmacy.StockLot, len(activeLots))
	for _, lot := range activeLots {
		byID[lot.ID] = lot
	}
	for _, depletion := range result.Depletions {
		touched = append(touched, byID[depletion.LotID])
	}
	if err := lots.SaveAll(ctx, touched); err != nil {
		return nil, err
	}

	if result.FullyFulfilled {
		if result.TotalDepleted > 0 {
			if err := drug.DecreaseStock(result.TotalDepleted); err != nil {
				return nil, err
			}
		}
	} else {
		lotSum := 0
		for _, lot := range activeLots {
			lotSum += lot.ActiveQuantity
		}
		s.logger.Warn("Drug aggregate stock exceeded lot stock",
			zap.String("clinic_id", clinicID.String()),
			zap.String("drug_id", drugID.String()),
			zap.Int("requested", quantity),
			zap.Int("depleted", result.TotalDepleted),
			zap.Int("shortfall", result.Remaining),
			zap.Int("reconciled_stock", lotSum))
		if err := drug.ReconcileStock(lotSum); err != nil {
			return nil, err
		}
	}
	drug.IncrementVersion()
	if err := drugs.SaveWithLock(ctx, drug); err != nil {
		return nil, err
	}

	s.logger.Info("Stock depleted",
		zap.String("clinic_id", clinicID.String()),
		zap.String("drug_id", drugID.String()),
		zap.Int("quantity", result.TotalDepleted),
		zap.Int("lots_touched", len(result.Depletions)),
		zap.Int("total_stock", drug.TotalStock))

	return result, nil
}

// Lots lists a drug's stock lots, newest first
func (s *StockLedgerService) Lots(ctx context.Context, clinicID, drugID uuid.UUID, filter shared.Filter) ([]StockLotResponse, error) {
	var lotRows []pharmacy.StockLot
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		lotRows, err = repos.Lots().FindByDrug(ctx, clinicID, drugID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]StockLotResponse, len(lotRows))
	for i := range lotRows {
		responses[i] = ToStockLotResponse(&lotRows[i])
	}
	return responses, nil
}

// ExpiringLots lists lots with active stock expiring within the window
func (s *StockLedgerService) ExpiringLots(ctx context.Context, clinicID uuid.UUID, within time.Duration, filter shared.Filter) ([]StockLotResponse, error) {
	cutoff := time.Now().Add(within)

	var lotRows []pharmacy.StockLot
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		lotRows, err = repos.Lots().FindExpiringBefore(ctx, clinicID, cutoff, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]StockLotResponse, len(lotRows))
	for i := range lotRows {
		responses[i] = ToStockLotResponse(&lotRows[i])
	}
	return responses, nil
}

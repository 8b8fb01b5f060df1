package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	apppharmacy "github.com/klinika/backend/internal/application/pharmacy"
	"github.com/klinika/backend/internal/domain/billing"
	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/queue"
	"github.com/klinika/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BillingService handles the payment desk: cart edits on unpaid bills,
// settling payment and drug pick-up.
type BillingService struct {
	scope       TransactionScope
	sellingRepo billing.SellingRepository
	drugRepo    pharmacy.DrugRepository
	unitRepo    pharmacy.UnitRepository
	actionRepo  billing.ActionRepository
	ledger      *apppharmacy.StockLedgerService
	logger      *zap.Logger
}

// NewBillingService creates a new billing service
func NewBillingService(
	scope TransactionScope,
	sellingRepo billing.SellingRepository,
	drugRepo pharmacy.DrugRepository,
	unitRepo pharmacy.UnitRepository,
	actionRepo billing.ActionRepository,
	ledger *apppharmacy.StockLedgerService,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		scope:       scope,
		sellingRepo: sellingRepo,
		drugRepo:    drugRepo,
		unitRepo:    unitRepo,
		actionRepo:  actionRepo,
		ledger:      ledger,
		logger:      logger,
	}
}

// GetByID returns a bill with its carts
func (s *BillingService) GetByID(ctx context.Context, clinicID, transactionID uuid.UUID) (*TransactionResponse, error) {
	bill, err := s.sellingRepo.FindByIDForClinic(ctx, clinicID, transactionID)
	if err != nil {
		return nil, err
	}
	response := ToTransactionResponse(bill)
	return &response, nil
}

// GetByQueue returns the bill opened for a visit
func (s *BillingService) GetByQueue(ctx context.Context, clinicID, queueID uuid.UUID) (*TransactionResponse, error) {
	bill, err := s.sellingRepo.FindByQueue(ctx, clinicID, queueID)
	if err != nil {
		return nil, err
	}
	response := ToTransactionResponse(bill)
	return &response, nil
}

// ListUnpaid returns the bills waiting at the payment desk, oldest first
func (s *BillingService) ListUnpaid(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]TransactionResponse, error) {
	bills, err := s.sellingRepo.FindUnpaidForClinic(ctx, clinicID, filter)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(bills), nil
}

// ListForPickup returns paid bills whose drugs have not been collected yet
func (s *BillingService) ListForPickup(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]TransactionResponse, error) {
	bills, err := s.sellingRepo.FindPaidForPickup(ctx, clinicID, filter)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(bills), nil
}

// List returns the clinic's bills with pagination
func (s *BillingService) List(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (shared.Paginated[TransactionResponse], error) {
	bills, err := s.sellingRepo.FindAllForClinic(ctx, clinicID, filter)
	if err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}
	total, err := s.sellingRepo.CountForClinic(ctx, clinicID, filter)
	if err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}
	return shared.NewPaginated(ToTransactionResponses(bills), total, filter.Page, filter.PageSize), nil
}

// AddDrugCart adds a drug line to an unpaid bill. The line is gated on the
// drug's aggregate stock so the desk cannot sell what the shelves lack.
func (s *BillingService) AddDrugCart(ctx context.Context, clinicID, transactionID uuid.UUID, req AddDrugCartRequest) (*TransactionResponse, error) {
	bill, err := s.sellingRepo.FindByIDForClinic(ctx, clinicID, transactionID)
	if err != nil {
		return nil, err
	}

	drug, err := s.drugRepo.FindByIDForClinic(ctx, clinicID, req.DrugID)
	if err != nil {
		return nil, err
	}
	if !drug.HasStock(s.pendingQuantity(bill, req.DrugID) + req.Quantity) {
		return nil, shared.NewInsufficientStockError(drug.Name)
	}

	unitName := ""
	if unit, err := s.unitRepo.FindByID(ctx, drug.UnitID); err == nil {
		unitName = unit.Name
	}

	if _, err := bill.AddDrugCart(drug.ID, drug.Name, unitName, drug.SellingPrice, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.sellingRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(bill)
	return &response, nil
}

// AddActionCart adds a procedure line to an unpaid bill
func (s *BillingService) AddActionCart(ctx context.Context, clinicID, transactionID uuid.UUID, req AddActionCartRequest) (*TransactionResponse, error) {
	bill, err := s.sellingRepo.FindByIDForClinic(ctx, clinicID, transactionID)
	if err != nil {
		return nil, err
	}
	action, err := s.actionRepo.FindByIDForClinic(ctx, clinicID, req.ActionID)
	if err != nil {
		return nil, err
	}

	if _, err := bill.AddActionCart(action.ID, action.Name, action.Price, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.sellingRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(bill)
	return &response, nil
}

// UpdateDrugCartQuantity changes a drug line's quantity, re-gating on stock
func (s *BillingService) UpdateDrugCartQuantity(ctx context.Context, clinicID, transactionID, itemID uuid.UUID, req UpdateCartQuantityRequest) (*TransactionResponse, error) {
	bill, err := s.sellingRepo.FindByIDForClinic(ctx, clinicID, transactionID)
	if err != nil {
		return nil, err
	}

	var line *billing.DrugCartItem
	for i := range bill.DrugCarts {
		if bill.DrugCarts[i].ID == itemID {
			line = &bill.DrugCarts[i]
			break
		}
	}
	if line == nil {
		return nil, shared.ErrNotFound
	}

	drug, err := s.drugRepo.FindByIDForClinic(ctx, clinicID, line.DrugID)
	if err != nil {
		return nil, err
	}
	pendingOther := s.pendingQuantity(bill, line.DrugID) - line.Quantity
	if !drug.HasStock(pendingOther + req.Quantity) {
		return nil, shared.NewInsufficientStockError(drug.Name)
	}

	if err := bill.UpdateDrugCartQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.sellingRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(bill)
	return &response, nil
}

// RemoveDrugCart deletes a drug line from an unpaid bill
func (s *BillingService) RemoveDrugCart(ctx context.Context, clinicID, transactionID, itemID uuid.UUID) (*TransactionResponse, error) {
	bill, err := s.sellingRepo.FindByIDForClinic(ctx, clinicID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := bill.RemoveDrugCart(itemID); err != nil {
		return nil, err
	}
	if err := s.sellingRepo.DeleteDrugCartItem(ctx, itemID); err != nil {
		return nil, err
	}
	if err := s.sellingRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(bill)
	return &response, nil
}

// RemoveActionCart deletes a procedure line from an unpaid bill
func (s *BillingService) RemoveActionCart(ctx context.Context, clinicID, transactionID, itemID uuid.UUID) (*TransactionResponse, error) {
	bill, err := s.sellingRepo.FindByIDForClinic(ctx, clinicID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := bill.RemoveActionCart(itemID); err != nil {
		return nil, err
	}
	if err := s.sellingRepo.DeleteActionCartItem(ctx, itemID); err != nil {
		return nil, err
	}
	if err := s.sellingRepo.Save(ctx, bill); err != nil {
		return nil, err
	}

	response := ToTransactionResponse(bill)
	return &response, nil
}

// Pay settles a bill in one transaction: every drug line is gated on the
// aggregate stock first, then dispensed from the lots in receipt order,
// the invoice number is assigned, the queue moves on and the cashier
// balance takes the total.
func (s *BillingService) Pay(ctx context.Context, clinicID, transactionID uuid.UUID) (*TransactionResponse, error) {
	var bill *billing.SellingTransaction

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		bill, err = repos.Sellings().FindByIDForClinic(ctx, clinicID, transactionID)
		if err != nil {
			return err
		}
		if bill.Paid {
			return shared.ErrTransactionPaid
		}

		c, err := repos.Clinics().FindByID(ctx, clinicID)
		if err != nil {
			return err
		}
		if !c.CashierOpen {
			return shared.ErrCashierClosed
		}

		// Gate every line before touching any lot so a mid-cart
		// shortage cannot leave a half-dispensed bill.
		for _, line := range bill.DrugCarts {
			drug, err := repos.Drugs().FindByIDForClinic(ctx, clinicID, line.DrugID)
			if err != nil {
				return err
			}
			if !drug.HasStock(line.Quantity) {
				return shared.NewInsufficientStockError(drug.Name)
			}
		}

		for _, line := range bill.DrugCarts {
			if _, err := s.ledger.DepleteIn(ctx, repos.Drugs(), repos.Lots(), clinicID, line.DrugID, line.Quantity); err != nil {
				return err
			}
		}

		sequence, err := repos.Sellings().NextInvoiceSequence(ctx, clinicID, time.Now())
		if err != nil {
			return err
		}
		if err := bill.MarkPaid(sequence); err != nil {
			return err
		}
		if err := repos.Sellings().Save(ctx, bill); err != nil {
			return err
		}

		entry, err := repos.Queues().FindByIDForClinic(ctx, clinicID, bill.QueueID)
		if err != nil {
			return err
		}
		if bill.HasDrugLines() {
			err = entry.SendToPickup()
		} else {
			err = entry.Finish()
		}
		if err != nil {
			return err
		}
		if err := repos.Queues().Save(ctx, entry); err != nil {
			return err
		}
		if entry.Status == queue.StatusDone {
			if err := s.releasePatient(ctx, repos, clinicID, bill.PatientID); err != nil {
				return err
			}
		}

		if err := c.AddToCashierBalance(bill.TotalPrice); err != nil {
			return err
		}
		c.IncrementVersion()
		return repos.Clinics().SaveWithLock(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Bill paid",
		zap.String("clinic_id", clinicID.String()),
		zap.String("invoice_number", bill.InvoiceNumber),
		zap.String("total", bill.TotalPrice.String()),
		zap.Int("drug_lines", len(bill.DrugCarts)))

	response := ToTransactionResponse(bill)
	return &response, nil
}

// Pickup records that the patient collected the drugs and finishes the visit
func (s *BillingService) Pickup(ctx context.Context, clinicID, transactionID uuid.UUID) (*TransactionResponse, error) {
	var bill *billing.SellingTransaction

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		bill, err = repos.Sellings().FindByIDForClinic(ctx, clinicID, transactionID)
		if err != nil {
			return err
		}
		if err := bill.MarkPickedUp(); err != nil {
			return err
		}
		if err := repos.Sellings().Save(ctx, bill); err != nil {
			return err
		}

		entry, err := repos.Queues().FindByIDForClinic(ctx, clinicID, bill.QueueID)
		if err != nil {
			return err
		}
		if err := entry.Finish(); err != nil {
			return err
		}
		if err := repos.Queues().Save(ctx, entry); err != nil {
			return err
		}
		return s.releasePatient(ctx, repos, clinicID, bill.PatientID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Drugs picked up",
		zap.String("clinic_id", clinicID.String()),
		zap.String("invoice_number", bill.InvoiceNumber))

	response := ToTransactionResponse(bill)
	return &response, nil
}

// pendingQuantity sums how much of a drug the bill already carries
func (s *BillingService) pendingQuantity(bill *billing.SellingTransaction, drugID uuid.UUID) int {
	total := 0
	for _, line := range bill.DrugCarts {
		if line.DrugID == drugID {
			total += line.Quantity
		}
	}
	return total
}

func (s *BillingService) releasePatient(ctx context.Context, repos TransactionalRepositories, clinicID, patientID uuid.UUID) error {
	p, err := repos.Patients().FindByIDForClinic(ctx, clinicID, patientID)
	if err != nil {
		return err
	}
	p.MarkReady()
	return repos.Patients().Save(ctx, p)
}

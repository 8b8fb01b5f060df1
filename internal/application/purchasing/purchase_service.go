package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	apppharmacy "github.com/klinika/backend/internal/application/pharmacy"
	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/purchasing"
	"github.com/klinika/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PurchaseService books drug purchases and feeds them into the stock ledger
type PurchaseService struct {
	scope       TransactionScope
	factoryRepo pharmacy.DrugFactoryRepository
	ledger      *apppharmacy.StockLedgerService
	logger      *zap.Logger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	scope TransactionScope,
	factoryRepo pharmacy.DrugFactoryRepository,
	ledger *apppharmacy.StockLedgerService,
	logger *zap.Logger,
) *PurchaseService {
	return &PurchaseService{
		scope:       scope,
		factoryRepo: factoryRepo,
		ledger:      ledger,
		logger:      logger,
	}
}

// Create books a purchase invoice and receives one stock lot per line.
// The invoice, the lots and the drug aggregates land in one transaction.
func (s *PurchaseService) Create(ctx context.Context, clinicID uuid.UUID, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	partnered, err := s.factoryRepo.IsPartnered(ctx, clinicID, req.FactoryID)
	if err != nil {
		return nil, err
	}
	if !partnered {
		return nil, shared.NewDomainError("FACTORY_NOT_PARTNERED", "Clinic has no partnership with this factory")
	}
	factory, err := s.factoryRepo.FindByID(ctx, req.FactoryID)
	if err != nil {
		return nil, err
	}

	purchase, err := purchasing.NewPurchaseTransaction(clinicID, factory.ID, factory.Name, factory.Email, factory.Phone)
	if err != nil {
		return nil, err
	}

	batchNumbers := make(map[uuid.UUID]string, len(req.Items))

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sequence, err := repos.Purchases().NextInvoiceSequence(ctx, clinicID, time.Now())
		if err != nil {
			return err
		}
		purchase.AssignInvoiceNumber(sequence)

		for _, line := range req.Items {
			item, err := purchase.AddItem(line.DrugID, line.Quantity, line.TotalPrice, line.ExpiredDate)
			if err != nil {
				return err
			}
			lot, err := s.ledger.ReceiveLotIn(ctx, repos.Drugs(), repos.Lots(), clinicID, line.DrugID, item.ID, line.Quantity, line.ExpiredDate)
			if err != nil {
				return err
			}
			batchNumbers[item.ID] = lot.BatchNumber
		}

		return repos.Purchases().Save(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Purchase booked",
		zap.String("clinic_id", clinicID.String()),
		zap.String("invoice_number", purchase.InvoiceNumber),
		zap.String("factory", purchase.FactoryName),
		zap.Int("lines", len(purchase.Items)))

	response := ToPurchaseResponse(purchase)
	for i := range response.Items {
		response.Items[i].BatchNumber = batchNumbers[response.Items[i].ID]
	}
	return &response, nil
}

// GetByID returns a purchase invoice with its lines
func (s *PurchaseService) GetByID(ctx context.Context, clinicID, purchaseID uuid.UUID) (*PurchaseResponse, error) {
	var purchase *purchasing.PurchaseTransaction
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		purchase, err = repos.Purchases().FindByIDForClinic(ctx, clinicID, purchaseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseResponse(purchase)
	return &response, nil
}

// List returns the clinic's purchase history
func (s *PurchaseService) List(ctx context.Context, clinicID uuid.UUID, filter PurchaseListFilter) (shared.Paginated[PurchaseResponse], error) {
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
	if filter.FactoryID != nil {
		domainFilter.Filters["factory_id"] = *filter.FactoryID
	}

	var (
		purchases []purchasing.PurchaseTransaction
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		purchases, err = repos.Purchases().FindAllForClinic(ctx, clinicID, domainFilter)
		if err != nil {
			return err
		}
		total, err = repos.Purchases().CountForClinic(ctx, clinicID, domainFilter)
		return err
	})
	if err != nil {
		return shared.Paginated[PurchaseResponse]{}, err
	}

	return shared.NewPaginated(ToPurchaseResponses(purchases), total, domainFilter.Page, domainFilter.PageSize), nil
}

package purchasing

import (
	"context"

	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/purchasing"
)

// TransactionScope runs purchase intake inside one database transaction.
// A purchase writes the invoice, one stock lot per line and the drug
// aggregates; a failed line rolls back the whole intake.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the intake repositories bound to the
// current transaction.
type TransactionalRepositories interface {
	Purchases() purchasing.PurchaseRepository
	Drugs() pharmacy.DrugRepository
	Lots() pharmacy.StockLotRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests.
type NoOpTransactionScope struct {
	purchaseRepo purchasing.PurchaseRepository
	drugRepo     pharmacy.DrugRepository
	lotRepo      pharmacy.StockLotRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	purchaseRepo purchasing.PurchaseRepository,
	drugRepo pharmacy.DrugRepository,
	lotRepo pharmacy.StockLotRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		purchaseRepo: purchaseRepo,
		drugRepo:     drugRepo,
		lotRepo:      lotRepo,
	}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Purchases returns the purchase repository
func (s *NoOpTransactionScope) Purchases() purchasing.PurchaseRepository {
	return s.purchaseRepo
}

// Drugs returns the drug repository
func (s *NoOpTransactionScope) Drugs() pharmacy.DrugRepository {
	return s.drugRepo
}

// Lots returns the stock lot repository
func (s *NoOpTransactionScope) Lots() pharmacy.StockLotRepository {
	return s.lotRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

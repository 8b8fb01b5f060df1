package pharmacy

import (
	"context"

	"github.com/klinika/backend/internal/domain/pharmacy"
)

// TransactionScope runs ledger operations inside one database transaction.
// Receiving a lot touches the lot table and the drug aggregate; depleting
// touches several lots and the drug aggregate. Either all of it lands or
// none of it does.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the ledger repositories bound to the
// current transaction.
type TransactionalRepositories interface {
	Drugs() pharmacy.DrugRepository
	Lots() pharmacy.StockLotRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests.
type NoOpTransactionScope struct {
	drugRepo pharmacy.DrugRepository
	lotRepo  pharmacy.StockLotRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(drugRepo pharmacy.DrugRepository, lotRepo pharmacy.StockLotRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{drugRepo: drugRepo, lotRepo: lotRepo}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
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

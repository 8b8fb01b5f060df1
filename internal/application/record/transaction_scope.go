package record

import (
	"context"

	"github.com/klinika/backend/internal/domain/billing"
	"github.com/klinika/backend/internal/domain/queue"
	"github.com/klinika/backend/internal/domain/record"
)

// TransactionScope runs assessment submission inside one database
// transaction. Submitting writes the medical record, opens the unpaid bill
// and advances the queue; a failure rolls all three back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current
// transaction.
type TransactionalRepositories interface {
	Records() record.RecordRepository
	Sellings() billing.SellingRepository
	Queues() queue.QueueRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests.
type NoOpTransactionScope struct {
	recordRepo  record.RecordRepository
	sellingRepo billing.SellingRepository
	queueRepo   queue.QueueRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	recordRepo record.RecordRepository,
	sellingRepo billing.SellingRepository,
	queueRepo queue.QueueRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		recordRepo:  recordRepo,
		sellingRepo: sellingRepo,
		queueRepo:   queueRepo,
	}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Records returns the record repository
func (s *NoOpTransactionScope) Records() record.RecordRepository {
	return s.recordRepo
}

// Sellings returns the selling transaction repository
func (s *NoOpTransactionScope) Sellings() billing.SellingRepository {
	return s.sellingRepo
}

// Queues returns the queue repository
func (s *NoOpTransactionScope) Queues() queue.QueueRepository {
	return s.queueRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)

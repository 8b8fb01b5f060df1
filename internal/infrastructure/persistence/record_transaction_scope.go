package persistence

import (
	"context"

	apprecord "github.com/klinika/backend/internal/application/record"
	"github.com/klinika/backend/internal/domain/billing"
	"github.com/klinika/backend/internal/domain/queue"
	"github.com/klinika/backend/internal/domain/record"
	"gorm.io/gorm"
)

// GormRecordTransactionScope implements the record TransactionScope using
// GORM transactions. Submitting an assessment writes the medical record,
// opens the bill and advances the queue atomically.
type GormRecordTransactionScope struct {
	db *gorm.DB
}

// NewGormRecordTransactionScope creates a new GormRecordTransactionScope
func NewGormRecordTransactionScope(db *gorm.DB) *GormRecordTransactionScope {
	return &GormRecordTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormRecordTransactionScope) Execute(ctx context.Context, fn func(repos apprecord.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRecordRepositories{tx: tx})
	})
}

type gormRecordRepositories struct {
	tx *gorm.DB
}

// Records returns the medical record repository scoped to the current transaction
func (r *gormRecordRepositories) Records() record.RecordRepository {
	return NewGormRecordRepository(r.tx)
}

// Sellings returns the selling transaction repository scoped to the current transaction
func (r *gormRecordRepositories) Sellings() billing.SellingRepository {
	return NewGormSellingRepository(r.tx)
}

// Queues returns the queue repository scoped to the current transaction
func (r *gormRecordRepositories) Queues() queue.QueueRepository {
	return NewGormQueueRepository(r.tx)
}

var _ apprecord.TransactionScope = (*GormRecordTransactionScope)(nil)
var _ apprecord.TransactionalRepositories = (*gormRecordRepositories)(nil)

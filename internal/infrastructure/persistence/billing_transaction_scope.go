package persistence

import (
	"context"

	appbilling "github.com/klinika/backend/internal/application/billing"
	"github.com/klinika/backend/internal/domain/billing"
	"github.com/klinika/backend/internal/domain/clinic"
	"github.com/klinika/backend/internal/domain/patient"
	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/queue"
	"gorm.io/gorm"
)

// GormBillingTransactionScope implements the billing TransactionScope using
// GORM transactions. Payment is the widest transaction in the system: it
// settles the bill, dispenses stock lots, advances the queue and books the
// cashier balance in one commit.
type GormBillingTransactionScope struct {
	db *gorm.DB
}

// NewGormBillingTransactionScope creates a new GormBillingTransactionScope
func NewGormBillingTransactionScope(db *gorm.DB) *GormBillingTransactionScope {
	return &GormBillingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormBillingTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormBillingRepositories{tx: tx})
	})
}

type gormBillingRepositories struct {
	tx *gorm.DB
}

// Sellings returns the selling transaction repository scoped to the current transaction
func (r *gormBillingRepositories) Sellings() billing.SellingRepository {
	return NewGormSellingRepository(r.tx)
}

// Drugs returns the drug repository scoped to the current transaction
func (r *gormBillingRepositories) Drugs() pharmacy.DrugRepository {
	return NewGormDrugRepository(r.tx)
}

// Lots returns the stock lot repository scoped to the current transaction
func (r *gormBillingRepositories) Lots() pharmacy.StockLotRepository {
	return NewGormStockLotRepository(r.tx)
}

// Queues returns the queue repository scoped to the current transaction
func (r *gormBillingRepositories) Queues() queue.QueueRepository {
	return NewGormQueueRepository(r.tx)
}

// Clinics returns the clinic repository scoped to the current transaction
func (r *gormBillingRepositories) Clinics() clinic.ClinicRepository {
	return NewGormClinicRepository(r.tx)
}

// Patients returns the patient repository scoped to the current transaction
func (r *gormBillingRepositories) Patients() patient.PatientRepository {
	return NewGormPatientRepository(r.tx)
}

var _ appbilling.TransactionScope = (*GormBillingTransactionScope)(nil)
var _ appbilling.TransactionalRepositories = (*gormBillingRepositories)(nil)

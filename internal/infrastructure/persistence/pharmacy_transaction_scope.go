package persistence

import (
	"context"

	apppharmacy "github.com/klinika/backend/internal/application/pharmacy"
	"github.com/klinika/backend/internal/domain/pharmacy"
	"gorm.io/gorm"
)

// GormPharmacyTransactionScope implements the pharmacy TransactionScope
// using GORM transactions. Receiving and depleting stock touch the drug
// aggregate and its lots together; either both land or neither does.
type GormPharmacyTransactionScope struct {
	db *gorm.DB
}

// NewGormPharmacyTransactionScope creates a new GormPharmacyTransactionScope
func NewGormPharmacyTransactionScope(db *gorm.DB) *GormPharmacyTransactionScope {
	return &GormPharmacyTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormPharmacyTransactionScope) Execute(ctx context.Context, fn func(repos apppharmacy.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPharmacyRepositories{tx: tx})
	})
}

type gormPharmacyRepositories struct {
	tx *gorm.DB
}

// Drugs returns the drug repository scoped to the current transaction
func (r *gormPharmacyRepositories) Drugs() pharmacy.DrugRepository {
	return NewGormDrugRepository(r.tx)
}

// Lots returns the stock lot repository scoped to the current transaction
func (r *gormPharmacyRepositories) Lots() pharmacy.StockLotRepository {
	return NewGormStockLotRepository(r.tx)
}

var _ apppharmacy.TransactionScope = (*GormPharmacyTransactionScope)(nil)
var _ apppharmacy.TransactionalRepositories = (*gormPharmacyRepositories)(nil)

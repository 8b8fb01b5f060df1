package persistence

import (
	"context"

	apppurchasing "github.com/klinika/backend/internal/application/purchasing"
	"github.com/klinika/backend/internal/domain/pharmacy"
	"github.com/klinika/backend/internal/domain/purchasing"
	"gorm.io/gorm"
)

// GormPurchasingTransactionScope implements the purchasing TransactionScope
// using GORM transactions. Booking a purchase writes the invoice, its items
// and one stock lot per item in a single transaction.
type GormPurchasingTransactionScope struct {
	db *gorm.DB
}

// NewGormPurchasingTransactionScope creates a new GormPurchasingTransactionScope
func NewGormPurchasingTransactionScope(db *gorm.DB) *GormPurchasingTransactionScope {
	return &GormPurchasingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormPurchasingTransactionScope) Execute(ctx context.Context, fn func(repos apppurchasing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPurchasingRepositories{tx: tx})
	})
}

type gormPurchasingRepositories struct {
	tx *gorm.DB
}

// Purchases returns the purchase repository scoped to the current transaction
func (r *gormPurchasingRepositories) Purchases() purchasing.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

// Drugs returns the drug repository scoped to the current transaction
func (r *gormPurchasingRepositories) Drugs() pharmacy.DrugRepository {
	return NewGormDrugRepository(r.tx)
}

// Lots returns the stock lot repository scoped to the current transaction
func (r *gormPurchasingRepositories) Lots() pharmacy.StockLotRepository {
	return NewGormStockLotRepository(r.tx)
}

var _ apppurchasing.TransactionScope = (*GormPurchasingTransactionScope)(nil)
var _ apppurchasing.TransactionalRepositories = (*gormPurchasingRepositories)(nil)

package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klinika/backend/internal/domain/clinic"
)

// GormReportRepository implements ReportRepository by aggregating
// straight over the transaction tables.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// DailyReport summarizes activity for a clinic on the given date
func (r *GormReportRepository) DailyReport(ctx context.Context, clinicID uuid.UUID, date time.Time) (*clinic.DailyReport, error) {
	start, end := dayBounds(date)

	report := &clinic.DailyReport{Date: start}

	if err := r.db.WithContext(ctx).
		Table("selling_transactions").
		Select("COALESCE(SUM(total_price), 0) as selling_revenue, COUNT(*) as transactions_paid").
		Where("clinic_id = ? AND paid = true AND paid_at >= ? AND paid_at < ?", clinicID, start, end).
		Row().Scan(&report.SellingRevenue, &report.TransactionsPaid); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Table("purchase_transactions").
		Select("COALESCE(SUM(total_price), 0)").
		Where("clinic_id = ? AND created_at >= ? AND created_at < ?", clinicID, start, end).
		Row().Scan(&report.PurchaseSpend); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Table("queues").
		Select("COUNT(DISTINCT patient_id)").
		Where("clinic_id = ? AND created_at >= ? AND created_at < ?", clinicID, start, end).
		Row().Scan(&report.PatientCount); err != nil {
		return nil, err
	}

	return report, nil
}

var _ clinic.ReportRepository = (*GormReportRepository)(nil)

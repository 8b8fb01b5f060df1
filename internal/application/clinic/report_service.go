package clinic

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/clinic"
	"github.com/klinika/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReportService builds daily activity reports for a clinic
type ReportService struct {
	reportRepo clinic.ReportRepository
	logger     *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(reportRepo clinic.ReportRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		logger:     logger,
	}
}

// Daily summarizes one day of clinic activity. The date string is
// YYYY-MM-DD in the clinic's local time; empty means today.
func (s *ReportService) Daily(ctx context.Context, clinicID uuid.UUID, date string) (*DailyReportResponse, error) {
	day := time.Now()
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Date must be YYYY-MM-DD")
		}
		day = parsed
	}

	report, err := s.reportRepo.DailyReport(ctx, clinicID, day)
	if err != nil {
		s.logger.Error("Failed to build daily report",
			zap.String("clinic_id", clinicID.String()),
			zap.Error(err))
		return nil, err
	}

	return &DailyReportResponse{
		Date:             report.Date.Format("2006-01-02"),
		PatientCount:     report.PatientCount,
		TransactionsPaid: report.TransactionsPaid,
		SellingRevenue:   report.SellingRevenue,
		PurchaseSpend:    report.PurchaseSpend,
	}, nil
}

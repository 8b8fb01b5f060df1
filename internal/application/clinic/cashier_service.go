package clinic

import (
	"context"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/clinic"
	"github.com/klinika/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CashierService opens and closes the clinic's daily cashier
type CashierService struct {
	clinicRepo  clinic.ClinicRepository
	sessionRepo clinic.CashierSessionRepository
	logger      *zap.Logger
}

// NewCashierService creates a new cashier service
func NewCashierService(
	clinicRepo clinic.ClinicRepository,
	sessionRepo clinic.CashierSessionRepository,
	logger *zap.Logger,
) *CashierService {
	return &CashierService{
		clinicRepo:  clinicRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// Status reports the current cashier state
func (s *CashierService) Status(ctx context.Context, clinicID uuid.UUID) (*CashierStatusResponse, error) {
	c, err := s.clinicRepo.FindByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	return &CashierStatusResponse{
		Open:     c.CashierOpen,
		Balance:  c.CashierBalance,
		OpenedAt: c.OpenedAt,
		OpenedBy: c.OpenedBy,
	}, nil
}

// Open opens the cashier with an opening balance. Patients can only be
// queued while the cashier is open.
func (s *CashierService) Open(ctx context.Context, clinicID, openedBy uuid.UUID, req OpenCashierRequest) (*CashierStatusResponse, error) {
	c, err := s.clinicRepo.FindByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if err := c.OpenCashier(openedBy, req.OpeningBalance); err != nil {
		return nil, err
	}
	c.IncrementVersion()
	if err := s.clinicRepo.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Cashier opened",
		zap.String("clinic_id", clinicID.String()),
		zap.String("opened_by", openedBy.String()),
		zap.String("opening_balance", req.OpeningBalance.String()))

	return &CashierStatusResponse{
		Open:     c.CashierOpen,
		Balance:  c.CashierBalance,
		OpenedAt: c.OpenedAt,
		OpenedBy: c.OpenedBy,
	}, nil
}

// Close closes the cashier and records the session that just ended
func (s *CashierService) Close(ctx context.Context, clinicID, closedBy uuid.UUID) (*CashierSessionResponse, error) {
	c, err := s.clinicRepo.FindByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	session, err := c.CloseCashier(closedBy)
	if err != nil {
		return nil, err
	}
	c.IncrementVersion()
	if err := s.clinicRepo.SaveWithLock(ctx, c); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Cashier closed",
		zap.String("clinic_id", clinicID.String()),
		zap.String("closed_by", closedBy.String()),
		zap.String("closing_balance", session.ClosingBalance.String()))

	response := ToCashierSessionResponse(session)
	return &response, nil
}

// Sessions lists the clinic's past cashier sessions
func (s *CashierService) Sessions(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (shared.Paginated[CashierSessionResponse], error) {
	sessions, err := s.sessionRepo.FindAllForClinic(ctx, clinicID, filter)
	if err != nil {
		return shared.Paginated[CashierSessionResponse]{}, err
	}
	total, err := s.sessionRepo.CountForClinic(ctx, clinicID)
	if err != nil {
		return shared.Paginated[CashierSessionResponse]{}, err
	}

	responses := make([]CashierSessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = ToCashierSessionResponse(&sessions[i])
	}
	return shared.NewPaginated(responses, total, filter.Page, filter.PageSize), nil
}

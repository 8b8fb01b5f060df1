package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/billing"
	"github.com/klinika/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActionService manages the clinic's billable procedure catalog
type ActionService struct {
	actionRepo billing.ActionRepository
	logger     *zap.Logger
}

// NewActionService creates a new action service
func NewActionService(actionRepo billing.ActionRepository, logger *zap.Logger) *ActionService {
	return &ActionService{actionRepo: actionRepo, logger: logger}
}

// Create adds a billable procedure
func (s *ActionService) Create(ctx context.Context, clinicID uuid.UUID, req CreateActionRequest) (*ActionResponse, error) {
	action, err := billing.NewAction(clinicID, req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	if err := s.actionRepo.Save(ctx, action); err != nil {
		return nil, err
	}

	s.logger.Info("Action created",
		zap.String("clinic_id", clinicID.String()),
		zap.String("name", action.Name))

	return toActionResponse(action), nil
}

// GetByID returns one procedure
func (s *ActionService) GetByID(ctx context.Context, clinicID, actionID uuid.UUID) (*ActionResponse, error) {
	action, err := s.actionRepo.FindByIDForClinic(ctx, clinicID, actionID)
	if err != nil {
		return nil, err
	}
	return toActionResponse(action), nil
}

// List returns the clinic's procedures with pagination
func (s *ActionService) List(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (shared.Paginated[ActionResponse], error) {
	actions, err := s.actionRepo.FindAllForClinic(ctx, clinicID, filter)
	if err != nil {
		return shared.Paginated[ActionResponse]{}, err
	}
	total, err := s.actionRepo.CountForClinic(ctx, clinicID, filter)
	if err != nil {
		return shared.Paginated[ActionResponse]{}, err
	}

	responses := make([]ActionResponse, len(actions))
	for i := range actions {
		responses[i] = *toActionResponse(&actions[i])
	}
	return shared.NewPaginated(responses, total, filter.Page, filter.PageSize), nil
}

// Update renames or reprices a procedure
func (s *ActionService) Update(ctx context.Context, clinicID, actionID uuid.UUID, req CreateActionRequest) (*ActionResponse, error) {
	action, err := s.actionRepo.FindByIDForClinic(ctx, clinicID, actionID)
	if err != nil {
		return nil, err
	}
	if err := action.Update(req.Name, req.Price); err != nil {
		return nil, err
	}
	if err := s.actionRepo.Save(ctx, action); err != nil {
		return nil, err
	}
	return toActionResponse(action), nil
}

// Delete removes a procedure from the catalog
func (s *ActionService) Delete(ctx context.Context, clinicID, actionID uuid.UUID) error {
	if _, err := s.actionRepo.FindByIDForClinic(ctx, clinicID, actionID); err != nil {
		return err
	}
	return s.actionRepo.DeleteForClinic(ctx, clinicID, actionID)
}

func toActionResponse(a *billing.Action) *ActionResponse {
	return &ActionResponse{
		ID:        a.ID,
		Name:      a.Name,
		Price:     a.Price,
		CreatedAt: a.CreatedAt,
	}
}

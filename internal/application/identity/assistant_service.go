package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/identity"
	"github.com/klinika/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AssistantService lets doctors manage their own assistants
type AssistantService struct {
	userRepo      identity.UserRepository
	assistantRepo identity.DoctorAssistantRepository
	logger        *zap.Logger
}

// NewAssistantService creates a new assistant service
func NewAssistantService(
	userRepo identity.UserRepository,
	assistantRepo identity.DoctorAssistantRepository,
	logger *zap.Logger,
) *AssistantService {
	return &AssistantService{
		userRepo:      userRepo,
		assistantRepo: assistantRepo,
		logger:        logger,
	}
}

// Assign links an assistant account to the doctor. An assistant can support
// only one doctor at a time.
func (s *AssistantService) Assign(ctx context.Context, clinicID, doctorID uuid.UUID, req AssignAssistantRequest) (*AssistantResponse, error) {
	assistant, err := s.userRepo.FindByID(ctx, req.AssistantID)
	if err != nil {
		return nil, err
	}
	if !assistant.BelongsToClinic(clinicID) {
		return nil, shared.ErrNotFound
	}
	if assistant.Role != identity.RoleDoctorAssistant {
		return nil, shared.NewDomainError("INVALID_ROLE", "Account is not a doctor assistant")
	}

	if existing, err := s.assistantRepo.FindByAssistant(ctx, clinicID, req.AssistantID); err == nil && existing != nil {
		return nil, shared.NewDomainError("ASSISTANT_TAKEN", "Assistant is already assigned to a doctor")
	}

	exists, err := s.assistantRepo.Exists(ctx, doctorID, req.AssistantID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists
	}

	assignment, err := identity.NewDoctorAssistant(clinicID, doctorID, req.AssistantID)
	if err != nil {
		return nil, err
	}
	if err := s.assistantRepo.Save(ctx, assignment); err != nil {
		return nil, err
	}

	s.logger.Info("Assistant assigned",
		zap.String("doctor_id", doctorID.String()),
		zap.String("assistant_id", req.AssistantID.String()))

	return &AssistantResponse{
		ID:            assignment.ID,
		DoctorID:      assignment.DoctorID,
		AssistantID:   assignment.AssistantID,
		AssistantName: assistant.FullName,
		Email:         assistant.Email,
		CreatedAt:     assignment.CreatedAt,
	}, nil
}

// ListByDoctor returns the doctor's assistants
func (s *AssistantService) ListByDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) ([]AssistantResponse, error) {
	assignments, err := s.assistantRepo.FindByDoctor(ctx, clinicID, doctorID)
	if err != nil {
		return nil, err
	}

	responses := make([]AssistantResponse, 0, len(assignments))
	for _, assignment := range assignments {
		response := AssistantResponse{
			ID:          assignment.ID,
			DoctorID:    assignment.DoctorID,
			AssistantID: assignment.AssistantID,
			CreatedAt:   assignment.CreatedAt,
		}
		if user, err := s.userRepo.FindByID(ctx, assignment.AssistantID); err == nil {
			response.AssistantName = user.FullName
			response.Email = user.Email
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// Remove unlinks an assistant from the doctor. Only the owning doctor can
// remove the assignment.
func (s *AssistantService) Remove(ctx context.Context, clinicID, doctorID, assignmentID uuid.UUID) error {
	assignments, err := s.assistantRepo.FindByDoctor(ctx, clinicID, doctorID)
	if err != nil {
		return err
	}
	for _, assignment := range assignments {
		if assignment.ID == assignmentID {
			return s.assistantRepo.Delete(ctx, assignmentID)
		}
	}
	return shared.ErrNotFound
}

// DoctorFor resolves which doctor an assistant supports
func (s *AssistantService) DoctorFor(ctx context.Context, clinicID, assistantID uuid.UUID) (uuid.UUID, error) {
	assignment, err := s.assistantRepo.FindByAssistant(ctx, clinicID, assistantID)
	if err != nil {
		return uuid.Nil, err
	}
	return assignment.DoctorID, nil
}

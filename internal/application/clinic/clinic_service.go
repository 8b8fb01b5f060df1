package clinic

import (
	"context"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/clinic"
	"github.com/klinika/backend/internal/domain/identity"
	"github.com/klinika/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ClinicService manages clinics. Creating and deleting clinics is a
// platform admin operation; clinic administrators can update their own.
type ClinicService struct {
	clinicRepo clinic.ClinicRepository
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewClinicService creates a new clinic service
func NewClinicService(
	clinicRepo clinic.ClinicRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *ClinicService {
	return &ClinicService{
		clinicRepo: clinicRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Create registers a clinic together with its administrator account
func (s *ClinicService) Create(ctx context.Context, req CreateClinicRequest) (*ClinicResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.AdminEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	newClinic, err := clinic.NewClinic(req.Name, req.Phone, req.Address, req.OutpatientFee, req.SellingFee)
	if err != nil {
		return nil, err
	}
	if err := s.clinicRepo.Save(ctx, newClinic); err != nil {
		return nil, err
	}

	admin, err := identity.NewUser(&newClinic.ID, req.AdminEmail, req.AdminPassword, req.AdminFullName, identity.RoleAdministrator)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("Clinic created",
		zap.String("clinic_id", newClinic.ID.String()),
		zap.String("name", newClinic.Name))

	response := ToClinicResponse(newClinic)
	return &response, nil
}

// GetByID returns a clinic
func (s *ClinicService) GetByID(ctx context.Context, clinicID uuid.UUID) (*ClinicResponse, error) {
	c, err := s.clinicRepo.FindByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	response := ToClinicResponse(c)
	return &response, nil
}

// List returns all clinics with pagination
func (s *ClinicService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[ClinicResponse], error) {
	clinics, err := s.clinicRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ClinicResponse]{}, err
	}
	total, err := s.clinicRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[ClinicResponse]{}, err
	}

	responses := make([]ClinicResponse, len(clinics))
	for i := range clinics {
		responses[i] = ToClinicResponse(&clinics[i])
	}
	return shared.NewPaginated(responses, total, filter.Page, filter.PageSize), nil
}

// Update changes a clinic's profile and fee settings
func (s *ClinicService) Update(ctx context.Context, clinicID uuid.UUID, req UpdateClinicRequest) (*ClinicResponse, error) {
	c, err := s.clinicRepo.FindByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateProfile(req.Name, req.Phone, req.Address, req.OutpatientFee, req.SellingFee); err != nil {
		return nil, err
	}
	if err := s.clinicRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	response := ToClinicResponse(c)
	return &response, nil
}

// Delete removes a clinic
func (s *ClinicService) Delete(ctx context.Context, clinicID uuid.UUID) error {
	if err := s.clinicRepo.Delete(ctx, clinicID); err != nil {
		return err
	}
	s.logger.Info("Clinic deleted", zap.String("clinic_id", clinicID.String()))
	return nil
}

package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/identity"
	"github.com/klinika/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService manages staff accounts within a clinic
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create registers a staff account for a clinic
func (s *UserService) Create(ctx context.Context, clinicID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	role := identity.RoleCode(req.Role)
	if !role.IsValid() || role == identity.RoleAdmin {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown staff role")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	user, err := identity.NewUser(&clinicID, req.Email, req.Password, req.FullName, role)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.FullName, req.Gender, req.Phone, req.Address, req.Speciality, req.SIPNumber); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Staff account created",
		zap.String("user_id", user.ID.String()),
		zap.String("clinic_id", clinicID.String()),
		zap.String("role", req.Role))

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID returns a staff account of the clinic
func (s *UserService) GetByID(ctx context.Context, clinicID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.findClinicUser(ctx, clinicID, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List returns the clinic's staff accounts with pagination
func (s *UserService) List(ctx context.Context, clinicID uuid.UUID, filter UserListFilter) (shared.Paginated[UserResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}

	users, err := s.userRepo.FindAllForClinic(ctx, clinicID, domainFilter)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}
	total, err := s.userRepo.CountForClinic(ctx, clinicID, domainFilter)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}

	return shared.NewPaginated(ToUserResponses(users), total, domainFilter.Page, domainFilter.PageSize), nil
}

// ListDoctors returns the clinic's active doctors
func (s *UserService) ListDoctors(ctx context.Context, clinicID uuid.UUID) ([]UserResponse, error) {
	doctors, err := s.userRepo.FindByRoleForClinic(ctx, clinicID, identity.RoleDoctor, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return ToUserResponses(doctors), nil
}

// UpdateProfile updates a staff account's profile fields
func (s *UserService) UpdateProfile(ctx context.Context, clinicID, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.findClinicUser(ctx, clinicID, userID)
	if err != nil {
		return nil, err
	}

	if err := user.UpdateProfile(req.FullName, req.Gender, req.Phone, req.Address, req.Speciality, req.SIPNumber); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword changes the caller's own password after verifying the old one
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.VerifyPassword(req.OldPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Old password is incorrect")
	}
	if err := user.ChangePassword(req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

// Deactivate disables a staff account
func (s *UserService) Deactivate(ctx context.Context, clinicID, userID uuid.UUID) error {
	user, err := s.findClinicUser(ctx, clinicID, userID)
	if err != nil {
		return err
	}
	user.Deactivate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Staff account deactivated", zap.String("user_id", userID.String()))
	return nil
}

// Activate re-enables a staff account
func (s *UserService) Activate(ctx context.Context, clinicID, userID uuid.UUID) error {
	user, err := s.findClinicUser(ctx, clinicID, userID)
	if err != nil {
		return err
	}
	user.Activate()
	return s.userRepo.Save(ctx, user)
}

// Delete removes a staff account from the clinic
func (s *UserService) Delete(ctx context.Context, clinicID, userID uuid.UUID) error {
	if _, err := s.findClinicUser(ctx, clinicID, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}

// findClinicUser loads a user and checks it belongs to the clinic
func (s *UserService) findClinicUser(ctx context.Context, clinicID, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.BelongsToClinic(clinicID) {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/identity"
)

// LoginInput carries the credentials for a login attempt
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is returned after a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// UserInfo is the authenticated user's profile in auth responses
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	ClinicID    *uuid.UUID `json:"clinic_id,omitempty"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions"`
}

// RefreshTokenInput carries the refresh token
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResult is returned after a successful token refresh
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// CreateUserRequest creates a staff account for a clinic
type CreateUserRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FullName   string `json:"full_name" binding:"required"`
	Role       string `json:"role" binding:"required"`
	Gender     string `json:"gender" binding:"omitempty,oneof=male female"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Speciality string `json:"speciality"`
	SIPNumber  string `json:"sip_number"`
}

// UpdateProfileRequest updates a staff account's profile
type UpdateProfileRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Gender     string `json:"gender" binding:"omitempty,oneof=male female"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Speciality string `json:"speciality"`
	SIPNumber  string `json:"sip_number"`
}

// ChangePasswordRequest changes the caller's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UserListFilter filters the staff list
type UserListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UserResponse represents a staff account in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	ClinicID    *uuid.UUID `json:"clinic_id,omitempty"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Gender      string     `json:"gender,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Address     string     `json:"address,omitempty"`
	Speciality  string     `json:"speciality,omitempty"`
	SIPNumber   string     `json:"sip_number,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AssignAssistantRequest links an assistant account to a doctor
type AssignAssistantRequest struct {
	AssistantID uuid.UUID `json:"assistant_id" binding:"required"`
}

// AssistantResponse represents a doctor's assistant assignment
type AssistantResponse struct {
	ID            uuid.UUID `json:"id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	AssistantID   uuid.UUID `json:"assistant_id"`
	AssistantName string    `json:"assistant_name"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToUserResponse maps a user aggregate to its API representation
func ToUserResponse(user *identity.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		ClinicID:    user.ClinicID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role.String(),
		Status:      string(user.Status),
		Gender:      user.Gender,
		Phone:       user.Phone,
		Address:     user.Address,
		Speciality:  user.Speciality,
		SIPNumber:   user.SIPNumber,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// ToUserResponses maps a slice of users
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}

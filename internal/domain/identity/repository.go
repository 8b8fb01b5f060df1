package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email (login)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByRoleForClinic lists a clinic's staff with the given role
	FindByRoleForClinic(ctx context.Context, clinicID uuid.UUID, role RoleCode, filter shared.Filter) ([]User, error)

	// FindAllForClinic lists all staff of a clinic
	FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]User, error)
	CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByEmail reports whether an account with the email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DoctorAssistantRepository defines the interface for assistant assignments
type DoctorAssistantRepository interface {
	// FindByDoctor lists the assistants assigned to a doctor
	FindByDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) ([]DoctorAssistant, error)

	// FindByAssistant finds the doctor an assistant supports, if any
	FindByAssistant(ctx context.Context, clinicID, assistantID uuid.UUID) (*DoctorAssistant, error)

	// Exists reports whether the assignment already exists
	Exists(ctx context.Context, doctorID, assistantID uuid.UUID) (bool, error)

	Save(ctx context.Context, assignment *DoctorAssistant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

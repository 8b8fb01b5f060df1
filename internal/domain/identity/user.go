package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klinika/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents a staff account. Staff accounts belong to a clinic;
// platform admins have no clinic.
type User struct {
	shared.BaseAggregateRoot
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(100);not null"`
	Role         RoleCode   `gorm:"type:varchar(30);not null"`
	ClinicID     *uuid.UUID `gorm:"type:uuid;index"`
	Status       UserStatus `gorm:"type:varchar(20);not null"`
	LastLoginAt  *time.Time

	// Profile fields
	FullName   string `gorm:"type:varchar(255);not null"`
	Gender     string `gorm:"type:varchar(10)"`
	Phone      string `gorm:"type:varchar(50)"`
	Address    string `gorm:"type:varchar(500)"`
	Speciality string `gorm:"type:varchar(100)"`
	SIPNumber  string `gorm:"type:varchar(50)"`
}

// NewUser creates an active staff account for a clinic
func NewUser(clinicID *uuid.UUID, email, password, fullName string, role RoleCode) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_USER", "Full name is required")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if role != RoleAdmin && clinicID == nil {
		return nil, shared.NewDomainError("INVALID_USER", "Staff accounts must belong to a clinic")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      passwordHash,
		Role:              role,
		ClinicID:          clinicID,
		Status:            UserStatusActive,
		FullName:          fullName,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword sets a new password after validation
func (u *User) ChangePassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// UpdateProfile updates the user's profile fields
func (u *User) UpdateProfile(fullName, gender, phone, address, speciality, sipNumber string) error {
	if fullName == "" {
		return shared.NewDomainError("INVALID_USER", "Full name is required")
	}
	u.FullName = fullName
	u.Gender = gender
	u.Phone = phone
	u.Address = address
	u.Speciality = speciality
	u.SIPNumber = sipNumber
	u.UpdatedAt = time.Now()
	return nil
}

// RecordLogin stores the login timestamp
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.UpdatedAt = at
}

// IsActive reports whether the account may log in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
}

// Activate re-enables the account
func (u *User) Activate() {
	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
}

// BelongsToClinic reports whether the user is staff of the given clinic
func (u *User) BelongsToClinic(clinicID uuid.UUID) bool {
	return u.ClinicID != nil && *u.ClinicID == clinicID
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

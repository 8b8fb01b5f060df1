package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klinika/backend/internal/domain/identity"
	"github.com/klinika/backend/internal/domain/shared"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by its ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email (login)
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByRoleForClinic lists a clinic's staff with the given role
func (r *GormUserRepository) FindByRoleForClinic(ctx context.Context, clinicID uuid.UUID, role identity.RoleCode, filter shared.Filter) ([]identity.User, error) {
	var users []identity.User
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&identity.User{}).
			Where("clinic_id = ? AND role = ?", clinicID, role),
		filter,
	)

	if err := query.
		Order("full_name ASC").
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindAllForClinic lists all staff of a clinic
func (r *GormUserRepository) FindAllForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	var users []identity.User
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&identity.User{}).Where("clinic_id = ?", clinicID),
		filter,
	)

	orderBy := ValidateSortField(filter.OrderBy, UserSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := query.
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).Limit(filter.Limit()).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountForClinic counts staff matching the filter
func (r *GormUserRepository) CountForClinic(ctx context.Context, clinicID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&identity.User{}).Where("clinic_id = ?", clinicID),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail reports whether an account with the email exists
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete deletes a user
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	if role, ok := filter.Filters["role"]; ok {
		query = query.Where("role = ?", role)
	}
	return query
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

// GormDoctorAssistantRepository implements DoctorAssistantRepository using GORM
type GormDoctorAssistantRepository struct {
	db *gorm.DB
}

// NewGormDoctorAssistantRepository creates a new GormDoctorAssistantRepository
func NewGormDoctorAssistantRepository(db *gorm.DB) *GormDoctorAssistantRepository {
	return &GormDoctorAssistantRepository{db: db}
}

// FindByDoctor lists the assistants assigned to a doctor
func (r *GormDoctorAssistantRepository) FindByDoctor(ctx context.Context, clinicID, doctorID uuid.UUID) ([]identity.DoctorAssistant, error) {
	var assignments []identity.DoctorAssistant
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND doctor_id = ?", clinicID, doctorID).
		Order("created_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindByAssistant finds the doctor an assistant supports, if any
func (r *GormDoctorAssistantRepository) FindByAssistant(ctx context.Context, clinicID, assistantID uuid.UUID) (*identity.DoctorAssistant, error) {
	var assignment identity.DoctorAssistant
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND assistant_id = ?", clinicID, assistantID).
		First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// Exists reports whether the assignment already exists
func (r *GormDoctorAssistantRepository) Exists(ctx context.Context, doctorID, assistantID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.DoctorAssistant{}).
		Where("doctor_id = ? AND assistant_id = ?", doctorID, assistantID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an assignment
func (r *GormDoctorAssistantRepository) Save(ctx context.Context, assignment *identity.DoctorAssistant) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

// Delete deletes an assignment
func (r *GormDoctorAssistantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&identity.DoctorAssistant{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ identity.DoctorAssistantRepository = (*GormDoctorAssistantRepository)(nil)

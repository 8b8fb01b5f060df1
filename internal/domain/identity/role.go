package identity

import (
	"fmt"
	"strings"

	"github.com/klinika/backend/internal/domain/shared"
)

// RoleCode identifies one of the fixed staff roles
type RoleCode string

const (
	// RoleAdmin is the platform administrator managing clinics
	RoleAdmin RoleCode = "ADMIN"
	// RoleAdministrator runs a single clinic's back office
	RoleAdministrator RoleCode = "ADMINISTRATOR"
	RoleDoctor        RoleCode = "DOCTOR"
	RoleNurse         RoleCode = "NURSE"
	RoleDoctorAssistant RoleCode = "DOCTOR_ASSISTANT"
)

// IsValid checks if the role code is known
func (r RoleCode) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAdministrator, RoleDoctor, RoleNurse, RoleDoctorAssistant:
		return true
	}
	return false
}

// String returns the string representation
func (r RoleCode) String() string {
	return string(r)
}

// AllRoleCodes returns every valid role code
func AllRoleCodes() []RoleCode {
	return []RoleCode{RoleAdmin, RoleAdministrator, RoleDoctor, RoleNurse, RoleDoctorAssistant}
}

// Permission represents a functional permission (resource:action pattern)
type Permission struct {
	Resource string
	Action   string
	Code     string
}

// NewPermission creates a permission from resource and action
func NewPermission(resource, action string) (*Permission, error) {
	resource = strings.TrimSpace(strings.ToLower(resource))
	action = strings.TrimSpace(strings.ToLower(action))
	if resource == "" || action == "" {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission resource and action are required")
	}
	return &Permission{
		Resource: resource,
		Action:   action,
		Code:     fmt.Sprintf("%s:%s", resource, action),
	}, nil
}

// NewPermissionFromCode parses a "resource:action" code
func NewPermissionFromCode(code string) (*Permission, error) {
	parts := strings.SplitN(code, ":", 2)
	if len(parts) != 2 {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission code must be resource:action")
	}
	return NewPermission(parts[0], parts[1])
}

// rolePermissions maps each role to its permission codes. The mapping mirrors
// who may do what on the clinic floor: administrators run master data and the
// cashier, doctors consult and assess, nurses handle carts, payment and
// pick-up, assistants support their doctor's queue.
var rolePermissions = map[RoleCode][]string{
	RoleAdmin: {
		"clinic:create", "clinic:read", "clinic:update", "clinic:delete",
		"user:create", "user:read", "user:update", "user:delete",
	},
	RoleAdministrator: {
		"clinic:read", "clinic:update",
		"cashier:open", "cashier:close", "cashier:read",
		"user:create", "user:read", "user:update", "user:delete",
		"patient:create", "patient:read", "patient:update", "patient:delete",
		"queue:create", "queue:read", "queue:delete",
		"drug:create", "drug:read", "drug:update", "drug:delete",
		"category:create", "category:read", "category:update", "category:delete",
		"unit:create", "unit:read", "unit:update", "unit:delete",
		"factory:create", "factory:read", "factory:delete",
		"action:create", "action:read", "action:update", "action:delete",
		"stock:read",
		"purchase:create", "purchase:read",
		"report:read",
	},
	RoleDoctor: {
		"patient:read",
		"queue:read", "queue:consult",
		"drug:read", "stock:read",
		"action:read",
		"record:create", "record:read",
		"assessment:create",
		"assistant:create", "assistant:read", "assistant:delete",
	},
	RoleNurse: {
		"patient:read",
		"queue:read",
		"drug:read", "stock:read",
		"transaction:read", "transaction:cart", "transaction:pay", "transaction:pickup",
	},
	RoleDoctorAssistant: {
		"patient:read",
		"queue:read", "queue:consult",
		"drug:read",
		"record:read",
	},
}

// PermissionsFor returns the permission codes granted to a role
func PermissionsFor(role RoleCode) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether the role carries the permission code
func (r RoleCode) HasPermission(code string) bool {
	for _, p := range rolePermissions[r] {
		if p == code {
			return true
		}
	}
	return false
}

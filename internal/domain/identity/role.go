package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/gestock/backend/internal/domain/shared"
)

// Permission is a functional permission in resource:action form.
// It is a value object.
type Permission struct {
	Code     string `json:"code"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

var permissionPartRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// NewPermission creates a new Permission value object
func NewPermission(resource, action string) (*Permission, error) {
	resource = strings.ToLower(strings.TrimSpace(resource))
	action = strings.ToLower(strings.TrimSpace(action))
	if !permissionPartRegex.MatchString(resource) {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission resource must be lowercase alphanumeric")
	}
	if !permissionPartRegex.MatchString(action) {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission action must be lowercase alphanumeric")
	}

	return &Permission{
		Code:     resource + ":" + action,
		Resource: resource,
		Action:   action,
	}, nil
}

// NewPermissionFromCode creates a Permission from a code string like "article:create"
func NewPermissionFromCode(code string) (*Permission, error) {
	parts := strings.SplitN(code, ":", 2)
	if len(parts) != 2 {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission code must be in 'resource:action' form")
	}
	return NewPermission(parts[0], parts[1])
}

// Equals checks if two permissions are equal
func (p Permission) Equals(other Permission) bool {
	return p.Code == other.Code
}

// Role groups permissions for assignment to users.
// System roles cannot be modified or deleted.
type Role struct {
	shared.BaseAggregateRoot
	Code        string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string       `gorm:"type:varchar(100);not null"`
	Description string       `gorm:"type:varchar(500)"`
	IsSystem    bool         `gorm:"not null;default:false"`
	Permissions []Permission `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// Well-known role codes seeded by the migrations
const (
	RoleCodeAdmin      = "admin"
	RoleCodeStorekeeper = "storekeeper"
	RoleCodeViewer     = "viewer"
)

// NewRole creates a new role
func NewRole(code, name string) (*Role, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot exceed 50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}

	return &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(name),
		Permissions:       make([]Permission, 0),
	}, nil
}

// Update modifies the role's name and description
func (r *Role) Update(name, description string) error {
	if r.IsSystem {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be modified")
	}
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}

	r.Name = strings.TrimSpace(name)
	r.Description = description
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// GrantPermission adds a permission to the role if not already present
func (r *Role) GrantPermission(perm Permission) {
	for _, p := range r.Permissions {
		if p.Equals(perm) {
			return
		}
	}
	r.Permissions = append(r.Permissions, perm)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// RevokePermission removes a permission from the role
func (r *Role) RevokePermission(perm Permission) {
	kept := make([]Permission, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		if !p.Equals(perm) {
			kept = append(kept, p)
		}
	}
	r.Permissions = kept
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// SetPermissions replaces the role's permission set
func (r *Role) SetPermissions(perms []Permission) error {
	if r.IsSystem {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be modified")
	}

	seen := make(map[string]bool, len(perms))
	unique := make([]Permission, 0, len(perms))
	for _, p := range perms {
		if !seen[p.Code] {
			seen[p.Code] = true
			unique = append(unique, p)
		}
	}

	r.Permissions = unique
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// HasPermission checks if the role grants the given permission code.
// The admin role implicitly grants everything.
func (r *Role) HasPermission(code string) bool {
	if r.Code == RoleCodeAdmin {
		return true
	}
	for _, p := range r.Permissions {
		if p.Code == code {
			return true
		}
	}
	return false
}

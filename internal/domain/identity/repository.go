package identity

import (
	"context"

	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, user *User) error
	SaveRoles(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RoleRepository defines persistence operations for roles
type RoleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)
	FindByCode(ctx context.Context, code string) (*Role, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Role, error)
	FindAll(ctx context.Context) ([]Role, error)
	Save(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id uuid.UUID) error
}

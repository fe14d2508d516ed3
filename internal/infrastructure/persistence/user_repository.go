package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gestock/backend/internal/domain/identity"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM.
// Role assignments live in the user_roles join table and are loaded
// alongside every user fetch.
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
	if err := r.loadRoleIDs(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadRoleIDs(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll finds all users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	var users []identity.User
	query := r.applySearch(r.db.WithContext(ctx).Model(&identity.User{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, UserSortFields, "username")
	orderDir := ValidateSortOrder(filter.OrderDir)
	if filter.OrderBy == "" {
		orderDir = "ASC"
	}

	if err := query.Order(orderBy + " " + orderDir).Find(&users).Error; err != nil {
		return nil, err
	}

	for i := range users {
		if err := r.loadRoleIDs(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&identity.User{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByUsername checks if a user with the given username exists
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.User{}).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a user. Role assignments are persisted
// separately through SaveRoles.
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// SaveRoles replaces the user's role assignments in the join table
func (r *GormUserRepository) SaveRoles(ctx context.Context, user *identity.User) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Delete(&identity.UserRole{}).Error; err != nil {
		return err
	}

	if len(user.RoleIDs) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]identity.UserRole, 0, len(user.RoleIDs))
	for _, roleID := range user.RoleIDs {
		rows = append(rows, identity.UserRole{
			UserID:    user.ID,
			RoleID:    roleID,
			CreatedAt: now,
		})
	}

	return r.db.WithContext(ctx).Create(&rows).Error
}

// Delete deletes a user and their role assignments
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", id).
		Delete(&identity.UserRole{}).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&identity.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) loadRoleIDs(ctx context.Context, user *identity.User) error {
	var roleIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&identity.UserRole{}).
		Where("user_id = ?", user.ID).
		Pluck("role_id", &roleIDs).Error; err != nil {
		return err
	}
	user.RoleIDs = roleIDs
	return nil
}

func (r *GormUserRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR display_name ILIKE ? OR email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)

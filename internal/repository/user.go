package repository

import (
	"context"
	"errors"

	"socialfeed/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	ExistsByUsername(ctx context.Context, username string, excludeID uint) (bool, error)
	UpdateProfile(ctx context.Context, id uint, changes models.ProfileChanges) error
	Search(ctx context.Context, key string, limit, offset int) ([]*models.User, int64, error)
	SoftDelete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("User already exists").WithReason(models.ReasonDuplicate)
		}
		return classifyError(ctx, "user.create", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := readDB(ctx, r.db).First(&user, id).Error; err != nil {
		return nil, notFoundOr(ctx, "user.get", err, "User", id)
	}
	return &user, nil
}

// GetByUsername returns nil without an error when no user has that name.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := readDB(ctx, r.db).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classifyError(ctx, "user.get_by_username", err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string, excludeID uint) (bool, error) {
	return r.exists(ctx, "username", username, excludeID)
}

// exists checks column uniqueness against every account, soft-deleted ones
// included, because the unique index covers them too.
func (r *userRepository) exists(ctx context.Context, column, value string, excludeID uint) (bool, error) {
	var count int64
	err := writeDB(ctx, r.db).Unscoped().
		Model(&models.User{}).
		Where(column+" = ? AND id <> ?", value, excludeID).
		Count(&count).Error
	if err != nil {
		return false, classifyError(ctx, "user.exists_by_"+column, err)
	}
	return count > 0, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uint, changes models.ProfileChanges) error {
	if changes.Empty() {
		return models.NewValidationError("No changes were made").WithReason(models.ReasonNoChanges)
	}

	updates := map[string]interface{}{}
	if changes.Username != nil {
		updates["username"] = *changes.Username
	}
	if changes.Email != nil {
		updates["email"] = *changes.Email
	}
	if changes.FullName != nil {
		updates["full_name"] = *changes.FullName
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return models.NewConflictError("Username or email already in use").WithReason(models.ReasonDuplicate)
		}
		return classifyError(ctx, "user.update_profile", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

func (r *userRepository) Search(ctx context.Context, key string, limit, offset int) ([]*models.User, int64, error) {
	pattern := containsPattern(key)
	matching := func(db *gorm.DB) *gorm.DB {
		return db.Where(`(LOWER(username) LIKE ? ESCAPE '\' OR LOWER(full_name) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := readDB(ctx, r.db).Model(&models.User{}).Scopes(matching).Count(&total).Error; err != nil {
		return nil, 0, classifyError(ctx, "user.search_count", err)
	}

	var users []*models.User
	err := readDB(ctx, r.db).
		Scopes(matching).
		Order("username ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, classifyError(ctx, "user.search", err)
	}
	return users, total, nil
}

func (r *userRepository) SoftDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return classifyError(ctx, "user.soft_delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

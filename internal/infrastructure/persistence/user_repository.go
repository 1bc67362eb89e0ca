package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/celuvia/backend/internal/domain/account"
	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements account.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID with roles loaded
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.User, error) {
	var user account.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.LoadRoles(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email with roles loaded
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*account.User, error) {
	var user account.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.LoadRoles(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail checks whether a user with the email exists
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&account.User{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

// Save persists the user and its role rows in one transaction
func (r *GormUserRepository) Save(ctx context.Context, user *account.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return r.saveRoles(tx, user)
	})
}

// Update persists user changes and reconciles role rows
func (r *GormUserRepository) Update(ctx context.Context, user *account.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		return r.saveRoles(tx, user)
	})
}

// LoadRoles populates the user's roles from the join table
func (r *GormUserRepository) LoadRoles(ctx context.Context, user *account.User) error {
	var rows []account.UserRole
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Find(&rows).Error; err != nil {
		return err
	}

	roles := make([]account.Role, len(rows))
	for i, row := range rows {
		roles[i] = row.Role
	}
	user.Roles = roles
	return nil
}

func (r *GormUserRepository) saveRoles(tx *gorm.DB, user *account.User) error {
	for _, role := range user.Roles {
		row := account.UserRole{UserID: user.ID, Role: role}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

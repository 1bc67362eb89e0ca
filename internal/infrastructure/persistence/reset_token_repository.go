package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/celuvia/backend/internal/domain/account"
	"github.com/celuvia/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormResetTokenRepository implements account.ResetTokenRepository using GORM
type GormResetTokenRepository struct {
	db *gorm.DB
}

// NewGormResetTokenRepository creates a new GormResetTokenRepository
func NewGormResetTokenRepository(db *gorm.DB) *GormResetTokenRepository {
	return &GormResetTokenRepository{db: db}
}

// FindByHash finds a reset token by its stored hash
func (r *GormResetTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*account.ResetToken, error) {
	var token account.ResetToken
	if err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Save persists a new reset token
func (r *GormResetTokenRepository) Save(ctx context.Context, token *account.ResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// Update persists reset token changes
func (r *GormResetTokenRepository) Update(ctx context.Context, token *account.ResetToken) error {
	return r.db.WithContext(ctx).Save(token).Error
}

// DeleteExpired removes tokens past their expiry
func (r *GormResetTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&account.ResetToken{})
	return result.RowsAffected, result.Error
}

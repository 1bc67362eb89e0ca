package account

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultResetTokenTTL is how long a password reset token stays redeemable
const DefaultResetTokenTTL = time.Hour

// ResetToken stores a password reset token for a user. Only the SHA-256
// hash of the opaque token is persisted; the plaintext is sent to the
// user's email and never stored.
type ResetToken struct {
	shared.BaseEntity
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ResetToken) TableName() string {
	return "reset_tokens"
}

// NewResetToken creates a reset token for the user and returns the entity
// together with the plaintext token to embed in the reset link.
func NewResetToken(userID uuid.UUID, ttl time.Duration) (*ResetToken, string, error) {
	if userID == uuid.Nil {
		return nil, "", shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", err
	}
	plaintext := hex.EncodeToString(raw)

	return &ResetToken{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		TokenHash:  HashResetToken(plaintext),
		ExpiresAt:  time.Now().Add(ttl),
	}, plaintext, nil
}

// HashResetToken returns the hex SHA-256 digest used for token lookup
func HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// IsValid reports whether the token is unused and unexpired
func (t *ResetToken) IsValid() bool {
	return !t.Used && time.Now().Before(t.ExpiresAt)
}

// Matches compares a plaintext token against the stored hash in constant time
func (t *ResetToken) Matches(plaintext string) bool {
	digest := HashResetToken(plaintext)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(t.TokenHash)) == 1
}

// MarkUsed consumes the token so it cannot be redeemed again
func (t *ResetToken) MarkUsed() error {
	if !t.IsValid() {
		return shared.NewDomainError("TOKEN_INVALID", "Reset token is expired or already used")
	}

	t.Used = true
	t.UpdatedAt = time.Now()

	return nil
}

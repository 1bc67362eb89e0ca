package catalog

import (
	"strings"
	"time"

	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Store represents a vendor's store. A store is owned by exactly one
// vendor user; its products cascade-delete with it. Closing a store hides
// its products from buyers without touching order history.
type Store struct {
	shared.BaseAggregateRoot
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text"`
	Email       string    `gorm:"type:varchar(100);not null"`
	Phone       string    `gorm:"type:varchar(20);not null"`
	IsActive    bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a new active store owned by a vendor
func NewStore(ownerID uuid.UUID, name, description, email, phone string) (*Store, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Store owner cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Store name is required")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Store name cannot exceed 100 characters")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Store contact email is required")
	}

	return &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		Name:              name,
		Description:       description,
		Email:             email,
		Phone:             strings.TrimSpace(phone),
		IsActive:          true,
	}, nil
}

// Update updates the store's editable details
func (s *Store) Update(name, description, email, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Store name is required")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot exceed 100 characters")
	}

	s.Name = name
	s.Description = description
	s.Email = strings.TrimSpace(email)
	s.Phone = strings.TrimSpace(phone)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Close deactivates the store so its products stop being purchasable
func (s *Store) Close() {
	s.IsActive = false
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Reopen reactivates a closed store
func (s *Store) Reopen() {
	s.IsActive = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsOwnedBy reports whether the given user owns the store
func (s *Store) IsOwnedBy(userID uuid.UUID) bool {
	return s.OwnerID == userID
}

package account

import (
	"strings"
	"time"

	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Address stores a user's delivery or billing address.
// Invariant: a user has at most one default shipping and one default
// billing address; the repository clears sibling flags on save.
type Address struct {
	shared.BaseEntity
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	FullName   string    `gorm:"type:varchar(100);not null"`
	Line1      string    `gorm:"type:varchar(250);not null"`
	Line2      string    `gorm:"type:varchar(250)"`
	Town       string    `gorm:"type:varchar(100)"`
	City       string    `gorm:"type:varchar(100);not null"`
	Postcode   string    `gorm:"type:varchar(100);not null"`
	Phone      string    `gorm:"type:varchar(20)"`
	IsDefault  bool      `gorm:"not null;default:false"`
	IsShipping bool      `gorm:"not null;default:false"`
	IsBilling  bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "addresses"
}

// NewAddress creates an address for a user
func NewAddress(userID uuid.UUID, fullName, line1, line2, town, city, postcode, phone string) (*Address, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	fullName = strings.TrimSpace(fullName)
	line1 = strings.TrimSpace(line1)
	city = strings.TrimSpace(city)
	postcode = strings.TrimSpace(postcode)
	if fullName == "" || line1 == "" || city == "" || postcode == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Name, address line, city and postcode are required")
	}

	return &Address{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		FullName:   fullName,
		Line1:      line1,
		Line2:      strings.TrimSpace(line2),
		Town:       strings.TrimSpace(town),
		City:       city,
		Postcode:   postcode,
		Phone:      strings.TrimSpace(phone),
	}, nil
}

// MarkDefaultShipping flags the address as the user's default shipping address
func (a *Address) MarkDefaultShipping() {
	a.IsShipping = true
	a.IsDefault = true
	a.UpdatedAt = time.Now()
}

// MarkDefaultBilling flags the address as the user's default billing address
func (a *Address) MarkDefaultBilling() {
	a.IsBilling = true
	a.IsDefault = true
	a.UpdatedAt = time.Now()
}

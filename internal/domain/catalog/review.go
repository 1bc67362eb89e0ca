package catalog

import (
	"time"

	"github.com/celuvia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Review represents a buyer's review of a product. Verified is true iff
// the author has a completed order item for the reviewed product.
type Review struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating    int       `gorm:"not null;default:5"`
	Comment   string    `gorm:"type:text"`
	Verified  bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a review with a rating between 1 and 5
func NewReview(productID, userID uuid.UUID, rating int, comment string, verified bool) (*Review, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Review product cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Review user cannot be empty")
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}

	return &Review{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		UserID:     userID,
		Rating:     rating,
		Comment:    comment,
		Verified:   verified,
	}, nil
}

// Update changes the rating and comment of the review
func (r *Review) Update(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}

	r.Rating = rating
	r.Comment = comment
	r.UpdatedAt = time.Now()

	return nil
}

// IsAuthoredBy reports whether the given user wrote the review
func (r *Review) IsAuthoredBy(userID uuid.UUID) bool {
	return r.UserID == userID
}

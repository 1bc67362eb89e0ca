package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/domain/ordering"
	"github.com/celuvia/backend/internal/domain/shared"
)

// ReviewService manages product reviews. Reviews by buyers who
// purchased the product are flagged as verified.
type ReviewService struct {
	reviewRepo  catalog.ReviewRepository
	productRepo catalog.ProductRepository
	orderRepo   ordering.OrderRepository
	logger      *zap.Logger
}

func NewReviewService(
	reviewRepo catalog.ReviewRepository,
	productRepo catalog.ProductRepository,
	orderRepo ordering.OrderRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		logger:      logger,
	}
}

// Create posts a review for a product
func (s *ReviewService) Create(ctx context.Context, input CreateReviewInput) (*catalog.Review, error) {
	if _, err := s.productRepo.FindByID(ctx, input.ProductID); err != nil {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	}

	verified, err := s.orderRepo.HasPurchased(ctx, input.UserID, input.ProductID)
	if err != nil {
		s.logger.Error("Failed to check purchase history", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to post review")
	}

	review, err := catalog.NewReview(input.ProductID, input.UserID, input.Rating, input.Comment, verified)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, review); err != nil {
		s.logger.Error("Failed to save review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to post review")
	}

	s.logger.Info("Review posted",
		zap.String("product_id", input.ProductID.String()),
		zap.Bool("verified", verified))
	return review, nil
}

// Update edits the author's own review
func (s *ReviewService) Update(ctx context.Context, input UpdateReviewInput) (*catalog.Review, error) {
	review, err := s.findAuthored(ctx, input.ReviewID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := review.Update(input.Rating, input.Comment); err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		s.logger.Error("Failed to update review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update review")
	}
	return review, nil
}

// Delete removes the author's own review
func (s *ReviewService) Delete(ctx context.Context, reviewID, userID uuid.UUID) error {
	if _, err := s.findAuthored(ctx, reviewID, userID); err != nil {
		return err
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}

// ListForProduct returns a page of reviews with the rating summary
func (s *ReviewService) ListForProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*ReviewPage, error) {
	reviews, total, err := s.reviewRepo.FindByProduct(ctx, productID, filter)
	if err != nil {
		s.logger.Error("Failed to list reviews", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list reviews")
	}

	avg, _, err := s.reviewRepo.RatingSummary(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to load rating summary", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list reviews")
	}

	return &ReviewPage{Reviews: reviews, Total: total, AverageRating: avg}, nil
}

func (s *ReviewService) findAuthored(ctx context.Context, reviewID, userID uuid.UUID) (*catalog.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, shared.NewDomainError("REVIEW_NOT_FOUND", "Review not found")
	}
	if !review.IsAuthoredBy(userID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Review belongs to another user")
	}
	return review, nil
}

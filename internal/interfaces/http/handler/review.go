package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/celuvia/backend/internal/application/catalog"
	"github.com/celuvia/backend/internal/domain/catalog"
	"github.com/celuvia/backend/internal/infrastructure/auth"
	"github.com/celuvia/backend/internal/interfaces/http/middleware"
)

// ReviewRequest is the request body for creating or editing a review
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"omitempty,max=2000"`
}

// ReviewResponse is a review presented to the client
type ReviewResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewListResponse is a page of reviews with the product's average
type ReviewListResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
}

// ReviewHandler handles product review endpoints
type ReviewHandler struct {
	BaseHandler
	jwtService    *auth.JWTService
	reviewService *catalogapp.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(jwtService *auth.JWTService, reviewService *catalogapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{jwtService: jwtService, reviewService: reviewService}
}

// ListReviews returns a product's reviews with its rating summary
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	productID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	page, err := h.reviewService.ListForProduct(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, ReviewListResponse{
		Reviews:       reviewResponses(page.Reviews),
		AverageRating: page.AverageRating,
	}, page.Total, filter.Page, filter.PageSize)
}

// CreateReview posts a review on a product. Reviews from accounts that
// bought the product are flagged as verified purchases.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	productID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), catalogapp.CreateReviewInput{
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, reviewResponse(*review))
}

// UpdateReview edits the author's own review
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	review, err := h.reviewService.Update(c.Request.Context(), catalogapp.UpdateReviewInput{
		ReviewID: reviewID,
		UserID:   userID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reviewResponse(*review))
}

// DeleteReview removes the author's own review
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reviewID, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), reviewID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func reviewResponse(review catalog.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID.String(),
		ProductID: review.ProductID.String(),
		Rating:    review.Rating,
		Comment:   review.Comment,
		Verified:  review.Verified,
		CreatedAt: review.CreatedAt,
	}
}

func reviewResponses(reviews []catalog.Review) []ReviewResponse {
	responses := make([]ReviewResponse, len(reviews))
	for i, review := range reviews {
		responses[i] = reviewResponse(review)
	}
	return responses
}

// RegisterRoutes registers public review listing and authenticated
// review management
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products/:id/reviews", h.ListReviews)

	authed := rg.Group("")
	authed.Use(middleware.RequireAuth(h.jwtService))
	authed.POST("/products/:id/reviews", h.CreateReview)
	authed.PUT("/reviews/:id", h.UpdateReview)
	authed.DELETE("/reviews/:id", h.DeleteReview)
}

package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	orderingapp "github.com/celuvia/backend/internal/application/ordering"
)

// Stripe webhook payloads are small; cap reads well above their size
const maxWebhookPayloadSize = 65536

// StripeWebhookResponse is the acknowledgement returned to Stripe
type StripeWebhookResponse struct {
	Received  bool   `json:"received"`
	EventID   string `json:"event_id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Message   string `json:"message,omitempty"`
}

// StripeWebhookHandler receives payment events from Stripe. These
// endpoints are called by Stripe and carry their own signature
// authentication instead of a bearer token.
type StripeWebhookHandler struct {
	BaseHandler
	webhookService *orderingapp.WebhookService
}

// NewStripeWebhookHandler creates a new webhook handler
func NewStripeWebhookHandler(webhookService *orderingapp.WebhookService) *StripeWebhookHandler {
	return &StripeWebhookHandler{webhookService: webhookService}
}

// HandleWebhook verifies and processes one webhook delivery. Signature
// failures get 400 so Stripe retries; anything after verification is
// acknowledged with 200 to stop retries that cannot succeed.
func (h *StripeWebhookHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{
			Received: false,
			Message:  "Failed to read request body",
		})
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, StripeWebhookResponse{
			Received: false,
			Message:  "Payload too large",
		})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{
			Received: false,
			Message:  "Missing Stripe-Signature header",
		})
		return
	}

	result, err := h.webhookService.HandleWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{
			Received: false,
			Message:  "Webhook signature verification failed",
		})
		return
	}

	c.JSON(http.StatusOK, StripeWebhookResponse{
		Received:  true,
		EventID:   result.EventID,
		EventType: result.EventType,
		Message:   result.Message,
	})
}

// RegisterRoutes registers the webhook endpoint
func (h *StripeWebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/stripe", h.HandleWebhook)
}

package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/meadows123/venuebook/internal/currency"
	"github.com/meadows123/venuebook/internal/dto"
	"github.com/meadows123/venuebook/internal/processor"
	"github.com/meadows123/venuebook/internal/service"
)

const (
	paystackSignatureHeader = "x-paystack-signature"
	stripeSignatureHeader   = "Stripe-Signature"
)

type WebhookHandler struct {
	webhooks *service.WebhookService
}

func NewWebhookHandler(webhooks *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

func (h *WebhookHandler) Paystack(c *gin.Context) {
	h.handle(c, currency.ProcessorPaystack, c.GetHeader(paystackSignatureHeader))
}

func (h *WebhookHandler) Stripe(c *gin.Context) {
	h.handle(c, currency.ProcessorStripe, c.GetHeader(stripeSignatureHeader))
}

// handle reads the raw body before anything parses it; signature
// verification needs the exact bytes the provider signed.
func (h *WebhookHandler) handle(c *gin.Context, gateway currency.ProcessorType, signature string) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.WebhookResponse{Success: false, Message: "unreadable body"})
		return
	}

	result, err := h.webhooks.HandleEvent(c.Request.Context(), gateway, signature, rawBody)
	if err != nil {
		var sigErr *processor.SignatureError
		var metaErr *processor.MissingMetadataError
		switch {
		case errors.As(err, &sigErr):
			c.JSON(http.StatusUnauthorized, dto.WebhookResponse{Success: false, Message: "invalid signature"})
		case errors.As(err, &metaErr):
			c.JSON(http.StatusBadRequest, dto.WebhookResponse{Success: false, Message: err.Error()})
		default:
			log.Error().Err(err).Str("gateway", string(gateway)).Msg("webhook processing failed")
			c.JSON(http.StatusInternalServerError, dto.WebhookResponse{Success: false, Message: "processing failed"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.WebhookResponse{Success: result.Success, Message: result.Message})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meadows123/venuebook/internal/currency"
	"github.com/meadows123/venuebook/internal/dto"
	"github.com/meadows123/venuebook/internal/processor"
	"github.com/meadows123/venuebook/internal/repository"
	"github.com/meadows123/venuebook/internal/service"
)

type PaymentHandler struct {
	payments *service.PaymentService
	credits  *service.CreditService
}

func NewPaymentHandler(payments *service.PaymentService, credits *service.CreditService) *PaymentHandler {
	return &PaymentHandler{payments: payments, credits: credits}
}

func (h *PaymentHandler) Initialize(c *gin.Context) {
	var req dto.InitializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed: " + err.Error()})
		return
	}

	resp, err := h.payments.InitializeBookingPayment(c.Request.Context(), &req)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) PurchaseCredits(c *gin.Context) {
	var req dto.PurchaseCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed: " + err.Error()})
		return
	}

	resp, err := h.credits.PurchaseCredits(c.Request.Context(), &req)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) CreditBalance(c *gin.Context) {
	email := c.Query("email")
	venueID := c.Query("venue_id")
	if email == "" || venueID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "email and venue_id query parameters are required"})
		return
	}

	balance, err := h.credits.Balance(c.Request.Context(), email, venueID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.CreditBalanceResponse{
		CustomerEmail: email,
		VenueID:       venueID,
		Balance:       balance,
	})
}

// respondPaymentError maps the payment error taxonomy onto HTTP statuses.
// Provider messages pass through verbatim; everything else keeps its typed
// message.
func respondPaymentError(c *gin.Context, err error) {
	var (
		vErr    *processor.ValidationError
		rErr    *processor.RangeError
		cfgErr  *processor.ConfigurationError
		provErr *processor.ProviderError
		ucErr   *currency.UnsupportedCurrencyError
	)
	switch {
	case errors.As(err, &vErr), errors.As(err, &rErr), errors.As(err, &ucErr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, processor.ErrMultiVenueTransferUnsupported):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrInsufficientCredits):
		c.JSON(http.StatusPaymentRequired, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "resource not found"})
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "payment processor unavailable"})
	case errors.As(err, &provErr):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: provErr.Message})
	default:
		c.Error(err)
	}
}

// Package processor abstracts the platform's payment gateways behind one
// contract. Each gateway variant binds a single currency configuration, is
// driven over plain REST through an injected HTTP client, and verifies
// webhook signatures before trusting a byte of the payload.
package processor

import (
	"context"
	"math"
	"strings"

	"github.com/meadows123/venuebook/internal/currency"
	"github.com/meadows123/venuebook/internal/fees"
)

// PaymentConfig is the per-attempt value object a caller assembles right
// before initializing a payment. Amount is in the currency's base unit.
type PaymentConfig struct {
	Email        string
	Currency     string
	Amount       float64
	Reference    string
	BookingID    string
	CustomerID   string
	VenueID      string
	Venues       []fees.VenueShare
	CreditsUsed  int64
	CreditsValue int64
	Metadata     map[string]string
}

// InitResponse is the normalized initialization result. Redirect-style
// gateways fill AuthorizationURL; embedded-element gateways fill
// ClientSecret.
type InitResponse struct {
	Reference        string                 `json:"reference"`
	AuthorizationURL string                 `json:"authorization_url,omitempty"`
	ClientSecret     string                 `json:"client_secret,omitempty"`
	Processor        currency.ProcessorType `json:"processor"`
	Currency         string                 `json:"currency"`
	Amount           float64                `json:"amount"`
}

// WebhookResult is the normalized outcome of one provider callback.
type WebhookResult struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"` // succeeded, failed, ignored
	Reference string `json:"reference,omitempty"`
	BookingID string `json:"booking_id,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
	Currency  string `json:"currency,omitempty"`
	Message   string `json:"message,omitempty"`
	// Metadata carries the caller-supplied correlation keys back out of the
	// provider event (purpose, venue_id and friends).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// PurposeCreditPurchase marks a payment that tops up a customer's venue
// credit balance instead of paying for a booking. Such payments have no
// booking id in their metadata.
const PurposeCreditPurchase = "credit_purchase"

// PaymentProcessor is the contract every gateway variant implements.
type PaymentProcessor interface {
	// Type identifies the gateway.
	Type() currency.ProcessorType
	// Currency is the configuration this instance is bound to.
	Currency() currency.Config
	// InitializePayment validates the config locally, then creates the
	// charge at the provider and returns the normalized result.
	InitializePayment(ctx context.Context, cfg PaymentConfig) (*InitResponse, error)
	// BuildSplit derives the provider-specific split payload from the
	// config's venue cardinality (none, one, many).
	BuildSplit(cfg PaymentConfig) (any, error)
	// HandleWebhook verifies the signature first and fails closed on
	// mismatch, then translates the event into a WebhookResult.
	HandleWebhook(ctx context.Context, signature string, rawBody []byte) (*WebhookResult, error)
	// VerifySignature checks the provider's HMAC over the raw body.
	VerifySignature(signature string, rawBody []byte) bool
}

// ToSmallestUnit converts a base-unit amount to the provider's smallest
// currency unit, rounding half-up.
func ToSmallestUnit(amount float64, decimals int) int64 {
	return int64(math.Round(amount * math.Pow10(decimals)))
}

// FromSmallestUnit is the inverse of ToSmallestUnit.
func FromSmallestUnit(amount int64, decimals int) float64 {
	return float64(amount) / math.Pow10(decimals)
}

// validateConfig applies the local checks common to every gateway, in order:
// email shape, positive amount, reference, currency match, amount bounds.
func validateConfig(cfg PaymentConfig, bound currency.Config) error {
	if !strings.Contains(cfg.Email, "@") {
		return &ValidationError{Field: "email", Message: "not a valid email address"}
	}
	if cfg.Amount <= 0 {
		return &ValidationError{Field: "amount", Message: "must be greater than zero"}
	}
	if cfg.Reference == "" {
		return &ValidationError{Field: "reference", Message: "is required"}
	}
	if cfg.Currency != bound.Code {
		return &ValidationError{
			Field:   "currency",
			Message: "mismatch: processor is bound to " + bound.Code + ", got " + cfg.Currency,
		}
	}
	if cfg.Amount < float64(bound.MinAmount) || cfg.Amount > float64(bound.MaxAmount) {
		return &RangeError{
			Currency: bound.Code,
			Symbol:   bound.Symbol,
			Amount:   cfg.Amount,
			Min:      bound.MinAmount,
			Max:      bound.MaxAmount,
		}
	}
	return nil
}

package processor

import (
	"errors"
	"fmt"
)

// ErrNoReference means the provider accepted the initialization but did not
// return a payment reference, so the attempt cannot be tracked.
var ErrNoReference = errors.New("provider returned no payment reference")

// ErrMultiVenueTransferUnsupported marks the Stripe multi-venue gap: Connect
// transfers can target a single destination per intent, and no transfer
// fan-out exists yet. Callers must handle this rather than receive a silent
// platform-only charge.
var ErrMultiVenueTransferUnsupported = errors.New("stripe multi-venue payments have no transfer mechanism")

// ValidationError is a local, pre-network rejection of a payment config.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RangeError means the amount is outside the configured bounds for the
// currency. The formatted bound is part of the message so callers can
// surface it directly.
type RangeError struct {
	Currency string
	Symbol   string
	Amount   float64
	Min      int64
	Max      int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("amount %s%.2f out of range: %s must be between %s%d and %s%d",
		e.Symbol, e.Amount, e.Currency, e.Symbol, e.Min, e.Symbol, e.Max)
}

// ConfigurationError is fatal at processor construction: a missing secret or
// payout account. A misconfigured processor is never cached.
type ConfigurationError struct {
	Processor string
	Missing   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s processor misconfigured: missing %s", e.Processor, e.Missing)
}

// ProviderError carries a non-2xx provider response verbatim. Retrying is the
// HTTP client's business, not this package's.
type ProviderError struct {
	Processor  string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Processor, e.StatusCode, e.Message)
}

// SignatureError rejects a webhook whose signature does not match. The
// payload is never interpreted.
type SignatureError struct {
	Processor string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("%s webhook signature mismatch", e.Processor)
}

// MissingMetadataError means a webhook payload lacked the correlation key
// needed to act on it.
type MissingMetadataError struct {
	Key string
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("webhook metadata missing %q", e.Key)
}

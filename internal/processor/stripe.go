package processor

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/meadows123/venuebook/internal/currency"
	"github.com/meadows123/venuebook/internal/fees"
)

const DefaultStripeBaseURL = "https://api.stripe.com"

// StripeProcessor creates PaymentIntents for one non-NGN currency; the
// factory holds one instance per currency. Single-venue payments route the
// venue share with a Connect destination transfer. Multi-venue payments are
// refused outright: no transfer fan-out exists, and charging the platform the
// full amount silently would hide the gap from callers.
type StripeProcessor struct {
	cfg           currency.Config
	secretKey     string
	webhookSecret string
	feePct        float64
	client        *http.Client
	baseURL       string
}

func NewStripeProcessor(cfg currency.Config, secretKey, webhookSecret string, feePct float64, client *http.Client, baseURL string) (*StripeProcessor, error) {
	if secretKey == "" {
		return nil, &ConfigurationError{Processor: "stripe", Missing: "secret key"}
	}
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultStripeBaseURL
	}
	if feePct <= 0 {
		feePct = fees.DefaultPlatformFeePct
	}
	return &StripeProcessor{
		cfg:           cfg,
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		feePct:        feePct,
		client:        client,
		baseURL:       baseURL,
	}, nil
}

func (p *StripeProcessor) Type() currency.ProcessorType { return currency.ProcessorStripe }

func (p *StripeProcessor) Currency() currency.Config { return p.cfg }

// stripeSplit is the Connect destination-charge shape for a single venue.
type stripeSplit struct {
	ApplicationFeeAmount int64
	Destination          string
}

func (p *StripeProcessor) BuildSplit(cfg PaymentConfig) (any, error) {
	split, err := p.buildSplit(cfg)
	if err != nil {
		return nil, err
	}
	if split == nil {
		return nil, nil
	}
	return split, nil
}

func (p *StripeProcessor) buildSplit(cfg PaymentConfig) (*stripeSplit, error) {
	switch len(cfg.Venues) {
	case 0:
		return nil, nil
	case 1:
		if cfg.Venues[0].Subaccount == "" {
			return nil, &fees.MissingVenueAccountError{}
		}
		smallest := ToSmallestUnit(cfg.Amount, p.cfg.Decimals)
		calc, err := fees.Calculate(smallest, p.feePct)
		if err != nil {
			return nil, err
		}
		return &stripeSplit{
			ApplicationFeeAmount: calc.PlatformFee,
			Destination:          cfg.Venues[0].Subaccount,
		}, nil
	default:
		return nil, ErrMultiVenueTransferUnsupported
	}
}

type stripeIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Error        *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *StripeProcessor) InitializePayment(ctx context.Context, cfg PaymentConfig) (*InitResponse, error) {
	if err := validateConfig(cfg, p.cfg); err != nil {
		return nil, err
	}

	split, err := p.buildSplit(cfg)
	if err != nil {
		return nil, err
	}

	// Nested objects flatten to key[subkey]=value form fields.
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(ToSmallestUnit(cfg.Amount, p.cfg.Decimals), 10))
	form.Set("currency", strings.ToLower(cfg.Currency))
	form.Set("receipt_email", cfg.Email)
	form.Set("metadata[reference]", cfg.Reference)
	form.Set("metadata[booking_id]", cfg.BookingID)
	for k, v := range cfg.Metadata {
		form.Set("metadata["+k+"]", v)
	}
	if split != nil {
		form.Set("application_fee_amount", strconv.FormatInt(split.ApplicationFeeAmount, 10))
		form.Set("transfer_data[destination]", split.Destination)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call stripe: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read stripe response: %w", err)
	}

	var parsed stripeIntentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode stripe response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := "request failed"
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return nil, &ProviderError{Processor: "stripe", StatusCode: resp.StatusCode, Message: msg}
	}
	if parsed.ID == "" {
		return nil, ErrNoReference
	}

	return &InitResponse{
		Reference:    cfg.Reference,
		ClientSecret: parsed.ClientSecret,
		Processor:    currency.ProcessorStripe,
		Currency:     cfg.Currency,
		Amount:       cfg.Amount,
	}, nil
}

// VerifySignature checks a Stripe-Signature header: "t=<ts>,v1=<hex>", where
// v1 is HMAC-SHA256 of "<ts>.<body>" under the webhook secret. Any matching
// v1 candidate passes.
func (p *StripeProcessor) VerifySignature(signature string, rawBody []byte) bool {
	var timestamp string
	var candidates []string
	for _, part := range strings.Split(signature, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			timestamp = v
		case "v1":
			candidates = append(candidates, v)
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return false
	}

	mac := hmac.New(sha256.New, []byte(p.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, c := range candidates {
		if hmac.Equal([]byte(expected), []byte(c)) {
			return true
		}
	}
	return false
}

type stripeWebhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Amount   int64             `json:"amount"`
			Currency string            `json:"currency"`
			Status   string            `json:"status"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

func (p *StripeProcessor) HandleWebhook(ctx context.Context, signature string, rawBody []byte) (*WebhookResult, error) {
	if !p.VerifySignature(signature, rawBody) {
		return nil, &SignatureError{Processor: "stripe"}
	}

	var event stripeWebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, fmt.Errorf("decode stripe webhook: %w", err)
	}

	object := event.Data.Object
	reference := object.Metadata["reference"]
	if reference == "" {
		reference = object.ID
	}

	switch event.Type {
	case "payment_intent.succeeded":
		bookingID := object.Metadata["booking_id"]
		if bookingID == "" && object.Metadata["purpose"] != PurposeCreditPurchase {
			return nil, &MissingMetadataError{Key: "booking_id"}
		}
		log.Info().
			Str("reference", reference).
			Str("booking_id", bookingID).
			Msg("stripe payment succeeded")
		return &WebhookResult{
			Success:   true,
			Status:    "succeeded",
			Reference: reference,
			BookingID: bookingID,
			Amount:    object.Amount,
			Currency:  strings.ToUpper(object.Currency),
			Message:   "payment intent succeeded",
			Metadata:  object.Metadata,
		}, nil
	case "payment_intent.payment_failed":
		return &WebhookResult{
			Success:   true,
			Status:    "failed",
			Reference: reference,
			BookingID: object.Metadata["booking_id"],
			Amount:    object.Amount,
			Currency:  strings.ToUpper(object.Currency),
			Message:   "payment intent failed",
			Metadata:  object.Metadata,
		}, nil
	default:
		return &WebhookResult{
			Success: true,
			Status:  "ignored",
			Message: "unhandled event " + event.Type,
		}, nil
	}
}

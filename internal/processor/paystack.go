package processor

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/meadows123/venuebook/internal/currency"
	"github.com/meadows123/venuebook/internal/fees"
)

const DefaultPaystackBaseURL = "https://api.paystack.co"

// PaystackProcessor charges NGN through Paystack. Splits are expressed as
// percentage subaccount shares: no venues means a platform-only charge with
// no split object, one venue gets the fixed fee/remainder pair, and several
// venues divide the remainder equally.
type PaystackProcessor struct {
	cfg                currency.Config
	secretKey          string
	platformSubaccount string
	feePct             float64
	client             *http.Client
	baseURL            string
}

func NewPaystackProcessor(cfg currency.Config, secretKey, platformSubaccount string, feePct float64, client *http.Client, baseURL string) (*PaystackProcessor, error) {
	if secretKey == "" {
		return nil, &ConfigurationError{Processor: "paystack", Missing: "secret key"}
	}
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultPaystackBaseURL
	}
	if feePct <= 0 {
		feePct = fees.DefaultPlatformFeePct
	}
	return &PaystackProcessor{
		cfg:                cfg,
		secretKey:          secretKey,
		platformSubaccount: platformSubaccount,
		feePct:             feePct,
		client:             client,
		baseURL:            baseURL,
	}, nil
}

func (p *PaystackProcessor) Type() currency.ProcessorType { return currency.ProcessorPaystack }

func (p *PaystackProcessor) Currency() currency.Config { return p.cfg }

// koboAmount applies Paystack's NGN convention: amounts are sent in kobo,
// amount x 100, even though the currency table carries decimals=0 for NGN.
// This deliberately stays separate from the generic ToSmallestUnit path; the
// two conversions disagree for NGN and reconciling them is an open product
// question, not a code cleanup.
func koboAmount(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

type paystackInitRequest struct {
	Email     string             `json:"email"`
	Amount    int64              `json:"amount"`
	Currency  string             `json:"currency"`
	Reference string             `json:"reference"`
	Split     *fees.SplitPayload `json:"split,omitempty"`
	Metadata  map[string]string  `json:"metadata,omitempty"`
}

type paystackInitResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

func (p *PaystackProcessor) InitializePayment(ctx context.Context, cfg PaymentConfig) (*InitResponse, error) {
	if err := validateConfig(cfg, p.cfg); err != nil {
		return nil, err
	}

	split, err := p.buildSplit(cfg)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{"booking_id": cfg.BookingID}
	for k, v := range cfg.Metadata {
		metadata[k] = v
	}

	reqBody := paystackInitRequest{
		Email:     cfg.Email,
		Amount:    koboAmount(cfg.Amount),
		Currency:  cfg.Currency,
		Reference: cfg.Reference,
		Split:     split,
		Metadata:  metadata,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal paystack request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build paystack request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call paystack: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read paystack response: %w", err)
	}

	var parsed paystackInitResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode paystack response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !parsed.Status {
		return nil, &ProviderError{Processor: "paystack", StatusCode: resp.StatusCode, Message: parsed.Message}
	}
	if parsed.Data.Reference == "" {
		return nil, ErrNoReference
	}

	return &InitResponse{
		Reference:        parsed.Data.Reference,
		AuthorizationURL: parsed.Data.AuthorizationURL,
		Processor:        currency.ProcessorPaystack,
		Currency:         cfg.Currency,
		Amount:           cfg.Amount,
	}, nil
}

// BuildSplit exposes the split derivation for inspection; nil payload means a
// platform-only charge.
func (p *PaystackProcessor) BuildSplit(cfg PaymentConfig) (any, error) {
	split, err := p.buildSplit(cfg)
	if err != nil {
		return nil, err
	}
	if split == nil {
		return nil, nil
	}
	return split, nil
}

func (p *PaystackProcessor) buildSplit(cfg PaymentConfig) (*fees.SplitPayload, error) {
	switch len(cfg.Venues) {
	case 0:
		return nil, nil
	case 1:
		payload, err := fees.SinglePaymentSplit(p.platformSubaccount, cfg.Venues[0].Subaccount, p.feePct)
		if err != nil {
			return nil, err
		}
		return &payload, nil
	default:
		accounts := make([]string, len(cfg.Venues))
		for i, v := range cfg.Venues {
			accounts[i] = v.Subaccount
		}
		payload, err := fees.EqualSplit(p.platformSubaccount, accounts, p.feePct)
		if err != nil {
			return nil, err
		}
		return &payload, nil
	}
}

// VerifySignature checks the x-paystack-signature header: hex HMAC-SHA512 of
// the raw body under the secret key.
func (p *PaystackProcessor) VerifySignature(signature string, rawBody []byte) bool {
	mac := hmac.New(sha512.New, []byte(p.secretKey))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

type paystackWebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string         `json:"reference"`
		Status    string         `json:"status"`
		Amount    int64          `json:"amount"`
		Currency  string         `json:"currency"`
		Metadata  map[string]any `json:"metadata"`
	} `json:"data"`
}

func (p *PaystackProcessor) HandleWebhook(ctx context.Context, signature string, rawBody []byte) (*WebhookResult, error) {
	if !p.VerifySignature(signature, rawBody) {
		return nil, &SignatureError{Processor: "paystack"}
	}

	var event paystackWebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, fmt.Errorf("decode paystack webhook: %w", err)
	}

	metadata := make(map[string]string, len(event.Data.Metadata))
	for k, v := range event.Data.Metadata {
		if s, ok := v.(string); ok {
			metadata[k] = s
		}
	}

	switch event.Event {
	case "charge.success":
		bookingID := metadata["booking_id"]
		if bookingID == "" && metadata["purpose"] != PurposeCreditPurchase {
			return nil, &MissingMetadataError{Key: "booking_id"}
		}
		log.Info().
			Str("reference", event.Data.Reference).
			Str("booking_id", bookingID).
			Msg("paystack charge succeeded")
		return &WebhookResult{
			Success:   true,
			Status:    "succeeded",
			Reference: event.Data.Reference,
			BookingID: bookingID,
			Amount:    event.Data.Amount,
			Currency:  event.Data.Currency,
			Message:   "charge successful",
			Metadata:  metadata,
		}, nil
	case "charge.failed":
		return &WebhookResult{
			Success:   true,
			Status:    "failed",
			Reference: event.Data.Reference,
			BookingID: metadata["booking_id"],
			Amount:    event.Data.Amount,
			Currency:  event.Data.Currency,
			Message:   "charge failed",
			Metadata:  metadata,
		}, nil
	default:
		return &WebhookResult{
			Success: true,
			Status:  "ignored",
			Message: "unhandled event " + event.Event,
		}, nil
	}
}

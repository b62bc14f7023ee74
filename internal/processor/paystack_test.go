package processor

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meadows123/venuebook/internal/currency"
	"github.com/meadows123/venuebook/internal/fees"
)

func ngnConfig(t *testing.T) currency.Config {
	t.Helper()
	cfg, err := currency.DefaultRegistry().Config("NGN")
	require.NoError(t, err)
	return cfg
}

func newTestPaystack(t *testing.T, baseURL string) *PaystackProcessor {
	t.Helper()
	p, err := NewPaystackProcessor(ngnConfig(t), "sk_test_secret", "ACCT_platform", 10, nil, baseURL)
	require.NoError(t, err)
	return p
}

func validNGNConfig() PaymentConfig {
	return PaymentConfig{
		Email:     "guest@example.com",
		Currency:  "NGN",
		Amount:    25000,
		Reference: "vb_ref_001",
		BookingID: "booking-1",
	}
}

func TestNewPaystackProcessor(t *testing.T) {
	t.Run("bad: missing secret key", func(t *testing.T) {
		_, err := NewPaystackProcessor(ngnConfig(t), "", "", 10, nil, "")
		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "paystack", cfgErr.Processor)
	})
}

func TestPaystackProcessor_InitializePayment(t *testing.T) {
	t.Run("happy: sends kobo amount and returns authorization url", func(t *testing.T) {
		var captured paystackInitRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transaction/initialize", r.URL.Path)
			assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &captured))
			json.NewEncoder(w).Encode(map[string]any{
				"status":  true,
				"message": "Authorization URL created",
				"data": map[string]any{
					"authorization_url": "https://checkout.paystack.com/abc123",
					"reference":         "vb_ref_001",
				},
			})
		}))
		defer srv.Close()

		p := newTestPaystack(t, srv.URL)
		resp, err := p.InitializePayment(context.Background(), validNGNConfig())
		require.NoError(t, err)

		assert.Equal(t, int64(2_500_000), captured.Amount, "25000 NGN in kobo")
		assert.Equal(t, "booking-1", captured.Metadata["booking_id"])
		assert.Nil(t, captured.Split, "no venues means no split object")
		assert.Equal(t, "vb_ref_001", resp.Reference)
		assert.Equal(t, "https://checkout.paystack.com/abc123", resp.AuthorizationURL)
		assert.Equal(t, currency.ProcessorPaystack, resp.Processor)
	})

	t.Run("happy: single venue gets the fixed 10/90 split", func(t *testing.T) {
		var captured paystackInitRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &captured))
			json.NewEncoder(w).Encode(map[string]any{
				"status": true,
				"data":   map[string]any{"reference": "vb_ref_001"},
			})
		}))
		defer srv.Close()

		cfg := validNGNConfig()
		cfg.Venues = []fees.VenueShare{{VenueID: "v1", Subaccount: "ACCT_venue"}}

		p := newTestPaystack(t, srv.URL)
		_, err := p.InitializePayment(context.Background(), cfg)
		require.NoError(t, err)

		require.NotNil(t, captured.Split)
		require.Len(t, captured.Split.Subaccounts, 2)
		assert.Equal(t, 90.0, captured.Split.Subaccounts[0].Share)
		assert.Equal(t, 10.0, captured.Split.Subaccounts[1].Share)
	})

	t.Run("bad: validation happens before any network call", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request should reach the provider")
		}))
		defer srv.Close()
		p := newTestPaystack(t, srv.URL)

		for _, tc := range []struct {
			name   string
			mutate func(*PaymentConfig)
		}{
			{"bad email", func(c *PaymentConfig) { c.Email = "not-an-email" }},
			{"zero amount", func(c *PaymentConfig) { c.Amount = 0 }},
			{"empty reference", func(c *PaymentConfig) { c.Reference = "" }},
			{"currency mismatch", func(c *PaymentConfig) { c.Currency = "USD" }},
		} {
			cfg := validNGNConfig()
			tc.mutate(&cfg)
			_, err := p.InitializePayment(context.Background(), cfg)
			var vErr *ValidationError
			assert.True(t, errors.As(err, &vErr), tc.name)
		}
	})

	t.Run("bad: amount outside currency bounds", func(t *testing.T) {
		p := newTestPaystack(t, "http://unreachable.invalid")
		cfg := validNGNConfig()
		cfg.Amount = 50 // NGN minimum is 100

		_, err := p.InitializePayment(context.Background(), cfg)
		var rErr *RangeError
		require.True(t, errors.As(err, &rErr))
		assert.Equal(t, int64(100), rErr.Min)
		assert.Contains(t, rErr.Error(), "between")
	})

	t.Run("bad: provider error surfaces the provider message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"status": false, "message": "Invalid key"})
		}))
		defer srv.Close()

		p := newTestPaystack(t, srv.URL)
		_, err := p.InitializePayment(context.Background(), validNGNConfig())
		var provErr *ProviderError
		require.True(t, errors.As(err, &provErr))
		assert.Equal(t, "Invalid key", provErr.Message)
	})

	t.Run("bad: success without a reference", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"status": true, "data": map[string]any{}})
		}))
		defer srv.Close()

		p := newTestPaystack(t, srv.URL)
		_, err := p.InitializePayment(context.Background(), validNGNConfig())
		assert.ErrorIs(t, err, ErrNoReference)
	})
}

func TestPaystackProcessor_BuildSplit(t *testing.T) {
	p := newTestPaystack(t, "")

	t.Run("multi venue divides the remainder equally", func(t *testing.T) {
		cfg := validNGNConfig()
		cfg.Venues = []fees.VenueShare{
			{Subaccount: "ACCT_a", Percentage: 70},
			{Subaccount: "ACCT_b", Percentage: 30},
		}

		raw, err := p.BuildSplit(cfg)
		require.NoError(t, err)
		split, ok := raw.(*fees.SplitPayload)
		require.True(t, ok)
		require.Len(t, split.Subaccounts, 3)
		// Requested weights are ignored on this path.
		assert.InDelta(t, 45, split.Subaccounts[0].Share, 1e-9)
		assert.InDelta(t, 45, split.Subaccounts[1].Share, 1e-9)
		assert.Equal(t, 10.0, split.Subaccounts[2].Share)
	})

	t.Run("no venues yields no payload", func(t *testing.T) {
		raw, err := p.BuildSplit(validNGNConfig())
		require.NoError(t, err)
		assert.Nil(t, raw)
	})
}

func paystackSign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystackProcessor_VerifySignature(t *testing.T) {
	p := newTestPaystack(t, "")
	body := []byte(`{"event":"charge.success"}`)

	assert.True(t, p.VerifySignature(paystackSign("sk_test_secret", body), body))
	assert.False(t, p.VerifySignature(paystackSign("wrong_secret", body), body))
	assert.False(t, p.VerifySignature("garbage", body))
	assert.False(t, p.VerifySignature(paystackSign("sk_test_secret", body), []byte("tampered")))
}

func TestPaystackProcessor_HandleWebhook(t *testing.T) {
	p := newTestPaystack(t, "")

	successBody := []byte(`{
		"event": "charge.success",
		"data": {
			"reference": "vb_ref_001",
			"status": "success",
			"amount": 2500000,
			"currency": "NGN",
			"metadata": {"booking_id": "booking-1"}
		}
	}`)

	t.Run("happy: charge.success yields a confirmation", func(t *testing.T) {
		result, err := p.HandleWebhook(context.Background(), paystackSign("sk_test_secret", successBody), successBody)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "succeeded", result.Status)
		assert.Equal(t, "booking-1", result.BookingID)
		assert.Equal(t, int64(2500000), result.Amount)
	})

	t.Run("bad: signature mismatch fails closed", func(t *testing.T) {
		// Even a perfectly valid payload must not be interpreted.
		result, err := p.HandleWebhook(context.Background(), "bad-signature", successBody)
		assert.Nil(t, result)
		var sigErr *SignatureError
		require.True(t, errors.As(err, &sigErr))
	})

	t.Run("bad: missing booking id in metadata", func(t *testing.T) {
		body := []byte(`{"event":"charge.success","data":{"reference":"r","status":"success","metadata":{}}}`)
		_, err := p.HandleWebhook(context.Background(), paystackSign("sk_test_secret", body), body)
		var metaErr *MissingMetadataError
		require.True(t, errors.As(err, &metaErr))
		assert.Equal(t, "booking_id", metaErr.Key)
	})

	t.Run("unhandled events are acknowledged and ignored", func(t *testing.T) {
		body := []byte(`{"event":"transfer.success","data":{}}`)
		result, err := p.HandleWebhook(context.Background(), paystackSign("sk_test_secret", body), body)
		require.NoError(t, err)
		assert.Equal(t, "ignored", result.Status)
	})
}

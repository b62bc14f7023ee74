package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/meadows123/venuebook/internal/currency"
	"github.com/meadows123/venuebook/internal/processor"
	"github.com/meadows123/venuebook/internal/repository"
)

// dedupTTL bounds how long a processed webhook delivery is remembered.
const dedupTTL = 24 * time.Hour

// WebhookService turns verified provider events into payment and booking
// state changes. A nil redis client disables replay protection.
type WebhookService struct {
	factory     *processor.Factory
	paymentRepo *repository.PaymentRepository
	bookingRepo *repository.BookingRepository
	creditRepo  *repository.CreditRepository
	rdb         *redis.Client
}

func NewWebhookService(
	factory *processor.Factory,
	paymentRepo *repository.PaymentRepository,
	bookingRepo *repository.BookingRepository,
	creditRepo *repository.CreditRepository,
	rdb *redis.Client,
) *WebhookService {
	return &WebhookService{
		factory:     factory,
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		creditRepo:  creditRepo,
		rdb:         rdb,
	}
}

// HandleEvent verifies and applies one provider callback. The processor
// rejects bad signatures before any payload is parsed; this layer only runs
// for authentic events.
func (s *WebhookService) HandleEvent(ctx context.Context, gateway currency.ProcessorType, signature string, rawBody []byte) (*processor.WebhookResult, error) {
	proc, err := s.factory.WebhookProcessor(gateway)
	if err != nil {
		return nil, err
	}

	result, err := proc.HandleWebhook(ctx, signature, rawBody)
	if err != nil {
		return nil, err
	}

	if result.Status == "ignored" {
		return result, nil
	}

	key, duplicate := s.claimDelivery(ctx, gateway, result)
	if duplicate {
		log.Info().
			Str("reference", result.Reference).
			Str("status", result.Status).
			Msg("duplicate webhook delivery ignored")
		result.Message = "duplicate delivery ignored"
		return result, nil
	}

	switch result.Status {
	case "succeeded":
		err = s.applySuccess(ctx, result)
	case "failed":
		err = s.applyFailure(ctx, result)
	}
	if err != nil {
		// The event did not take effect; release the claim so the
		// provider's retry is applied instead of swallowed.
		s.releaseClaim(ctx, key)
		return nil, err
	}
	return result, nil
}

func (s *WebhookService) applySuccess(ctx context.Context, result *processor.WebhookResult) error {
	if err := s.paymentRepo.MarkStatus(ctx, result.Reference, "succeeded"); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("webhook for unknown payment %s: %w", result.Reference, err)
		}
		return err
	}

	if result.Metadata["purpose"] == processor.PurposeCreditPurchase {
		payment, err := s.paymentRepo.GetByReference(ctx, result.Reference)
		if err != nil {
			return fmt.Errorf("load credit payment: %w", err)
		}
		venueID := result.Metadata["venue_id"]
		if venueID == "" {
			return &processor.MissingMetadataError{Key: "venue_id"}
		}
		if _, err := s.creditRepo.Add(ctx, payment.CustomerEmail, venueID, payment.Amount); err != nil {
			return err
		}
		log.Info().
			Str("customer_email", payment.CustomerEmail).
			Str("venue_id", venueID).
			Int64("amount", payment.Amount).
			Msg("venue credits purchased")
		return nil
	}

	return s.bookingRepo.UpdateStatus(ctx, result.BookingID, "confirmed")
}

func (s *WebhookService) applyFailure(ctx context.Context, result *processor.WebhookResult) error {
	err := s.paymentRepo.MarkStatus(ctx, result.Reference, "failed")
	if errors.Is(err, repository.ErrNotFound) {
		// Failure for a payment this service never initialized; nothing to do.
		return nil
	}
	if err != nil {
		return err
	}
	return s.restoreCredits(ctx, result)
}

// restoreCredits returns the credits deducted at initialization when the
// charge never went through. The booking's credits_used is zeroed afterwards
// so a replayed failure cannot refund twice.
func (s *WebhookService) restoreCredits(ctx context.Context, result *processor.WebhookResult) error {
	payment, err := s.paymentRepo.GetByReference(ctx, result.Reference)
	if err != nil {
		return fmt.Errorf("load failed payment: %w", err)
	}
	if payment.BookingID == "" {
		return nil
	}

	booking, err := s.bookingRepo.Get(ctx, payment.BookingID)
	if err != nil {
		return fmt.Errorf("load booking for failed payment: %w", err)
	}
	if booking.CreditsUsed <= 0 {
		return nil
	}

	if _, err := s.creditRepo.Add(ctx, payment.CustomerEmail, booking.VenueID, booking.CreditsUsed); err != nil {
		return fmt.Errorf("refund credits: %w", err)
	}
	if err := s.bookingRepo.UpdateCreditsUsed(ctx, booking.ID, 0); err != nil {
		return fmt.Errorf("clear refunded credits: %w", err)
	}

	log.Info().
		Str("customer_email", payment.CustomerEmail).
		Str("booking_id", booking.ID).
		Int64("amount", booking.CreditsUsed).
		Msg("credits refunded after failed charge")
	return nil
}

// claimDelivery claims the delivery key in redis. Redis being down means no
// replay protection for that delivery, not a rejected webhook.
func (s *WebhookService) claimDelivery(ctx context.Context, gateway currency.ProcessorType, result *processor.WebhookResult) (string, bool) {
	if s.rdb == nil || result.Reference == "" {
		return "", false
	}

	key := fmt.Sprintf("webhook:%s:%s:%s", gateway, result.Reference, result.Status)
	claimed, err := s.rdb.SetNX(ctx, key, 1, dedupTTL).Result()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("webhook dedup unavailable")
		return "", false
	}
	return key, !claimed
}

func (s *WebhookService) releaseClaim(ctx context.Context, key string) {
	if s.rdb == nil || key == "" {
		return
	}
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("could not release webhook dedup key")
	}
}

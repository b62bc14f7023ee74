package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/meadows123/venuebook/internal/currency"
	"github.com/meadows123/venuebook/internal/dto"
	"github.com/meadows123/venuebook/internal/fees"
	"github.com/meadows123/venuebook/internal/model"
	"github.com/meadows123/venuebook/internal/processor"
	"github.com/meadows123/venuebook/internal/repository"
)

type PaymentService struct {
	factory     *processor.Factory
	registry    *currency.Registry
	bookingRepo *repository.BookingRepository
	venueRepo   *repository.VenueRepository
	paymentRepo *repository.PaymentRepository
	creditRepo  *repository.CreditRepository
}

func NewPaymentService(
	factory *processor.Factory,
	registry *currency.Registry,
	bookingRepo *repository.BookingRepository,
	venueRepo *repository.VenueRepository,
	paymentRepo *repository.PaymentRepository,
	creditRepo *repository.CreditRepository,
) *PaymentService {
	return &PaymentService{
		factory:     factory,
		registry:    registry,
		bookingRepo: bookingRepo,
		venueRepo:   venueRepo,
		paymentRepo: paymentRepo,
		creditRepo:  creditRepo,
	}
}

// NewReference mints a caller-generated payment reference.
func NewReference() string {
	return "vb_" + uuid.NewString()
}

// InitializeBookingPayment charges a customer for a booking, applying any
// venue credits first. A booking fully covered by credits is confirmed on the
// spot without touching a payment provider.
func (s *PaymentService) InitializeBookingPayment(ctx context.Context, req *dto.InitializePaymentRequest) (*dto.InitializePaymentResponse, error) {
	booking, err := s.bookingRepo.Get(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	venue, err := s.venueRepo.Get(ctx, booking.VenueID)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	currencyCfg, err := s.registry.Config(venue.Currency)
	if err != nil {
		return nil, err
	}

	totalSmallest := processor.ToSmallestUnit(req.Amount, currencyCfg.Decimals)

	var creditsApplied int64
	if req.UseCredits {
		balance, err := s.creditRepo.Balance(ctx, req.CustomerEmail, venue.ID)
		if err != nil {
			return nil, err
		}
		creditsApplied = balance
		if creditsApplied > totalSmallest {
			creditsApplied = totalSmallest
		}
		if creditsApplied > 0 {
			if _, err := s.creditRepo.Deduct(ctx, req.CustomerEmail, venue.ID, creditsApplied); err != nil {
				return nil, err
			}
		}
	}

	reference := NewReference()

	if creditsApplied == totalSmallest && creditsApplied > 0 {
		if err := s.recordCreditSettlement(ctx, reference, booking, req.CustomerEmail, venue.Currency, totalSmallest); err != nil {
			return nil, err
		}
		return &dto.InitializePaymentResponse{
			Reference:          reference,
			Processor:          "credits",
			Currency:           venue.Currency,
			Amount:             req.Amount,
			CreditsApplied:     creditsApplied,
			FullyPaidByCredits: true,
		}, nil
	}

	proc, err := s.factory.Processor(venue.Currency)
	if err != nil {
		s.refundCredits(ctx, req.CustomerEmail, venue.ID, creditsApplied)
		return nil, err
	}

	cfg := processor.PaymentConfig{
		Email:        req.CustomerEmail,
		Currency:     venue.Currency,
		Amount:       processor.FromSmallestUnit(totalSmallest-creditsApplied, currencyCfg.Decimals),
		Reference:    reference,
		BookingID:    booking.ID,
		CustomerID:   req.CustomerEmail,
		VenueID:      venue.ID,
		Venues:       venueShares(venue),
		CreditsUsed:  creditsApplied,
		CreditsValue: creditsApplied,
		Metadata:     map[string]string{"venue_id": venue.ID},
	}

	initResp, err := proc.InitializePayment(ctx, cfg)
	if err != nil {
		s.refundCredits(ctx, req.CustomerEmail, venue.ID, creditsApplied)
		return nil, err
	}

	payment := &model.Payment{
		Reference:     initResp.Reference,
		BookingID:     booking.ID,
		CustomerEmail: req.CustomerEmail,
		Currency:      venue.Currency,
		Amount:        totalSmallest - creditsApplied,
		Processor:     string(proc.Type()),
		Status:        "initialized",
	}
	if err := s.paymentRepo.Insert(ctx, payment); err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	if creditsApplied > 0 {
		if err := s.bookingRepo.UpdateCreditsUsed(ctx, booking.ID, creditsApplied); err != nil {
			log.Warn().Err(err).Str("booking_id", booking.ID).Msg("could not record credits used")
		}
	}

	return &dto.InitializePaymentResponse{
		Reference:        initResp.Reference,
		AuthorizationURL: initResp.AuthorizationURL,
		ClientSecret:     initResp.ClientSecret,
		Processor:        string(initResp.Processor),
		Currency:         initResp.Currency,
		Amount:           initResp.Amount,
		CreditsApplied:   creditsApplied,
	}, nil
}

func (s *PaymentService) recordCreditSettlement(ctx context.Context, reference string, booking *model.Booking, email, currencyCode string, amount int64) error {
	payment := &model.Payment{
		Reference:     reference,
		BookingID:     booking.ID,
		CustomerEmail: email,
		Currency:      currencyCode,
		Amount:        amount,
		Processor:     "credits",
		Status:        "succeeded",
	}
	if err := s.paymentRepo.Insert(ctx, payment); err != nil {
		return fmt.Errorf("record credit settlement: %w", err)
	}
	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, "confirmed"); err != nil {
		return fmt.Errorf("confirm booking: %w", err)
	}
	if err := s.bookingRepo.UpdateCreditsUsed(ctx, booking.ID, amount); err != nil {
		log.Warn().Err(err).Str("booking_id", booking.ID).Msg("could not record credits used")
	}
	return nil
}

// refundCredits puts a deducted balance back when the charge never went out.
func (s *PaymentService) refundCredits(ctx context.Context, email, venueID string, amount int64) {
	if amount <= 0 {
		return
	}
	if _, err := s.creditRepo.Add(ctx, email, venueID, amount); err != nil {
		log.Error().Err(err).
			Str("customer_email", email).
			Str("venue_id", venueID).
			Int64("amount", amount).
			Msg("failed to refund credits after aborted payment")
	}
}

// venueShares maps a venue's payout account for the gateway its currency
// routes to. A venue with no account on file gets a platform-only charge.
func venueShares(venue *model.Venue) []fees.VenueShare {
	account := venue.PaystackSubaccount
	if venue.Currency != "NGN" {
		account = venue.StripeAccount
	}
	if account == "" {
		return nil
	}
	return []fees.VenueShare{{VenueID: venue.ID, Subaccount: account, Percentage: 100}}
}

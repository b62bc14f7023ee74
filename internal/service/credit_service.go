package service

import (
	"context"
	"fmt"

	"github.com/meadows123/venuebook/internal/currency"
	"github.com/meadows123/venuebook/internal/dto"
	"github.com/meadows123/venuebook/internal/model"
	"github.com/meadows123/venuebook/internal/processor"
	"github.com/meadows123/venuebook/internal/repository"
)

// CreditService sells prepaid venue credit. The purchase is an ordinary
// provider charge tagged with a credit-purchase purpose; the webhook flow
// credits the balance once the charge succeeds.
type CreditService struct {
	factory     *processor.Factory
	registry    *currency.Registry
	venueRepo   *repository.VenueRepository
	paymentRepo *repository.PaymentRepository
	creditRepo  *repository.CreditRepository
}

func NewCreditService(
	factory *processor.Factory,
	registry *currency.Registry,
	venueRepo *repository.VenueRepository,
	paymentRepo *repository.PaymentRepository,
	creditRepo *repository.CreditRepository,
) *CreditService {
	return &CreditService{
		factory:     factory,
		registry:    registry,
		venueRepo:   venueRepo,
		paymentRepo: paymentRepo,
		creditRepo:  creditRepo,
	}
}

func (s *CreditService) PurchaseCredits(ctx context.Context, req *dto.PurchaseCreditsRequest) (*dto.InitializePaymentResponse, error) {
	venue, err := s.venueRepo.Get(ctx, req.VenueID)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	currencyCfg, err := s.registry.Config(venue.Currency)
	if err != nil {
		return nil, err
	}

	proc, err := s.factory.Processor(venue.Currency)
	if err != nil {
		return nil, err
	}

	cfg := processor.PaymentConfig{
		Email:     req.CustomerEmail,
		Currency:  venue.Currency,
		Amount:    req.Amount,
		Reference: "vbc_" + NewReference()[3:],
		VenueID:   venue.ID,
		Venues:    venueShares(venue),
		Metadata: map[string]string{
			"purpose":        processor.PurposeCreditPurchase,
			"venue_id":       venue.ID,
			"customer_email": req.CustomerEmail,
		},
	}

	initResp, err := proc.InitializePayment(ctx, cfg)
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		Reference:     initResp.Reference,
		CustomerEmail: req.CustomerEmail,
		Currency:      venue.Currency,
		Amount:        processor.ToSmallestUnit(req.Amount, currencyCfg.Decimals),
		Processor:     string(proc.Type()),
		Status:        "initialized",
	}
	if err := s.paymentRepo.Insert(ctx, payment); err != nil {
		return nil, fmt.Errorf("record credit payment: %w", err)
	}

	return &dto.InitializePaymentResponse{
		Reference:        initResp.Reference,
		AuthorizationURL: initResp.AuthorizationURL,
		ClientSecret:     initResp.ClientSecret,
		Processor:        string(initResp.Processor),
		Currency:         initResp.Currency,
		Amount:           initResp.Amount,
	}, nil
}

func (s *CreditService) Balance(ctx context.Context, customerEmail, venueID string) (int64, error) {
	return s.creditRepo.Balance(ctx, customerEmail, venueID)
}

// Package fees computes the platform/venue money split for a payment.
//
// Two multi-venue strategies exist on purpose: MultiVenuePaymentSplit rescales
// each venue's requested percentage into the post-fee remainder, while
// EqualSplit divides the remainder evenly regardless of requested weights.
// Paystack checkout uses the equal strategy; do not unify them without
// confirming product intent.
package fees

import (
	"fmt"
	"math"
)

// DefaultPlatformFeePct is the platform's cut when the caller does not
// specify one.
const DefaultPlatformFeePct = 10.0

// Calculation is the derived platform/venue split for one total. The fee is
// rounded half-up; the venue amount absorbs the remainder so the two always
// sum back to the total.
type Calculation struct {
	TotalAmount           int64   `json:"total_amount"`
	PlatformFee           int64   `json:"platform_fee"`
	PlatformFeePercentage float64 `json:"platform_fee_percentage"`
	VenueAmount           int64   `json:"venue_amount"`
}

// VenueShare is a venue's requested portion of a multi-venue payment.
type VenueShare struct {
	VenueID    string  `json:"venue_id"`
	Subaccount string  `json:"subaccount"`
	Percentage float64 `json:"percentage"`
}

// SplitEntry is one recipient of a percentage split.
type SplitEntry struct {
	Subaccount string  `json:"subaccount"`
	Share      float64 `json:"share"`
}

// SplitPayload is a provider-shaped percentage split. Subaccount shares that
// do not sum to 100 leave the remainder with the platform's main account.
type SplitPayload struct {
	Type        string       `json:"type"`
	BearerType  string       `json:"bearer_type"`
	Subaccounts []SplitEntry `json:"subaccounts"`
}

type InvalidAmountError struct {
	Amount int64
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %d: must be greater than zero", e.Amount)
}

type MissingVenueAccountError struct{}

func (e *MissingVenueAccountError) Error() string {
	return "venue payout account is required"
}

type InvalidShareTotalError struct {
	Total float64
}

func (e *InvalidShareTotalError) Error() string {
	return fmt.Sprintf("venue shares sum to %.2f: must be in (0, 100]", e.Total)
}

// Calculate splits totalAmount into platform fee and venue amount.
func Calculate(totalAmount int64, platformFeePct float64) (Calculation, error) {
	if totalAmount <= 0 {
		return Calculation{}, &InvalidAmountError{Amount: totalAmount}
	}

	fee := int64(math.Round(float64(totalAmount) * platformFeePct / 100))

	return Calculation{
		TotalAmount:           totalAmount,
		PlatformFee:           fee,
		PlatformFeePercentage: platformFeePct,
		VenueAmount:           totalAmount - fee,
	}, nil
}

// SinglePaymentSplit builds the two-way percentage split for a one-venue
// payment: the platform takes feePct, the venue takes the rest. An empty
// platformAccount leaves the platform share with the main account.
func SinglePaymentSplit(platformAccount, venueAccount string, feePct float64) (SplitPayload, error) {
	if venueAccount == "" {
		return SplitPayload{}, &MissingVenueAccountError{}
	}

	payload := SplitPayload{
		Type:       "percentage",
		BearerType: "account",
		Subaccounts: []SplitEntry{
			{Subaccount: venueAccount, Share: 100 - feePct},
		},
	}
	if platformAccount != "" {
		payload.Subaccounts = append(payload.Subaccounts, SplitEntry{
			Subaccount: platformAccount,
			Share:      feePct,
		})
	}
	return payload, nil
}

// MultiVenuePaymentSplit rescales each venue's requested percentage so the
// venues together consume exactly 100-feePct, whatever the raw percentages
// summed to.
func MultiVenuePaymentSplit(platformAccount string, shares []VenueShare, feePct float64) (SplitPayload, error) {
	var total float64
	for _, s := range shares {
		if s.Percentage <= 0 {
			return SplitPayload{}, &InvalidShareTotalError{Total: s.Percentage}
		}
		total += s.Percentage
	}
	if total <= 0 || total > 100 {
		return SplitPayload{}, &InvalidShareTotalError{Total: total}
	}

	payload := SplitPayload{Type: "percentage", BearerType: "account"}
	for _, s := range shares {
		if s.Subaccount == "" {
			return SplitPayload{}, &MissingVenueAccountError{}
		}
		payload.Subaccounts = append(payload.Subaccounts, SplitEntry{
			Subaccount: s.Subaccount,
			Share:      s.Percentage / total * (100 - feePct),
		})
	}
	if platformAccount != "" {
		payload.Subaccounts = append(payload.Subaccounts, SplitEntry{
			Subaccount: platformAccount,
			Share:      feePct,
		})
	}
	return payload, nil
}

// EqualSplit divides the post-fee remainder evenly across the venue accounts.
func EqualSplit(platformAccount string, venueAccounts []string, feePct float64) (SplitPayload, error) {
	if len(venueAccounts) == 0 {
		return SplitPayload{}, &MissingVenueAccountError{}
	}

	perVenue := (100 - feePct) / float64(len(venueAccounts))
	payload := SplitPayload{Type: "percentage", BearerType: "account"}
	for _, account := range venueAccounts {
		if account == "" {
			return SplitPayload{}, &MissingVenueAccountError{}
		}
		payload.Subaccounts = append(payload.Subaccounts, SplitEntry{
			Subaccount: account,
			Share:      perVenue,
		})
	}
	if platformAccount != "" {
		payload.Subaccounts = append(payload.Subaccounts, SplitEntry{
			Subaccount: platformAccount,
			Share:      feePct,
		})
	}
	return payload, nil
}

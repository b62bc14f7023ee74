package model

import (
	"time"
)

type Venue struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	OpeningHours       string    `json:"opening_hours"`
	Currency           string    `json:"currency"`
	PaystackSubaccount string    `json:"paystack_subaccount,omitempty"`
	StripeAccount      string    `json:"stripe_account,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type VenueTable struct {
	ID       string `json:"id"`
	VenueID  string `json:"venue_id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type Booking struct {
	ID            string    `json:"id"`
	VenueID       string    `json:"venue_id"`
	TableID       string    `json:"table_id,omitempty"`
	CustomerEmail string    `json:"customer_email"`
	BookingDate   string    `json:"booking_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Guests        int       `json:"guests"`
	Status        string    `json:"status"`
	CreditsUsed   int64     `json:"credits_used,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Payment struct {
	ID            string `json:"id"`
	Reference     string `json:"reference"`
	BookingID     string `json:"booking_id,omitempty"`
	CustomerEmail string `json:"customer_email"`
	Currency      string `json:"currency"`
	// Amount is in the provider's smallest currency unit.
	Amount    int64     `json:"amount"`
	Processor string    `json:"processor"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type VenueCredit struct {
	ID            string    `json:"id"`
	CustomerEmail string    `json:"customer_email"`
	VenueID       string    `json:"venue_id"`
	Balance       int64     `json:"balance"`
	UpdatedAt     time.Time `json:"updated_at"`
}

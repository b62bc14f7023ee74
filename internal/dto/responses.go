package dto

import (
	"time"

	"github.com/meadows123/venuebook/internal/model"
	"github.com/meadows123/venuebook/internal/timeslot"
)

type BookingResponse struct {
	ID            string    `json:"id"`
	VenueID       string    `json:"venue_id"`
	TableID       string    `json:"table_id,omitempty"`
	CustomerEmail string    `json:"customer_email"`
	BookingDate   string    `json:"booking_date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Guests        int       `json:"guests"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type AvailabilityResponse struct {
	VenueID string          `json:"venue_id"`
	TableID string          `json:"table_id,omitempty"`
	Date    string          `json:"date"`
	Slots   []timeslot.Slot `json:"slots"`
}

type TableAvailabilityResponse struct {
	VenueID string                     `json:"venue_id"`
	Date    string                     `json:"date"`
	Tables  map[string][]timeslot.Slot `json:"tables"`
}

type InitializePaymentResponse struct {
	Reference          string  `json:"reference"`
	AuthorizationURL   string  `json:"authorization_url,omitempty"`
	ClientSecret       string  `json:"client_secret,omitempty"`
	Processor          string  `json:"processor"`
	Currency           string  `json:"currency"`
	Amount             float64 `json:"amount"`
	CreditsApplied     int64   `json:"credits_applied,omitempty"`
	FullyPaidByCredits bool    `json:"fully_paid_by_credits,omitempty"`
}

type CreditBalanceResponse struct {
	CustomerEmail string `json:"customer_email"`
	VenueID       string `json:"venue_id"`
	Balance       int64  `json:"balance"`
}

type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type VenueListResponse struct {
	Venues     []model.Venue `json:"venues"`
	Pagination Pagination    `json:"pagination"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

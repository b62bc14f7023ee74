package dto

type CreateBookingRequest struct {
	VenueID       string `json:"venue_id" binding:"required"`
	TableID       string `json:"table_id"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	BookingDate   string `json:"booking_date" binding:"required,datetime=2006-01-02"`
	StartTime     string `json:"start_time" binding:"required"`
	EndTime       string `json:"end_time" binding:"required"`
	Guests        int    `json:"guests" binding:"required,gt=0"`
}

type InitializePaymentRequest struct {
	BookingID     string  `json:"booking_id" binding:"required"`
	CustomerEmail string  `json:"customer_email" binding:"required,email"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	UseCredits    bool    `json:"use_credits"`
}

type PurchaseCreditsRequest struct {
	VenueID       string  `json:"venue_id" binding:"required"`
	CustomerEmail string  `json:"customer_email" binding:"required,email"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
}

type CreateVenueRequest struct {
	Name               string `json:"name" binding:"required"`
	OpeningHours       string `json:"opening_hours"`
	Currency           string `json:"currency" binding:"required,len=3"`
	PaystackSubaccount string `json:"paystack_subaccount"`
	StripeAccount      string `json:"stripe_account"`
}

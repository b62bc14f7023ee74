package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInsufficientCredits is returned by Deduct when the customer's balance
// cannot cover the requested amount.
var ErrInsufficientCredits = errors.New("insufficient venue credits")

type CreditRepository struct {
	pool *pgxpool.Pool
}

func NewCreditRepository(pool *pgxpool.Pool) *CreditRepository {
	return &CreditRepository{pool: pool}
}

func (r *CreditRepository) Balance(ctx context.Context, customerEmail, venueID string) (int64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx,
		`SELECT balance FROM venue_credits WHERE customer_email = $1 AND venue_id = $2`,
		customerEmail, venueID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get credit balance: %w", err)
	}
	return balance, nil
}

// Add credits a customer's balance for a venue, creating the row on first
// purchase.
func (r *CreditRepository) Add(ctx context.Context, customerEmail, venueID string, amount int64) (int64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO venue_credits (customer_email, venue_id, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (customer_email, venue_id)
		DO UPDATE SET balance = venue_credits.balance + EXCLUDED.balance, updated_at = now()
		RETURNING balance`,
		customerEmail, venueID, amount).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("add credits: %w", err)
	}
	return balance, nil
}

// Deduct atomically decrements the balance; the WHERE clause guards against
// overdrawing under concurrent bookings.
func (r *CreditRepository) Deduct(ctx context.Context, customerEmail, venueID string, amount int64) (int64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx,
		`UPDATE venue_credits
		SET balance = balance - $3, updated_at = now()
		WHERE customer_email = $1 AND venue_id = $2 AND balance >= $3
		RETURNING balance`,
		customerEmail, venueID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrInsufficientCredits
	}
	if err != nil {
		return 0, fmt.Errorf("deduct credits: %w", err)
	}
	return balance, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meadows123/venuebook/internal/model"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Insert(ctx context.Context, p *model.Payment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO payments (reference, booking_id, customer_email, currency, amount, processor, status)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		p.Reference, p.BookingID, p.CustomerEmail, p.Currency, p.Amount, p.Processor, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (*model.Payment, error) {
	var p model.Payment
	err := r.pool.QueryRow(ctx,
		`SELECT id, reference, COALESCE(booking_id::text, ''), customer_email, currency, amount, processor, status, created_at, updated_at
		FROM payments WHERE reference = $1`, reference,
	).Scan(&p.ID, &p.Reference, &p.BookingID, &p.CustomerEmail, &p.Currency, &p.Amount,
		&p.Processor, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) MarkStatus(ctx context.Context, reference, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET status = $2, updated_at = now() WHERE reference = $1`,
		reference, status)
	if err != nil {
		return fmt.Errorf("mark payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

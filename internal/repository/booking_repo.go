package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meadows123/venuebook/internal/model"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) Insert(ctx context.Context, b *model.Booking) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO bookings (venue_id, table_id, customer_email, booking_date, start_time, end_time, guests, status, credits_used)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		b.VenueID, b.TableID, b.CustomerEmail, b.BookingDate, b.StartTime, b.EndTime,
		b.Guests, b.Status, b.CreditsUsed,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *BookingRepository) Get(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	err := r.pool.QueryRow(ctx,
		`SELECT id, venue_id, COALESCE(table_id::text, ''), customer_email, booking_date::text,
			start_time::text, end_time::text, guests, status, credits_used, created_at
		FROM bookings WHERE id = $1`, id,
	).Scan(&b.ID, &b.VenueID, &b.TableID, &b.CustomerEmail, &b.BookingDate,
		&b.StartTime, &b.EndTime, &b.Guests, &b.Status, &b.CreditsUsed, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListForDate returns the bookings that can occupy slots for a venue and
// date. An empty tableID means venue-wide (bookings without a table);
// otherwise only that table's bookings count.
func (r *BookingRepository) ListForDate(ctx context.Context, venueID, tableID, date string) ([]model.Booking, error) {
	query := `SELECT id, venue_id, COALESCE(table_id::text, ''), customer_email, booking_date::text,
			start_time::text, end_time::text, guests, status, credits_used, created_at
		FROM bookings
		WHERE venue_id = $1 AND booking_date = $2 AND status != 'cancelled'`
	args := []any{venueID, date}
	if tableID != "" {
		query += ` AND table_id = $3`
		args = append(args, tableID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.VenueID, &b.TableID, &b.CustomerEmail, &b.BookingDate,
			&b.StartTime, &b.EndTime, &b.Guests, &b.Status, &b.CreditsUsed, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) UpdateCreditsUsed(ctx context.Context, id string, credits int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bookings SET credits_used = $2 WHERE id = $1`, id, credits)
	if err != nil {
		return fmt.Errorf("update credits used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bookings SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

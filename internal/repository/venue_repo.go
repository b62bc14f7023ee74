package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meadows123/venuebook/internal/model"
)

type VenueRepository struct {
	pool *pgxpool.Pool
}

func NewVenueRepository(pool *pgxpool.Pool) *VenueRepository {
	return &VenueRepository{pool: pool}
}

func (r *VenueRepository) Get(ctx context.Context, id string) (*model.Venue, error) {
	var v model.Venue
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, opening_hours, currency, paystack_subaccount, stripe_account, created_at
		FROM venues WHERE id = $1`, id,
	).Scan(&v.ID, &v.Name, &v.OpeningHours, &v.Currency, &v.PaystackSubaccount, &v.StripeAccount, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VenueRepository) List(ctx context.Context, limit, offset int) ([]model.Venue, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM venues`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count venues: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, opening_hours, currency, paystack_subaccount, stripe_account, created_at
		FROM venues ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var venues []model.Venue
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.OpeningHours, &v.Currency, &v.PaystackSubaccount, &v.StripeAccount, &v.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, v)
	}
	return venues, total, rows.Err()
}

func (r *VenueRepository) Insert(ctx context.Context, v *model.Venue) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO venues (name, opening_hours, currency, paystack_subaccount, stripe_account)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		v.Name, v.OpeningHours, v.Currency, v.PaystackSubaccount, v.StripeAccount,
	).Scan(&v.ID, &v.CreatedAt)
}

func (r *VenueRepository) ListTables(ctx context.Context, venueID string) ([]model.VenueTable, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, venue_id, name, capacity FROM venue_tables WHERE venue_id = $1 ORDER BY name`, venueID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []model.VenueTable
	for rows.Next() {
		var t model.VenueTable
		if err := rows.Scan(&t.ID, &t.VenueID, &t.Name, &t.Capacity); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// ErrNotFound re-exports the pgx sentinel so callers outside the repository
// layer do not import pgx directly.
var ErrNotFound = pgx.ErrNoRows

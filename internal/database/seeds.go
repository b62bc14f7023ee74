package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type seedVenue struct {
	Name         string
	OpeningHours string
	Currency     string
	Subaccount   string
	Tables       []string
}

var seedVenues = []seedVenue{
	{Name: "Eko Rooftop Lounge", OpeningHours: "Mon-Sun 7pm-12pm", Currency: "NGN", Subaccount: "ACCT_eko_rooftop", Tables: []string{"Skyline 1", "Skyline 2", "Cabana"}},
	{Name: "Victoria Island Social", OpeningHours: "18:00-02:00", Currency: "NGN", Subaccount: "ACCT_vi_social", Tables: []string{"Booth A", "Booth B"}},
	{Name: "Shoreditch Supper Club", OpeningHours: "5pm-11pm", Currency: "GBP", Subaccount: "acct_shoreditch", Tables: []string{"Window", "Garden", "Chef's Counter"}},
	{Name: "Dublin Quay Bar", OpeningHours: "12pm-12am", Currency: "EUR", Subaccount: "acct_dublin_quay", Tables: []string{"Snug", "Terrace"}},
}

// SeedData loads a small demo venue catalog; it is idempotent on venue name.
func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	for _, v := range seedVenues {
		var venueID string
		err := pool.QueryRow(ctx,
			`SELECT id FROM venues WHERE name = $1`, v.Name).Scan(&venueID)
		if err != nil {
			paystack, stripe := "", ""
			if v.Currency == "NGN" {
				paystack = v.Subaccount
			} else {
				stripe = v.Subaccount
			}
			err = pool.QueryRow(ctx,
				`INSERT INTO venues (name, opening_hours, currency, paystack_subaccount, stripe_account)
				VALUES ($1, $2, $3, $4, $5) RETURNING id`,
				v.Name, v.OpeningHours, v.Currency, paystack, stripe).Scan(&venueID)
			if err != nil {
				return fmt.Errorf("seed venue %s: %w", v.Name, err)
			}
		}

		for _, table := range v.Tables {
			_, err := pool.Exec(ctx,
				`INSERT INTO venue_tables (venue_id, name, capacity)
				VALUES ($1, $2, 4)
				ON CONFLICT (venue_id, name) DO NOTHING`,
				venueID, table)
			if err != nil {
				return fmt.Errorf("seed table %s/%s: %w", v.Name, table, err)
			}
		}
	}

	log.Info().Int("venues", len(seedVenues)).Msg("seed data loaded")
	return nil
}

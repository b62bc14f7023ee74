package service

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/meadows123/venuebook/internal/model"
	"github.com/meadows123/venuebook/internal/repository"
	"github.com/meadows123/venuebook/internal/timeslot"
)

type AvailabilityService struct {
	venueRepo   *repository.VenueRepository
	bookingRepo *repository.BookingRepository
}

func NewAvailabilityService(venueRepo *repository.VenueRepository, bookingRepo *repository.BookingRepository) *AvailabilityService {
	return &AvailabilityService{venueRepo: venueRepo, bookingRepo: bookingRepo}
}

// VenueSlots computes the availability grid for one venue and date. tableID
// narrows the check to a single table; empty means venue-wide.
func (s *AvailabilityService) VenueSlots(ctx context.Context, venueID, tableID, date string) ([]timeslot.Slot, error) {
	venue, err := s.venueRepo.Get(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}

	bookings, err := s.bookingRepo.ListForDate(ctx, venueID, tableID, date)
	if err != nil {
		return nil, err
	}

	return timeslot.BuildSlots(venue.OpeningHours, toIntervals(bookings), nil), nil
}

// AllTableSlots builds the grid for every table of a venue, one fan-out per
// table.
func (s *AvailabilityService) AllTableSlots(ctx context.Context, venueID, date string) (map[string][]timeslot.Slot, error) {
	venue, err := s.venueRepo.Get(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}

	tables, err := s.venueRepo.ListTables(ctx, venueID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	result := make(map[string][]timeslot.Slot, len(tables))

	for _, table := range tables {
		table := table
		g.Go(func() error {
			bookings, err := s.bookingRepo.ListForDate(gctx, venueID, table.ID, date)
			if err != nil {
				return err
			}
			slots := timeslot.BuildSlots(venue.OpeningHours, toIntervals(bookings), nil)
			mu.Lock()
			result[table.ID] = slots
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func toIntervals(bookings []model.Booking) []timeslot.BookingInterval {
	intervals := make([]timeslot.BookingInterval, len(bookings))
	for i, b := range bookings {
		intervals[i] = timeslot.BookingInterval{
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			Status:    b.Status,
		}
	}
	return intervals
}

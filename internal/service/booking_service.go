package service

import (
	"context"
	"fmt"

	"github.com/meadows123/venuebook/internal/dto"
	"github.com/meadows123/venuebook/internal/model"
	"github.com/meadows123/venuebook/internal/repository"
	"github.com/meadows123/venuebook/internal/timeslot"
)

type BookingService struct {
	bookingRepo *repository.BookingRepository
	venueRepo   *repository.VenueRepository
}

func NewBookingService(bookingRepo *repository.BookingRepository, venueRepo *repository.VenueRepository) *BookingService {
	return &BookingService{bookingRepo: bookingRepo, venueRepo: venueRepo}
}

type slotTakenErr struct {
	slot string
}

func (e *slotTakenErr) Error() string {
	return fmt.Sprintf("time slot %s is no longer available", e.slot)
}

// IsSlotTaken reports whether an error from CreateBooking means the requested
// time collided with an existing booking.
func IsSlotTaken(err error) bool {
	_, ok := err.(*slotTakenErr)
	return ok
}

// CreateBooking inserts a pending booking after checking every 30-minute slot
// the requested interval covers against existing bookings.
func (s *BookingService) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*model.Booking, error) {
	if _, err := s.venueRepo.Get(ctx, req.VenueID); err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}

	existing, err := s.bookingRepo.ListForDate(ctx, req.VenueID, req.TableID, req.BookingDate)
	if err != nil {
		return nil, err
	}

	intervals := toIntervals(existing)
	for _, slot := range timeslot.GenerateTimeSlots(req.StartTime, req.EndTime) {
		if !timeslot.SlotAvailable(slot, intervals, nil) {
			return nil, &slotTakenErr{slot: slot}
		}
	}

	booking := &model.Booking{
		VenueID:       req.VenueID,
		TableID:       req.TableID,
		CustomerEmail: req.CustomerEmail,
		BookingDate:   req.BookingDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Guests:        req.Guests,
		Status:        "pending",
	}
	if err := s.bookingRepo.Insert(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	return s.bookingRepo.Get(ctx, id)
}

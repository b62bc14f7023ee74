package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meadows123/venuebook/internal/dto"
	"github.com/meadows123/venuebook/internal/repository"
	"github.com/meadows123/venuebook/internal/service"
)

type BookingHandler struct {
	bookings     *service.BookingService
	availability *service.AvailabilityService
}

func NewBookingHandler(bookings *service.BookingService, availability *service.AvailabilityService) *BookingHandler {
	return &BookingHandler{bookings: bookings, availability: availability}
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed: " + err.Error()})
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		switch {
		case service.IsSlotTaken(err):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "venue not found"})
		default:
			c.Error(err)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.BookingResponse{
		ID:            booking.ID,
		VenueID:       booking.VenueID,
		TableID:       booking.TableID,
		CustomerEmail: booking.CustomerEmail,
		BookingDate:   booking.BookingDate,
		StartTime:     booking.StartTime,
		EndTime:       booking.EndTime,
		Guests:        booking.Guests,
		Status:        booking.Status,
		CreatedAt:     booking.CreatedAt,
	})
}

// Availability answers "what times are free" for a venue, date and optional
// table.
func (h *BookingHandler) Availability(c *gin.Context) {
	venueID := c.Param("id")
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "date query parameter is required"})
		return
	}
	tableID := c.Query("table_id")

	slots, err := h.availability.VenueSlots(c.Request.Context(), venueID, tableID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "venue not found"})
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.AvailabilityResponse{
		VenueID: venueID,
		TableID: tableID,
		Date:    date,
		Slots:   slots,
	})
}

// TableAvailability returns the grid for every table of a venue in one call.
func (h *BookingHandler) TableAvailability(c *gin.Context) {
	venueID := c.Param("id")
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "date query parameter is required"})
		return
	}

	tables, err := h.availability.AllTableSlots(c.Request.Context(), venueID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "venue not found"})
			return
		}
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.TableAvailabilityResponse{
		VenueID: venueID,
		Date:    date,
		Tables:  tables,
	})
}

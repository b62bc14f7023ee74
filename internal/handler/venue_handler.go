package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meadows123/venuebook/internal/dto"
	"github.com/meadows123/venuebook/internal/model"
	"github.com/meadows123/venuebook/internal/repository"
)

type VenueHandler struct {
	venues *repository.VenueRepository
}

func NewVenueHandler(venues *repository.VenueRepository) *VenueHandler {
	return &VenueHandler{venues: venues}
}

func (h *VenueHandler) Create(c *gin.Context) {
	var req dto.CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed: " + err.Error()})
		return
	}

	venue := &model.Venue{
		Name:               req.Name,
		OpeningHours:       req.OpeningHours,
		Currency:           req.Currency,
		PaystackSubaccount: req.PaystackSubaccount,
		StripeAccount:      req.StripeAccount,
	}
	if err := h.venues.Insert(c.Request.Context(), venue); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, venue)
}

func (h *VenueHandler) List(c *gin.Context) {
	params := dto.ParsePagination(c)

	venues, total, err := h.venues.List(c.Request.Context(), params.PageSize, params.Offset)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.VenueListResponse{
		Venues:     venues,
		Pagination: dto.NewPagination(params.Page, params.PageSize, total),
	})
}

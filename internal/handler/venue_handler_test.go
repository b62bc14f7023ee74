package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meadows123/venuebook/internal/dto"
	"github.com/meadows123/venuebook/internal/model"
	"github.com/meadows123/venuebook/internal/repository"
)

func setupVenueRouter(t *testing.T) *gin.Engine {
	t.Helper()
	pool := getTestPool(t)
	if pool == nil {
		t.Skip("no database available")
	}
	t.Cleanup(pool.Close)
	resetDatabase(t, pool)

	venueHandler := NewVenueHandler(repository.NewVenueRepository(pool))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/venues", venueHandler.Create)
	api.GET("/venues", venueHandler.List)

	return router
}

func TestVenueHandler_Create(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	router := setupVenueRouter(t)

	t.Run("happy: venue created", func(t *testing.T) {
		body := dto.CreateVenueRequest{
			Name:               "Lekki Garden Bar",
			OpeningHours:       "6pm-1am",
			Currency:           "NGN",
			PaystackSubaccount: "ACCT_lekki",
		}
		jsonBody, _ := json.Marshal(body)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/venues", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var venue model.Venue
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &venue))
		assert.NotEmpty(t, venue.ID)
		assert.Equal(t, "Lekki Garden Bar", venue.Name)
	})

	t.Run("bad: currency must be 3 letters", func(t *testing.T) {
		body := dto.CreateVenueRequest{Name: "Bad Currency Bar", Currency: "NAIRA"}
		jsonBody, _ := json.Marshal(body)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/venues", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVenueHandler_List(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	router := setupVenueRouter(t)

	t.Run("happy: seeded venues listed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/venues", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.VenueListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 4, resp.Pagination.TotalItems)
		assert.Len(t, resp.Venues, 4)
	})

	t.Run("happy: page_size caps at 50", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/venues?page_size=500", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.VenueListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 50, resp.Pagination.PageSize)
	})

	t.Run("happy: negative page defaults to 1", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/venues?page=-3", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.VenueListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Pagination.Page)
	})
}

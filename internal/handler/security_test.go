package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSQLInjection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	router, pool := setupBookingRouter(t)
	venueID := seededVenueID(t, pool, "Victoria Island Social")

	injections := []struct {
		name string
		url  string
	}{
		{"date param", "/api/v1/venues/" + venueID + "/availability?date=2026-09-12'%3B+DROP+TABLE+bookings%3B+--"},
		{"date with OR", "/api/v1/venues/" + venueID + "/availability?date=2026-09-12'+OR+'1'%3D'1"},
		{"table param", "/api/v1/venues/" + venueID + "/availability?date=2026-09-12&table_id=x'+UNION+SELECT+*+FROM+pg_catalog.pg_tables+--"},
		{"venue id injection", "/api/v1/venues/1'%3B+DROP+TABLE+venues%3B+--/availability?date=2026-09-12"},
	}

	for _, tc := range injections {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", tc.url, nil)
			router.ServeHTTP(w, req)

			// Parameterized queries turn injection attempts into lookups
			// that simply find nothing; never a 500 from a SQL error.
			assert.NotEqual(t, http.StatusInternalServerError, w.Code,
				"SQL injection attempt should not cause 500")
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	router, _ := setupBookingRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"truncated JSON", `{"venue_id":"abc","customer_email":"a@b.com"`},
		{"null required fields", `{"venue_id":null,"customer_email":null,"booking_date":null,"start_time":null,"end_time":null,"guests":null}`},
		{"wrong types", `{"venue_id":123,"customer_email":456,"booking_date":789,"start_time":true,"end_time":false,"guests":"four"}`},
		{"bad email", `{"venue_id":"abc","customer_email":"not-an-email","booking_date":"2026-09-12","start_time":"19:00:00","end_time":"20:00:00","guests":2}`},
		{"bad date format", `{"venue_id":"abc","customer_email":"a@b.com","booking_date":"12/09/2026","start_time":"19:00:00","end_time":"20:00:00","guests":2}`},
		{"empty object", `{}`},
		{"just array", `[]`},
		{"empty string", ``},
		{"random string", `hello world`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/v1/bookings", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code,
				"malformed JSON should return 400, got %d for %s", w.Code, tc.name)
		})
	}
}

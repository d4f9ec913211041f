package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/internal/domains/booking/model"
)

func TestBooking_Nights(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{
			name:     "two plain nights",
			checkIn:  time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			checkOut: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			want:     2,
		},
		{
			name:     "single night",
			checkIn:  time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			checkOut: time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
			want:     1,
		},
		{
			// Spring forward on 2026-03-08 makes this window 47 hours, yet
			// the guest still stays two calendar nights.
			name:     "stay spanning a spring-forward day",
			checkIn:  time.Date(2026, 3, 7, 0, 0, 0, 0, newYork),
			checkOut: time.Date(2026, 3, 9, 0, 0, 0, 0, newYork),
			want:     2,
		},
		{
			name:     "degenerate window counts one night",
			checkIn:  time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			checkOut: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			want:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := model.Booking{CheckInDate: tt.checkIn, CheckOutDate: tt.checkOut}

			assert.Equal(t, tt.want, booking.Nights())
		})
	}
}

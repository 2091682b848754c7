//go:build unit

package scheduling_test

import (
	"testing"
	"time"

	"salon-booking/internal/domain/scheduling"

	"github.com/stretchr/testify/assert"
)

func TestBookingRulesValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*scheduling.BookingRules)
		wantErr int
	}{
		{name: "defaults", mutate: func(*scheduling.BookingRules) {}},
		{name: "zero granularity", mutate: func(r *scheduling.BookingRules) { r.SlotGranularityMinutes = 0 }, wantErr: 1},
		{
			name: "every negative value",
			mutate: func(r *scheduling.BookingRules) {
				r.LeadTimeMinutes = -1
				r.HorizonDays = -1
				r.BufferBetweenMinutes = -5
				r.CancellationDeadlineHours = -1
			},
			wantErr: 4,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := scheduling.DefaultBookingRules()
			tc.mutate(&r)

			res := r.Validate()
			assert.Equal(t, tc.wantErr == 0, res.Valid)
			assert.Len(t, res.Errors, tc.wantErr)
		})
	}
}

func TestBookingRulesHorizonAndCancellation(t *testing.T) {
	now := time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)
	r := scheduling.DefaultBookingRules()

	end, ok := r.HorizonEnd(now)
	assert.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, 90), end)

	r.HorizonDays = 0
	_, ok = r.HorizonEnd(now)
	assert.False(t, ok)

	start := now.Add(48 * time.Hour)
	assert.True(t, r.CanCancel(start, now))
	assert.True(t, r.CanCancel(start, start.Add(-24*time.Hour)))
	assert.False(t, r.CanCancel(start, start.Add(-23*time.Hour)))
}

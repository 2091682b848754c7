package scheduling

import (
	"time"

	"salon-booking/internal/domain/validation"
)

type BookingRules struct {
	SlotGranularityMinutes    int
	LeadTimeMinutes           int
	// HorizonDays of 0 leaves the booking horizon unlimited.
	HorizonDays               int
	BufferBetweenMinutes      int
	AllowMultipleServices     bool
	RequireDeposit            bool
	CancellationDeadlineHours int
}

func DefaultBookingRules() BookingRules {
	return BookingRules{
		SlotGranularityMinutes:    15,
		LeadTimeMinutes:           60,
		HorizonDays:               90,
		BufferBetweenMinutes:      0,
		AllowMultipleServices:     true,
		RequireDeposit:            false,
		CancellationDeadlineHours: 24,
	}
}

func (r BookingRules) Validate() validation.Result {
	res := validation.NewResult()
	if r.SlotGranularityMinutes <= 0 {
		res.Addf("slot granularity must be positive, got %d", r.SlotGranularityMinutes)
	}
	if r.LeadTimeMinutes < 0 {
		res.Addf("lead time cannot be negative, got %d", r.LeadTimeMinutes)
	}
	if r.HorizonDays < 0 {
		res.Addf("booking horizon cannot be negative, got %d", r.HorizonDays)
	}
	if r.BufferBetweenMinutes < 0 {
		res.Addf("buffer between appointments cannot be negative, got %d", r.BufferBetweenMinutes)
	}
	if r.CancellationDeadlineHours < 0 {
		res.Addf("cancellation deadline cannot be negative, got %d", r.CancellationDeadlineHours)
	}
	return res
}

func (r BookingRules) Granularity() time.Duration {
	return time.Duration(r.SlotGranularityMinutes) * time.Minute
}

func (r BookingRules) LeadTime() time.Duration {
	return time.Duration(r.LeadTimeMinutes) * time.Minute
}

func (r BookingRules) Buffer() time.Duration {
	return time.Duration(r.BufferBetweenMinutes) * time.Minute
}

// HorizonEnd is the latest bookable start relative to now; ok is false when unlimited.
func (r BookingRules) HorizonEnd(now time.Time) (time.Time, bool) {
	if r.HorizonDays <= 0 {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, r.HorizonDays), true
}

// CanCancel reports whether an appointment starting at start may still be cancelled at now.
func (r BookingRules) CanCancel(start, now time.Time) bool {
	deadline := start.Add(-time.Duration(r.CancellationDeadlineHours) * time.Hour)
	return !now.After(deadline)
}

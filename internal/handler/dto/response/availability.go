package response

import (
	"time"

	"salon-booking/internal/domain/reservation"
	"salon-booking/internal/domain/slot"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`
	PriceCents      int64     `json:"priceCents"`
}

type SlotResponse struct {
	SlotKey              string            `json:"slotKey"`
	StaffID              uuid.UUID         `json:"staffId"`
	StaffName            string            `json:"staffName"`
	Start                time.Time         `json:"start"`
	End                  time.Time         `json:"end"`
	TotalDurationMinutes int               `json:"totalDurationMinutes"`
	TotalPriceCents      int64             `json:"totalPriceCents"`
	Services             []ServiceResponse `json:"services"`
}

type DayResponse struct {
	Date  string         `json:"date"`
	Slots []SlotResponse `json:"slots"`
}

type AvailabilityResponse struct {
	TimeZone string        `json:"timeZone"`
	Count    int           `json:"count"`
	Days     []DayResponse `json:"days"`
}

func FromAvailabilityView(v *queries.AvailabilityView) (*AvailabilityResponse, error) {
	loc, err := time.LoadLocation(v.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	resp := &AvailabilityResponse{
		TimeZone: v.TimeZone,
		Count:    len(v.Slots),
		Days:     make([]DayResponse, 0, len(v.Days)),
	}
	for _, d := range v.Days {
		day := DayResponse{Date: d.Date, Slots: make([]SlotResponse, 0, len(d.Slots))}
		for _, s := range d.Slots {
			out, err := FromSlot(s, loc)
			if err != nil {
				return nil, err
			}
			day.Slots = append(day.Slots, out)
		}
		resp.Days = append(resp.Days, day)
	}
	return resp, nil
}

// FromSlot renders instants in the salon location.
func FromSlot(s slot.AvailableSlot, loc *time.Location) (SlotResponse, error) {
	var out SlotResponse
	if err := copier.Copy(&out, &s); err != nil {
		return SlotResponse{}, errs.Wrap(err, "failed to map slot")
	}
	out.SlotKey = reservation.GenerateSlotKey(s.StaffID, s.Start, s.End)
	out.Start = s.Start.In(loc)
	out.End = s.End.In(loc)
	if out.Services == nil {
		out.Services = []ServiceResponse{}
	}
	return out, nil
}

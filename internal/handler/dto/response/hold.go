package response

import (
	"time"

	"salon-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type HoldResponse struct {
	SlotKey          string      `json:"slotKey"`
	ReservationID    uuid.UUID   `json:"reservationId"`
	StaffID          uuid.UUID   `json:"staffId"`
	StaffName        string      `json:"staffName,omitempty"`
	Start            time.Time   `json:"start"`
	End              time.Time   `json:"end"`
	ServiceIDs       []uuid.UUID `json:"serviceIds"`
	TotalPriceCents  int64       `json:"totalPriceCents,omitempty"`
	ExpiresAt        time.Time   `json:"expiresAt"`
	RemainingSeconds int         `json:"remainingSeconds"`
	Remaining        string      `json:"remaining"`
}

type ConfirmResponse struct {
	AppointmentID   uuid.UUID `json:"appointmentId"`
	SlotKey         string    `json:"slotKey"`
	StaffID         uuid.UUID `json:"staffId"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	TotalPriceCents int64     `json:"totalPriceCents"`
}

func FromHoldView(v *commands.HoldView) *HoldResponse {
	r := v.Reservation
	return &HoldResponse{
		SlotKey:          r.SlotKey,
		ReservationID:    r.ID,
		StaffID:          r.StaffID,
		StaffName:        v.StaffName,
		Start:            r.Start,
		End:              r.End,
		ServiceIDs:       r.ServiceIDs,
		TotalPriceCents:  v.TotalPriceCents,
		ExpiresAt:        r.ExpiresAt,
		RemainingSeconds: v.RemainingSeconds,
		Remaining:        v.Remaining,
	}
}

func FromConfirmResult(res *commands.ConfirmResult) *ConfirmResponse {
	return &ConfirmResponse{
		AppointmentID:   res.AppointmentID,
		SlotKey:         res.Reservation.SlotKey,
		StaffID:         res.Reservation.StaffID,
		Start:           res.Reservation.Start,
		End:             res.Reservation.End,
		TotalPriceCents: res.TotalPriceCents,
	}
}

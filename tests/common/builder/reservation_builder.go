//go:build unit || e2e

package builder

import (
	"time"

	"salon-booking/internal/domain/reservation"
	reqdto "salon-booking/internal/handler/dto/request"
	"salon-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID         uuid.UUID
	StaffID    uuid.UUID
	Start      time.Time
	End        time.Time
	ServiceIDs []uuid.UUID
	CustomerID *uuid.UUID
	SessionID  string
	CreatedAt  time.Time
	Timeout    time.Duration
}

// NewReservationBuilder holds Anna's 10:00 cut on ReferenceDay, created at 08:00.
func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		ID:         uuid.New(),
		StaffID:    StaffAnnaID,
		Start:      At(0, "10:00"),
		End:        At(0, "10:30"),
		ServiceIDs: []uuid.UUID{ServiceCutID},
		SessionID:  "session-a",
		CreatedAt:  At(0, "08:00"),
		Timeout:    reservation.DefaultTimeout,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) Build() reservation.Reservation {
	return reservation.Reservation{
		ID:         b.ID,
		SlotKey:    reservation.GenerateSlotKey(b.StaffID, b.Start, b.End),
		StaffID:    b.StaffID,
		Start:      b.Start,
		End:        b.End,
		ServiceIDs: append([]uuid.UUID{}, b.ServiceIDs...),
		CustomerID: b.CustomerID,
		SessionID:  b.SessionID,
		ExpiresAt:  b.CreatedAt.Add(b.Timeout),
		CreatedAt:  b.CreatedAt,
	}
}

func (b *ReservationBuilder) BuildPtr() *reservation.Reservation {
	r := b.Build()
	return &r
}

func (b *ReservationBuilder) BuildHoldRequest() commands.HoldRequest {
	return commands.HoldRequest{
		SessionID:  b.SessionID,
		StaffID:    b.StaffID,
		Start:      b.Start,
		End:        b.End,
		ServiceIDs: append([]uuid.UUID{}, b.ServiceIDs...),
		CustomerID: b.CustomerID,
	}
}

func (b *ReservationBuilder) BuildHoldView(now time.Time) *commands.HoldView {
	r := b.Build()
	remaining := max(int(r.ExpiresAt.Sub(now)/time.Second), 0)
	return &commands.HoldView{
		Reservation:      r,
		StaffName:        "Anna",
		TotalPriceCents:  5000,
		RemainingSeconds: remaining,
		Remaining:        reservation.FormatRemaining(remaining),
	}
}

func (b *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateHoldRequest {
	return reqdto.CreateHoldRequest{
		StaffID:    b.StaffID,
		Start:      b.Start,
		End:        b.End,
		ServiceIDs: append([]uuid.UUID{}, b.ServiceIDs...),
	}
}

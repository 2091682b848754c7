package slot

import (
	"time"

	"salon-booking/internal/domain/scheduling"

	"github.com/google/uuid"
)

// Request asks for slots on every calendar day from From to To inclusive.
type Request struct {
	From             time.Time
	To               time.Time
	ServiceIDs       []uuid.UUID
	PreferredStaffID *uuid.UUID
}

type AvailableSlot struct {
	StaffID              uuid.UUID
	StaffName            string
	Start                time.Time
	End                  time.Time
	TotalDurationMinutes int
	TotalPriceCents      int64
	Services             []scheduling.Service
}

func (s AvailableSlot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

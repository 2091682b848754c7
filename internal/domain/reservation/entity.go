package reservation

import (
	"fmt"
	"time"

	"salon-booking/internal/domain/interval"

	"github.com/google/uuid"
)

// Reservation is a time-boxed claim by one session on a single slot key.
type Reservation struct {
	ID         uuid.UUID
	SlotKey    string
	StaffID    uuid.UUID
	Start      time.Time
	End        time.Time
	ServiceIDs []uuid.UUID
	CustomerID *uuid.UUID
	SessionID  string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

type CreateParams struct {
	StaffID    uuid.UUID
	Start      time.Time
	End        time.Time
	ServiceIDs []uuid.UUID
	CustomerID *uuid.UUID
	SessionID  string
}

// GenerateSlotKey is deterministic for the same staff member and instants,
// whatever location the instants carry.
func GenerateSlotKey(staffID uuid.UUID, start, end time.Time) string {
	return fmt.Sprintf("%s_%s_%s",
		staffID,
		start.UTC().Format(time.RFC3339),
		end.UTC().Format(time.RFC3339),
	)
}

func (r Reservation) Interval() interval.Interval {
	return interval.Interval{Start: r.Start, End: r.End}
}

func (r Reservation) OwnedBy(sessionID string) bool {
	return r.SessionID == sessionID
}

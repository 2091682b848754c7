package shared

import (
	"context"
	"time"

	"salon-booking/internal/domain/coupon"
	"salon-booking/internal/domain/scheduling"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Serializable transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, reads CommandReads) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Appointments() AppointmentRepository
	Reads() CommandReads
}

type CommandReads interface {
	ScheduleSnapshot(ctx context.Context, q SnapshotQuery) (*scheduling.Snapshot, error)
	BookingRules(ctx context.Context) (scheduling.BookingRules, error)
	CouponByCode(ctx context.Context, code string) (*coupon.Coupon, error)
}

// SnapshotQuery bounds the time-dependent parts of a snapshot (absences,
// blocked times, appointments) to [From, To).
type SnapshotQuery struct {
	From time.Time
	To   time.Time
}

type NewAppointment struct {
	StaffID         uuid.UUID
	Start           time.Time
	End             time.Time
	ServiceIDs      []uuid.UUID
	TotalPriceCents int64
	CustomerID      *uuid.UUID
	CustomerName    string
	CustomerEmail   string
	SessionID       string
	ReservationID   uuid.UUID
}

type AppointmentRepository interface {
	// HasOverlap reports a blocking appointment on staffID overlapping [start, end),
	// with buffer added to the existing appointment's end.
	HasOverlap(ctx context.Context, staffID uuid.UUID, start, end time.Time, buffer time.Duration) (bool, error)
	Create(ctx context.Context, a NewAppointment) (uuid.UUID, error)
	// FindForSession returns nil without error when sessionID does not own id.
	FindForSession(ctx context.Context, id uuid.UUID, sessionID string) (*scheduling.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

package reservation

import (
	"fmt"
	"time"

	"salon-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

const DefaultTimeout = 10 * time.Minute

type Manager struct {
	clock   clock.Clock
	timeout time.Duration
}

func NewManager(clock clock.Clock, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{clock: clock, timeout: timeout}
}

func (m *Manager) Timeout() time.Duration {
	return m.timeout
}

// Create stamps a new hold. Expiry is fixed at creation and never extended.
func (m *Manager) Create(p CreateParams) (Reservation, error) {
	if !p.Start.Before(p.End) {
		return Reservation{}, ErrInvalidSlot
	}
	if p.SessionID == "" {
		return Reservation{}, ErrSessionRequired
	}
	now := m.clock.Now()
	return Reservation{
		ID:         uuid.New(),
		SlotKey:    GenerateSlotKey(p.StaffID, p.Start, p.End),
		StaffID:    p.StaffID,
		Start:      p.Start,
		End:        p.End,
		ServiceIDs: append([]uuid.UUID(nil), p.ServiceIDs...),
		CustomerID: p.CustomerID,
		SessionID:  p.SessionID,
		ExpiresAt:  now.Add(m.timeout),
		CreatedAt:  now,
	}, nil
}

func (m *Manager) IsValid(r Reservation) bool {
	return m.clock.Now().Before(r.ExpiresAt)
}

// HasConflicting reports whether a session other than currentSessionID holds a
// still-valid reservation on slotKey.
func (m *Manager) HasConflicting(slotKey string, existing []Reservation, currentSessionID string) bool {
	for _, r := range existing {
		if r.SlotKey == slotKey && r.SessionID != currentSessionID && m.IsValid(r) {
			return true
		}
	}
	return false
}

// Validate is the checkpoint before a hold is turned into an appointment.
// Every failure matches ErrReservationExpired.
func (m *Manager) Validate(r *Reservation, sessionID string) error {
	switch {
	case r == nil:
		return newExpired(ReasonMissing, "Your reservation could not be found. Please select a time slot again.")
	case !r.OwnedBy(sessionID):
		return newExpired(ReasonForeignSession, "This time slot is reserved by another customer. Please select a different time slot.")
	case !m.IsValid(*r):
		return newExpired(ReasonTimedOut, fmt.Sprintf("Your reservation expired %s ago. Please select a time slot again.",
			m.clock.Now().Sub(r.ExpiresAt).Truncate(time.Second)))
	}
	return nil
}

// RemainingSeconds is never negative.
func (m *Manager) RemainingSeconds(r Reservation) int {
	left := r.ExpiresAt.Sub(m.clock.Now())
	if left <= 0 {
		return 0
	}
	return int(left / time.Second)
}

// FormatRemaining renders seconds as M:SS.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

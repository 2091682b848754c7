//go:build unit

package reservation_test

import (
	"errors"
	"testing"
	"time"

	"salon-booking/internal/domain/reservation"
	"salon-booking/internal/pkg/clock"
	"salon-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(now time.Time) (*reservation.Manager, *clock.MockClock) {
	clk := clock.NewMockClock(now)
	return reservation.NewManager(clk, 0), clk
}

func TestGenerateSlotKey(t *testing.T) {
	staffID := uuid.MustParse("22222222-2222-4222-8222-000000000001")
	start := time.Date(2025, 10, 20, 10, 0, 0, 0, builder.SalonLocation())
	end := start.Add(30 * time.Minute)

	key := reservation.GenerateSlotKey(staffID, start, end)
	assert.Equal(t, "22222222-2222-4222-8222-000000000001_2025-10-20T08:00:00Z_2025-10-20T08:30:00Z", key)
	assert.Equal(t, key, reservation.GenerateSlotKey(staffID, start.UTC(), end.UTC()), "location must not change the key")
	assert.NotEqual(t, key, reservation.GenerateSlotKey(uuid.New(), start, end))
}

func TestCreate(t *testing.T) {
	created := builder.At(0, "08:00")
	m, _ := newManager(created)

	t.Run("basic success case", func(t *testing.T) {
		r, err := m.Create(reservation.CreateParams{
			StaffID:    builder.StaffAnnaID,
			Start:      builder.At(0, "10:00"),
			End:        builder.At(0, "10:30"),
			ServiceIDs: []uuid.UUID{builder.ServiceCutID},
			SessionID:  "session-a",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, r.ID)
		assert.Equal(t, created, r.CreatedAt)
		assert.Equal(t, created.Add(10*time.Minute), r.ExpiresAt)
		assert.Equal(t, reservation.GenerateSlotKey(builder.StaffAnnaID, r.Start, r.End), r.SlotKey)
		assert.Equal(t, 10*time.Minute, m.Timeout())
	})

	t.Run("rejects empty slot", func(t *testing.T) {
		_, err := m.Create(reservation.CreateParams{
			StaffID: builder.StaffAnnaID, Start: builder.At(0, "10:00"), End: builder.At(0, "10:00"), SessionID: "s",
		})
		require.ErrorIs(t, err, reservation.ErrInvalidSlot)
	})

	t.Run("rejects missing session", func(t *testing.T) {
		_, err := m.Create(reservation.CreateParams{
			StaffID: builder.StaffAnnaID, Start: builder.At(0, "10:00"), End: builder.At(0, "10:30"),
		})
		require.ErrorIs(t, err, reservation.ErrSessionRequired)
	})

	t.Run("custom timeout", func(t *testing.T) {
		custom := reservation.NewManager(clock.NewMockClock(created), 5*time.Minute)
		r, err := custom.Create(reservation.CreateParams{
			StaffID: builder.StaffAnnaID, Start: builder.At(0, "10:00"), End: builder.At(0, "10:30"), SessionID: "s",
		})
		require.NoError(t, err)
		assert.Equal(t, created.Add(5*time.Minute), r.ExpiresAt)
	})
}

func TestValidity(t *testing.T) {
	r := builder.NewReservationBuilder().Build()
	m, clk := newManager(r.CreatedAt)

	assert.True(t, m.IsValid(r))
	assert.Equal(t, 600, m.RemainingSeconds(r))

	clk.Set(r.ExpiresAt.Add(-time.Second))
	assert.True(t, m.IsValid(r))
	assert.Equal(t, 1, m.RemainingSeconds(r))

	clk.Set(r.ExpiresAt)
	assert.False(t, m.IsValid(r), "expiry instant is already invalid")
	assert.Equal(t, 0, m.RemainingSeconds(r))

	clk.Add(time.Hour)
	assert.Equal(t, 0, m.RemainingSeconds(r), "never negative")
}

func TestHasConflicting(t *testing.T) {
	mine := builder.NewReservationBuilder().Build()
	theirs := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) { b.SessionID = "session-b" }).Build()
	m, clk := newManager(mine.CreatedAt.Add(time.Minute))

	assert.False(t, m.HasConflicting(mine.SlotKey, []reservation.Reservation{mine}, "session-a"), "own hold never conflicts")
	assert.True(t, m.HasConflicting(theirs.SlotKey, []reservation.Reservation{theirs}, "session-a"))
	assert.False(t, m.HasConflicting("other-key", []reservation.Reservation{theirs}, "session-a"))
	assert.False(t, m.HasConflicting(theirs.SlotKey, nil, "session-a"))

	clk.Set(theirs.ExpiresAt)
	assert.False(t, m.HasConflicting(theirs.SlotKey, []reservation.Reservation{theirs}, "session-a"), "expired holds do not conflict")
}

func TestValidate(t *testing.T) {
	r := builder.NewReservationBuilder().Build()

	cases := []struct {
		name       string
		r          *reservation.Reservation
		session    string
		now        time.Time
		wantReason reservation.Reason
		wantText   string
	}{
		{name: "missing", r: nil, session: "session-a", now: r.CreatedAt, wantReason: reservation.ReasonMissing, wantText: "could not be found"},
		{name: "foreign session", r: &r, session: "session-b", now: r.CreatedAt, wantReason: reservation.ReasonForeignSession, wantText: "another customer"},
		{name: "timed out", r: &r, session: "session-a", now: r.ExpiresAt.Add(90 * time.Second), wantReason: reservation.ReasonTimedOut, wantText: "1m30s ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newManager(tc.now)
			err := m.Validate(tc.r, tc.session)
			require.Error(t, err)
			require.ErrorIs(t, err, reservation.ErrReservationExpired)

			var expired *reservation.Error
			require.True(t, errors.As(err, &expired))
			assert.Equal(t, tc.wantReason, expired.Reason)
			assert.Equal(t, reservation.KindReservationExpired, expired.Kind())
			assert.Contains(t, err.Error(), tc.wantText)
		})
	}

	t.Run("valid hold", func(t *testing.T) {
		m, _ := newManager(r.CreatedAt.Add(5 * time.Minute))
		assert.NoError(t, m.Validate(&r, "session-a"))
	})
}

func TestFormatRemaining(t *testing.T) {
	cases := map[int]string{
		600: "10:00",
		599: "9:59",
		61:  "1:01",
		5:   "0:05",
		0:   "0:00",
		-3:  "0:00",
	}
	for in, want := range cases {
		assert.Equal(t, want, reservation.FormatRemaining(in))
	}
}

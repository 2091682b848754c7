//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"salon-booking/internal/domain/reservation"
	"salon-booking/internal/domain/scheduling"
	"salon-booking/internal/domain/slot"
	"salon-booking/internal/infra"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/commands"
	"salon-booking/internal/usecase/shared"
	"salon-booking/tests/common/builder"
	queriesmock "salon-booking/tests/mock/queries"
	sharedmock "salon-booking/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type holdFixture struct {
	clock        *clock.MockClock
	uow          *sharedmock.MockUnitOfWork
	tx           *sharedmock.MockTx
	reads        *sharedmock.MockCommandReads
	appointments *sharedmock.MockAppointmentRepository
	holds        *sharedmock.MockHoldStore
	availability *queriesmock.MockAvailabilityQueries
	uc           commands.HoldCommands
}

func newHoldFixture(t *testing.T) *holdFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &holdFixture{
		clock:        clock.NewMockClock(builder.At(0, "08:00")),
		uow:          sharedmock.NewMockUnitOfWork(ctrl),
		tx:           sharedmock.NewMockTx(ctrl),
		reads:        sharedmock.NewMockCommandReads(ctrl),
		appointments: sharedmock.NewMockAppointmentRepository(ctrl),
		holds:        sharedmock.NewMockHoldStore(ctrl),
		availability: queriesmock.NewMockAvailabilityQueries(ctrl),
	}
	f.uc = commands.NewHoldUseCase(
		f.uow,
		f.holds,
		f.availability,
		slot.NewEngine(f.clock),
		reservation.NewManager(f.clock, reservation.DefaultTimeout),
		f.clock,
		nil,
	)
	return f
}

func (f *holdFixture) expectSnapshot(snap *scheduling.Snapshot) {
	f.availability.EXPECT().SnapshotFor(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(snap, nil)
}

func (f *holdFixture) expectTx() {
	f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, f.tx)
		})
	f.tx.EXPECT().Reads().Return(f.reads).AnyTimes()
	f.tx.EXPECT().Appointments().Return(f.appointments).AnyTimes()
}

func TestHold(t *testing.T) {
	ctx := context.Background()
	req := builder.NewReservationBuilder().BuildHoldRequest()
	slotKey := reservation.GenerateSlotKey(req.StaffID, req.Start, req.End)

	t.Run("creates a hold on an offered slot", func(t *testing.T) {
		f := newHoldFixture(t)
		f.expectSnapshot(builder.NewScheduleBuilder().Build())
		f.holds.EXPECT().Get(gomock.Any(), slotKey).Return(nil, nil)
		f.holds.EXPECT().GetBySession(gomock.Any(), "session-a").Return(nil, nil)
		f.holds.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, r reservation.Reservation) (bool, error) {
				assert.Equal(t, slotKey, r.SlotKey)
				assert.Equal(t, "session-a", r.SessionID)
				assert.True(t, builder.At(0, "08:10").Equal(r.ExpiresAt))
				return true, nil
			})

		view, err := f.uc.Hold(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "Anna", view.StaffName)
		assert.Equal(t, int64(5000), view.TotalPriceCents)
		assert.Equal(t, 600, view.RemainingSeconds)
		assert.Equal(t, "10:00", view.Remaining)
	})

	t.Run("same session gets its existing hold back unchanged", func(t *testing.T) {
		f := newHoldFixture(t)
		existing := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
			b.CreatedAt = builder.At(0, "07:55")
		}).BuildPtr()
		f.expectSnapshot(builder.NewScheduleBuilder().Build())
		f.holds.EXPECT().Get(gomock.Any(), slotKey).Return(existing, nil)

		view, err := f.uc.Hold(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, view.Reservation.ID)
		assert.Equal(t, existing.ExpiresAt, view.Reservation.ExpiresAt)
		assert.Equal(t, 300, view.RemainingSeconds)
	})

	t.Run("slot held by another session", func(t *testing.T) {
		f := newHoldFixture(t)
		other := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
			b.SessionID = "session-b"
		}).BuildPtr()
		f.expectSnapshot(builder.NewScheduleBuilder().Build())
		f.holds.EXPECT().Get(gomock.Any(), slotKey).Return(other, nil)

		_, err := f.uc.Hold(ctx, req)
		require.ErrorIs(t, err, commands.ErrSlotHeld)
	})

	t.Run("timed out hold of another session is replaced", func(t *testing.T) {
		f := newHoldFixture(t)
		stale := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
			b.SessionID = "session-b"
			b.CreatedAt = builder.At(0, "07:30")
		}).BuildPtr()
		f.expectSnapshot(builder.NewScheduleBuilder().Build())
		gomock.InOrder(
			f.holds.EXPECT().Get(gomock.Any(), slotKey).Return(stale, nil),
			f.holds.EXPECT().Delete(gomock.Any(), *stale).Return(nil),
			f.holds.EXPECT().GetBySession(gomock.Any(), "session-a").Return(nil, nil),
			f.holds.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(true, nil),
		)

		_, err := f.uc.Hold(ctx, req)
		require.NoError(t, err)
	})

	t.Run("a session's previous hold is released", func(t *testing.T) {
		f := newHoldFixture(t)
		previous := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
			b.Start, b.End = builder.At(0, "14:00"), builder.At(0, "14:30")
		}).BuildPtr()
		f.expectSnapshot(builder.NewScheduleBuilder().Build())
		gomock.InOrder(
			f.holds.EXPECT().Get(gomock.Any(), slotKey).Return(nil, nil),
			f.holds.EXPECT().GetBySession(gomock.Any(), "session-a").Return(previous, nil),
			f.holds.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(true, nil),
			f.holds.EXPECT().Delete(gomock.Any(), *previous).Return(nil),
		)

		_, err := f.uc.Hold(ctx, req)
		require.NoError(t, err)
	})

	t.Run("previous hold survives a lost insert race", func(t *testing.T) {
		f := newHoldFixture(t)
		previous := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
			b.Start, b.End = builder.At(0, "14:00"), builder.At(0, "14:30")
		}).BuildPtr()
		f.expectSnapshot(builder.NewScheduleBuilder().Build())
		gomock.InOrder(
			f.holds.EXPECT().Get(gomock.Any(), slotKey).Return(nil, nil),
			f.holds.EXPECT().GetBySession(gomock.Any(), "session-a").Return(previous, nil),
			f.holds.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(false, nil),
		)
		f.holds.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

		_, err := f.uc.Hold(ctx, req)
		require.ErrorIs(t, err, commands.ErrSlotHeld)
	})

	t.Run("failing to release the previous hold keeps the new one", func(t *testing.T) {
		f := newHoldFixture(t)
		previous := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
			b.Start, b.End = builder.At(0, "14:00"), builder.At(0, "14:30")
		}).BuildPtr()
		f.expectSnapshot(builder.NewScheduleBuilder().Build())
		gomock.InOrder(
			f.holds.EXPECT().Get(gomock.Any(), slotKey).Return(nil, nil),
			f.holds.EXPECT().GetBySession(gomock.Any(), "session-a").Return(previous, nil),
			f.holds.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(true, nil),
			f.holds.EXPECT().Delete(gomock.Any(), *previous).Return(errors.New("redis down")),
		)

		view, err := f.uc.Hold(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, slotKey, view.Reservation.SlotKey)
	})

	t.Run("lost insert race", func(t *testing.T) {
		f := newHoldFixture(t)
		f.expectSnapshot(builder.NewScheduleBuilder().Build())
		f.holds.EXPECT().Get(gomock.Any(), slotKey).Return(nil, nil)
		f.holds.EXPECT().GetBySession(gomock.Any(), "session-a").Return(nil, nil)
		f.holds.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.uc.Hold(ctx, req)
		require.ErrorIs(t, err, commands.ErrSlotHeld)
	})

	t.Run("slot the engine does not offer", func(t *testing.T) {
		f := newHoldFixture(t)
		f.expectSnapshot(builder.NewScheduleBuilder().
			WithAppointment(builder.StaffAnnaID, builder.At(0, "10:00"), builder.At(0, "10:30"), scheduling.AppointmentConfirmed).
			Build())

		_, err := f.uc.Hold(ctx, req)
		require.ErrorIs(t, err, commands.ErrSlotUnavailable)
	})

	t.Run("end that does not match the services", func(t *testing.T) {
		f := newHoldFixture(t)
		f.expectSnapshot(builder.NewScheduleBuilder().Build())
		longer := req
		longer.End = builder.At(0, "11:00")

		_, err := f.uc.Hold(ctx, longer)
		require.ErrorIs(t, err, commands.ErrSlotUnavailable)
	})

	t.Run("unknown service is a validation error", func(t *testing.T) {
		f := newHoldFixture(t)
		f.expectSnapshot(builder.NewScheduleBuilder().Build())
		unknown := req
		unknown.ServiceIDs = []uuid.UUID{uuid.New()}

		_, err := f.uc.Hold(ctx, unknown)
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("session is required", func(t *testing.T) {
		f := newHoldFixture(t)
		anonymous := req
		anonymous.SessionID = ""

		_, err := f.uc.Hold(ctx, anonymous)
		require.ErrorIs(t, err, reservation.ErrSessionRequired)
	})

	t.Run("store failure is marked as cache failure", func(t *testing.T) {
		f := newHoldFixture(t)
		f.expectSnapshot(builder.NewScheduleBuilder().Build())
		f.holds.EXPECT().Get(gomock.Any(), slotKey).Return(nil, errors.New("redis down"))

		_, err := f.uc.Hold(ctx, req)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrCacheOperationFailed))
	})
}

func TestGetHold(t *testing.T) {
	ctx := context.Background()
	r := builder.NewReservationBuilder().BuildPtr()

	t.Run("own valid hold", func(t *testing.T) {
		f := newHoldFixture(t)
		f.clock.Add(90 * time.Second)
		f.holds.EXPECT().Get(gomock.Any(), r.SlotKey).Return(r, nil)

		view, err := f.uc.Get(ctx, "session-a", r.SlotKey)
		require.NoError(t, err)
		assert.Equal(t, 510, view.RemainingSeconds)
		assert.Equal(t, "8:30", view.Remaining)
	})

	cases := []struct {
		name    string
		stored  *reservation.Reservation
		session string
		advance time.Duration
		reason  reservation.Reason
	}{
		{name: "missing", stored: nil, session: "session-a", reason: reservation.ReasonMissing},
		{name: "foreign session", stored: r, session: "session-b", reason: reservation.ReasonForeignSession},
		{name: "timed out", stored: r, session: "session-a", advance: 10 * time.Minute, reason: reservation.ReasonTimedOut},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newHoldFixture(t)
			f.clock.Add(tc.advance)
			f.holds.EXPECT().Get(gomock.Any(), r.SlotKey).Return(tc.stored, nil)

			_, err := f.uc.Get(ctx, tc.session, r.SlotKey)
			require.ErrorIs(t, err, reservation.ErrReservationExpired)
			var expired *reservation.Error
			require.ErrorAs(t, err, &expired)
			assert.Equal(t, tc.reason, expired.Reason)
		})
	}
}

func TestRelease(t *testing.T) {
	ctx := context.Background()
	r := builder.NewReservationBuilder().BuildPtr()

	t.Run("deletes own hold", func(t *testing.T) {
		f := newHoldFixture(t)
		f.holds.EXPECT().Get(gomock.Any(), r.SlotKey).Return(r, nil)
		f.holds.EXPECT().Delete(gomock.Any(), *r).Return(nil)

		require.NoError(t, f.uc.Release(ctx, "session-a", r.SlotKey))
	})

	t.Run("missing hold is a no-op", func(t *testing.T) {
		f := newHoldFixture(t)
		f.holds.EXPECT().Get(gomock.Any(), r.SlotKey).Return(nil, nil)

		require.NoError(t, f.uc.Release(ctx, "session-a", r.SlotKey))
	})

	t.Run("timed out hold is still cleaned up", func(t *testing.T) {
		f := newHoldFixture(t)
		f.clock.Add(11 * time.Minute)
		f.holds.EXPECT().Get(gomock.Any(), r.SlotKey).Return(r, nil)
		f.holds.EXPECT().Delete(gomock.Any(), *r).Return(nil)

		require.NoError(t, f.uc.Release(ctx, "session-a", r.SlotKey))
	})

	t.Run("another session cannot release it", func(t *testing.T) {
		f := newHoldFixture(t)
		f.holds.EXPECT().Get(gomock.Any(), r.SlotKey).Return(r, nil)

		err := f.uc.Release(ctx, "session-b", r.SlotKey)
		require.ErrorIs(t, err, reservation.ErrReservationExpired)
	})
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	r := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
		b.CustomerID = &customerID
	}).BuildPtr()
	req := commands.ConfirmRequest{
		SessionID:     "session-a",
		SlotKey:       r.SlotKey,
		CustomerName:  "Mia Keller",
		CustomerEmail: "mia@example.com",
	}
	appointmentID := uuid.New()
	snap := builder.NewScheduleBuilder().WithRules(func(rules *scheduling.BookingRules) {
		rules.BufferBetweenMinutes = 10
	}).Build()

	t.Run("creates the appointment and drops the hold", func(t *testing.T) {
		f := newHoldFixture(t)
		f.holds.EXPECT().Get(gomock.Any(), r.SlotKey).Return(r, nil)
		f.expectTx()
		f.reads.EXPECT().ScheduleSnapshot(gomock.Any(), shared.SnapshotQuery{From: r.Start, To: r.End}).Return(snap, nil)
		f.appointments.EXPECT().HasOverlap(gomock.Any(), r.StaffID, r.Start, r.End, 10*time.Minute).Return(false, nil)
		f.appointments.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a shared.NewAppointment) (uuid.UUID, error) {
				assert.Equal(t, int64(5000), a.TotalPriceCents)
				assert.Equal(t, &customerID, a.CustomerID)
				assert.Equal(t, r.ID, a.ReservationID)
				assert.Equal(t, "Mia Keller", a.CustomerName)
				return appointmentID, nil
			})
		f.holds.EXPECT().Delete(gomock.Any(), *r).Return(nil)

		res, err := f.uc.Confirm(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, appointmentID, res.AppointmentID)
		assert.Equal(t, int64(5000), res.TotalPriceCents)
	})

	t.Run("failing hold cleanup does not fail the confirm", func(t *testing.T) {
		f := newHoldFixture(t)
		f.holds.EXPECT().Get(gomock.Any(), r.SlotKey).Return(r, nil)
		f.expectTx()
		f.reads.EXPECT().ScheduleSnapshot(gomock.Any(), gomock.Any()).Return(snap, nil)
		f.appointments.EXPECT().HasOverlap(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		f.appointments.EXPECT().Create(gomock.Any(), gomock.Any()).Return(appointmentID, nil)
		f.holds.EXPECT().Delete(gomock.Any(), *r).Return(errors.New("redis down"))

		_, err := f.uc.Confirm(ctx, req)
		require.NoError(t, err)
	})

	t.Run("expired hold never reaches the database", func(t *testing.T) {
		f := newHoldFixture(t)
		f.clock.Add(10*time.Minute + 30*time.Second)
		f.holds.EXPECT().Get(gomock.Any(), r.SlotKey).Return(r, nil)

		_, err := f.uc.Confirm(ctx, req)
		require.ErrorIs(t, err, reservation.ErrReservationExpired)
		assert.Contains(t, err.Error(), "30s ago")
	})

	t.Run("overlapping appointment", func(t *testing.T) {
		f := newHoldFixture(t)
		f.holds.EXPECT().Get(gomock.Any(), r.SlotKey).Return(r, nil)
		f.expectTx()
		f.reads.EXPECT().ScheduleSnapshot(gomock.Any(), gomock.Any()).Return(snap, nil)
		f.appointments.EXPECT().HasOverlap(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := f.uc.Confirm(ctx, req)
		require.ErrorIs(t, err, commands.ErrSlotUnavailable)
	})

	t.Run("exclusion constraint violation", func(t *testing.T) {
		f := newHoldFixture(t)
		f.holds.EXPECT().Get(gomock.Any(), r.SlotKey).Return(r, nil)
		f.expectTx()
		f.reads.EXPECT().ScheduleSnapshot(gomock.Any(), gomock.Any()).Return(snap, nil)
		f.appointments.EXPECT().HasOverlap(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		f.appointments.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(uuid.Nil, infra.RepositoryError{Kind: infra.KindConflict})

		_, err := f.uc.Confirm(ctx, req)
		require.ErrorIs(t, err, commands.ErrSlotUnavailable)
	})

	t.Run("service deactivated since the hold", func(t *testing.T) {
		f := newHoldFixture(t)
		retired := builder.NewScheduleBuilder().With(func(b *builder.ScheduleBuilder) {
			b.Services[0].IsActive = false
		}).Build()
		f.holds.EXPECT().Get(gomock.Any(), r.SlotKey).Return(r, nil)
		f.expectTx()
		f.reads.EXPECT().ScheduleSnapshot(gomock.Any(), gomock.Any()).Return(retired, nil)

		_, err := f.uc.Confirm(ctx, req)
		require.ErrorIs(t, err, commands.ErrServiceRemoved)
	})

	t.Run("database failure", func(t *testing.T) {
		f := newHoldFixture(t)
		f.holds.EXPECT().Get(gomock.Any(), r.SlotKey).Return(r, nil)
		f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

		_, err := f.uc.Confirm(ctx, req)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed))
	})
}

func TestCancelAppointment(t *testing.T) {
	ctx := context.Background()
	id := uuid.MustParse("66666666-6666-4666-8666-000000000001")
	rules := scheduling.BookingRules{SlotGranularityMinutes: 30, CancellationDeadlineHours: 24}
	appointmentAt := func(day int, hhmm string, status scheduling.AppointmentStatus) *scheduling.Appointment {
		start := builder.At(day, hhmm)
		return &scheduling.Appointment{ID: id, StaffID: builder.StaffAnnaID, Start: start, End: start.Add(30 * time.Minute), Status: status}
	}

	t.Run("cancels before the deadline", func(t *testing.T) {
		f := newHoldFixture(t)
		f.expectTx()
		f.appointments.EXPECT().FindForSession(gomock.Any(), id, "session-a").
			Return(appointmentAt(2, "10:00", scheduling.AppointmentConfirmed), nil)
		f.reads.EXPECT().BookingRules(gomock.Any()).Return(rules, nil)
		f.appointments.EXPECT().Cancel(gomock.Any(), id).Return(nil)

		require.NoError(t, f.uc.CancelAppointment(ctx, "session-a", id))
	})

	t.Run("exactly at the deadline is still allowed", func(t *testing.T) {
		f := newHoldFixture(t)
		f.expectTx()
		f.appointments.EXPECT().FindForSession(gomock.Any(), id, "session-a").
			Return(appointmentAt(1, "08:00", scheduling.AppointmentConfirmed), nil)
		f.reads.EXPECT().BookingRules(gomock.Any()).Return(rules, nil)
		f.appointments.EXPECT().Cancel(gomock.Any(), id).Return(nil)

		require.NoError(t, f.uc.CancelAppointment(ctx, "session-a", id))
	})

	t.Run("deadline passed", func(t *testing.T) {
		f := newHoldFixture(t)
		f.expectTx()
		f.appointments.EXPECT().FindForSession(gomock.Any(), id, "session-a").
			Return(appointmentAt(0, "18:00", scheduling.AppointmentConfirmed), nil)
		f.reads.EXPECT().BookingRules(gomock.Any()).Return(rules, nil)
		f.appointments.EXPECT().Cancel(gomock.Any(), gomock.Any()).Times(0)

		err := f.uc.CancelAppointment(ctx, "session-a", id)
		require.ErrorIs(t, err, commands.ErrCancellationClosed)
	})

	t.Run("already cancelled is a no-op", func(t *testing.T) {
		f := newHoldFixture(t)
		f.expectTx()
		f.appointments.EXPECT().FindForSession(gomock.Any(), id, "session-a").
			Return(appointmentAt(0, "18:00", scheduling.AppointmentCancelled), nil)

		require.NoError(t, f.uc.CancelAppointment(ctx, "session-a", id))
	})

	t.Run("appointment of another session", func(t *testing.T) {
		f := newHoldFixture(t)
		f.expectTx()
		f.appointments.EXPECT().FindForSession(gomock.Any(), id, "session-a").Return(nil, nil)

		err := f.uc.CancelAppointment(ctx, "session-a", id)
		require.ErrorIs(t, err, commands.ErrAppointmentNotFound)
	})

	t.Run("database failure is marked", func(t *testing.T) {
		f := newHoldFixture(t)
		f.expectTx()
		f.appointments.EXPECT().FindForSession(gomock.Any(), id, "session-a").Return(nil, errors.New("connection reset"))

		err := f.uc.CancelAppointment(ctx, "session-a", id)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed))
	})

	t.Run("session is required", func(t *testing.T) {
		f := newHoldFixture(t)
		err := f.uc.CancelAppointment(ctx, "", id)
		require.ErrorIs(t, err, reservation.ErrSessionRequired)
	})
}

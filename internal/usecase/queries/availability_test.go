//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"salon-booking/internal/domain/interval"
	"salon-booking/internal/domain/reservation"
	"salon-booking/internal/domain/scheduling"
	"salon-booking/internal/domain/slot"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/queries"
	"salon-booking/internal/usecase/shared"
	"salon-booking/tests/common/builder"
	sharedmock "salon-booking/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type availabilityFixture struct {
	uow   *sharedmock.MockUnitOfWork
	reads *sharedmock.MockCommandReads
	holds *sharedmock.MockHoldStore
	q     queries.AvailabilityQueries
}

func newAvailabilityFixture(t *testing.T) *availabilityFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	clk := clock.NewMockClock(builder.At(0, "08:00"))
	f := &availabilityFixture{
		uow:   sharedmock.NewMockUnitOfWork(ctrl),
		reads: sharedmock.NewMockCommandReads(ctrl),
		holds: sharedmock.NewMockHoldStore(ctrl),
	}
	f.q = queries.NewAvailabilityQueries(f.uow, f.holds, slot.NewEngine(clk), clk, builder.SalonLocation(), 31, nil)
	return f
}

func (f *availabilityFixture) expectSnapshot(snap *scheduling.Snapshot, wantFrom, wantTo time.Time) {
	f.uow.EXPECT().WithinReadOnly(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.CommandReads) error) error {
			return fn(ctx, f.reads)
		})
	f.reads.EXPECT().ScheduleSnapshot(gomock.Any(), shared.SnapshotQuery{From: wantFrom, To: wantTo}).Return(snap, nil)
}

func TestFindSlots(t *testing.T) {
	ctx := context.Background()
	day := builder.At(0, "00:00")
	nextDay := builder.At(1, "00:00")
	query := queries.AvailabilityQuery{
		From:       day,
		To:         day,
		ServiceIDs: []uuid.UUID{builder.ServiceCutID},
		SessionID:  "session-a",
	}

	t.Run("groups a free day", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.expectSnapshot(builder.NewScheduleBuilder().Build(), day, nextDay)
		f.holds.EXPECT().SweepExpired(gomock.Any(), builder.At(0, "08:00")).Return(int64(2), nil)
		f.holds.EXPECT().ListActive(gomock.Any(), interval.Interval{Start: day, End: nextDay}, builder.At(0, "08:00")).
			Return([]reservation.Reservation{}, nil)

		view, err := f.q.FindSlots(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, "Europe/Zurich", view.TimeZone)
		assert.Len(t, view.Slots, 16)
		require.Len(t, view.Days, 1)
		assert.Len(t, view.Days[0].Slots, 16)
	})

	t.Run("other sessions' holds block, the caller's own does not", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		own := builder.NewReservationBuilder().Build()
		foreign := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) {
			b.SessionID = "session-b"
			b.Start, b.End = builder.At(0, "11:00"), builder.At(0, "11:30")
		}).Build()
		f.expectSnapshot(builder.NewScheduleBuilder().Build(), day, nextDay)
		f.holds.EXPECT().SweepExpired(gomock.Any(), gomock.Any()).Return(int64(0), nil)
		f.holds.EXPECT().ListActive(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]reservation.Reservation{own, foreign}, nil)

		view, err := f.q.FindSlots(ctx, query)
		require.NoError(t, err)
		assert.Len(t, view.Slots, 15)
		_, ownFree := slot.Find(view.Slots, builder.StaffAnnaID, own.Start, own.End)
		assert.True(t, ownFree)
		_, foreignFree := slot.Find(view.Slots, builder.StaffAnnaID, foreign.Start, foreign.End)
		assert.False(t, foreignFree)
	})

	t.Run("anonymous callers see every hold", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.expectSnapshot(builder.NewScheduleBuilder().Build(), day, nextDay)
		f.holds.EXPECT().SweepExpired(gomock.Any(), gomock.Any()).Return(int64(0), nil)
		f.holds.EXPECT().ListActive(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]reservation.Reservation{builder.NewReservationBuilder().Build()}, nil)

		anonymous := query
		anonymous.SessionID = ""
		view, err := f.q.FindSlots(ctx, anonymous)
		require.NoError(t, err)
		assert.Len(t, view.Slots, 15)
	})

	t.Run("sweep failure is tolerated", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.expectSnapshot(builder.NewScheduleBuilder().Build(), day, nextDay)
		f.holds.EXPECT().SweepExpired(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("redis busy"))
		f.holds.EXPECT().ListActive(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		_, err := f.q.FindSlots(ctx, query)
		require.NoError(t, err)
	})

	t.Run("listing failure is a cache failure", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.expectSnapshot(builder.NewScheduleBuilder().Build(), day, nextDay)
		f.holds.EXPECT().SweepExpired(gomock.Any(), gomock.Any()).Return(int64(0), nil)
		f.holds.EXPECT().ListActive(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down"))

		_, err := f.q.FindSlots(ctx, query)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrCacheOperationFailed))
	})

	t.Run("snapshot failure is a database failure", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.uow.EXPECT().WithinReadOnly(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

		_, err := f.q.FindSlots(ctx, query)
		require.Error(t, err)
		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed))
	})

	cases := []struct {
		name string
		from time.Time
		to   time.Time
		want string
	}{
		{name: "missing start", to: day, want: "date range start and end are required"},
		{name: "range too long", from: day, to: builder.At(31, "00:00"), want: "date range must not exceed 31 days"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAvailabilityFixture(t)
			bad := query
			bad.From, bad.To = tc.from, tc.to

			_, err := f.q.FindSlots(ctx, bad)
			var verr *shared.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{tc.want}, verr.Errors)
		})
	}

	t.Run("reversed range is reported by the engine", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.expectSnapshot(builder.NewScheduleBuilder().Build(), nextDay, nextDay)
		f.holds.EXPECT().SweepExpired(gomock.Any(), gomock.Any()).Return(int64(0), nil)
		f.holds.EXPECT().ListActive(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		bad := query
		bad.From, bad.To = nextDay, day
		_, err := f.q.FindSlots(ctx, bad)
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Errors, "date range end must not be before its start")
	})
}

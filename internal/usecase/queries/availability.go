package queries

import (
	"context"
	"log/slog"
	"time"

	"salon-booking/internal/domain/interval"
	"salon-booking/internal/domain/reservation"
	"salon-booking/internal/domain/scheduling"
	"salon-booking/internal/domain/slot"
	"salon-booking/internal/domain/validation"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/pkg/metrics"
	"salon-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// AvailabilityQuery asks for every calendar day from From to To inclusive.
// SessionID, when set, excludes that session's own hold from the overlay.
type AvailabilityQuery struct {
	From             time.Time
	To               time.Time
	ServiceIDs       []uuid.UUID
	PreferredStaffID *uuid.UUID
	SessionID        string
}

type AvailabilityView struct {
	TimeZone string
	Slots    []slot.AvailableSlot
	Days     []slot.DaySlots
}

type AvailabilityQueries interface {
	FindSlots(ctx context.Context, q AvailabilityQuery) (*AvailabilityView, error)
	// SnapshotFor loads the snapshot for [from, to] with other sessions' holds
	// overlaid as reserved appointments.
	SnapshotFor(ctx context.Context, from, to time.Time, sessionID string) (*scheduling.Snapshot, error)
}

type availabilityQueriesImpl struct {
	uow          shared.UnitOfWork
	holds        shared.HoldStore
	engine       *slot.Engine
	clock        clock.Clock
	loc          *time.Location
	maxRangeDays int
	metrics      *metrics.BookingMetrics
}

func NewAvailabilityQueries(
	uow shared.UnitOfWork,
	holds shared.HoldStore,
	engine *slot.Engine,
	clk clock.Clock,
	loc *time.Location,
	maxRangeDays int,
	m *metrics.BookingMetrics,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		uow:          uow,
		holds:        holds,
		engine:       engine,
		clock:        clk,
		loc:          loc,
		maxRangeDays: maxRangeDays,
		metrics:      m,
	}
}

func (q *availabilityQueriesImpl) FindSlots(ctx context.Context, aq AvailabilityQuery) (*AvailabilityView, error) {
	started := time.Now()

	if res := q.checkRange(aq.From, aq.To); !res.Valid {
		q.metrics.ObserveSlotComputation("invalid", time.Since(started).Seconds(), 0)
		return nil, shared.NewValidationError(res)
	}

	snap, err := q.SnapshotFor(ctx, aq.From, aq.To, aq.SessionID)
	if err != nil {
		q.metrics.ObserveSlotComputation("error", time.Since(started).Seconds(), 0)
		return nil, err
	}

	slots, res := q.engine.ComputeAvailableSlots(slot.Request{
		From:             aq.From,
		To:               aq.To,
		ServiceIDs:       aq.ServiceIDs,
		PreferredStaffID: aq.PreferredStaffID,
	}, snap)
	if !res.Valid {
		q.metrics.ObserveSlotComputation("invalid", time.Since(started).Seconds(), 0)
		return nil, shared.NewValidationError(res)
	}

	q.metrics.ObserveSlotComputation("ok", time.Since(started).Seconds(), len(slots))
	return &AvailabilityView{
		TimeZone: snap.Location.String(),
		Slots:    slots,
		Days:     slot.GroupByDay(slots, snap.Location),
	}, nil
}

func (q *availabilityQueriesImpl) SnapshotFor(ctx context.Context, from, to time.Time, sessionID string) (*scheduling.Snapshot, error) {
	window := interval.Interval{
		Start: interval.StartOfDay(from, q.loc),
		End:   interval.StartOfDay(to, q.loc).AddDate(0, 0, 1),
	}

	var snap *scheduling.Snapshot
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, reads shared.CommandReads) error {
		s, err := reads.ScheduleSnapshot(ctx, shared.SnapshotQuery{From: window.Start, To: window.End})
		if err != nil {
			return err
		}
		snap = s
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	now := q.clock.Now()
	if swept, err := q.holds.SweepExpired(ctx, now); err != nil {
		slog.Warn("failed to sweep expired holds", "error", err.Error())
	} else {
		q.metrics.AddSwept(swept)
	}

	holds, err := q.holds.ListActive(ctx, window, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrCacheOperationFailed)
	}
	return snap.WithAppointments(heldAppointments(holds, sessionID)...), nil
}

func (q *availabilityQueriesImpl) checkRange(from, to time.Time) validation.Result {
	res := validation.NewResult()
	if from.IsZero() || to.IsZero() {
		res.Add("date range start and end are required")
		return res
	}
	if q.maxRangeDays > 0 && len(interval.Days(from, to, q.loc)) > q.maxRangeDays {
		res.Addf("date range must not exceed %d days", q.maxRangeDays)
	}
	return res
}

// heldAppointments turns other sessions' holds into reserved appointments.
func heldAppointments(holds []reservation.Reservation, sessionID string) []scheduling.Appointment {
	out := make([]scheduling.Appointment, 0, len(holds))
	for _, h := range holds {
		if sessionID != "" && h.OwnedBy(sessionID) {
			continue
		}
		out = append(out, scheduling.Appointment{
			ID:      h.ID,
			StaffID: h.StaffID,
			Start:   h.Start,
			End:     h.End,
			Status:  scheduling.AppointmentReserved,
		})
	}
	return out
}

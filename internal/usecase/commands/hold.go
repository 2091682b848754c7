package commands

import (
	"context"
	"log/slog"
	"time"

	"salon-booking/internal/domain/reservation"
	"salon-booking/internal/domain/scheduling"
	"salon-booking/internal/domain/slot"
	"salon-booking/internal/infra"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/pkg/metrics"
	"salon-booking/internal/usecase/queries"
	"salon-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrSlotUnavailable = errs.New("slot is not available")
	ErrSlotHeld        = errs.New("slot is held by another customer")
	ErrServiceRemoved  = errs.New("a held service is no longer offered")

	ErrAppointmentNotFound = errs.New("appointment not found")
	ErrCancellationClosed  = errs.New("cancellation deadline has passed")
)

type HoldRequest struct {
	SessionID  string
	StaffID    uuid.UUID
	Start      time.Time
	End        time.Time
	ServiceIDs []uuid.UUID
	CustomerID *uuid.UUID
}

type HoldView struct {
	Reservation      reservation.Reservation
	StaffName        string
	TotalPriceCents  int64
	RemainingSeconds int
	Remaining        string
}

type ConfirmRequest struct {
	SessionID     string
	SlotKey       string
	CustomerID    *uuid.UUID
	CustomerName  string
	CustomerEmail string
}

type ConfirmResult struct {
	AppointmentID   uuid.UUID
	Reservation     reservation.Reservation
	TotalPriceCents int64
}

type HoldCommands interface {
	Hold(ctx context.Context, req HoldRequest) (*HoldView, error)
	Get(ctx context.Context, sessionID, slotKey string) (*HoldView, error)
	Release(ctx context.Context, sessionID, slotKey string) error
	Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error)
	CancelAppointment(ctx context.Context, sessionID string, appointmentID uuid.UUID) error
}

type holdUseCaseImpl struct {
	uow          shared.UnitOfWork
	holds        shared.HoldStore
	availability queries.AvailabilityQueries
	engine       *slot.Engine
	manager      *reservation.Manager
	clock        clock.Clock
	metrics      *metrics.BookingMetrics
}

func NewHoldUseCase(
	uow shared.UnitOfWork,
	holds shared.HoldStore,
	availability queries.AvailabilityQueries,
	engine *slot.Engine,
	manager *reservation.Manager,
	clk clock.Clock,
	m *metrics.BookingMetrics,
) HoldCommands {
	return &holdUseCaseImpl{
		uow:          uow,
		holds:        holds,
		availability: availability,
		engine:       engine,
		manager:      manager,
		clock:        clk,
		metrics:      m,
	}
}

// Hold claims a slot the engine currently offers. Holding the same slot again
// from the same session returns the existing hold without extending it. A
// session holds at most one slot at a time; its earlier hold is released after
// the new one is stored.
func (uc *holdUseCaseImpl) Hold(ctx context.Context, req HoldRequest) (*HoldView, error) {
	if req.SessionID == "" {
		return nil, reservation.ErrSessionRequired
	}

	offered, err := uc.offeredSlot(ctx, req)
	if err != nil {
		uc.metrics.IncHold("rejected")
		return nil, err
	}

	slotKey := reservation.GenerateSlotKey(req.StaffID, offered.Start, offered.End)
	existing, err := uc.holds.Get(ctx, slotKey)
	if err != nil {
		uc.metrics.IncHold("error")
		return nil, errs.Mark(err, errs.ErrCacheOperationFailed)
	}
	if existing != nil {
		if uc.manager.HasConflicting(slotKey, []reservation.Reservation{*existing}, req.SessionID) {
			slog.Warn("hold rejected, slot held by another session", "slot_key", slotKey)
			uc.metrics.IncHold("conflict")
			return nil, ErrSlotHeld
		}
		if uc.manager.IsValid(*existing) {
			uc.metrics.IncHold("existing")
			return uc.view(*existing, offered), nil
		}
		if err := uc.holds.Delete(ctx, *existing); err != nil {
			return nil, errs.Mark(err, errs.ErrCacheOperationFailed)
		}
	}

	previous, err := uc.holds.GetBySession(ctx, req.SessionID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrCacheOperationFailed)
	}

	r, err := uc.manager.Create(reservation.CreateParams{
		StaffID:    req.StaffID,
		Start:      offered.Start,
		End:        offered.End,
		ServiceIDs: req.ServiceIDs,
		CustomerID: req.CustomerID,
		SessionID:  req.SessionID,
	})
	if err != nil {
		return nil, err
	}

	inserted, err := uc.holds.Insert(ctx, r)
	if err != nil {
		uc.metrics.IncHold("error")
		return nil, errs.Mark(err, errs.ErrCacheOperationFailed)
	}
	if !inserted {
		slog.Warn("hold rejected, lost insert race", "slot_key", slotKey)
		uc.metrics.IncHold("conflict")
		return nil, ErrSlotHeld
	}

	// the previous hold is only given up once the new one is stored
	if previous != nil && previous.SlotKey != slotKey {
		if err := uc.holds.Delete(ctx, *previous); err != nil {
			slog.Warn("failed to release previous hold", "slot_key", previous.SlotKey, "error", err)
		}
	}

	uc.metrics.IncHold("created")
	return uc.view(r, offered), nil
}

func (uc *holdUseCaseImpl) offeredSlot(ctx context.Context, req HoldRequest) (slot.AvailableSlot, error) {
	snap, err := uc.availability.SnapshotFor(ctx, req.Start, req.Start, req.SessionID)
	if err != nil {
		return slot.AvailableSlot{}, err
	}

	staffID := req.StaffID
	slots, res := uc.engine.ComputeAvailableSlots(slot.Request{
		From:             req.Start,
		To:               req.Start,
		ServiceIDs:       req.ServiceIDs,
		PreferredStaffID: &staffID,
	}, snap)
	if !res.Valid {
		return slot.AvailableSlot{}, shared.NewValidationError(res)
	}

	offered, ok := slot.Find(slots, req.StaffID, req.Start, req.End)
	if !ok {
		slog.Warn("hold rejected, slot not offered",
			"staff_id", req.StaffID.String(),
			"start", req.Start.Format(time.RFC3339))
		return slot.AvailableSlot{}, ErrSlotUnavailable
	}
	return offered, nil
}

func (uc *holdUseCaseImpl) Get(ctx context.Context, sessionID, slotKey string) (*HoldView, error) {
	r, err := uc.holds.Get(ctx, slotKey)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrCacheOperationFailed)
	}
	if err := uc.manager.Validate(r, sessionID); err != nil {
		return nil, err
	}
	return uc.view(*r, slot.AvailableSlot{}), nil
}

// Release is idempotent: a missing or timed-out hold is not an error, a hold
// owned by another session is.
func (uc *holdUseCaseImpl) Release(ctx context.Context, sessionID, slotKey string) error {
	r, err := uc.holds.Get(ctx, slotKey)
	if err != nil {
		return errs.Mark(err, errs.ErrCacheOperationFailed)
	}
	if r == nil {
		return nil
	}
	if err := uc.manager.Validate(r, sessionID); err != nil {
		var expired *reservation.Error
		if !errs.As(err, &expired) || expired.Reason != reservation.ReasonTimedOut {
			return err
		}
	}
	if err := uc.holds.Delete(ctx, *r); err != nil {
		return errs.Mark(err, errs.ErrCacheOperationFailed)
	}
	return nil
}

// Confirm turns a valid hold into an appointment. The hold is validated again
// inside the transaction so a hold that expires while waiting is rejected.
func (uc *holdUseCaseImpl) Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	r, err := uc.holds.Get(ctx, req.SlotKey)
	if err != nil {
		uc.metrics.IncConfirm("error")
		return nil, errs.Mark(err, errs.ErrCacheOperationFailed)
	}
	if err := uc.manager.Validate(r, req.SessionID); err != nil {
		slog.Warn("confirm rejected", "slot_key", req.SlotKey, "reason", err.Error())
		uc.metrics.IncConfirm("expired")
		return nil, err
	}

	var result ConfirmResult
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := uc.manager.Validate(r, req.SessionID); err != nil {
			return err
		}

		snap, err := tx.Reads().ScheduleSnapshot(ctx, shared.SnapshotQuery{From: r.Start, To: r.End})
		if err != nil {
			return err
		}
		var price int64
		for _, id := range r.ServiceIDs {
			svc, ok := snap.ServiceByID(id)
			if !ok || !svc.IsActive {
				return ErrServiceRemoved
			}
			price += svc.PriceCents
		}

		overlap, err := tx.Appointments().HasOverlap(ctx, r.StaffID, r.Start, r.End, snap.Rules.Buffer())
		if err != nil {
			return err
		}
		if overlap {
			return ErrSlotUnavailable
		}

		id, err := tx.Appointments().Create(ctx, shared.NewAppointment{
			StaffID:         r.StaffID,
			Start:           r.Start,
			End:             r.End,
			ServiceIDs:      r.ServiceIDs,
			TotalPriceCents: price,
			CustomerID:      pickCustomer(req.CustomerID, r.CustomerID),
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			SessionID:       r.SessionID,
			ReservationID:   r.ID,
		})
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrSlotUnavailable
			}
			return err
		}

		result = ConfirmResult{AppointmentID: id, Reservation: *r, TotalPriceCents: price}
		return nil
	})
	if err != nil {
		switch {
		case errs.Is(err, reservation.ErrReservationExpired):
			uc.metrics.IncConfirm("expired")
			return nil, err
		case errs.Is(err, ErrSlotUnavailable), errs.Is(err, ErrServiceRemoved):
			slog.Warn("confirm rejected", "slot_key", req.SlotKey, "reason", err.Error())
			uc.metrics.IncConfirm("conflict")
			return nil, err
		default:
			slog.Error("confirm failed", "slot_key", req.SlotKey, "error", err.Error())
			uc.metrics.IncConfirm("error")
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}

	if err := uc.holds.Delete(ctx, *r); err != nil {
		slog.Warn("failed to delete confirmed hold", "slot_key", req.SlotKey, "error", err.Error())
	}
	uc.metrics.IncConfirm("confirmed")
	return &result, nil
}

// CancelAppointment cancels an appointment booked by sessionID while the
// salon's cancellation deadline allows it. Cancelling twice is not an error.
func (uc *holdUseCaseImpl) CancelAppointment(ctx context.Context, sessionID string, appointmentID uuid.UUID) error {
	if sessionID == "" {
		return reservation.ErrSessionRequired
	}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		a, err := tx.Appointments().FindForSession(ctx, appointmentID, sessionID)
		if err != nil {
			return err
		}
		if a == nil {
			return ErrAppointmentNotFound
		}
		if a.Status == scheduling.AppointmentCancelled {
			return nil
		}

		rules, err := tx.Reads().BookingRules(ctx)
		if err != nil {
			return err
		}
		if !rules.CanCancel(a.Start, uc.clock.Now()) {
			return ErrCancellationClosed
		}
		return tx.Appointments().Cancel(ctx, a.ID)
	})
	if err != nil {
		if errs.Is(err, ErrAppointmentNotFound) || errs.Is(err, ErrCancellationClosed) {
			slog.Warn("cancel rejected", "appointment_id", appointmentID.String(), "reason", err.Error())
			return err
		}
		slog.Error("cancel failed", "appointment_id", appointmentID.String(), "error", err.Error())
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (uc *holdUseCaseImpl) view(r reservation.Reservation, offered slot.AvailableSlot) *HoldView {
	remaining := uc.manager.RemainingSeconds(r)
	return &HoldView{
		Reservation:      r,
		StaffName:        offered.StaffName,
		TotalPriceCents:  offered.TotalPriceCents,
		RemainingSeconds: remaining,
		Remaining:        reservation.FormatRemaining(remaining),
	}
}

func pickCustomer(fromRequest, fromHold *uuid.UUID) *uuid.UUID {
	if fromRequest != nil {
		return fromRequest
	}
	return fromHold
}

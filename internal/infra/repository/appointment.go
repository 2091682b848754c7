package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"salon-booking/internal/domain/scheduling"
	"salon-booking/internal/infra"
	"salon-booking/internal/infra/db"
	"salon-booking/internal/usecase/shared"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const hasOverlapSQL = `SELECT EXISTS (
	SELECT 1 FROM appointments
	WHERE staff_id = $1
	  AND status <> 'cancelled'
	  AND start_at < $2
	  AND end_at + make_interval(mins => $3) > $4
)`

type AppointmentRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewAppointmentRepository(dbtx db.DBTX) *AppointmentRepository {
	return &AppointmentRepository{
		db:     dbtx,
		logger: slog.Default(),
	}
}

func (r *AppointmentRepository) HasOverlap(ctx context.Context, staffID uuid.UUID, start, end time.Time, buffer time.Duration) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, hasOverlapSQL, staffID, end, int(buffer/time.Minute), start).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to check appointment overlap", err)
	}
	return exists, nil
}

// Create inserts the appointment and its service lines. The exclusion
// constraint on (staff_id, tstzrange) surfaces as KindConflict.
func (r *AppointmentRepository) Create(ctx context.Context, a shared.NewAppointment) (uuid.UUID, error) {
	query, args, err := psql.
		Insert("appointments").
		Columns(
			"staff_id", "start_at", "end_at", "status", "total_price_cents",
			"customer_id", "customer_name", "customer_email", "session_id", "reservation_id",
		).
		Values(
			a.StaffID, a.Start, a.End, string(scheduling.AppointmentConfirmed), a.TotalPriceCents,
			a.CustomerID, a.CustomerName, a.CustomerEmail, a.SessionID, a.ReservationID,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build appointment insert", err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to create appointment", err)
	}

	if len(a.ServiceIDs) == 0 {
		return id, nil
	}

	lines := psql.Insert("appointment_services").Columns("appointment_id", "service_id", "position")
	for i, serviceID := range a.ServiceIDs {
		lines = lines.Values(id, serviceID, i)
	}
	query, args, err = lines.ToSql()
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build appointment services insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return uuid.Nil, infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to create appointment services", err)
	}

	return id, nil
}

func (r *AppointmentRepository) FindForSession(ctx context.Context, id uuid.UUID, sessionID string) (*scheduling.Appointment, error) {
	query, args, err := psql.
		Select("id", "staff_id", "start_at", "end_at", "status").
		From("appointments").
		Where(sq.Eq{"id": id, "session_id": sessionID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build appointment lookup", err)
	}

	var a scheduling.Appointment
	var status string
	err = r.db.QueryRow(ctx, query, args...).Scan(&a.ID, &a.StaffID, &a.Start, &a.End, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to find appointment", err)
	}
	a.Status = scheduling.AppointmentStatus(status)
	return &a, nil
}

func (r *AppointmentRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.
		Update("appointments").
		Set("status", string(scheduling.AppointmentCancelled)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build appointment cancel", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.ClassifyPgError(err), "failed to cancel appointment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "appointment to cancel not found", pgx.ErrNoRows)
	}
	return nil
}

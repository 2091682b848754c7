package readstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"salon-booking/internal/domain/interval"
	"salon-booking/internal/domain/scheduling"
	"salon-booking/internal/infra"
	"salon-booking/internal/infra/db"
	"salon-booking/internal/usecase/shared"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type ScheduleReadStore struct {
	db     db.DBTX
	loc    *time.Location
	logger *slog.Logger
}

func NewScheduleReadStore(dbtx db.DBTX, loc *time.Location) *ScheduleReadStore {
	return &ScheduleReadStore{
		db:     dbtx,
		loc:    loc,
		logger: slog.Default(),
	}
}

// LoadSnapshot reads every table the slot engine needs. Rules are read first
// so appointments ending within one buffer of q.From are still included.
func (s *ScheduleReadStore) LoadSnapshot(ctx context.Context, q shared.SnapshotQuery) (*scheduling.Snapshot, error) {
	snap := &scheduling.Snapshot{Location: s.loc}

	rules, err := s.LoadRules(ctx)
	if err != nil {
		return nil, err
	}
	snap.Rules = rules

	if snap.Services, err = s.services(ctx); err != nil {
		return nil, err
	}
	if snap.Staff, err = s.staff(ctx); err != nil {
		return nil, err
	}
	if snap.OpeningHours, err = s.openingHours(ctx); err != nil {
		return nil, err
	}
	if snap.WorkingHours, err = s.workingHours(ctx); err != nil {
		return nil, err
	}
	if snap.Absences, err = s.absences(ctx, q); err != nil {
		return nil, err
	}
	if snap.BlockedTimes, err = s.blockedTimes(ctx, q); err != nil {
		return nil, err
	}
	widened := shared.SnapshotQuery{From: q.From.Add(-rules.Buffer()), To: q.To}
	if snap.Appointments, err = s.appointments(ctx, widened); err != nil {
		return nil, err
	}

	return snap, nil
}

// LoadRules falls back to the default rules when the salon has not configured any.
func (s *ScheduleReadStore) LoadRules(ctx context.Context) (scheduling.BookingRules, error) {
	query, args, err := psql.
		Select(
			"slot_granularity_minutes",
			"lead_time_minutes",
			"horizon_days",
			"buffer_between_minutes",
			"allow_multiple_services",
			"require_deposit",
			"cancellation_deadline_hours",
		).
		From("booking_rules").
		Where(sq.Eq{"id": 1}).
		ToSql()
	if err != nil {
		return scheduling.BookingRules{}, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build booking rules query", err)
	}

	var r scheduling.BookingRules
	err = s.db.QueryRow(ctx, query, args...).Scan(
		&r.SlotGranularityMinutes,
		&r.LeadTimeMinutes,
		&r.HorizonDays,
		&r.BufferBetweenMinutes,
		&r.AllowMultipleServices,
		&r.RequireDeposit,
		&r.CancellationDeadlineHours,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return scheduling.DefaultBookingRules(), nil
	}
	if err != nil {
		return scheduling.BookingRules{}, infra.WrapRepoErr(s.logger, infra.ClassifyPgError(err), "failed to load booking rules", err)
	}
	return r, nil
}

func (s *ScheduleReadStore) services(ctx context.Context) ([]scheduling.Service, error) {
	query, args, err := psql.
		Select("id", "name", "duration_minutes", "price_cents", "category_id", "is_active").
		From("services").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build services query", err)
	}

	return collect(ctx, s, "services", query, args, func(row pgx.Rows) (scheduling.Service, error) {
		var svc scheduling.Service
		err := row.Scan(&svc.ID, &svc.Name, &svc.DurationMinutes, &svc.PriceCents, &svc.CategoryID, &svc.IsActive)
		return svc, err
	})
}

func (s *ScheduleReadStore) staff(ctx context.Context) ([]scheduling.Staff, error) {
	query, args, err := psql.
		Select("id", "display_name", "is_bookable").
		From("staff").
		OrderBy("sort_order", "display_name").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build staff query", err)
	}

	staff, err := collect(ctx, s, "staff", query, args, func(row pgx.Rows) (scheduling.Staff, error) {
		var st scheduling.Staff
		err := row.Scan(&st.ID, &st.DisplayName, &st.IsBookable)
		return st, err
	})
	if err != nil {
		return nil, err
	}

	skills, err := s.skills(ctx)
	if err != nil {
		return nil, err
	}
	for i := range staff {
		staff[i].ServiceIDs = skills[staff[i].ID]
	}
	return staff, nil
}

func (s *ScheduleReadStore) skills(ctx context.Context) (map[uuid.UUID][]uuid.UUID, error) {
	query, args, err := psql.
		Select("staff_id", "service_id").
		From("staff_services").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build staff skills query", err)
	}

	type skill struct{ staffID, serviceID uuid.UUID }
	rows, err := collect(ctx, s, "staff skills", query, args, func(row pgx.Rows) (skill, error) {
		var sk skill
		err := row.Scan(&sk.staffID, &sk.serviceID)
		return sk, err
	})
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID][]uuid.UUID, len(rows))
	for _, sk := range rows {
		out[sk.staffID] = append(out[sk.staffID], sk.serviceID)
	}
	return out, nil
}

func (s *ScheduleReadStore) openingHours(ctx context.Context) ([]scheduling.DayOpeningHours, error) {
	query, args, err := psql.
		Select("day_of_week", "to_char(open_time, 'HH24:MI')", "to_char(close_time, 'HH24:MI')", "is_closed").
		From("opening_hours").
		OrderBy("day_of_week").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build opening hours query", err)
	}

	return collect(ctx, s, "opening hours", query, args, func(row pgx.Rows) (scheduling.DayOpeningHours, error) {
		var (
			oh          scheduling.DayOpeningHours
			day         int
			open, close string
		)
		if err := row.Scan(&day, &open, &close, &oh.IsClosed); err != nil {
			return oh, err
		}
		oh.DayOfWeek = time.Weekday(day)
		return oh, parseWallClocks(&oh.Open, open, &oh.Close, close)
	})
}

func (s *ScheduleReadStore) workingHours(ctx context.Context) ([]scheduling.StaffWorkingHours, error) {
	query, args, err := psql.
		Select("staff_id", "day_of_week", "to_char(start_time, 'HH24:MI')", "to_char(end_time, 'HH24:MI')").
		From("staff_working_hours").
		OrderBy("staff_id", "day_of_week").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build working hours query", err)
	}

	return collect(ctx, s, "working hours", query, args, func(row pgx.Rows) (scheduling.StaffWorkingHours, error) {
		var (
			wh         scheduling.StaffWorkingHours
			day        int
			start, end string
		)
		if err := row.Scan(&wh.StaffID, &day, &start, &end); err != nil {
			return wh, err
		}
		wh.DayOfWeek = time.Weekday(day)
		return wh, parseWallClocks(&wh.Start, start, &wh.End, end)
	})
}

func (s *ScheduleReadStore) absences(ctx context.Context, q shared.SnapshotQuery) ([]scheduling.StaffAbsence, error) {
	query, args, err := psql.
		Select("staff_id", "start_at", "end_at", "COALESCE(reason, '')").
		From("staff_absences").
		Where(sq.Lt{"start_at": q.To}).
		Where(sq.GtOrEq{"end_at": q.From}).
		OrderBy("start_at").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build absences query", err)
	}

	return collect(ctx, s, "absences", query, args, func(row pgx.Rows) (scheduling.StaffAbsence, error) {
		var a scheduling.StaffAbsence
		err := row.Scan(&a.StaffID, &a.Start, &a.End, &a.Reason)
		return a, err
	})
}

func (s *ScheduleReadStore) blockedTimes(ctx context.Context, q shared.SnapshotQuery) ([]scheduling.BlockedTime, error) {
	query, args, err := psql.
		Select("id", "staff_id", "start_at", "end_at", "COALESCE(reason, '')").
		From("blocked_times").
		Where(sq.Lt{"start_at": q.To}).
		Where(sq.Gt{"end_at": q.From}).
		OrderBy("start_at").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build blocked times query", err)
	}

	return collect(ctx, s, "blocked times", query, args, func(row pgx.Rows) (scheduling.BlockedTime, error) {
		var b scheduling.BlockedTime
		err := row.Scan(&b.ID, &b.StaffID, &b.Start, &b.End, &b.Reason)
		return b, err
	})
}

func (s *ScheduleReadStore) appointments(ctx context.Context, q shared.SnapshotQuery) ([]scheduling.Appointment, error) {
	query, args, err := psql.
		Select("id", "staff_id", "start_at", "end_at", "status").
		From("appointments").
		Where(sq.NotEq{"status": string(scheduling.AppointmentCancelled)}).
		Where(sq.Lt{"start_at": q.To}).
		Where(sq.Gt{"end_at": q.From}).
		OrderBy("start_at").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to build appointments query", err)
	}

	return collect(ctx, s, "appointments", query, args, func(row pgx.Rows) (scheduling.Appointment, error) {
		var (
			a      scheduling.Appointment
			status string
		)
		err := row.Scan(&a.ID, &a.StaffID, &a.Start, &a.End, &status)
		a.Status = scheduling.AppointmentStatus(status)
		return a, err
	})
}

func collect[T any](ctx context.Context, s *ScheduleReadStore, what, query string, args []any, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.ClassifyPgError(err), "failed to query "+what, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindCorruptRecord, "failed to scan "+what, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.ClassifyPgError(err), "failed to iterate "+what, err)
	}
	return out, nil
}

func parseWallClocks(a *interval.WallClock, aText string, b *interval.WallClock, bText string) error {
	var err error
	if *a, err = interval.ParseWallClock(aText); err != nil {
		return err
	}
	*b, err = interval.ParseWallClock(bText)
	return err
}

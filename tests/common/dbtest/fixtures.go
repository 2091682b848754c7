//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"salon-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestAppointment(t *testing.T, db DBLike, staffID uuid.UUID, start, end time.Time, status string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.QueryRow(context.Background(),
		"INSERT INTO appointments (staff_id, start_at, end_at, status) VALUES ($1, $2, $3, $4) RETURNING id",
		staffID, start, end, status).Scan(&id)
	require.NoError(t, err)
	return id
}

func CountAppointments(t *testing.T, db DBLike, staffID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM appointments WHERE staff_id = $1 AND status <> 'cancelled'", staffID).Scan(&n)
	require.NoError(t, err)
	return n
}

func DeactivateService(t *testing.T, db DBLike, serviceID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(), "UPDATE services SET is_active = false WHERE id = $1", serviceID)
	require.NoError(t, err)
}

// inserts the salon used by tests: the schedule of builder.NewScheduleBuilder().WithBen()
// plus a few coupons
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	statements := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO services (id, name, duration_minutes, price_cents, is_active) VALUES
		    ($1, 'Cut', 30, 5000, true)`, []any{builder.ServiceCutID}},
		{`INSERT INTO staff (id, display_name, is_bookable, sort_order) VALUES
		    ($1, 'Anna', true, 1),
		    ($2, 'Ben', true, 2)`, []any{builder.StaffAnnaID, builder.StaffBenID}},
		{`INSERT INTO staff_services (staff_id, service_id) VALUES ($1, $3), ($2, $3)`,
			[]any{builder.StaffAnnaID, builder.StaffBenID, builder.ServiceCutID}},
		{`INSERT INTO opening_hours (day_of_week, open_time, close_time, is_closed)
		  SELECT d, '09:00', '18:00', d = 0 FROM generate_series(0, 6) AS d`, nil},
		{`INSERT INTO staff_working_hours (staff_id, day_of_week, start_time, end_time)
		  SELECT s, d, '09:00', '17:00' FROM unnest(ARRAY[$1::uuid, $2::uuid]) AS s, generate_series(1, 5) AS d`,
			[]any{builder.StaffAnnaID, builder.StaffBenID}},
		{`INSERT INTO booking_rules (id, slot_granularity_minutes, lead_time_minutes, horizon_days,
		    buffer_between_minutes, allow_multiple_services, require_deposit, cancellation_deadline_hours)
		  VALUES (1, 30, 0, 0, 0, true, false, 24)`, nil},
		{`INSERT INTO coupons (code, amount_off_cents, percent_off, is_active, valid_from, valid_to) VALUES
		    ('WELCOME10', NULL, 10, true, NULL, NULL),
		    ('FIVEOFF', 500, NULL, true, NULL, NULL),
		    ('SUMMER2020', 1000, NULL, true, '2020-06-01', '2020-08-31')`, nil},
	}
	for _, st := range statements {
		if _, err := pool.Exec(ctx, st.sql, st.args...); err != nil {
			return err
		}
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}

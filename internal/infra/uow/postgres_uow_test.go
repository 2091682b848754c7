//go:build unit

package uow

import (
	"context"
	"errors"
	"testing"
	"time"

	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/shared"
	"salon-booking/tests/common/builder"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serializable = pgx.TxOptions{IsoLevel: pgx.Serializable}

func newTestUoW(t *testing.T, maxRetries int) (*PostgresUoW, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	u := NewPostgresUoW(mock, builder.SalonLocation(), maxRetries)
	u.backoff = time.Millisecond
	return u, mock
}

func TestWithin(t *testing.T) {
	ctx := context.Background()

	t.Run("commits and routes queries through the transaction", func(t *testing.T) {
		u, mock := newTestUoW(t, 3)
		mock.ExpectBeginTx(serializable)
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectCommit()

		err := u.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			taken, err := tx.Appointments().HasOverlap(ctx, builder.StaffAnnaID, builder.At(0, "10:00"), builder.At(0, "10:30"), 0)
			require.NoError(t, err)
			assert.False(t, taken)
			assert.Same(t, tx.Appointments(), tx.Appointments())
			return nil
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and returns non-retryable errors", func(t *testing.T) {
		u, mock := newTestUoW(t, 3)
		mock.ExpectBeginTx(serializable)
		mock.ExpectRollback()

		boom := errors.New("boom")
		calls := 0
		err := u.Within(ctx, func(context.Context, shared.Tx) error {
			calls++
			return boom
		})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retries serialization failures", func(t *testing.T) {
		u, mock := newTestUoW(t, 3)
		mock.ExpectBeginTx(serializable)
		mock.ExpectRollback()
		mock.ExpectBeginTx(serializable)
		mock.ExpectCommit()

		calls := 0
		err := u.Within(ctx, func(context.Context, shared.Tx) error {
			calls++
			if calls == 1 {
				return &pgconn.PgError{Code: "40001"}
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		u, mock := newTestUoW(t, 1)
		for range 2 {
			mock.ExpectBeginTx(serializable)
			mock.ExpectRollback()
		}

		err := u.Within(ctx, func(context.Context, shared.Tx) error {
			return &pgconn.PgError{Code: "40P01"}
		})
		require.Error(t, err)
		assert.True(t, errs.Is(err, errMaxRetriesExceeded))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		u, mock := newTestUoW(t, 3)
		mock.ExpectBeginTx(serializable).WillReturnError(errors.New("pool closed"))

		err := u.Within(ctx, func(context.Context, shared.Tx) error { return nil })
		require.Error(t, err)
		assert.True(t, errs.Is(err, errTransactionBegin))
	})
}

func TestWithinReadOnly(t *testing.T) {
	u, mock := newTestUoW(t, 3)
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	mock.ExpectQuery("FROM booking_rules").WithArgs(1).WillReturnError(pgx.ErrNoRows)
	mock.ExpectCommit()

	err := u.WithinReadOnly(context.Background(), func(ctx context.Context, reads shared.CommandReads) error {
		rules, err := reads.BookingRules(ctx)
		if err != nil {
			return err
		}
		assert.Equal(t, 15, rules.SlotGranularityMinutes)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCalculateBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt := range 4 {
		wait := calculateBackoff(attempt, base)
		floor := time.Duration(1<<attempt) * base
		assert.GreaterOrEqual(t, wait, floor)
		assert.Less(t, wait, floor+floor/5+time.Nanosecond)
	}
	assert.Zero(t, cryptoRandInt63n(0))
}

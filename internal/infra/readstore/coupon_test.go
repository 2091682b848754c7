//go:build unit

package readstore_test

import (
	"context"
	"testing"
	"time"

	"salon-booking/internal/infra"
	"salon-booking/internal/infra/readstore"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var couponColumns = []string{"id", "code", "amount_off_cents", "percent_off", "is_active", "valid_from", "valid_to"}

func TestFindByCode(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("code is normalized before lookup", func(t *testing.T) {
		mock := newMock(t)
		percent := 10.0
		until := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("FROM coupons WHERE code = \\$1").
			WithArgs("WELCOME10").
			WillReturnRows(pgxmock.NewRows(couponColumns).
				AddRow(id, "WELCOME10", (*int64)(nil), &percent, true, (*time.Time)(nil), &until))

		c, err := readstore.NewCouponReadStore(mock).FindByCode(ctx, "  welcome10 ")
		require.NoError(t, err)
		assert.Equal(t, id, c.ID())
		assert.Equal(t, "WELCOME10", c.Code().String())
		assert.True(t, c.Discount().IsPercentage())
		assert.InDelta(t, 10.0, c.Discount().PercentOff(), 0.0001)
		require.NotNil(t, c.ValidTo())
		assert.True(t, until.Equal(*c.ValidTo()))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown code", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("FROM coupons").WithArgs("NOPE").WillReturnError(pgx.ErrNoRows)

		_, err := readstore.NewCouponReadStore(mock).FindByCode(ctx, "nope")
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("row with both discounts is corrupt", func(t *testing.T) {
		mock := newMock(t)
		amount := int64(500)
		percent := 10.0
		mock.ExpectQuery("FROM coupons").WithArgs("BROKEN").
			WillReturnRows(pgxmock.NewRows(couponColumns).
				AddRow(id, "BROKEN", &amount, &percent, true, (*time.Time)(nil), (*time.Time)(nil)))

		_, err := readstore.NewCouponReadStore(mock).FindByCode(ctx, "broken")
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindCorruptRecord))
	})
}

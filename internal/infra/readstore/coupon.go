package readstore

import (
	"context"
	"log/slog"
	"time"

	"salon-booking/internal/domain/cart"
	"salon-booking/internal/domain/coupon"
	"salon-booking/internal/infra"
	"salon-booking/internal/infra/db"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type CouponReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewCouponReadStore(dbtx db.DBTX) *CouponReadStore {
	return &CouponReadStore{
		db:     dbtx,
		logger: slog.Default(),
	}
}

func (r *CouponReadStore) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	query, args, err := psql.
		Select("id", "code", "amount_off_cents", "percent_off", "is_active", "valid_from", "valid_to").
		From("coupons").
		Where(sq.Eq{"code": cart.NormalizeCode(code)}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build coupon query", err)
	}

	var (
		id                 uuid.UUID
		storedCode         string
		amountOffCents     *int64
		percentOff         *float64
		active             bool
		validFrom, validTo *time.Time
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(&id, &storedCode, &amountOffCents, &percentOff, &active, &validFrom, &validTo)
	if err != nil {
		kind := infra.ClassifyPgError(err)
		if kind == infra.KindNotFound {
			return nil, infra.WrapRepoErr(r.logger, kind, "coupon not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, kind, "failed to find coupon by code", err)
	}

	c, err := coupon.NewCoupon(id, storedCode, amountOffCents, percentOff, active, validFrom, validTo)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindCorruptRecord, "stored coupon is invalid", err)
	}
	return c, nil
}

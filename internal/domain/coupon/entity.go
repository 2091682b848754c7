package coupon

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"salon-booking/internal/domain/cart"

	"github.com/google/uuid"
)

var (
	ErrCouponExpired     = errors.New("coupon has expired")
	ErrCouponNotYetValid = errors.New("coupon is not yet valid")
	ErrCouponInactive    = errors.New("coupon is not active")
)

type Coupon struct {
	id        uuid.UUID
	code      Code
	discount  Discount
	active    bool
	validFrom *time.Time
	validTo   *time.Time
}

func NewCoupon(
	id uuid.UUID,
	code string,
	amountOffCents *int64,
	percentOff *float64,
	active bool,
	validFrom, validTo *time.Time,
) (*Coupon, error) {
	couponCode, err := NewCouponCode(code)
	if err != nil {
		return nil, err
	}

	discount, err := NewDiscount(amountOffCents, percentOff)
	if err != nil {
		return nil, err
	}

	return &Coupon{
		id:        id,
		code:      couponCode,
		discount:  discount,
		active:    active,
		validFrom: validFrom,
		validTo:   validTo,
	}, nil
}

func (c *Coupon) IsValidAt(t time.Time) bool {
	if !c.active {
		return false
	}
	if c.validFrom != nil && t.Before(*c.validFrom) {
		return false
	}
	if c.validTo != nil && t.After(*c.validTo) {
		return false
	}
	return true
}

func (c *Coupon) ValidateUsage(t time.Time) error {
	if c.IsValidAt(t) {
		return nil
	}
	switch {
	case !c.active:
		return ErrCouponInactive
	case c.validFrom != nil && t.Before(*c.validFrom):
		return ErrCouponNotYetValid
	default:
		return ErrCouponExpired
	}
}

// ToCartDiscount converts the coupon into the code-keyed discount a cart carries.
func (c *Coupon) ToCartDiscount() cart.Discount {
	d := cart.Discount{
		Code:        c.code.String(),
		Description: c.discount.Describe(),
	}
	if c.discount.IsPercentage() {
		d.Type = cart.DiscountPercentage
		d.Value = c.discount.PercentOff()
	} else {
		d.Type = cart.DiscountFixed
		d.AmountCents = c.discount.AmountOffCents()
	}
	return d
}

func (c *Coupon) ID() uuid.UUID         { return c.id }
func (c *Coupon) Code() Code            { return c.code }
func (c *Coupon) Discount() Discount    { return c.discount }
func (c *Coupon) Active() bool          { return c.active }
func (c *Coupon) ValidFrom() *time.Time { return c.validFrom }
func (c *Coupon) ValidTo() *time.Time   { return c.validTo }

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

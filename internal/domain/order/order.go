// Package order derives payable orders from carts and tracks their lifecycle.
package order

import (
	"fmt"
	"strings"
	"time"

	"salon-booking/internal/domain/cart"
	"salon-booking/internal/domain/validation"

	"github.com/google/uuid"
)

type AppliedVoucher struct {
	Code        string
	AmountCents int64
}

// Totals extends the cart totals with vouchers. TotalCents keeps the cart
// identity (subtotal - discount + shipping); AmountDueCents is what remains
// after vouchers.
type Totals struct {
	cart.Totals
	VoucherCents   int64
	AmountDueCents int64
}

// Policy holds order-level pricing settings. A zero threshold disables free shipping.
type Policy struct {
	FreeShippingThresholdCents int64
}

type Order struct {
	ID             uuid.UUID
	Number         string
	Status         Status
	Items          []cart.Item
	Discounts      []cart.Discount
	ShippingMethod *cart.ShippingMethod
	Vouchers       []AppliedVoucher
	Totals         Totals
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func FromCart(c cart.Cart, id uuid.UUID, now time.Time, policy Policy) Order {
	o := Order{
		ID:        id,
		Number:    NewNumber(now, id),
		Status:    StatusPending,
		Items:     append([]cart.Item{}, c.Items...),
		Discounts: append([]cart.Discount{}, c.Discounts...),
		Vouchers:  []AppliedVoucher{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if c.ShippingMethod != nil {
		sm := *c.ShippingMethod
		o.ShippingMethod = &sm
	}
	return Recalculate(o, policy)
}

// Recalculate derives totals from the order's contents. Once the subtotal
// reaches the free-shipping threshold, shipping is waived.
func Recalculate(o Order, policy Policy) Order {
	t := cart.CalculateTotals(o.Items, o.Discounts, o.ShippingMethod)
	if policy.FreeShippingThresholdCents > 0 && t.SubtotalCents >= policy.FreeShippingThresholdCents {
		t.ShippingCents = 0
		t.TotalCents = t.SubtotalCents - t.DiscountCents
	}
	o.Totals = Totals{Totals: t}

	remaining := voucherCap(t)
	vouchers := make([]AppliedVoucher, 0, len(o.Vouchers))
	for _, v := range o.Vouchers {
		v.AmountCents = min(v.AmountCents, remaining)
		remaining -= v.AmountCents
		o.Totals.VoucherCents += v.AmountCents
		vouchers = append(vouchers, v)
	}
	o.Vouchers = vouchers
	o.Totals.AmountDueCents = o.Totals.TotalCents - o.Totals.VoucherCents
	return o
}

// ApplyVoucher redeems up to balanceCents of a voucher against the order,
// capped at subtotal + shipping - discount minus vouchers already applied.
// Reapplying a code is a no-op. The amount actually applied is returned.
func ApplyVoucher(o Order, code string, balanceCents int64, now time.Time) (Order, int64) {
	code = cart.NormalizeCode(code)
	for _, v := range o.Vouchers {
		if v.Code == code {
			return o, 0
		}
	}
	available := voucherCap(o.Totals.Totals) - o.Totals.VoucherCents
	amount := min(max(balanceCents, 0), max(available, 0))
	if amount == 0 {
		return o, 0
	}

	next := o
	next.Vouchers = append(append([]AppliedVoucher{}, o.Vouchers...), AppliedVoucher{Code: code, AmountCents: amount})
	next.Totals.VoucherCents += amount
	next.Totals.AmountDueCents = next.Totals.TotalCents - next.Totals.VoucherCents
	next.UpdatedAt = now
	return next, amount
}

func voucherCap(t cart.Totals) int64 {
	return max(t.SubtotalCents+t.ShippingCents-t.DiscountCents, 0)
}

// Transition moves the order to status to. Disallowed transitions return the
// order unchanged and changed=false; the caller decides whether that is an error.
func Transition(o Order, to Status, now time.Time) (Order, bool) {
	if !CanTransition(o.Status, to) {
		return o, false
	}
	o.Status = to
	o.UpdatedAt = now
	return o, true
}

func ValidateForPayment(o Order) validation.Result {
	res := validation.NewResult()
	if o.Status != StatusPending {
		res.Addf("order %s is %s and cannot be paid", o.Number, o.Status)
	}
	if len(o.Items) == 0 {
		res.Add("order has no items")
	}
	if !cart.IsDigitalOnly(o.Items) && o.ShippingMethod == nil {
		res.Add("a shipping method is required for physical items")
	}
	if o.Totals.AmountDueCents < 0 {
		res.Add("amount due cannot be negative")
	}
	return res
}

// NewNumber renders a human-facing order number such as ORD-20251018-3F2A9C.
func NewNumber(now time.Time, id uuid.UUID) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

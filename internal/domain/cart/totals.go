package cart

import "math"

// Swiss standard VAT rate, in basis points.
const StandardVATBasisPoints = 810

// CalculateTotals is deterministic in its inputs. Prices are VAT-inclusive, so
// tax is the portion of (subtotal - discount) that is VAT, not an addition.
func CalculateTotals(items []Item, discounts []Discount, shipping *ShippingMethod) Totals {
	var t Totals
	for _, it := range items {
		t.SubtotalCents += lineTotal(it)
		if it.Quantity > 0 {
			t.ItemCount += it.Quantity
		}
	}

	t.DiscountCents = DiscountAmount(t.SubtotalCents, discounts)

	if shipping != nil && !IsDigitalOnly(items) {
		t.ShippingCents = shipping.PriceCents
	}

	t.TaxCents = IncludedVAT(t.SubtotalCents-t.DiscountCents, StandardVATBasisPoints)
	t.TotalCents = t.SubtotalCents - t.DiscountCents + t.ShippingCents
	return t
}

// DiscountAmount sums every discount against subtotal and caps the result at subtotal.
func DiscountAmount(subtotal int64, discounts []Discount) int64 {
	var total int64
	for _, d := range discounts {
		switch d.Type {
		case DiscountPercentage:
			total += int64(math.Round(float64(subtotal) * d.Value / 100))
		case DiscountFixed:
			total += d.AmountCents
		}
	}
	if total < 0 {
		return 0
	}
	return min(total, subtotal)
}

// IncludedVAT extracts round(amount * rate / (1 + rate)) using integer math,
// rounding half up.
func IncludedVAT(amount int64, basisPoints int) int64 {
	if amount <= 0 {
		return 0
	}
	bp := int64(basisPoints)
	denom := 10000 + bp
	return (amount*bp*2 + denom) / (denom * 2)
}

func lineTotal(it Item) int64 {
	if it.Quantity <= 0 {
		return 0
	}
	return it.UnitPriceCents * int64(it.Quantity)
}

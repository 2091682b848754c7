package cart

import (
	"salon-booking/internal/pkg/patch"

	"github.com/google/uuid"
)

type ItemPatch struct {
	Quantity       *int
	RecipientEmail *string
	RecipientName  *string
	Message        *string
}

func withTotals(c Cart) Cart {
	for i := range c.Items {
		c.Items[i].LineTotalCents = lineTotal(c.Items[i])
	}
	c.Totals = CalculateTotals(c.Items, c.Discounts, c.ShippingMethod)
	return c
}

// AddItem merges a product into an existing line with the same product and
// variant; every other item becomes a new line. A zero item ID is assigned.
func AddItem(c Cart, item Item) Cart {
	next := c.clone()
	for i, existing := range next.Items {
		if existing.mergesWith(item) {
			next.Items[i].Quantity += item.Quantity
			return withTotals(next)
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	next.Items = append(next.Items, item)
	return withTotals(next)
}

// UpdateItem applies p to the line with itemID. Unknown ids leave the cart unchanged.
func UpdateItem(c Cart, itemID uuid.UUID, p ItemPatch) Cart {
	next := c.clone()
	for i, it := range next.Items {
		if it.ID != itemID {
			continue
		}
		it.Quantity = patch.Coalesce(p.Quantity, it.Quantity)
		it.RecipientEmail = patch.Coalesce(p.RecipientEmail, it.RecipientEmail)
		it.RecipientName = patch.Coalesce(p.RecipientName, it.RecipientName)
		it.Message = patch.Coalesce(p.Message, it.Message)
		next.Items[i] = it
	}
	return withTotals(next)
}

func RemoveItem(c Cart, itemID uuid.UUID) Cart {
	next := c.clone()
	items := next.Items[:0]
	for _, it := range next.Items {
		if it.ID != itemID {
			items = append(items, it)
		}
	}
	next.Items = items
	return withTotals(next)
}

func Clear(_ Cart) Cart {
	return withTotals(New())
}

// ApplyDiscount is idempotent by code: a code already on the cart is a no-op.
func ApplyDiscount(c Cart, d Discount) Cart {
	next := c.clone()
	d.Code = NormalizeCode(d.Code)
	if d.Code == "" || next.HasDiscount(d.Code) {
		return withTotals(next)
	}
	next.Discounts = append(next.Discounts, d)
	return withTotals(next)
}

func RemoveDiscount(c Cart, code string) Cart {
	next := c.clone()
	code = NormalizeCode(code)
	discounts := next.Discounts[:0]
	for _, d := range next.Discounts {
		if NormalizeCode(d.Code) != code {
			discounts = append(discounts, d)
		}
	}
	next.Discounts = discounts
	return withTotals(next)
}

// SetShippingMethod replaces the selection; nil clears it.
func SetShippingMethod(c Cart, m *ShippingMethod) Cart {
	next := c.clone()
	if m == nil {
		next.ShippingMethod = nil
	} else {
		sm := *m
		next.ShippingMethod = &sm
	}
	return withTotals(next)
}

// Recalculate returns c with line and cart totals derived from its contents.
func Recalculate(c Cart) Cart {
	return withTotals(c.clone())
}

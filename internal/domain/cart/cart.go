// Package cart is the pure cart model: reducers return a new Cart with its
// totals recomputed and never mutate their input.
package cart

import (
	"strings"

	"github.com/google/uuid"
)

type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeVoucher ItemType = "voucher"
	ItemTypeService ItemType = "service"
)

func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeProduct, ItemTypeVoucher, ItemTypeService:
		return true
	default:
		return false
	}
}

// IsPhysical reports whether lines of this type need to be shipped.
func (t ItemType) IsPhysical() bool {
	return t == ItemTypeProduct
}

type Item struct {
	ID             uuid.UUID
	Type           ItemType
	ProductID      *uuid.UUID
	VariantID      *uuid.UUID
	Name           string
	UnitPriceCents int64
	Quantity       int
	LineTotalCents int64

	// Voucher lines only
	RecipientEmail string
	RecipientName  string
	Message        string
}

// mergesWith reports whether adding other should bump this line's quantity.
// Only products merge; each voucher carries its own recipient.
func (i Item) mergesWith(other Item) bool {
	if i.Type != ItemTypeProduct || other.Type != ItemTypeProduct {
		return false
	}
	return sameID(i.ProductID, other.ProductID) && sameID(i.VariantID, other.VariantID)
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount applies against the subtotal. Value is a percentage (0-100) for
// percentage discounts; AmountCents is used for fixed ones.
type Discount struct {
	Code        string
	Type        DiscountType
	Value       float64
	AmountCents int64
	Description string
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type ShippingMethod struct {
	ID            string
	Name          string
	PriceCents    int64
	EstimatedDays int
}

type Totals struct {
	SubtotalCents int64
	DiscountCents int64
	ShippingCents int64
	TaxCents      int64
	TotalCents    int64
	ItemCount     int
}

type Cart struct {
	Items          []Item
	Discounts      []Discount
	ShippingMethod *ShippingMethod
	Totals         Totals
}

func New() Cart {
	return Cart{Items: []Item{}, Discounts: []Discount{}}
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// IsDigitalOnly reports whether no line needs shipping. An empty cart is digital-only.
func (c Cart) IsDigitalOnly() bool {
	return IsDigitalOnly(c.Items)
}

func IsDigitalOnly(items []Item) bool {
	for _, it := range items {
		if it.Type.IsPhysical() {
			return false
		}
	}
	return true
}

func (c Cart) Item(id uuid.UUID) (Item, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func (c Cart) HasDiscount(code string) bool {
	code = NormalizeCode(code)
	for _, d := range c.Discounts {
		if NormalizeCode(d.Code) == code {
			return true
		}
	}
	return false
}

func (c Cart) clone() Cart {
	cp := Cart{
		Items:     append([]Item{}, c.Items...),
		Discounts: append([]Discount{}, c.Discounts...),
	}
	if c.ShippingMethod != nil {
		sm := *c.ShippingMethod
		cp.ShippingMethod = &sm
	}
	return cp
}

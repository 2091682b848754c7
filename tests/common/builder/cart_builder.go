//go:build unit || e2e

package builder

import (
	"salon-booking/internal/domain/cart"
	reqdto "salon-booking/internal/handler/dto/request"

	"github.com/google/uuid"
)

var (
	ProductShampooID = uuid.MustParse("33333333-3333-4333-8333-000000000001")
	ProductOilID     = uuid.MustParse("33333333-3333-4333-8333-000000000002")
	VariantLargeID   = uuid.MustParse("44444444-4444-4444-8444-000000000001")
)

var (
	ShippingPickup   = cart.ShippingMethod{ID: "pickup", Name: "Pick up in salon", PriceCents: 0}
	ShippingEconomy  = cart.ShippingMethod{ID: "post-economy", Name: "Swiss Post Economy", PriceCents: 700, EstimatedDays: 3}
	ShippingPriority = cart.ShippingMethod{ID: "post-priority", Name: "Swiss Post Priority", PriceCents: 900, EstimatedDays: 1}
)

func ProductItem(productID uuid.UUID, priceCents int64, qty int) cart.Item {
	return cart.Item{
		Type:           cart.ItemTypeProduct,
		ProductID:      &productID,
		Name:           "Shampoo",
		UnitPriceCents: priceCents,
		Quantity:       qty,
	}
}

func VoucherItem(priceCents int64, email string) cart.Item {
	return cart.Item{
		Type:           cart.ItemTypeVoucher,
		Name:           "Gift voucher",
		UnitPriceCents: priceCents,
		Quantity:       1,
		RecipientEmail: email,
		RecipientName:  "Mia",
	}
}

type CartBuilder struct {
	Items          []cart.Item
	Discounts      []cart.Discount
	ShippingMethod *cart.ShippingMethod
}

// NewCartBuilder starts with two bottles of shampoo at CHF 24.90.
func NewCartBuilder() *CartBuilder {
	return &CartBuilder{
		Items: []cart.Item{ProductItem(ProductShampooID, 2490, 2)},
	}
}

func (b *CartBuilder) With(mutate func(*CartBuilder)) *CartBuilder {
	mutate(b)
	return b
}

func (b *CartBuilder) WithItem(it cart.Item) *CartBuilder {
	b.Items = append(b.Items, it)
	return b
}

func (b *CartBuilder) WithDiscount(d cart.Discount) *CartBuilder {
	b.Discounts = append(b.Discounts, d)
	return b
}

func (b *CartBuilder) WithShipping(m cart.ShippingMethod) *CartBuilder {
	b.ShippingMethod = &m
	return b
}

func (b *CartBuilder) Empty() *CartBuilder {
	b.Items = nil
	return b
}

// Build replays the contents through the reducers so totals are consistent.
func (b *CartBuilder) Build() cart.Cart {
	c := cart.New()
	for _, it := range b.Items {
		c = cart.AddItem(c, it)
	}
	for _, d := range b.Discounts {
		c = cart.ApplyDiscount(c, d)
	}
	return cart.SetShippingMethod(c, b.ShippingMethod)
}

func (b *CartBuilder) BuildAddItemRequestDTO() reqdto.AddCartItemRequest {
	id := ProductShampooID
	return reqdto.AddCartItemRequest{
		Type:           string(cart.ItemTypeProduct),
		ProductID:      &id,
		Name:           "Shampoo",
		UnitPriceCents: 2490,
		Quantity:       1,
	}
}

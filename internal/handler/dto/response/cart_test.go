//go:build unit

package response_test

import (
	"testing"

	"salon-booking/internal/domain/cart"
	"salon-booking/internal/domain/order"
	resdto "salon-booking/internal/handler/dto/response"
	"salon-booking/internal/usecase/commands"
	"salon-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCart(t *testing.T) {
	t.Run("maps lines, totals and shipping", func(t *testing.T) {
		c := builder.NewCartBuilder().WithShipping(builder.ShippingEconomy).Build()

		resp, err := resdto.FromCart(c)
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "product", resp.Items[0].Type)
		assert.Equal(t, int64(2490), resp.Items[0].UnitPriceCents)
		assert.Equal(t, 2, resp.Items[0].Quantity)
		assert.Equal(t, c.Totals.TotalCents, resp.Totals.TotalCents)
		assert.Equal(t, c.Totals.TaxCents, resp.Totals.TaxCents)
		require.NotNil(t, resp.ShippingMethod)
		assert.Equal(t, "post-economy", resp.ShippingMethod.ID)
		assert.Equal(t, 3, resp.ShippingMethod.EstimatedDays)
	})

	t.Run("empty cart keeps empty lists", func(t *testing.T) {
		resp, err := resdto.FromCart(cart.New())
		require.NoError(t, err)
		assert.NotNil(t, resp.Items)
		assert.NotNil(t, resp.Discounts)
		assert.Nil(t, resp.ShippingMethod)
	})
}

func TestFromCheckoutResult(t *testing.T) {
	c := builder.NewCartBuilder().WithShipping(builder.ShippingPickup).Build()
	o := order.FromCart(c, uuid.New(), builder.At(0, "12:00"), order.Policy{})

	resp, err := resdto.FromCheckoutResult(&commands.CheckoutResult{
		Validation: cart.ValidateForCheckout(c),
		Order:      &o,
	})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	require.NotNil(t, resp.Order)
	assert.Equal(t, o.Number, resp.Order.Number)
	assert.Equal(t, "pending", resp.Order.Status)
	assert.Equal(t, []string{"paid", "cancelled"}, resp.Order.NextStatuses)
	assert.Equal(t, o.Totals.AmountDueCents, resp.Order.Totals.AmountDueCents)
	assert.Equal(t, o.Totals.TotalCents, resp.Order.Totals.TotalCents)
	assert.Equal(t, "pickup", resp.Order.ShippingMethod.ID)
}

func TestFromShippingMethods(t *testing.T) {
	resp, err := resdto.FromShippingMethods([]cart.ShippingMethod{builder.ShippingPickup, builder.ShippingPriority})
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "post-priority", resp[1].ID)
	assert.Equal(t, int64(900), resp[1].PriceCents)
}

//go:build unit

package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"salon-booking/internal/domain/cart"
	"salon-booking/internal/infra/catalog"
	"salon-booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[[method]]
id = "post-priority"
name = "Swiss Post Priority"
price_cents = 900
estimated_days = 1

[[method]]
id = "pickup"
name = "Pick up in salon"
price_cents = 0
`

func TestParseShippingCatalog(t *testing.T) {
	t.Run("sorted by price", func(t *testing.T) {
		c, err := catalog.ParseShippingCatalog(sample)
		require.NoError(t, err)

		methods := c.Methods()
		require.Len(t, methods, 2)
		assert.Equal(t, "pickup", methods[0].ID)
		assert.Equal(t, cart.ShippingMethod{ID: "post-priority", Name: "Swiss Post Priority", PriceCents: 900, EstimatedDays: 1}, methods[1])

		methods[0].PriceCents = 999
		assert.Zero(t, c.Methods()[0].PriceCents, "Methods returns a copy")

		m, ok := c.ByID("post-priority")
		require.True(t, ok)
		assert.Equal(t, int64(900), m.PriceCents)
		_, ok = c.ByID("drone")
		assert.False(t, ok)
	})

	cases := []struct {
		name string
		data string
	}{
		{name: "missing id", data: "[[method]]\nname = \"x\"\nprice_cents = 1\n"},
		{name: "negative price", data: "[[method]]\nid = \"x\"\nprice_cents = -1\n"},
		{name: "duplicate id", data: "[[method]]\nid = \"x\"\n[[method]]\nid = \"x\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := catalog.ParseShippingCatalog(tc.data)
			require.Error(t, err)
			assert.True(t, errs.Is(err, catalog.ErrInvalidCatalog))
		})
	}

	t.Run("malformed toml", func(t *testing.T) {
		_, err := catalog.ParseShippingCatalog("[[method]\n")
		require.Error(t, err)
	})
}

func TestLoadShippingCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shipping.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	c, err := catalog.LoadShippingCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Methods(), 2)

	_, err = catalog.LoadShippingCatalog(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

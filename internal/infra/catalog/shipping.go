package catalog

import (
	"sort"

	"salon-booking/internal/domain/cart"
	"salon-booking/internal/pkg/errs"

	"github.com/BurntSushi/toml"
)

var ErrInvalidCatalog = errs.New("invalid shipping catalog")

type shippingFile struct {
	Methods []shippingMethod `toml:"method"`
}

type shippingMethod struct {
	ID            string `toml:"id"`
	Name          string `toml:"name"`
	PriceCents    int64  `toml:"price_cents"`
	EstimatedDays int    `toml:"estimated_days"`
}

// ShippingCatalog is an immutable list of shipping methods ordered by price.
type ShippingCatalog struct {
	methods []cart.ShippingMethod
	byID    map[string]cart.ShippingMethod
}

func LoadShippingCatalog(path string) (*ShippingCatalog, error) {
	var f shippingFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, errs.Wrapf(err, "failed to decode shipping catalog %s", path)
	}
	return newShippingCatalog(f)
}

func ParseShippingCatalog(data string) (*ShippingCatalog, error) {
	var f shippingFile
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, errs.Wrap(err, "failed to decode shipping catalog")
	}
	return newShippingCatalog(f)
}

func newShippingCatalog(f shippingFile) (*ShippingCatalog, error) {
	c := &ShippingCatalog{
		methods: make([]cart.ShippingMethod, 0, len(f.Methods)),
		byID:    make(map[string]cart.ShippingMethod, len(f.Methods)),
	}
	for _, m := range f.Methods {
		if m.ID == "" {
			return nil, errs.Mark(errs.New("shipping method without id"), ErrInvalidCatalog)
		}
		if m.PriceCents < 0 {
			return nil, errs.Mark(errs.Newf("shipping method %s has a negative price", m.ID), ErrInvalidCatalog)
		}
		if _, dup := c.byID[m.ID]; dup {
			return nil, errs.Mark(errs.Newf("duplicate shipping method %s", m.ID), ErrInvalidCatalog)
		}
		sm := cart.ShippingMethod{
			ID:            m.ID,
			Name:          m.Name,
			PriceCents:    m.PriceCents,
			EstimatedDays: m.EstimatedDays,
		}
		c.methods = append(c.methods, sm)
		c.byID[sm.ID] = sm
	}
	sort.SliceStable(c.methods, func(i, j int) bool {
		return c.methods[i].PriceCents < c.methods[j].PriceCents
	})
	return c, nil
}

func (c *ShippingCatalog) Methods() []cart.ShippingMethod {
	return append([]cart.ShippingMethod{}, c.methods...)
}

func (c *ShippingCatalog) ByID(id string) (cart.ShippingMethod, bool) {
	m, ok := c.byID[id]
	return m, ok
}

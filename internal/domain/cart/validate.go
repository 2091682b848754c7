package cart

import (
	"net/mail"

	"salon-booking/internal/domain/validation"
)

// ValidateForCheckout reports every problem at once; it never stops at the first.
func ValidateForCheckout(c Cart) validation.Result {
	res := validation.NewResult()
	if c.IsEmpty() {
		res.Add("cart is empty")
		return res
	}
	for _, it := range c.Items {
		if !it.Type.IsValid() {
			res.Addf("item %q has an unknown type %q", it.Name, it.Type)
		}
		if it.Quantity <= 0 {
			res.Addf("item %q must have a positive quantity", it.Name)
		}
		if it.UnitPriceCents < 0 {
			res.Addf("item %q has a negative price", it.Name)
		}
		if it.Type == ItemTypeVoucher {
			if it.RecipientEmail == "" {
				res.Addf("voucher %q requires a recipient email", it.Name)
			} else if _, err := mail.ParseAddress(it.RecipientEmail); err != nil {
				res.Addf("voucher %q has an invalid recipient email", it.Name)
			}
		}
	}
	if !c.IsDigitalOnly() && c.ShippingMethod == nil {
		res.Add("a shipping method is required for physical items")
	}
	return res
}

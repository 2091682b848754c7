package response

import (
	"time"

	"salon-booking/internal/domain/cart"
	"salon-booking/internal/domain/order"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CartItemResponse struct {
	ID             uuid.UUID  `json:"id"`
	Type           string     `json:"type"`
	ProductID      *uuid.UUID `json:"productId,omitempty"`
	VariantID      *uuid.UUID `json:"variantId,omitempty"`
	Name           string     `json:"name"`
	UnitPriceCents int64      `json:"unitPriceCents"`
	Quantity       int        `json:"quantity"`
	LineTotalCents int64      `json:"lineTotalCents"`
	RecipientEmail string     `json:"recipientEmail,omitempty"`
	RecipientName  string     `json:"recipientName,omitempty"`
	Message        string     `json:"message,omitempty"`
}

type DiscountResponse struct {
	Code        string  `json:"code"`
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	AmountCents int64   `json:"amountCents,omitempty"`
	Description string  `json:"description,omitempty"`
}

type ShippingMethodResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PriceCents    int64  `json:"priceCents"`
	EstimatedDays int    `json:"estimatedDays"`
}

type TotalsResponse struct {
	SubtotalCents int64 `json:"subtotalCents"`
	DiscountCents int64 `json:"discountCents"`
	ShippingCents int64 `json:"shippingCents"`
	TaxCents      int64 `json:"taxCents"`
	TotalCents    int64 `json:"totalCents"`
	ItemCount     int   `json:"itemCount"`
}

type CartResponse struct {
	Items          []CartItemResponse      `json:"items"`
	Discounts      []DiscountResponse      `json:"discounts"`
	ShippingMethod *ShippingMethodResponse `json:"shippingMethod,omitempty"`
	Totals         TotalsResponse          `json:"totals"`
	DigitalOnly    bool                    `json:"digitalOnly"`
}

type OrderTotalsResponse struct {
	TotalsResponse
	VoucherCents   int64 `json:"voucherCents"`
	AmountDueCents int64 `json:"amountDueCents"`
}

type OrderResponse struct {
	ID             uuid.UUID               `json:"id"`
	Number         string                  `json:"number"`
	Status         string                  `json:"status"`
	NextStatuses   []string                `json:"nextStatuses"`
	Items          []CartItemResponse      `json:"items"`
	Discounts      []DiscountResponse      `json:"discounts"`
	ShippingMethod *ShippingMethodResponse `json:"shippingMethod,omitempty"`
	Totals         OrderTotalsResponse     `json:"totals"`
	CreatedAt      time.Time               `json:"createdAt"`
}

type CheckoutResponse struct {
	Valid  bool           `json:"valid"`
	Errors []string       `json:"errors"`
	Order  *OrderResponse `json:"order,omitempty"`
}

func FromCart(c cart.Cart) (*CartResponse, error) {
	resp := &CartResponse{
		Items:       []CartItemResponse{},
		Discounts:   []DiscountResponse{},
		DigitalOnly: c.IsDigitalOnly(),
	}
	if err := copier.Copy(&resp.Items, &c.Items); err != nil {
		return nil, errs.Wrap(err, "failed to map cart items")
	}
	if err := copier.Copy(&resp.Discounts, &c.Discounts); err != nil {
		return nil, errs.Wrap(err, "failed to map cart discounts")
	}
	if err := copier.Copy(&resp.Totals, &c.Totals); err != nil {
		return nil, errs.Wrap(err, "failed to map cart totals")
	}
	method, err := fromShippingMethod(c.ShippingMethod)
	if err != nil {
		return nil, err
	}
	resp.ShippingMethod = method
	return resp, nil
}

func FromShippingMethods(methods []cart.ShippingMethod) ([]ShippingMethodResponse, error) {
	out := []ShippingMethodResponse{}
	if err := copier.Copy(&out, &methods); err != nil {
		return nil, errs.Wrap(err, "failed to map shipping methods")
	}
	return out, nil
}

func FromCheckoutResult(res *commands.CheckoutResult) (*CheckoutResponse, error) {
	resp := &CheckoutResponse{
		Valid:  res.Validation.Valid,
		Errors: append([]string{}, res.Validation.Errors...),
	}
	if res.Order != nil {
		o, err := FromOrder(*res.Order)
		if err != nil {
			return nil, err
		}
		resp.Order = o
	}
	return resp, nil
}

func FromOrder(o order.Order) (*OrderResponse, error) {
	resp := &OrderResponse{
		ID:           o.ID,
		Number:       o.Number,
		Status:       o.Status.String(),
		NextStatuses: []string{},
		Items:        []CartItemResponse{},
		Discounts:    []DiscountResponse{},
		CreatedAt:    o.CreatedAt,
	}
	for _, next := range order.AllowedTransitions(o.Status) {
		resp.NextStatuses = append(resp.NextStatuses, next.String())
	}
	if err := copier.Copy(&resp.Items, &o.Items); err != nil {
		return nil, errs.Wrap(err, "failed to map order items")
	}
	if err := copier.Copy(&resp.Discounts, &o.Discounts); err != nil {
		return nil, errs.Wrap(err, "failed to map order discounts")
	}
	if err := copier.Copy(&resp.Totals.TotalsResponse, &o.Totals.Totals); err != nil {
		return nil, errs.Wrap(err, "failed to map order totals")
	}
	method, err := fromShippingMethod(o.ShippingMethod)
	if err != nil {
		return nil, err
	}
	resp.ShippingMethod = method
	resp.Totals.VoucherCents = o.Totals.VoucherCents
	resp.Totals.AmountDueCents = o.Totals.AmountDueCents
	return resp, nil
}

func fromShippingMethod(m *cart.ShippingMethod) (*ShippingMethodResponse, error) {
	if m == nil {
		return nil, nil
	}
	out := &ShippingMethodResponse{}
	if err := copier.Copy(out, m); err != nil {
		return nil, errs.Wrap(err, "failed to map shipping method")
	}
	return out, nil
}

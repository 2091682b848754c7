package commands

import (
	"context"
	"log/slog"
	"net/mail"

	"salon-booking/internal/domain/cart"
	"salon-booking/internal/domain/order"
	"salon-booking/internal/domain/validation"
	"salon-booking/internal/infra"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCartItemNotFound       = errs.New("cart item not found")
	ErrCouponNotFound         = errs.New("coupon not found")
	ErrInvalidCoupon          = errs.New("invalid coupon")
	ErrShippingMethodNotFound = errs.New("shipping method not found")
)

type AddItemRequest struct {
	Type           cart.ItemType
	ProductID      *uuid.UUID
	VariantID      *uuid.UUID
	Name           string
	UnitPriceCents int64
	Quantity       int
	RecipientEmail string
	RecipientName  string
	Message        string
}

type CheckoutResult struct {
	Validation validation.Result
	Order      *order.Order
}

type CartCommands interface {
	Get(ctx context.Context, sessionID string) (cart.Cart, error)
	AddItem(ctx context.Context, sessionID string, req AddItemRequest) (cart.Cart, error)
	// UpdateItem removes the line when the patched quantity is not positive.
	UpdateItem(ctx context.Context, sessionID string, itemID uuid.UUID, p cart.ItemPatch) (cart.Cart, error)
	RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) (cart.Cart, error)
	Clear(ctx context.Context, sessionID string) (cart.Cart, error)
	ApplyDiscount(ctx context.Context, sessionID, code string) (cart.Cart, error)
	RemoveDiscount(ctx context.Context, sessionID, code string) (cart.Cart, error)
	// SetShippingMethod clears the method when methodID is empty.
	SetShippingMethod(ctx context.Context, sessionID, methodID string) (cart.Cart, error)
	ShippingMethods() []cart.ShippingMethod
	Checkout(ctx context.Context, sessionID string) (*CheckoutResult, error)
}

type cartUseCaseImpl struct {
	carts    shared.CartStore
	uow      shared.UnitOfWork
	shipping shared.ShippingCatalog
	policy   order.Policy
	clock    clock.Clock
}

func NewCartUseCase(
	carts shared.CartStore,
	uow shared.UnitOfWork,
	shipping shared.ShippingCatalog,
	policy order.Policy,
	clk clock.Clock,
) CartCommands {
	return &cartUseCaseImpl{
		carts:    carts,
		uow:      uow,
		shipping: shipping,
		policy:   policy,
		clock:    clk,
	}
}

func (uc *cartUseCaseImpl) Get(ctx context.Context, sessionID string) (cart.Cart, error) {
	c, err := uc.carts.Load(ctx, sessionID)
	if err != nil {
		return cart.Cart{}, errs.Mark(err, errs.ErrCacheOperationFailed)
	}
	return c, nil
}

func (uc *cartUseCaseImpl) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (cart.Cart, error) {
	if res := validateNewItem(req); !res.Valid {
		return cart.Cart{}, shared.NewValidationError(res)
	}
	return uc.mutate(ctx, sessionID, func(c cart.Cart) (cart.Cart, error) {
		return cart.AddItem(c, cart.Item{
			Type:           req.Type,
			ProductID:      req.ProductID,
			VariantID:      req.VariantID,
			Name:           req.Name,
			UnitPriceCents: req.UnitPriceCents,
			Quantity:       req.Quantity,
			RecipientEmail: req.RecipientEmail,
			RecipientName:  req.RecipientName,
			Message:        req.Message,
		}), nil
	})
}

func (uc *cartUseCaseImpl) UpdateItem(ctx context.Context, sessionID string, itemID uuid.UUID, p cart.ItemPatch) (cart.Cart, error) {
	return uc.mutate(ctx, sessionID, func(c cart.Cart) (cart.Cart, error) {
		if _, ok := c.Item(itemID); !ok {
			return cart.Cart{}, ErrCartItemNotFound
		}
		if p.Quantity != nil && *p.Quantity <= 0 {
			return cart.RemoveItem(c, itemID), nil
		}
		return cart.UpdateItem(c, itemID, p), nil
	})
}

func (uc *cartUseCaseImpl) RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) (cart.Cart, error) {
	return uc.mutate(ctx, sessionID, func(c cart.Cart) (cart.Cart, error) {
		if _, ok := c.Item(itemID); !ok {
			return cart.Cart{}, ErrCartItemNotFound
		}
		return cart.RemoveItem(c, itemID), nil
	})
}

func (uc *cartUseCaseImpl) Clear(ctx context.Context, sessionID string) (cart.Cart, error) {
	if err := uc.carts.Delete(ctx, sessionID); err != nil {
		return cart.Cart{}, errs.Mark(err, errs.ErrCacheOperationFailed)
	}
	return cart.Clear(cart.New()), nil
}

func (uc *cartUseCaseImpl) ApplyDiscount(ctx context.Context, sessionID, code string) (cart.Cart, error) {
	cp, err := uc.uow.CommandReads().CouponByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return cart.Cart{}, ErrCouponNotFound
		}
		return cart.Cart{}, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if err := cp.ValidateUsage(uc.clock.Now()); err != nil {
		slog.Warn("coupon rejected", "code", cp.Code().String(), "reason", err.Error())
		return cart.Cart{}, errs.Mark(err, ErrInvalidCoupon)
	}

	return uc.mutate(ctx, sessionID, func(c cart.Cart) (cart.Cart, error) {
		return cart.ApplyDiscount(c, cp.ToCartDiscount()), nil
	})
}

func (uc *cartUseCaseImpl) RemoveDiscount(ctx context.Context, sessionID, code string) (cart.Cart, error) {
	return uc.mutate(ctx, sessionID, func(c cart.Cart) (cart.Cart, error) {
		return cart.RemoveDiscount(c, code), nil
	})
}

func (uc *cartUseCaseImpl) SetShippingMethod(ctx context.Context, sessionID, methodID string) (cart.Cart, error) {
	var method *cart.ShippingMethod
	if methodID != "" {
		m, ok := uc.shipping.ByID(methodID)
		if !ok {
			return cart.Cart{}, ErrShippingMethodNotFound
		}
		method = &m
	}
	return uc.mutate(ctx, sessionID, func(c cart.Cart) (cart.Cart, error) {
		return cart.SetShippingMethod(c, method), nil
	})
}

func (uc *cartUseCaseImpl) ShippingMethods() []cart.ShippingMethod {
	return uc.shipping.Methods()
}

// Checkout validates the cart and previews the order it would become. The
// cart itself is left untouched.
func (uc *cartUseCaseImpl) Checkout(ctx context.Context, sessionID string) (*CheckoutResult, error) {
	c, err := uc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	res := cart.ValidateForCheckout(c)
	if !res.Valid {
		return &CheckoutResult{Validation: res}, nil
	}

	o := order.FromCart(c, uuid.New(), uc.clock.Now(), uc.policy)
	return &CheckoutResult{Validation: res, Order: &o}, nil
}

func (uc *cartUseCaseImpl) mutate(ctx context.Context, sessionID string, fn func(cart.Cart) (cart.Cart, error)) (cart.Cart, error) {
	current, err := uc.Get(ctx, sessionID)
	if err != nil {
		return cart.Cart{}, err
	}
	next, err := fn(current)
	if err != nil {
		return cart.Cart{}, err
	}
	if err := uc.carts.Save(ctx, sessionID, next); err != nil {
		return cart.Cart{}, errs.Mark(err, errs.ErrCacheOperationFailed)
	}
	return next, nil
}

func validateNewItem(req AddItemRequest) validation.Result {
	res := validation.NewResult()
	if !req.Type.IsValid() {
		res.Addf("unknown item type %q", req.Type)
	}
	if req.Name == "" {
		res.Add("item name is required")
	}
	if req.Quantity <= 0 {
		res.Add("quantity must be positive")
	}
	if req.UnitPriceCents < 0 {
		res.Add("unit price must not be negative")
	}
	if req.Type == cart.ItemTypeProduct && req.ProductID == nil {
		res.Add("product id is required for product items")
	}
	if req.Type == cart.ItemTypeVoucher && req.RecipientEmail != "" {
		if _, err := mail.ParseAddress(req.RecipientEmail); err != nil {
			res.Addf("recipient email %q is invalid", req.RecipientEmail)
		}
	}
	return res
}

package request

import (
	"salon-booking/internal/domain/cart"
	"salon-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type AddCartItemRequest struct {
	Type           string     `json:"type" binding:"required,oneof=product voucher service"`
	ProductID      *uuid.UUID `json:"productId,omitempty"`
	VariantID      *uuid.UUID `json:"variantId,omitempty"`
	Name           string     `json:"name" binding:"required"`
	UnitPriceCents int64      `json:"unitPriceCents" binding:"min=0"`
	Quantity       int        `json:"quantity" binding:"required,min=1"`
	RecipientEmail string     `json:"recipientEmail,omitempty"`
	RecipientName  string     `json:"recipientName,omitempty"`
	Message        string     `json:"message,omitempty"`
}

func (r AddCartItemRequest) ToCommand() commands.AddItemRequest {
	return commands.AddItemRequest{
		Type:           cart.ItemType(r.Type),
		ProductID:      r.ProductID,
		VariantID:      r.VariantID,
		Name:           r.Name,
		UnitPriceCents: r.UnitPriceCents,
		Quantity:       r.Quantity,
		RecipientEmail: r.RecipientEmail,
		RecipientName:  r.RecipientName,
		Message:        r.Message,
	}
}

// UpdateCartItemRequest only touches fields that are present. A quantity of
// zero removes the line.
type UpdateCartItemRequest struct {
	Quantity       *int    `json:"quantity,omitempty" binding:"omitempty,min=0"`
	RecipientEmail *string `json:"recipientEmail,omitempty"`
	RecipientName  *string `json:"recipientName,omitempty"`
	Message        *string `json:"message,omitempty"`
}

func (r UpdateCartItemRequest) ToPatch() cart.ItemPatch {
	return cart.ItemPatch{
		Quantity:       r.Quantity,
		RecipientEmail: r.RecipientEmail,
		RecipientName:  r.RecipientName,
		Message:        r.Message,
	}
}

type ApplyDiscountRequest struct {
	Code string `json:"code" binding:"required"`
}

// SetShippingRequest clears the shipping method when MethodID is empty.
type SetShippingRequest struct {
	MethodID string `json:"methodId"`
}

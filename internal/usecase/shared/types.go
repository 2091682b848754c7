package shared

import (
	"context"
	"strings"
	"time"

	"salon-booking/internal/domain/cart"
	"salon-booking/internal/domain/interval"
	"salon-booking/internal/domain/reservation"
	"salon-booking/internal/domain/validation"
	"salon-booking/internal/pkg/errs"
)

// HoldStore persists reservations outside the relational store. Insert is the
// serializing insert-if-absent on the slot key.
type HoldStore interface {
	Insert(ctx context.Context, r reservation.Reservation) (bool, error)
	Get(ctx context.Context, slotKey string) (*reservation.Reservation, error)
	GetBySession(ctx context.Context, sessionID string) (*reservation.Reservation, error)
	ListActive(ctx context.Context, window interval.Interval, now time.Time) ([]reservation.Reservation, error)
	Delete(ctx context.Context, r reservation.Reservation) error
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// CartStore keeps one cart snapshot per checkout session. Load returns an
// empty cart for unknown sessions.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (cart.Cart, error)
	Save(ctx context.Context, sessionID string, c cart.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type ShippingCatalog interface {
	Methods() []cart.ShippingMethod
	ByID(id string) (cart.ShippingMethod, bool)
}

// ValidationError carries an invalid validation.Result across layers.
type ValidationError struct {
	Errors []string
}

func NewValidationError(res validation.Result) *ValidationError {
	return &ValidationError{Errors: append([]string{}, res.Errors...)}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == errs.ErrDomainValidationFailed
}

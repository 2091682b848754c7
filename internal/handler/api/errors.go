package api

import (
	"log/slog"
	"net/http"

	"salon-booking/internal/domain/reservation"
	reqdto "salon-booking/internal/handler/dto/request"
	"salon-booking/internal/handler/httperr"
	"salon-booking/internal/handler/middleware"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/commands"
	"salon-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

const (
	CodeReservationExpired = reservation.KindReservationExpired
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeSlotUnavailable    = "SLOT_UNAVAILABLE"
	CodeSlotHeld           = "SLOT_HELD"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeSessionRequired    = "SESSION_REQUIRED"
	CodeNotFound           = "NOT_FOUND"
	CodeCouponInvalid      = "COUPON_INVALID"
	CodeCancellationClosed = "CANCELLATION_CLOSED"
	CodeBadRequest         = "BAD_REQUEST"
	CodeInternal           = httperr.CodeInternal
)

// respondError maps use case errors onto the JSON error body.
func respondError(c *gin.Context, err error) {
	var validationErr *shared.ValidationError
	var expired *reservation.Error

	switch {
	case errs.As(err, &expired):
		httperr.AbortWithCode(c, http.StatusGone, CodeReservationExpired, err, expired.Message, gin.H{"reason": expired.Reason})
	case errs.Is(err, reservation.ErrReservationExpired):
		httperr.AbortWithCode(c, http.StatusGone, CodeReservationExpired, err, "Your reservation has expired", nil)
	case errs.As(err, &validationErr):
		httperr.AbortWithCode(c, http.StatusUnprocessableEntity, CodeValidationFailed, err, "Validation failed", gin.H{"errors": validationErr.Errors})
	case errs.Is(err, reqdto.ErrInvalidQuery):
		httperr.AbortWithCode(c, http.StatusBadRequest, CodeBadRequest, err, err.Error(), nil)
	case errs.Is(err, reservation.ErrSessionRequired):
		httperr.AbortWithCode(c, http.StatusUnauthorized, CodeSessionRequired, err, "Session token required", nil)
	case errs.Is(err, commands.ErrSlotUnavailable):
		httperr.AbortWithCode(c, http.StatusConflict, CodeSlotUnavailable, err, "This time slot is no longer available", nil)
	case errs.Is(err, commands.ErrSlotHeld):
		httperr.AbortWithCode(c, http.StatusConflict, CodeSlotHeld, err, "This time slot is reserved by another customer", nil)
	case errs.Is(err, commands.ErrServiceRemoved):
		httperr.AbortWithCode(c, http.StatusConflict, CodeServiceUnavailable, err, "A selected service is no longer offered", nil)
	case errs.Is(err, commands.ErrAppointmentNotFound):
		httperr.AbortWithCode(c, http.StatusNotFound, CodeNotFound, err, "Appointment not found", nil)
	case errs.Is(err, commands.ErrCancellationClosed):
		httperr.AbortWithCode(c, http.StatusConflict, CodeCancellationClosed, err, "The cancellation deadline has passed", nil)
	case errs.Is(err, commands.ErrCartItemNotFound):
		httperr.AbortWithCode(c, http.StatusNotFound, CodeNotFound, err, "Cart item not found", nil)
	case errs.Is(err, commands.ErrCouponNotFound):
		httperr.AbortWithCode(c, http.StatusNotFound, CodeNotFound, err, "Discount code not found", nil)
	case errs.Is(err, commands.ErrInvalidCoupon):
		httperr.AbortWithCode(c, http.StatusUnprocessableEntity, CodeCouponInvalid, err, "Discount code cannot be used", nil)
	case errs.Is(err, commands.ErrShippingMethodNotFound):
		httperr.AbortWithCode(c, http.StatusNotFound, CodeNotFound, err, "Shipping method not found", nil)
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err.Error())
		httperr.AbortWithCode(c, http.StatusInternalServerError, CodeInternal, err, "Internal server error", nil)
	}
}

// sessionID aborts with 401 when no session middleware ran before the handler.
func sessionID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetSessionID(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, CodeSessionRequired, reservation.ErrSessionRequired, "Session token required", nil)
	}
	return id, ok
}

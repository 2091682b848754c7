package reservation

import "errors"

// KindReservationExpired is the single error kind surfaced for every hold that
// can no longer be used: missing, owned by another session, or timed out.
const KindReservationExpired = "RESERVATION_EXPIRED"

var (
	ErrReservationExpired = errors.New(KindReservationExpired)
	ErrInvalidSlot        = errors.New("reservation slot start must be before end")
	ErrSessionRequired    = errors.New("reservation requires a session id")
)

type Reason string

const (
	ReasonMissing        Reason = "missing"
	ReasonForeignSession Reason = "foreign_session"
	ReasonTimedOut       Reason = "timed_out"
)

// Error is returned by Manager.Validate. It matches ErrReservationExpired.
type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Kind() string {
	return KindReservationExpired
}

func (e *Error) Is(target error) bool {
	return target == ErrReservationExpired
}

func newExpired(reason Reason, msg string) error {
	return &Error{Reason: reason, Message: msg}
}

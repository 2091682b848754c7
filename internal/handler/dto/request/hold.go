package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateHoldRequest struct {
	StaffID    uuid.UUID   `json:"staffId" binding:"required"`
	Start      time.Time   `json:"start" binding:"required"`
	End        time.Time   `json:"end" binding:"required"`
	ServiceIDs []uuid.UUID `json:"serviceIds" binding:"required,min=1"`
	CustomerID *uuid.UUID  `json:"customerId,omitempty"`
}

type ConfirmHoldRequest struct {
	CustomerName  string     `json:"customerName" binding:"required,max=200"`
	CustomerEmail string     `json:"customerEmail" binding:"required,email"`
	CustomerID    *uuid.UUID `json:"customerId,omitempty"`
}

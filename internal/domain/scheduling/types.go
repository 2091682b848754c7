// Package scheduling defines the read-only snapshot the slot engine works on.
package scheduling

import (
	"slices"
	"time"

	"salon-booking/internal/domain/interval"

	"github.com/google/uuid"
)

type Service struct {
	ID              uuid.UUID
	Name            string
	DurationMinutes int
	PriceCents      int64
	CategoryID      *uuid.UUID
	IsActive        bool
}

func (s Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

type Staff struct {
	ID          uuid.UUID
	DisplayName string
	ServiceIDs  []uuid.UUID
	IsBookable  bool
}

// CanPerform reports whether the staff member is skilled in every one of serviceIDs.
func (s Staff) CanPerform(serviceIDs []uuid.UUID) bool {
	for _, id := range serviceIDs {
		if !slices.Contains(s.ServiceIDs, id) {
			return false
		}
	}
	return true
}

// DayOpeningHours is the salon-wide envelope for one day of the week.
type DayOpeningHours struct {
	DayOfWeek time.Weekday
	Open      interval.WallClock
	Close     interval.WallClock
	IsClosed  bool
}

type StaffWorkingHours struct {
	StaffID   uuid.UUID
	DayOfWeek time.Weekday
	Start     interval.WallClock
	End       interval.WallClock
}

type StaffAbsence struct {
	StaffID uuid.UUID
	Start   time.Time
	End     time.Time
	Reason  string
}

// Interval treats End as part of the absence.
func (a StaffAbsence) Interval() interval.Interval {
	return interval.Inclusive(a.Start, a.End)
}

// BlockedTime with a nil StaffID applies to the whole salon.
type BlockedTime struct {
	ID      uuid.UUID
	StaffID *uuid.UUID
	Start   time.Time
	End     time.Time
	Reason  string
}

func (b BlockedTime) AppliesTo(staffID uuid.UUID) bool {
	return b.StaffID == nil || *b.StaffID == staffID
}

func (b BlockedTime) Interval() interval.Interval {
	return interval.Interval{Start: b.Start, End: b.End}
}

type AppointmentStatus string

const (
	AppointmentReserved  AppointmentStatus = "reserved"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentNoShow    AppointmentStatus = "no_show"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID      uuid.UUID
	StaffID uuid.UUID
	Start   time.Time
	End     time.Time
	Status  AppointmentStatus
}

// Blocks reports whether the appointment occupies its staff member's calendar.
func (a Appointment) Blocks() bool {
	return a.Status != AppointmentCancelled
}

func (a Appointment) Interval() interval.Interval {
	return interval.Interval{Start: a.Start, End: a.End}
}

package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is everything the slot engine needs, loaded once per computation.
// Location is the salon's timezone; wall-clock hours are resolved in it.
type Snapshot struct {
	Location     *time.Location
	Services     []Service
	Staff        []Staff
	OpeningHours []DayOpeningHours
	WorkingHours []StaffWorkingHours
	Absences     []StaffAbsence
	BlockedTimes []BlockedTime
	Appointments []Appointment
	Rules        BookingRules
}

func (s *Snapshot) ServiceByID(id uuid.UUID) (Service, bool) {
	for _, svc := range s.Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return Service{}, false
}

func (s *Snapshot) StaffByID(id uuid.UUID) (Staff, bool) {
	for _, st := range s.Staff {
		if st.ID == id {
			return st, true
		}
	}
	return Staff{}, false
}

// OpeningHoursFor returns the salon entry for day. A missing entry is reported as not found.
func (s *Snapshot) OpeningHoursFor(day time.Weekday) (DayOpeningHours, bool) {
	for _, oh := range s.OpeningHours {
		if oh.DayOfWeek == day {
			return oh, true
		}
	}
	return DayOpeningHours{}, false
}

func (s *Snapshot) WorkingHoursFor(staffID uuid.UUID, day time.Weekday) (StaffWorkingHours, bool) {
	for _, wh := range s.WorkingHours {
		if wh.StaffID == staffID && wh.DayOfWeek == day {
			return wh, true
		}
	}
	return StaffWorkingHours{}, false
}

// WithAppointments returns a shallow copy with extra appointments appended.
func (s *Snapshot) WithAppointments(extra ...Appointment) *Snapshot {
	cp := *s
	cp.Appointments = make([]Appointment, 0, len(s.Appointments)+len(extra))
	cp.Appointments = append(cp.Appointments, s.Appointments...)
	cp.Appointments = append(cp.Appointments, extra...)
	return &cp
}

//go:build unit || e2e

package builder

import (
	"time"

	"salon-booking/internal/domain/interval"
	"salon-booking/internal/domain/scheduling"

	"github.com/google/uuid"
)

var (
	ServiceCutID   = uuid.MustParse("11111111-1111-4111-8111-000000000001")
	ServiceColorID = uuid.MustParse("11111111-1111-4111-8111-000000000002")
	StaffAnnaID    = uuid.MustParse("22222222-2222-4222-8222-000000000001")
	StaffBenID     = uuid.MustParse("22222222-2222-4222-8222-000000000002")
)

// Monday 2025-10-20 in the salon timezone
var ReferenceDay = time.Date(2025, 10, 20, 0, 0, 0, 0, SalonLocation())

var salonLocation = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Zurich")
	if err != nil {
		panic(err)
	}
	return loc
}()

func SalonLocation() *time.Location {
	return salonLocation
}

// At returns the salon-local instant hh:mm on ReferenceDay shifted by dayOffset days.
func At(dayOffset int, hhmm string) time.Time {
	return interval.MustWallClock(hhmm).On(ReferenceDay.AddDate(0, 0, dayOffset), SalonLocation())
}

type ScheduleBuilder struct {
	Location     *time.Location
	Services     []scheduling.Service
	Staff        []scheduling.Staff
	OpeningHours []scheduling.DayOpeningHours
	WorkingHours []scheduling.StaffWorkingHours
	Absences     []scheduling.StaffAbsence
	BlockedTimes []scheduling.BlockedTime
	Appointments []scheduling.Appointment
	Rules        scheduling.BookingRules
}

// NewScheduleBuilder starts from a salon open Monday to Saturday 09:00-18:00,
// one 30 minute cut at CHF 50 and one staff member working weekdays 09:00-17:00.
func NewScheduleBuilder() *ScheduleBuilder {
	b := &ScheduleBuilder{
		Location: SalonLocation(),
		Services: []scheduling.Service{
			{ID: ServiceCutID, Name: "Cut", DurationMinutes: 30, PriceCents: 5000, IsActive: true},
		},
		Staff: []scheduling.Staff{
			{ID: StaffAnnaID, DisplayName: "Anna", ServiceIDs: []uuid.UUID{ServiceCutID}, IsBookable: true},
		},
		Rules: scheduling.BookingRules{
			SlotGranularityMinutes:    30,
			LeadTimeMinutes:           0,
			HorizonDays:               0,
			BufferBetweenMinutes:      0,
			AllowMultipleServices:     true,
			CancellationDeadlineHours: 24,
		},
	}
	for day := time.Sunday; day <= time.Saturday; day++ {
		b.OpeningHours = append(b.OpeningHours, scheduling.DayOpeningHours{
			DayOfWeek: day,
			Open:      interval.MustWallClock("09:00"),
			Close:     interval.MustWallClock("18:00"),
			IsClosed:  day == time.Sunday,
		})
	}
	b.WithWeekdayHours(StaffAnnaID, "09:00", "17:00")
	return b
}

func (b *ScheduleBuilder) With(mutate func(*ScheduleBuilder)) *ScheduleBuilder {
	mutate(b)
	return b
}

func (b *ScheduleBuilder) WithService(svc scheduling.Service) *ScheduleBuilder {
	b.Services = append(b.Services, svc)
	return b
}

// WithColor adds a 60 minute colour service at CHF 120 that only Anna performs.
func (b *ScheduleBuilder) WithColor() *ScheduleBuilder {
	b.Services = append(b.Services, scheduling.Service{
		ID: ServiceColorID, Name: "Colour", DurationMinutes: 60, PriceCents: 12000, IsActive: true,
	})
	for i := range b.Staff {
		if b.Staff[i].ID == StaffAnnaID {
			b.Staff[i].ServiceIDs = append(b.Staff[i].ServiceIDs, ServiceColorID)
		}
	}
	return b
}

// WithBen adds a second staff member doing cuts with the same weekday hours.
func (b *ScheduleBuilder) WithBen() *ScheduleBuilder {
	b.Staff = append(b.Staff, scheduling.Staff{
		ID: StaffBenID, DisplayName: "Ben", ServiceIDs: []uuid.UUID{ServiceCutID}, IsBookable: true,
	})
	return b.WithWeekdayHours(StaffBenID, "09:00", "17:00")
}

func (b *ScheduleBuilder) WithWeekdayHours(staffID uuid.UUID, start, end string) *ScheduleBuilder {
	for day := time.Monday; day <= time.Friday; day++ {
		b.WorkingHours = append(b.WorkingHours, scheduling.StaffWorkingHours{
			StaffID:   staffID,
			DayOfWeek: day,
			Start:     interval.MustWallClock(start),
			End:       interval.MustWallClock(end),
		})
	}
	return b
}

func (b *ScheduleBuilder) WithAppointment(staffID uuid.UUID, start, end time.Time, status scheduling.AppointmentStatus) *ScheduleBuilder {
	b.Appointments = append(b.Appointments, scheduling.Appointment{
		ID: uuid.New(), StaffID: staffID, Start: start, End: end, Status: status,
	})
	return b
}

func (b *ScheduleBuilder) WithAbsence(staffID uuid.UUID, start, end time.Time) *ScheduleBuilder {
	b.Absences = append(b.Absences, scheduling.StaffAbsence{StaffID: staffID, Start: start, End: end, Reason: "vacation"})
	return b
}

// WithBlockedTime with a nil staffID blocks the whole salon.
func (b *ScheduleBuilder) WithBlockedTime(staffID *uuid.UUID, start, end time.Time) *ScheduleBuilder {
	b.BlockedTimes = append(b.BlockedTimes, scheduling.BlockedTime{
		ID: uuid.New(), StaffID: staffID, Start: start, End: end, Reason: "maintenance",
	})
	return b
}

func (b *ScheduleBuilder) WithRules(mutate func(*scheduling.BookingRules)) *ScheduleBuilder {
	mutate(&b.Rules)
	return b
}

func (b *ScheduleBuilder) Build() *scheduling.Snapshot {
	return &scheduling.Snapshot{
		Location:     b.Location,
		Services:     append([]scheduling.Service{}, b.Services...),
		Staff:        append([]scheduling.Staff{}, b.Staff...),
		OpeningHours: append([]scheduling.DayOpeningHours{}, b.OpeningHours...),
		WorkingHours: append([]scheduling.StaffWorkingHours{}, b.WorkingHours...),
		Absences:     append([]scheduling.StaffAbsence{}, b.Absences...),
		BlockedTimes: append([]scheduling.BlockedTime{}, b.BlockedTimes...),
		Appointments: append([]scheduling.Appointment{}, b.Appointments...),
		Rules:        b.Rules,
	}
}

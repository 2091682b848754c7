// Package slot enumerates bookable (staff, start, end) slots from a
// scheduling snapshot.
package slot

import (
	"cmp"
	"slices"
	"time"

	"salon-booking/internal/domain/interval"
	"salon-booking/internal/domain/scheduling"
	"salon-booking/internal/domain/validation"
	"salon-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

type Engine struct {
	clock clock.Clock
}

func NewEngine(clock clock.Clock) *Engine {
	return &Engine{clock: clock}
}

// ComputeAvailableSlots never fails with an error: malformed input is reported
// through the validation result and yields no slots. An empty service list or
// a combination nobody is skilled for is valid and simply yields no slots.
func (e *Engine) ComputeAvailableSlots(req Request, snap *scheduling.Snapshot) ([]AvailableSlot, validation.Result) {
	res := validation.NewResult()
	if snap == nil {
		res.Add("scheduling snapshot is required")
		return nil, res
	}
	if len(req.ServiceIDs) == 0 {
		return []AvailableSlot{}, res
	}

	services, res := resolveRequest(req, snap)
	if !res.Valid {
		return nil, res
	}

	eligible := eligibleStaff(snap.Staff, req.ServiceIDs)
	if len(eligible) == 0 {
		return []AvailableSlot{}, res
	}

	var total time.Duration
	var price int64
	for _, svc := range services {
		total += svc.Duration()
		price += svc.PriceCents
	}

	now := e.clock.Now()
	earliest := now.Add(snap.Rules.LeadTime())
	horizonEnd, hasHorizon := snap.Rules.HorizonEnd(now)
	days := interval.Days(req.From, req.To, snap.Location)

	slots := []AvailableSlot{}
	for _, st := range eligible {
		blockers := blockersFor(st.ID, snap)
		for _, day := range days {
			window, ok := effectiveWindow(st.ID, day, snap)
			if !ok {
				continue
			}
			for start := window.Start; !start.Add(total).After(window.End); start = start.Add(snap.Rules.Granularity()) {
				if start.Before(earliest) {
					continue
				}
				if hasHorizon && start.After(horizonEnd) {
					break
				}
				candidate := interval.Interval{Start: start, End: start.Add(total)}
				if interval.OverlapsAny(candidate, blockers) {
					continue
				}
				slots = append(slots, AvailableSlot{
					StaffID:              st.ID,
					StaffName:            st.DisplayName,
					Start:                candidate.Start,
					End:                  candidate.End,
					TotalDurationMinutes: int(total / time.Minute),
					TotalPriceCents:      price,
					Services:             slices.Clone(services),
				})
			}
		}
	}

	sortSlots(slots, req.PreferredStaffID)
	return slots, res
}

func resolveRequest(req Request, snap *scheduling.Snapshot) ([]scheduling.Service, validation.Result) {
	res := snap.Rules.Validate()
	if snap.Location == nil {
		res.Add("salon timezone is not configured")
	}
	if !snap.Rules.AllowMultipleServices && len(req.ServiceIDs) > 1 {
		res.Addf("only one service can be booked at a time, got %d", len(req.ServiceIDs))
	}
	if req.To.Before(req.From) {
		res.Add("date range end must not be before its start")
	}

	services := make([]scheduling.Service, 0, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		svc, ok := snap.ServiceByID(id)
		switch {
		case !ok:
			res.Addf("service %s does not exist", id)
		case !svc.IsActive:
			res.Addf("service %q is not available for booking", svc.Name)
		case svc.DurationMinutes <= 0:
			res.Addf("service %q has no duration", svc.Name)
		default:
			services = append(services, svc)
		}
	}
	return services, res
}

func eligibleStaff(staff []scheduling.Staff, serviceIDs []uuid.UUID) []scheduling.Staff {
	var out []scheduling.Staff
	for _, st := range staff {
		if st.IsBookable && st.CanPerform(serviceIDs) {
			out = append(out, st)
		}
	}
	return out
}

// effectiveWindow intersects the salon's opening hours with the staff member's
// working hours on day. Closed days and days off yield ok=false.
func effectiveWindow(staffID uuid.UUID, day time.Time, snap *scheduling.Snapshot) (interval.Interval, bool) {
	weekday := day.Weekday()
	oh, ok := snap.OpeningHoursFor(weekday)
	if !ok || oh.IsClosed {
		return interval.Interval{}, false
	}
	wh, ok := snap.WorkingHoursFor(staffID, weekday)
	if !ok {
		return interval.Interval{}, false
	}
	salon, ok := interval.Window(day, oh.Open, oh.Close, snap.Location)
	if !ok {
		return interval.Interval{}, false
	}
	personal, ok := interval.Window(day, wh.Start, wh.End, snap.Location)
	if !ok {
		return interval.Interval{}, false
	}
	return interval.Intersect(salon, personal)
}

// blockersFor collects every interval a slot for staffID must not overlap.
// The buffer pads existing appointments only, never the candidate.
func blockersFor(staffID uuid.UUID, snap *scheduling.Snapshot) []interval.Interval {
	var out []interval.Interval
	for _, a := range snap.Absences {
		if a.StaffID == staffID {
			out = append(out, a.Interval())
		}
	}
	for _, b := range snap.BlockedTimes {
		if b.AppliesTo(staffID) {
			out = append(out, b.Interval())
		}
	}
	buffer := snap.Rules.Buffer()
	for _, a := range snap.Appointments {
		if a.StaffID == staffID && a.Blocks() {
			out = append(out, a.Interval().Extend(buffer))
		}
	}
	return out
}

// sortSlots orders by start; on equal starts the preferred staff member comes
// first and everything else keeps its generation order.
func sortSlots(slots []AvailableSlot, preferred *uuid.UUID) {
	slices.SortStableFunc(slots, func(a, b AvailableSlot) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		if preferred == nil {
			return 0
		}
		return cmp.Compare(rank(a.StaffID, *preferred), rank(b.StaffID, *preferred))
	})
}

func rank(staffID, preferred uuid.UUID) int {
	if staffID == preferred {
		return 0
	}
	return 1
}

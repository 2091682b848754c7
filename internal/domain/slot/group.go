package slot

import (
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type DaySlots struct {
	Date  string
	Slots []AvailableSlot
}

type StaffSlots struct {
	StaffID   uuid.UUID
	StaffName string
	Slots     []AvailableSlot
}

// GroupByDay buckets slots by their local calendar date in loc, keeping input order.
func GroupByDay(slots []AvailableSlot, loc *time.Location) []DaySlots {
	groups := []DaySlots{}
	index := map[string]int{}
	for _, s := range slots {
		date := s.Start.In(loc).Format(dateLayout)
		i, ok := index[date]
		if !ok {
			i = len(groups)
			index[date] = i
			groups = append(groups, DaySlots{Date: date})
		}
		groups[i].Slots = append(groups[i].Slots, s)
	}
	return groups
}

// GroupByStaff buckets slots per staff member in order of first appearance.
func GroupByStaff(slots []AvailableSlot) []StaffSlots {
	groups := []StaffSlots{}
	index := map[uuid.UUID]int{}
	for _, s := range slots {
		i, ok := index[s.StaffID]
		if !ok {
			i = len(groups)
			index[s.StaffID] = i
			groups = append(groups, StaffSlots{StaffID: s.StaffID, StaffName: s.StaffName})
		}
		groups[i].Slots = append(groups[i].Slots, s)
	}
	return groups
}

// AvailableDays lists the distinct local dates that have at least one slot.
func AvailableDays(slots []AvailableSlot, loc *time.Location) []string {
	days := []string{}
	for _, g := range GroupByDay(slots, loc) {
		days = append(days, g.Date)
	}
	return days
}

// Find returns the slot offered to staffID at exactly [start, end).
func Find(slots []AvailableSlot, staffID uuid.UUID, start, end time.Time) (AvailableSlot, bool) {
	for _, s := range slots {
		if s.StaffID == staffID && s.Start.Equal(start) && s.End.Equal(end) {
			return s, true
		}
	}
	return AvailableSlot{}, false
}
